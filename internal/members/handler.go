package members

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/auth"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/permissions"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/tenancy"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
)

// Role keys must be lowercase alphanumeric with underscores/hyphens, 2–32 chars.
var roleKeyRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,31}$`)

// Handler handles membership and custom role HTTP endpoints.
type Handler struct {
	repo   *Repository
	users  *auth.Repository
	logger *zap.Logger
}

// NewHandler creates a members handler.
func NewHandler(repo *Repository, users *auth.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, users: users, logger: logger}
}

// List handles GET /:orgSlug/tools/members.
func (h *Handler) List(c *gin.Context) {
	tc := tenancy.FromGin(c)
	list, err := h.repo.ListMembers(c.Request.Context(), tc.OrgID)
	if err != nil {
		response.Internal(c, "failed to load members")
		return
	}
	response.OK(c, list)
}

// InviteRequest is the body for POST /:orgSlug/tools/members/invite.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// Invite handles POST /:orgSlug/tools/members/invite. Adds an existing
// platform account to the org directly.
func (h *Handler) Invite(c *gin.Context) {
	tc := tenancy.FromGin(c)
	var body InviteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "email and role required")
		return
	}
	if !h.validRoleKey(c, tc.OrgID, body.Role) {
		response.UnprocessableEntity(c, "validation failed", map[string]string{"role": "unknown role"})
		return
	}
	user, err := h.users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
	if err != nil {
		response.Internal(c, "failed to look up account")
		return
	}
	if user == nil {
		response.UnprocessableEntity(c, "validation failed", map[string]string{"email": "no account with this email"})
		return
	}
	if err := h.repo.AddMember(c.Request.Context(), tc.OrgID, user.ID, body.Role); err != nil {
		h.logger.Error("invite member failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to add member")
		return
	}
	response.OK(c, gin.H{"user_id": user.ID, "role": body.Role})
}

// UpdateRoleRequest is the body for PATCH /:orgSlug/tools/members/:userID.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole handles PATCH /:orgSlug/tools/members/:userID.
func (h *Handler) UpdateRole(c *gin.Context) {
	tc := tenancy.FromGin(c)
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var body UpdateRoleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "role required")
		return
	}
	if !h.validRoleKey(c, tc.OrgID, body.Role) {
		response.UnprocessableEntity(c, "validation failed", map[string]string{"role": "unknown role"})
		return
	}
	ok, err := h.repo.UpdateRole(c.Request.Context(), tc.OrgID, userID, body.Role)
	if err != nil {
		response.Internal(c, "failed to update role")
		return
	}
	if !ok {
		response.NotFound(c, "membership not found")
		return
	}
	response.OK(c, gin.H{"user_id": userID, "role": body.Role})
}

// Remove handles DELETE /:orgSlug/tools/members/:userID. The last admin
// cannot be removed.
func (h *Handler) Remove(c *gin.Context) {
	tc := tenancy.FromGin(c)
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	role, found, err := h.repo.GetRole(c.Request.Context(), tc.OrgID, userID)
	if err != nil {
		response.Internal(c, "failed to load membership")
		return
	}
	if !found {
		response.NotFound(c, "membership not found")
		return
	}
	if role == permissions.RoleAdmin {
		n, err := h.repo.CountRole(c.Request.Context(), tc.OrgID, permissions.RoleAdmin)
		if err != nil {
			response.Internal(c, "failed to load membership")
			return
		}
		if n <= 1 {
			response.Conflict(c, "cannot remove the only admin")
			return
		}
	}
	if err := h.repo.RemoveMember(c.Request.Context(), tc.OrgID, userID); err != nil {
		response.Internal(c, "failed to remove member")
		return
	}
	response.NoContent(c)
}

// ListRoles handles GET /:orgSlug/tools/roles. Returns custom roles; the
// built-in roles are implicit.
func (h *Handler) ListRoles(c *gin.Context) {
	tc := tenancy.FromGin(c)
	list, err := h.repo.ListCustomRoles(c.Request.Context(), tc.OrgID)
	if err != nil {
		response.Internal(c, "failed to load roles")
		return
	}
	response.OK(c, gin.H{
		"builtin": []string{permissions.RoleAdmin, permissions.RoleStaff, permissions.RoleViewer},
		"custom":  list,
	})
}

// RoleRequest is the body for custom role create/update.
type RoleRequest struct {
	RoleKey     string   `json:"role_key"`
	Label       string   `json:"label" binding:"required"`
	Permissions []string `json:"permissions"`
}

// CreateRole handles POST /:orgSlug/tools/roles. Unknown permission strings
// are silently dropped, not rejected.
func (h *Handler) CreateRole(c *gin.Context) {
	tc := tenancy.FromGin(c)
	var body RoleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "label required")
		return
	}
	key := strings.ToLower(strings.TrimSpace(body.RoleKey))
	if !roleKeyRegex.MatchString(key) {
		response.UnprocessableEntity(c, "validation failed", map[string]string{"role_key": "must be 2–32 chars, lowercase letters, numbers, underscores, hyphens"})
		return
	}
	if _, builtin := permissions.BuiltinSet(key); builtin {
		response.UnprocessableEntity(c, "validation failed", map[string]string{"role_key": "conflicts with a built-in role"})
		return
	}
	filtered := permissions.Filter(body.Permissions)
	cr := &models.CustomRole{
		OrgID:       tc.OrgID,
		RoleKey:     key,
		Label:       strings.TrimSpace(body.Label),
		Permissions: permissionStrings(filtered),
	}
	if err := h.repo.CreateCustomRole(c.Request.Context(), cr); err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			response.Conflict(c, "a role with this key already exists")
			return
		}
		h.logger.Error("create role failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to create role")
		return
	}
	response.Created(c, cr)
}

// UpdateRoleDef handles PATCH /:orgSlug/tools/roles/:roleKey.
func (h *Handler) UpdateRoleDef(c *gin.Context) {
	tc := tenancy.FromGin(c)
	key := strings.ToLower(c.Param("roleKey"))
	var body RoleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "label required")
		return
	}
	cr := &models.CustomRole{
		OrgID:       tc.OrgID,
		RoleKey:     key,
		Label:       strings.TrimSpace(body.Label),
		Permissions: permissionStrings(permissions.Filter(body.Permissions)),
	}
	ok, err := h.repo.UpdateCustomRole(c.Request.Context(), cr)
	if err != nil {
		response.Internal(c, "failed to update role")
		return
	}
	if !ok {
		response.NotFound(c, "role not found")
		return
	}
	response.OK(c, cr)
}

// DeleteRole handles DELETE /:orgSlug/tools/roles/:roleKey. Memberships
// still carrying the key resolve to the empty permission set afterwards.
func (h *Handler) DeleteRole(c *gin.Context) {
	tc := tenancy.FromGin(c)
	key := strings.ToLower(c.Param("roleKey"))
	if err := h.repo.DeleteCustomRole(c.Request.Context(), tc.OrgID, key); err != nil {
		response.Internal(c, "failed to delete role")
		return
	}
	response.NoContent(c)
}

// validRoleKey reports whether roleKey is assignable: built-in, legacy
// alias, or an existing custom role.
func (h *Handler) validRoleKey(c *gin.Context, orgID uuid.UUID, roleKey string) bool {
	if _, ok := permissions.BuiltinSet(roleKey); ok {
		return true
	}
	cr, err := h.repo.GetCustomRole(c.Request.Context(), orgID, roleKey)
	return err == nil && cr != nil
}

func permissionStrings(ps []permissions.Permission) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
