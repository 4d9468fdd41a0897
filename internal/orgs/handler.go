package orgs

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/middleware"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/tenancy"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/storage"
)

// Slug must be lowercase alphanumeric and hyphens only, 2–64 chars.
var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,63}$`)

// Handler handles org HTTP endpoints.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates an orgs handler. s3 may be nil when asset storage is
// disabled; branding paths are then returned as-is.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, logger: logger}
}

// CreateRequest is the body for POST /orgs.
type CreateRequest struct {
	Name          string `json:"name" binding:"required"`
	Slug          string `json:"slug" binding:"required"`
	GoverningBody string `json:"governing_body"`
}

// Create handles POST /orgs. Creates the org and adds the caller as admin
// atomically.
func (h *Handler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "name and slug required")
		return
	}
	body.Slug = strings.ToLower(strings.TrimSpace(body.Slug))
	if !slugRegex.MatchString(body.Slug) {
		response.BadRequest(c, "slug must be 2–64 chars, lowercase letters, numbers, hyphens only")
		return
	}
	if tenancy.ReservedSlug(body.Slug) {
		response.Conflict(c, "this slug is reserved")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if len(body.Name) < 1 || len(body.Name) > 255 {
		response.BadRequest(c, "name must be 1–255 characters")
		return
	}
	org := &models.Org{Name: body.Name, Slug: body.Slug, GoverningBody: strings.TrimSpace(body.GoverningBody)}
	if err := h.repo.CreateWithAdmin(c.Request.Context(), org, userID); err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			response.Conflict(c, "An organization with this slug already exists")
			return
		}
		h.logger.Error("create org failed", zap.Error(err), zap.String("slug", body.Slug))
		response.Internal(c, "failed to create organization")
		return
	}
	response.Created(c, org)
}

// ListMine handles GET /orgs. Returns orgs the caller is a member of.
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	orgs, err := h.repo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load organizations")
		return
	}
	response.OK(c, orgs)
}

// GetSettings handles GET /:orgSlug/tools/settings.
func (h *Handler) GetSettings(c *gin.Context) {
	tc := tenancy.FromGin(c)
	org, err := h.repo.GetByID(c.Request.Context(), tc.OrgID)
	if err != nil || org == nil {
		response.Internal(c, "failed to load organization")
		return
	}
	response.OK(c, gin.H{
		"org":          org,
		"branding_urls": h.brandingURLs(c, org.Branding),
	})
}

// UpdateSettingsRequest is the body for PATCH /:orgSlug/tools/settings.
// Omitted fields keep their current value; the slug is immutable.
type UpdateSettingsRequest struct {
	Name           *string `json:"name"`
	LogoPath       *string `json:"logo_path"`
	IconPath       *string `json:"icon_path"`
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
	GoverningBody  *string `json:"governing_body"`
}

// UpdateSettings handles PATCH /:orgSlug/tools/settings.
func (h *Handler) UpdateSettings(c *gin.Context) {
	tc := tenancy.FromGin(c)
	var body UpdateSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	org, err := h.repo.GetByID(c.Request.Context(), tc.OrgID)
	if err != nil || org == nil {
		response.Internal(c, "failed to load organization")
		return
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if len(name) < 1 || len(name) > 255 {
			response.UnprocessableEntity(c, "validation failed", map[string]string{"name": "must be 1–255 characters"})
			return
		}
		org.Name = name
	}
	if body.LogoPath != nil {
		org.Branding.LogoPath = *body.LogoPath
	}
	if body.IconPath != nil {
		org.Branding.IconPath = *body.IconPath
	}
	if body.PrimaryColor != nil {
		org.Branding.PrimaryColor = *body.PrimaryColor
	}
	if body.SecondaryColor != nil {
		org.Branding.SecondaryColor = *body.SecondaryColor
	}
	if body.GoverningBody != nil {
		org.GoverningBody = strings.TrimSpace(*body.GoverningBody)
	}
	if err := h.repo.UpdateSettings(c.Request.Context(), org); err != nil {
		h.logger.Error("update org settings failed", zap.Error(err), zap.String("org_id", org.ID.String()))
		response.Internal(c, "failed to update settings")
		return
	}
	response.OK(c, org)
}

// UploadBrandingAsset handles POST /:orgSlug/tools/settings/branding. Accepts
// a multipart "file" and a "kind" of logo or icon, stores it, and updates the
// matching branding path.
func (h *Handler) UploadBrandingAsset(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "asset storage is not configured")
		return
	}
	tc := tenancy.FromGin(c)
	kind := c.PostForm("kind")
	if kind != "logo" && kind != "icon" {
		response.BadRequest(c, "kind must be logo or icon")
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file required")
		return
	}
	if file.Size > storage.MaxAssetFileSize {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !storage.ValidateAssetFileType(contentType, file.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Internal(c, "failed to read file")
		return
	}
	defer src.Close()

	key := storage.BrandingKey(tc.OrgID.String(), kind+"-"+file.Filename)
	if _, err := h.s3.Upload(c.Request.Context(), h.s3.AssetsBucket(), key,
		storage.ContentTypeForFilename(file.Filename), src, file.Size, true); err != nil {
		h.logger.Error("branding upload failed", zap.Error(err), zap.String("org_id", tc.OrgID.String()))
		response.Internal(c, "failed to store file")
		return
	}

	org, err := h.repo.GetByID(c.Request.Context(), tc.OrgID)
	if err != nil || org == nil {
		response.Internal(c, "failed to load organization")
		return
	}
	if kind == "logo" {
		org.Branding.LogoPath = key
	} else {
		org.Branding.IconPath = key
	}
	if err := h.repo.UpdateSettings(c.Request.Context(), org); err != nil {
		response.Internal(c, "failed to update branding")
		return
	}
	url, _ := h.s3.ResolveURL(c.Request.Context(), key)
	response.OK(c, gin.H{"path": key, "url": url})
}

func (h *Handler) brandingURLs(c *gin.Context, b models.Branding) gin.H {
	logoURL, iconURL := b.LogoPath, b.IconPath
	if h.s3 != nil {
		if u, err := h.s3.ResolveURL(c.Request.Context(), b.LogoPath); err == nil {
			logoURL = u
		}
		if u, err := h.s3.ResolveURL(c.Request.Context(), b.IconPath); err == nil {
			iconURL = u
		}
	}
	return gin.H{"logo_url": logoURL, "icon_url": iconURL}
}
