// Package tenancy resolves the per-request org context: org lookup by slug,
// caller membership, and the caller's resolved permission set. Every
// org-scoped route goes through it.
package tenancy

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/permissions"
)

// Mode selects how much of the context is resolved.
type Mode string

const (
	// ModePublic resolves org identity and branding only; safe for anonymous callers.
	ModePublic Mode = "public"
	// ModeAuth additionally requires a caller identity and org membership.
	ModeAuth Mode = "auth"
)

// The three denial outcomes. Callers must never conflate them: not-found
// hides org existence details, forbidden confirms the org exists but the
// caller lacks access.
var (
	ErrNotFound     = errors.New("org not found")
	ErrAuthRequired = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
)

// reservedSlugs can never resolve to an org, regardless of what rows exist.
var reservedSlugs = map[string]struct{}{
	"api":      {},
	"auth":     {},
	"account":  {},
	"orgs":     {},
	"admin":    {},
	"www":      {},
	"static":   {},
	"assets":   {},
	"health":   {},
	"webhooks": {},
}

// ReservedSlug reports whether slug is reserved (case-insensitive).
func ReservedSlug(slug string) bool {
	_, ok := reservedSlugs[strings.ToLower(slug)]
	return ok
}

// Identity is the authenticated caller, produced by the session layer.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// Context is the resolved org context for one request. UserID, Role and
// Permissions are populated only in auth mode.
type Context struct {
	OrgID         uuid.UUID       `json:"org_id"`
	OrgSlug       string          `json:"org_slug"`
	OrgName       string          `json:"org_name"`
	Branding      models.Branding `json:"branding"`
	GoverningBody string          `json:"governing_body,omitempty"`

	UserID      uuid.UUID       `json:"user_id,omitempty"`
	Role        string          `json:"role,omitempty"`
	Permissions permissions.Set `json:"-"`
}

// Capabilities projects the caller's permissions into per-area capabilities.
func (tc *Context) Capabilities() permissions.Capabilities {
	return permissions.Project(tc.Permissions)
}

// OrgStore loads orgs by slug. Implementations return (nil, nil) when no org
// has the slug.
type OrgStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.Org, error)
}

// MembershipStore loads a caller's role in an org. found=false means no
// membership row.
type MembershipStore interface {
	GetRole(ctx context.Context, orgID, userID uuid.UUID) (role string, found bool, err error)
}

// PermissionResolver expands a role key to a permission set.
type PermissionResolver interface {
	Resolve(ctx context.Context, orgID uuid.UUID, roleKey string) permissions.Set
}

// Resolver is the single entry point for org context resolution.
type Resolver struct {
	orgs    OrgStore
	members MembershipStore
	perms   PermissionResolver
	logger  *zap.Logger
}

// NewResolver creates a tenancy resolver.
func NewResolver(orgs OrgStore, members MembershipStore, perms PermissionResolver, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{orgs: orgs, members: members, perms: perms, logger: logger}
}

// Resolve loads the org context for slug in the given mode. ident may be nil
// for public mode; auth mode with a nil ident yields ErrAuthRequired. An
// authenticated caller without a membership row yields ErrForbidden, never a
// guest permission set.
func (r *Resolver) Resolve(ctx context.Context, slug string, mode Mode, ident *Identity) (*Context, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || ReservedSlug(slug) {
		return nil, ErrNotFound
	}

	org, err := r.orgs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNotFound
	}

	tc := &Context{
		OrgID:         org.ID,
		OrgSlug:       org.Slug,
		OrgName:       org.Name,
		Branding:      org.Branding,
		GoverningBody: org.GoverningBody,
	}
	if mode == ModePublic {
		return tc, nil
	}

	if ident == nil {
		return nil, ErrAuthRequired
	}
	role, found, err := r.members.GetRole(ctx, org.ID, ident.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrForbidden
	}

	tc.UserID = ident.UserID
	tc.Role = role
	tc.Permissions = r.perms.Resolve(ctx, org.ID, role)
	return tc, nil
}
