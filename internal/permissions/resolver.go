package permissions

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomRoleStore loads an org custom role's stored permission strings.
// Implementations return found=false (not an error) when no such role exists.
type CustomRoleStore interface {
	GetRolePermissions(ctx context.Context, orgID uuid.UUID, roleKey string) (perms []string, found bool, err error)
}

// Resolver expands a membership role key into a concrete permission set.
type Resolver struct {
	store  CustomRoleStore
	logger *zap.Logger
}

// NewResolver creates a role resolver.
func NewResolver(store CustomRoleStore, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve returns the permission set for roleKey in orgID. Built-in and
// legacy roles resolve statically with no storage lookup. Anything else is
// treated as a custom role key; an unknown key or a storage failure resolves
// to the empty set. Resolution never fails a caller.
func (r *Resolver) Resolve(ctx context.Context, orgID uuid.UUID, roleKey string) Set {
	if s, ok := BuiltinSet(roleKey); ok {
		return s
	}
	if r.store == nil {
		return Set{}
	}
	raw, found, err := r.store.GetRolePermissions(ctx, orgID, roleKey)
	if err != nil {
		r.logger.Warn("custom role lookup failed, resolving to empty set",
			zap.String("org_id", orgID.String()),
			zap.String("role_key", roleKey),
			zap.Error(err),
		)
		return Set{}
	}
	if !found {
		return Set{}
	}
	// Stored sets may predate catalog changes; unknown strings drop here.
	return NewSet(Filter(raw)...)
}
