package tenancy

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/permissions"
)

type fakeOrgStore struct {
	orgs map[string]*models.Org
	err  error
}

func (f *fakeOrgStore) GetBySlug(_ context.Context, slug string) (*models.Org, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.orgs[slug], nil
}

type fakeMembershipStore struct {
	roles map[uuid.UUID]string
	err   error
}

func (f *fakeMembershipStore) GetRole(_ context.Context, _ uuid.UUID, userID uuid.UUID) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	role, ok := f.roles[userID]
	return role, ok, nil
}

type staticPermResolver struct{}

func (staticPermResolver) Resolve(_ context.Context, _ uuid.UUID, roleKey string) permissions.Set {
	if s, ok := permissions.BuiltinSet(roleKey); ok {
		return s
	}
	return permissions.Set{}
}

func newTestResolver(org *models.Org, roles map[uuid.UUID]string) *Resolver {
	orgStore := &fakeOrgStore{orgs: map[string]*models.Org{}}
	if org != nil {
		orgStore.orgs[org.Slug] = org
	}
	return NewResolver(orgStore, &fakeMembershipStore{roles: roles}, staticPermResolver{}, nil)
}

func testOrg() *models.Org {
	return &models.Org{
		ID:   uuid.New(),
		Slug: "tigers",
		Name: "Tigers Youth Soccer",
	}
}

func TestResolveReservedSlugs(t *testing.T) {
	r := newTestResolver(testOrg(), nil)
	for _, slug := range []string{"api", "auth", "admin", "www", "static", "assets", "health", "orgs", "account", "webhooks"} {
		_, err := r.Resolve(context.Background(), slug, ModePublic, nil)
		assert.ErrorIs(t, err, ErrNotFound, "reserved slug %q", slug)
	}
}

func TestResolveReservedSlugCaseInsensitive(t *testing.T) {
	r := newTestResolver(testOrg(), nil)
	_, err := r.Resolve(context.Background(), "ADMIN", ModePublic, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveUnknownOrg(t *testing.T) {
	r := newTestResolver(nil, nil)
	_, err := r.Resolve(context.Background(), "nobody", ModePublic, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveEmptySlug(t *testing.T) {
	r := newTestResolver(testOrg(), nil)
	_, err := r.Resolve(context.Background(), "  ", ModePublic, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePublicMode(t *testing.T) {
	org := testOrg()
	r := newTestResolver(org, nil)

	tc, err := r.Resolve(context.Background(), "Tigers", ModePublic, nil)
	require.NoError(t, err)
	assert.Equal(t, org.ID, tc.OrgID)
	assert.Equal(t, "tigers", tc.OrgSlug)
	assert.Equal(t, uuid.Nil, tc.UserID, "public mode resolves no caller")
	assert.Empty(t, tc.Role)
}

func TestResolveAuthModeRequiresIdentity(t *testing.T) {
	r := newTestResolver(testOrg(), nil)
	_, err := r.Resolve(context.Background(), "tigers", ModeAuth, nil)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestResolveAuthModeNonMemberForbidden(t *testing.T) {
	r := newTestResolver(testOrg(), map[uuid.UUID]string{})
	ident := &Identity{UserID: uuid.New(), Email: "stranger@example.com"}
	_, err := r.Resolve(context.Background(), "tigers", ModeAuth, ident)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestResolveAuthModeMember(t *testing.T) {
	org := testOrg()
	userID := uuid.New()
	r := newTestResolver(org, map[uuid.UUID]string{userID: permissions.RoleStaff})

	tc, err := r.Resolve(context.Background(), "tigers", ModeAuth, &Identity{UserID: userID, Email: "coach@example.com"})
	require.NoError(t, err)
	assert.Equal(t, userID, tc.UserID)
	assert.Equal(t, permissions.RoleStaff, tc.Role)
	assert.True(t, tc.Permissions.Has(permissions.FormsWrite))
	assert.False(t, tc.Permissions.Has(permissions.MembersWrite))
}

func TestResolveUnknownRoleFailsClosed(t *testing.T) {
	org := testOrg()
	userID := uuid.New()
	r := newTestResolver(org, map[uuid.UUID]string{userID: "deleted_custom_role"})

	tc, err := r.Resolve(context.Background(), "tigers", ModeAuth, &Identity{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, tc.Permissions.List(), "unknown role resolves to no permissions")
	assert.False(t, tc.Capabilities().CanAccessManage())
}

func TestResolveStorageErrorPropagates(t *testing.T) {
	orgStore := &fakeOrgStore{err: errors.New("db down")}
	r := NewResolver(orgStore, &fakeMembershipStore{}, staticPermResolver{}, nil)

	_, err := r.Resolve(context.Background(), "tigers", ModePublic, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound, "infrastructure errors are not 404s")
}

func TestCapabilitiesProjection(t *testing.T) {
	org := testOrg()
	userID := uuid.New()
	r := newTestResolver(org, map[uuid.UUID]string{userID: permissions.RoleViewer})

	tc, err := r.Resolve(context.Background(), "tigers", ModeAuth, &Identity{UserID: userID})
	require.NoError(t, err)
	caps := tc.Capabilities()
	assert.True(t, caps.Area(permissions.AreaForms).CanRead)
	assert.False(t, caps.Area(permissions.AreaForms).CanWrite)
	assert.True(t, caps.CanAccessManage())
}
