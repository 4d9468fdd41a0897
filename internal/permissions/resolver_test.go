package permissions

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRoleStore struct {
	perms map[string][]string
	err   error
	calls int
}

func (f *fakeRoleStore) GetRolePermissions(_ context.Context, _ uuid.UUID, roleKey string) ([]string, bool, error) {
	f.calls++
	if f.err != nil {
		return nil, false, f.err
	}
	perms, ok := f.perms[roleKey]
	return perms, ok, nil
}

func TestResolveBuiltinSkipsStore(t *testing.T) {
	store := &fakeRoleStore{}
	r := NewResolver(store, nil)

	s := r.Resolve(context.Background(), uuid.New(), RoleAdmin)
	assert.True(t, s.Has(SettingsWrite))
	assert.Equal(t, 0, store.calls, "built-in roles resolve statically")
}

func TestResolveCustomRole(t *testing.T) {
	store := &fakeRoleStore{perms: map[string][]string{
		"scorekeeper": {"events.write", "totally-bogus", "forms.read"},
	}}
	r := NewResolver(store, nil)

	s := r.Resolve(context.Background(), uuid.New(), "scorekeeper")
	assert.True(t, s.Has(EventsWrite))
	assert.True(t, s.Has(EventsRead), "write implies read")
	assert.True(t, s.Has(FormsRead))
	assert.False(t, s.Has(Permission("totally-bogus")))
	assert.False(t, s.Has(MembersRead))
}

func TestResolveUnknownRoleEmptySet(t *testing.T) {
	r := NewResolver(&fakeRoleStore{perms: map[string][]string{}}, nil)

	s := r.Resolve(context.Background(), uuid.New(), "deleted_role")
	assert.Empty(t, s.List())
	assert.False(t, s.Has(FormsRead))
}

func TestResolveStoreErrorEmptySet(t *testing.T) {
	r := NewResolver(&fakeRoleStore{err: errors.New("connection refused")}, nil)

	s := r.Resolve(context.Background(), uuid.New(), "scorekeeper")
	assert.Empty(t, s.List(), "storage failure resolves to empty set, never grants")
}

func TestResolveNilStore(t *testing.T) {
	r := NewResolver(nil, nil)
	s := r.Resolve(context.Background(), uuid.New(), "anything")
	assert.Empty(t, s.List())
}
