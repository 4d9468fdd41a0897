package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetWriteImpliesRead(t *testing.T) {
	for read, write := range readImpliedBy {
		s := NewSet(write)
		assert.True(t, s.Has(write), "%s should hold itself", write)
		assert.True(t, s.Has(read), "%s should imply %s", write, read)
	}
}

func TestSetReadDoesNotImplyWrite(t *testing.T) {
	for read, write := range readImpliedBy {
		s := NewSet(read)
		assert.True(t, s.Has(read))
		assert.False(t, s.Has(write), "%s must not imply %s", read, write)
	}
}

func TestFilterDropsUnknownAndDuplicates(t *testing.T) {
	got := Filter([]string{
		"forms.write",
		"not.a.permission",
		"forms.write", // duplicate
		"events.read",
		"",
	})
	assert.Equal(t, []Permission{FormsWrite, EventsRead}, got)
}

func TestFilterPreservesOrder(t *testing.T) {
	got := Filter([]string{"members.read", "forms.read", "org.pages.write"})
	assert.Equal(t, []Permission{MembersRead, FormsRead, PagesWrite}, got)
}

func TestBuiltinRoleSets(t *testing.T) {
	admin, ok := BuiltinSet(RoleAdmin)
	require.True(t, ok)
	assert.True(t, admin.HasAll(All...), "admin holds every permission")

	staff, ok := BuiltinSet(RoleStaff)
	require.True(t, ok)
	assert.True(t, staff.Has(FormsWrite))
	assert.True(t, staff.Has(PagesWrite))
	assert.True(t, staff.Has(MembersRead))
	assert.False(t, staff.Has(MembersWrite))
	assert.False(t, staff.Has(SettingsWrite))

	viewer, ok := BuiltinSet(RoleViewer)
	require.True(t, ok)
	assert.True(t, viewer.Has(FormsRead))
	assert.False(t, viewer.Has(FormsWrite))
	assert.False(t, viewer.Has(SettingsRead))
}

func TestLegacyRoleAliases(t *testing.T) {
	owner, ok := BuiltinSet("owner")
	require.True(t, ok)
	admin, _ := BuiltinSet(RoleAdmin)
	assert.Equal(t, admin.List(), owner.List())

	manager, ok := BuiltinSet("manager")
	require.True(t, ok)
	staff, _ := BuiltinSet(RoleStaff)
	assert.Equal(t, staff.List(), manager.List())

	assert.False(t, IsBuiltin("owner"), "legacy aliases are not built-ins")
	assert.True(t, IsBuiltin(RoleAdmin))
}

func TestBuiltinSetUnknownKey(t *testing.T) {
	_, ok := BuiltinSet("volunteer_coordinator")
	assert.False(t, ok)
}

func TestSetListCatalogOrder(t *testing.T) {
	s := NewSet(MembersWrite, FormsRead, EventsWrite)
	assert.Equal(t, []Permission{FormsRead, EventsWrite, MembersWrite}, s.List())
}

func TestProjectCapabilities(t *testing.T) {
	caps := Project(NewSet(FormsWrite, EventsRead))

	forms := caps.Area(AreaForms)
	assert.True(t, forms.CanAccess)
	assert.True(t, forms.CanRead)
	assert.True(t, forms.CanWrite)

	events := caps.Area(AreaEvents)
	assert.True(t, events.CanRead)
	assert.False(t, events.CanWrite)

	sponsors := caps.Area(AreaSponsors)
	assert.False(t, sponsors.CanAccess)
	assert.False(t, sponsors.CanRead)
	assert.False(t, sponsors.CanWrite)
}

func TestProjectEmptySet(t *testing.T) {
	caps := Project(Set{})
	assert.False(t, caps.CanAccessManage())
	for area := range areaPermissions {
		assert.Equal(t, Capability{}, caps.Area(area))
	}
}

func TestCanAccessManage(t *testing.T) {
	assert.True(t, Project(NewSet(EventsRead)).CanAccessManage())
	assert.False(t, Project(NewSet()).CanAccessManage())
}
