// Package permissions holds the closed permission catalog, built-in role
// sets, and resolution of membership roles (built-in, legacy, or custom) to
// concrete permission sets.
package permissions

// Permission is an atomic capability string from the closed catalog below.
type Permission string

const (
	FormsRead          Permission = "forms.read"
	FormsWrite         Permission = "forms.write"
	ProgramsRead       Permission = "programs.read"
	ProgramsWrite      Permission = "programs.write"
	SponsorsRead       Permission = "sponsors.read"
	SponsorsWrite      Permission = "sponsors.write"
	AnnouncementsRead  Permission = "announcements.read"
	AnnouncementsWrite Permission = "announcements.write"
	EventsRead         Permission = "events.read"
	EventsWrite        Permission = "events.write"
	PagesRead          Permission = "org.pages.read"
	PagesWrite         Permission = "org.pages.write"
	SettingsRead       Permission = "org.settings.read"
	SettingsWrite      Permission = "org.settings.write"
	MembersRead        Permission = "members.read"
	MembersWrite       Permission = "members.write"
)

// All enumerates every recognized permission.
var All = []Permission{
	FormsRead, FormsWrite,
	ProgramsRead, ProgramsWrite,
	SponsorsRead, SponsorsWrite,
	AnnouncementsRead, AnnouncementsWrite,
	EventsRead, EventsWrite,
	PagesRead, PagesWrite,
	SettingsRead, SettingsWrite,
	MembersRead, MembersWrite,
}

// readImpliedBy maps each read permission to the write permission that
// implies it. Write implies read; never the reverse.
var readImpliedBy = map[Permission]Permission{
	FormsRead:         FormsWrite,
	ProgramsRead:      ProgramsWrite,
	SponsorsRead:      SponsorsWrite,
	AnnouncementsRead: AnnouncementsWrite,
	EventsRead:        EventsWrite,
	PagesRead:         PagesWrite,
	SettingsRead:      SettingsWrite,
	MembersRead:       MembersWrite,
}

var catalog = func() map[Permission]struct{} {
	m := make(map[Permission]struct{}, len(All))
	for _, p := range All {
		m[p] = struct{}{}
	}
	return m
}()

// Valid reports whether p is in the catalog.
func Valid(p Permission) bool {
	_, ok := catalog[p]
	return ok
}

// Filter returns only the recognized permissions from raw, preserving order
// and dropping duplicates. Unknown strings are silently discarded.
func Filter(raw []string) []Permission {
	out := make([]Permission, 0, len(raw))
	seen := make(map[Permission]struct{}, len(raw))
	for _, s := range raw {
		p := Permission(s)
		if !Valid(p) {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Set is a resolved permission set. Membership checks go through Has so that
// write-implies-read holds everywhere.
type Set map[Permission]struct{}

// NewSet builds a Set from permissions.
func NewSet(ps ...Permission) Set {
	s := make(Set, len(ps))
	for _, p := range ps {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether the set grants p. Holding the write permission of an
// area grants its read permission too.
func (s Set) Has(p Permission) bool {
	if _, ok := s[p]; ok {
		return true
	}
	if w, ok := readImpliedBy[p]; ok {
		if _, held := s[w]; held {
			return true
		}
	}
	return false
}

// HasAll reports whether the set grants every permission in ps.
func (s Set) HasAll(ps ...Permission) bool {
	for _, p := range ps {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// List returns the set's members in catalog order.
func (s Set) List() []Permission {
	out := make([]Permission, 0, len(s))
	for _, p := range All {
		if _, ok := s[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Built-in role keys.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

// Role groups. Roles compose groups explicitly (no inheritance).
var (
	contentWrite = []Permission{
		FormsWrite, ProgramsWrite, SponsorsWrite,
		AnnouncementsWrite, EventsWrite, PagesWrite,
	}
	contentRead = []Permission{
		FormsRead, ProgramsRead, SponsorsRead,
		AnnouncementsRead, EventsRead, PagesRead,
	}
	orgAdmin = []Permission{
		SettingsRead, SettingsWrite, MembersRead, MembersWrite,
	}
)

var builtinSets = map[string]Set{
	RoleAdmin:  NewSet(compose(contentRead, contentWrite, orgAdmin)...),
	RoleStaff:  NewSet(compose(contentRead, contentWrite, []Permission{MembersRead})...),
	RoleViewer: NewSet(compose(contentRead, []Permission{MembersRead})...),
}

// legacyRoleAliases maps role keys retired by the role-model migration to
// canonical permission sets. Memberships created before the migration still
// carry these keys. Retire an entry only after the corresponding rows are
// rewritten.
var legacyRoleAliases = map[string]Set{
	"owner":   builtinSets[RoleAdmin],
	"manager": builtinSets[RoleStaff],
}

// BuiltinSet returns the permission set for a built-in or legacy role key.
func BuiltinSet(roleKey string) (Set, bool) {
	if s, ok := builtinSets[roleKey]; ok {
		return s, true
	}
	if s, ok := legacyRoleAliases[roleKey]; ok {
		return s, true
	}
	return nil, false
}

// IsBuiltin reports whether roleKey is a built-in role (not a legacy alias).
func IsBuiltin(roleKey string) bool {
	_, ok := builtinSets[roleKey]
	return ok
}

func compose(groups ...[]Permission) []Permission {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	out := make([]Permission, 0, total)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
