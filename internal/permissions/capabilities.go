package permissions

// Capability is the coarse-grained projection of one area's permissions.
// CanWrite implies CanRead; CanAccess mirrors CanRead.
type Capability struct {
	CanAccess bool `json:"can_access"`
	CanRead   bool `json:"can_read"`
	CanWrite  bool `json:"can_write"`
}

// Area names for capability lookups. Callers ask for a named area, never a
// raw permission string.
const (
	AreaForms         = "forms"
	AreaPrograms      = "programs"
	AreaSponsors      = "sponsors"
	AreaAnnouncements = "announcements"
	AreaEvents        = "events"
	AreaPages         = "pages"
	AreaSettings      = "settings"
	AreaMembers       = "members"
)

// areaPermissions maps each area to its read and write permissions. New
// areas register here; Project and callers need no changes.
var areaPermissions = map[string]struct{ read, write Permission }{
	AreaForms:         {FormsRead, FormsWrite},
	AreaPrograms:      {ProgramsRead, ProgramsWrite},
	AreaSponsors:      {SponsorsRead, SponsorsWrite},
	AreaAnnouncements: {AnnouncementsRead, AnnouncementsWrite},
	AreaEvents:        {EventsRead, EventsWrite},
	AreaPages:         {PagesRead, PagesWrite},
	AreaSettings:      {SettingsRead, SettingsWrite},
	AreaMembers:       {MembersRead, MembersWrite},
}

// Capabilities maps area name to its projected capability.
type Capabilities map[string]Capability

// Project derives per-area capabilities from a raw permission set. Pure
// function, no I/O.
func Project(s Set) Capabilities {
	caps := make(Capabilities, len(areaPermissions))
	for area, ps := range areaPermissions {
		read := s.Has(ps.read) // write implies read via Set.Has
		caps[area] = Capability{
			CanAccess: read,
			CanRead:   read,
			CanWrite:  s.Has(ps.write),
		}
	}
	return caps
}

// Area returns the capability for a named area; unknown areas project to the
// zero capability.
func (c Capabilities) Area(name string) Capability {
	return c[name]
}

// CanAccessManage reports whether any area is accessible, which gates the
// staff tools surface as a whole.
func (c Capabilities) CanAccessManage() bool {
	for _, cap := range c {
		if cap.CanAccess {
			return true
		}
	}
	return false
}
