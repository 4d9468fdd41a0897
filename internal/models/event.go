package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is an org calendar entry (game, practice, meeting). Upcoming events
// feed the schedule preview block.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	OrgID     uuid.UUID  `json:"org_id"`
	Title     string     `json:"title"`
	Location  string     `json:"location,omitempty"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	IsPublic  bool       `json:"is_public"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
