package models

import (
	"time"

	"github.com/google/uuid"
)

// Program is an org offering (team, clinic, league season) shown in the
// program catalog block and managed by staff.
type Program struct {
	ID          uuid.UUID `json:"id"`
	OrgID       uuid.UUID `json:"org_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AgeGroup    string    `json:"age_group,omitempty"`
	Season      string    `json:"season,omitempty"`
	IsActive    bool      `json:"is_active"`
	SortIndex   int       `json:"sort_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
