package models

import (
	"time"

	"github.com/google/uuid"
)

// Sponsor is an org sponsor profile. LogoPath is an object storage key.
// Published sponsors appear in the sponsors carousel block, ordered by tier
// then sort index.
type Sponsor struct {
	ID          uuid.UUID `json:"id"`
	OrgID       uuid.UUID `json:"org_id"`
	Name        string    `json:"name"`
	Tier        string    `json:"tier,omitempty"` // e.g. platinum, gold, silver
	WebsiteURL  string    `json:"website_url,omitempty"`
	LogoPath    string    `json:"logo_path,omitempty"`
	IsPublished bool      `json:"is_published"`
	SortIndex   int       `json:"sort_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
