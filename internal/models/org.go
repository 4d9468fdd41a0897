package models

import (
	"time"

	"github.com/google/uuid"
)

// Branding holds an org's public site branding. Paths are object storage
// keys; handlers resolve them to URLs before responding.
type Branding struct {
	LogoPath       string `json:"logo_path,omitempty"`
	IconPath       string `json:"icon_path,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
}

// Org represents a tenant: a sports organization with a public site and
// staff tooling, addressed by a globally unique slug.
type Org struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Branding      Branding  `json:"branding"`
	GoverningBody string    `json:"governing_body,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Membership links a user to an org with a role key. The role is either a
// built-in role, a legacy alias, or an org custom role key.
type Membership struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"org_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
