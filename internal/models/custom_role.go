package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomRole is an org-scoped named permission bundle. RoleKey is unique
// within the org only.
type CustomRole struct {
	ID          uuid.UUID `json:"id"`
	OrgID       uuid.UUID `json:"org_id"`
	RoleKey     string    `json:"role_key"`
	Label       string    `json:"label"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
