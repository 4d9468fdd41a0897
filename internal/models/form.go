package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FormField describes one field of a form's published schema.
type FormField struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"` // text, email, textarea, select, checkbox
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"` // for select
}

// Form is an org-scoped public form. Slug is unique per org. Fields hold the
// working (unpublished) schema; submissions are validated against the latest
// published version.
type Form struct {
	ID          uuid.UUID       `json:"id"`
	OrgID       uuid.UUID       `json:"org_id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Fields      json.RawMessage `json:"fields,omitempty"`
	IsPublished bool            `json:"is_published"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FormVersion is an immutable snapshot of a form's field schema. Submissions
// record the version they were made against.
type FormVersion struct {
	ID        uuid.UUID       `json:"id"`
	FormID    uuid.UUID       `json:"form_id"`
	Number    int             `json:"number"`
	Fields    json.RawMessage `json:"fields"`
	CreatedAt time.Time       `json:"created_at"`
}

// Submission statuses.
const (
	SubmissionStatusNew      = "new"
	SubmissionStatusReviewed = "reviewed"
	SubmissionStatusArchived = "archived"
)

// Submission is one public submission against a form version. Answers is a
// JSON object keyed by field key; values may be strings, bools, or arrays.
type Submission struct {
	ID            uuid.UUID       `json:"id"`
	FormID        uuid.UUID       `json:"form_id"`
	OrgID         uuid.UUID       `json:"org_id"`
	VersionID     uuid.UUID       `json:"version_id"`
	VersionNumber int             `json:"version_number"`
	Status        string          `json:"status"`
	Answers       json.RawMessage `json:"answers"`
	CreatedAt     time.Time       `json:"created_at"`
}
