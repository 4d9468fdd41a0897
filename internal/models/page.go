package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PageKeyHome always resolves on every org site even when no row exists;
// the layout is synthesized in that case.
const PageKeyHome = "home"

// SitePage is an org's site page. Layout is the persisted ordered block
// array; it is reinterpreted through the block registry on every read and
// replaced wholesale on publish.
type SitePage struct {
	ID          uuid.UUID       `json:"id"`
	OrgID       uuid.UUID       `json:"org_id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	IsPublished bool            `json:"is_published"`
	SortIndex   int             `json:"sort_index"`
	Layout      json.RawMessage `json:"layout,omitempty"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
