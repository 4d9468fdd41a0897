// Package forms implements org forms: builder CRUD, versioned publishing,
// rate-limited public submission, and submission review/export tooling.
package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

// Repository handles form, version, and submission persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const formColumns = `id, org_id, slug, name, description, fields, is_published, created_at, updated_at`

func scanForm(row pgx.Row) (*models.Form, error) {
	var f models.Form
	err := row.Scan(&f.ID, &f.OrgID, &f.Slug, &f.Name, &f.Description, &f.Fields, &f.IsPublished, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetBySlug returns a form by slug, or (nil, nil) when absent.
func (r *Repository) GetBySlug(ctx context.Context, orgID uuid.UUID, slug string) (*models.Form, error) {
	query := fmt.Sprintf(`SELECT %s FROM forms WHERE org_id = $1 AND slug = $2`, formColumns)
	f, err := scanForm(r.pool.QueryRow(ctx, query, orgID, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	return f, nil
}

// GetPublishedBySlug returns a published form by slug, or (nil, nil). The
// fields returned are the latest published version's snapshot, not the
// working draft.
func (r *Repository) GetPublishedBySlug(ctx context.Context, orgID uuid.UUID, slug string) (*models.Form, error) {
	query := `
		SELECT f.id, f.org_id, f.slug, f.name, f.description, v.fields, f.is_published, f.created_at, f.updated_at
		FROM forms f
		JOIN form_versions v ON v.form_id = f.id
		WHERE f.org_id = $1 AND f.slug = $2 AND f.is_published = TRUE
		ORDER BY v.number DESC
		LIMIT 1`
	f, err := scanForm(r.pool.QueryRow(ctx, query, orgID, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get published form: %w", err)
	}
	return f, nil
}

// List returns all of an org's forms with submission counts.
type FormListItem struct {
	models.Form
	SubmissionCount int `json:"submission_count"`
}

func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]FormListItem, error) {
	query := `
		SELECT f.id, f.org_id, f.slug, f.name, f.description, f.fields, f.is_published, f.created_at, f.updated_at,
		       COUNT(s.id)
		FROM forms f
		LEFT JOIN form_submissions s ON s.form_id = f.id
		WHERE f.org_id = $1
		GROUP BY f.id
		ORDER BY f.created_at DESC`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	defer rows.Close()

	items := []FormListItem{}
	for rows.Next() {
		var it FormListItem
		if err := rows.Scan(&it.ID, &it.OrgID, &it.Slug, &it.Name, &it.Description, &it.Fields,
			&it.IsPublished, &it.CreatedAt, &it.UpdatedAt, &it.SubmissionCount); err != nil {
			return nil, fmt.Errorf("failed to scan form: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts a new unpublished form with a draft field schema.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, slug, name, description string, fields json.RawMessage) (*models.Form, error) {
	query := fmt.Sprintf(`
		INSERT INTO forms (id, org_id, slug, name, description, fields)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING %s`, formColumns)
	f, err := scanForm(r.pool.QueryRow(ctx, query, orgID, slug, name, description, fields))
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}
	return f, nil
}

// Update replaces a form's name, description, and working field schema.
func (r *Repository) Update(ctx context.Context, form *models.Form) error {
	query := `
		UPDATE forms
		SET name = $3, description = $4, fields = $5, updated_at = NOW()
		WHERE org_id = $1 AND id = $2`
	if _, err := r.pool.Exec(ctx, query, form.OrgID, form.ID, form.Name, form.Description, form.Fields); err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}
	return nil
}

// Delete removes a form with its versions and submissions (cascading FKs).
func (r *Repository) Delete(ctx context.Context, orgID, formID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM forms WHERE org_id = $1 AND id = $2`, orgID, formID)
	if err != nil {
		return false, fmt.Errorf("failed to delete form: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// PublishVersion snapshots the working schema as the next immutable version
// and marks the form published, in one transaction.
func (r *Repository) PublishVersion(ctx context.Context, orgID, formID uuid.UUID, fields json.RawMessage) (*models.FormVersion, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var v models.FormVersion
	err = tx.QueryRow(ctx, `
		INSERT INTO form_versions (id, form_id, number, fields)
		SELECT gen_random_uuid(), $1, COALESCE(MAX(number), 0) + 1, $2
		FROM form_versions WHERE form_id = $1
		RETURNING id, form_id, number, fields, created_at`,
		formID, fields,
	).Scan(&v.ID, &v.FormID, &v.Number, &v.Fields, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create form version: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE forms SET fields = $3, is_published = TRUE, updated_at = NOW()
		WHERE org_id = $1 AND id = $2`, orgID, formID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to mark form published: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("form not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &v, nil
}

// LatestVersion returns the newest published version, or (nil, nil) when the
// form has never been published.
func (r *Repository) LatestVersion(ctx context.Context, formID uuid.UUID) (*models.FormVersion, error) {
	var v models.FormVersion
	err := r.pool.QueryRow(ctx, `
		SELECT id, form_id, number, fields, created_at
		FROM form_versions WHERE form_id = $1
		ORDER BY number DESC LIMIT 1`, formID,
	).Scan(&v.ID, &v.FormID, &v.Number, &v.Fields, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest version: %w", err)
	}
	return &v, nil
}

// InsertSubmission records one public submission against a version.
func (r *Repository) InsertSubmission(ctx context.Context, orgID, formID, versionID uuid.UUID, answers json.RawMessage) (*models.Submission, error) {
	var s models.Submission
	err := r.pool.QueryRow(ctx, `
		INSERT INTO form_submissions (id, org_id, form_id, version_id, status, answers)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, org_id, form_id, version_id, status, answers, created_at`,
		orgID, formID, versionID, models.SubmissionStatusNew, answers,
	).Scan(&s.ID, &s.OrgID, &s.FormID, &s.VersionID, &s.Status, &s.Answers, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert submission: %w", err)
	}
	return &s, nil
}

// ListSubmissions returns a form's submissions, newest first, optionally
// filtered by status. The version number is joined in for display and export.
func (r *Repository) ListSubmissions(ctx context.Context, orgID, formID uuid.UUID, status string) ([]models.Submission, error) {
	query := `
		SELECT s.id, s.org_id, s.form_id, s.version_id, v.number, s.status, s.answers, s.created_at
		FROM form_submissions s
		JOIN form_versions v ON v.id = s.version_id
		WHERE s.org_id = $1 AND s.form_id = $2 AND ($3 = '' OR s.status = $3)
		ORDER BY s.created_at DESC`
	rows, err := r.pool.Query(ctx, query, orgID, formID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(&s.ID, &s.OrgID, &s.FormID, &s.VersionID, &s.VersionNumber, &s.Status, &s.Answers, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// UpdateSubmissionStatus moves a submission through the review workflow.
// Returns false when no row matched.
func (r *Repository) UpdateSubmissionStatus(ctx context.Context, orgID, submissionID uuid.UUID, status string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE form_submissions SET status = $3
		WHERE org_id = $1 AND id = $2`, orgID, submissionID, status)
	if err != nil {
		return false, fmt.Errorf("failed to update submission status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
