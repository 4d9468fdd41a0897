// Package announcements manages org news items.
package announcements

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

// Repository handles announcement persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const announcementColumns = `id, org_id, title, body, is_published, published_at, created_at, updated_at`

func scanAnnouncement(row pgx.Row) (*models.Announcement, error) {
	var a models.Announcement
	err := row.Scan(&a.ID, &a.OrgID, &a.Title, &a.Body, &a.IsPublished, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collect(rows pgx.Rows) ([]models.Announcement, error) {
	defer rows.Close()
	items := []models.Announcement{}
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.OrgID, &a.Title, &a.Body, &a.IsPublished, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// GetByID returns an announcement, or (nil, nil) when absent.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Announcement, error) {
	query := fmt.Sprintf(`SELECT %s FROM org_announcements WHERE org_id = $1 AND id = $2`, announcementColumns)
	a, err := scanAnnouncement(r.pool.QueryRow(ctx, query, orgID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	return a, nil
}

// List returns all of an org's announcements, newest first.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Announcement, error) {
	query := fmt.Sprintf(`SELECT %s FROM org_announcements WHERE org_id = $1 ORDER BY created_at DESC`, announcementColumns)
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return collect(rows)
}

// ListPublished returns published announcements, newest publication first.
func (r *Repository) ListPublished(ctx context.Context, orgID uuid.UUID, limit int) ([]models.Announcement, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM org_announcements
		WHERE org_id = $1 AND is_published = TRUE
		ORDER BY published_at DESC
		LIMIT $2`, announcementColumns)
	rows, err := r.pool.Query(ctx, query, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published announcements: %w", err)
	}
	return collect(rows)
}

// Create inserts an announcement. published_at is set when created published.
func (r *Repository) Create(ctx context.Context, a *models.Announcement) error {
	query := fmt.Sprintf(`
		INSERT INTO org_announcements (id, org_id, title, body, is_published, published_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, CASE WHEN $4 THEN NOW() END)
		RETURNING %s`, announcementColumns)
	created, err := scanAnnouncement(r.pool.QueryRow(ctx, query, a.OrgID, a.Title, a.Body, a.IsPublished))
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	*a = *created
	return nil
}

// Update replaces an announcement's editable fields. The publish timestamp is
// set on the unpublished-to-published transition and kept afterwards.
func (r *Repository) Update(ctx context.Context, a *models.Announcement) error {
	query := fmt.Sprintf(`
		UPDATE org_announcements
		SET title = $3, body = $4, is_published = $5,
		    published_at = CASE WHEN $5 AND published_at IS NULL THEN NOW() ELSE published_at END,
		    updated_at = NOW()
		WHERE org_id = $1 AND id = $2
		RETURNING %s`, announcementColumns)
	updated, err := scanAnnouncement(r.pool.QueryRow(ctx, query, a.OrgID, a.ID, a.Title, a.Body, a.IsPublished))
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	*a = *updated
	return nil
}

// Delete removes an announcement. Returns false when no row matched.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM org_announcements WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete announcement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
