package pages

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

// Repository handles site page persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const pageColumns = `id, org_id, slug, title, is_published, sort_index, layout, published_at, created_at, updated_at`

func scanPage(row pgx.Row) (*models.SitePage, error) {
	var p models.SitePage
	err := row.Scan(&p.ID, &p.OrgID, &p.Slug, &p.Title, &p.IsPublished, &p.SortIndex, &p.Layout, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySlug returns a page by slug, or (nil, nil) when absent.
func (r *Repository) GetBySlug(ctx context.Context, orgID uuid.UUID, slug string) (*models.SitePage, error) {
	query := fmt.Sprintf(`SELECT %s FROM org_site_pages WHERE org_id = $1 AND slug = $2`, pageColumns)
	p, err := scanPage(r.pool.QueryRow(ctx, query, orgID, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return p, nil
}

// List returns all pages for an org ordered by sort index then slug.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.SitePage, error) {
	query := fmt.Sprintf(`SELECT %s FROM org_site_pages WHERE org_id = $1 ORDER BY sort_index, slug`, pageColumns)
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	pages := []models.SitePage{}
	for rows.Next() {
		var p models.SitePage
		if err := rows.Scan(&p.ID, &p.OrgID, &p.Slug, &p.Title, &p.IsPublished, &p.SortIndex, &p.Layout, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Create inserts a new unpublished page.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, slug, title string, sortIndex int) (*models.SitePage, error) {
	query := fmt.Sprintf(`
		INSERT INTO org_site_pages (id, org_id, slug, title, sort_index)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING %s`, pageColumns)
	p, err := scanPage(r.pool.QueryRow(ctx, query, orgID, slug, title, sortIndex))
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return p, nil
}

// Publish replaces the page's layout wholesale and marks it published. The
// upsert makes first publish and republish the same atomic statement; the
// last write wins on concurrent publishes.
func (r *Repository) Publish(ctx context.Context, orgID uuid.UUID, slug, title string, layout json.RawMessage) (*models.SitePage, error) {
	query := fmt.Sprintf(`
		INSERT INTO org_site_pages (id, org_id, slug, title, is_published, layout, published_at)
		VALUES (gen_random_uuid(), $1, $2, $3, TRUE, $4, NOW())
		ON CONFLICT (org_id, slug) DO UPDATE SET
			title = EXCLUDED.title,
			is_published = TRUE,
			layout = EXCLUDED.layout,
			published_at = NOW(),
			updated_at = NOW()
		RETURNING %s`, pageColumns)
	p, err := scanPage(r.pool.QueryRow(ctx, query, orgID, slug, title, layout))
	if err != nil {
		return nil, fmt.Errorf("failed to publish page: %w", err)
	}
	return p, nil
}

// Delete removes a page. The home page cannot be deleted; handlers guard
// that before calling. Returns false when no row matched.
func (r *Repository) Delete(ctx context.Context, orgID uuid.UUID, slug string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM org_site_pages WHERE org_id = $1 AND slug = $2`, orgID, slug)
	if err != nil {
		return false, fmt.Errorf("failed to delete page: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
