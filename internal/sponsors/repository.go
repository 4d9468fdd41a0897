// Package sponsors manages an org's sponsor profiles and logo assets.
package sponsors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

// tierRank orders known tiers for display; unknown tiers sort last.
var tierRank = map[string]int{
	"platinum": 0,
	"gold":     1,
	"silver":   2,
	"bronze":   3,
}

// Repository handles sponsor persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const sponsorColumns = `id, org_id, name, tier, website_url, logo_path, is_published, sort_index, created_at, updated_at`

func scanSponsor(row pgx.Row) (*models.Sponsor, error) {
	var s models.Sponsor
	err := row.Scan(&s.ID, &s.OrgID, &s.Name, &s.Tier, &s.WebsiteURL, &s.LogoPath, &s.IsPublished, &s.SortIndex, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collect(rows pgx.Rows) ([]models.Sponsor, error) {
	defer rows.Close()
	sponsors := []models.Sponsor{}
	for rows.Next() {
		var s models.Sponsor
		if err := rows.Scan(&s.ID, &s.OrgID, &s.Name, &s.Tier, &s.WebsiteURL, &s.LogoPath, &s.IsPublished, &s.SortIndex, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor: %w", err)
		}
		sponsors = append(sponsors, s)
	}
	return sponsors, rows.Err()
}

// GetByID returns a sponsor, or (nil, nil) when absent.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Sponsor, error) {
	query := fmt.Sprintf(`SELECT %s FROM sponsors WHERE org_id = $1 AND id = $2`, sponsorColumns)
	s, err := scanSponsor(r.pool.QueryRow(ctx, query, orgID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sponsor: %w", err)
	}
	return s, nil
}

// List returns all of an org's sponsors for management.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Sponsor, error) {
	query := fmt.Sprintf(`SELECT %s FROM sponsors WHERE org_id = $1 ORDER BY sort_index, name`, sponsorColumns)
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}
	return collect(rows)
}

// ListPublished returns published sponsors ordered by tier rank then sort
// index, the order the carousel shows them in.
func (r *Repository) ListPublished(ctx context.Context, orgID uuid.UUID) ([]models.Sponsor, error) {
	query := fmt.Sprintf(`SELECT %s FROM sponsors WHERE org_id = $1 AND is_published = TRUE ORDER BY sort_index, name`, sponsorColumns)
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list published sponsors: %w", err)
	}
	sponsors, err := collect(rows)
	if err != nil {
		return nil, err
	}
	sortByTier(sponsors)
	return sponsors, nil
}

// sortByTier is a stable sort on tier rank; rows arrive already ordered by
// sort index so ties keep that order.
func sortByTier(sponsors []models.Sponsor) {
	rank := func(tier string) int {
		if n, ok := tierRank[tier]; ok {
			return n
		}
		return len(tierRank)
	}
	for i := 1; i < len(sponsors); i++ {
		for j := i; j > 0 && rank(sponsors[j].Tier) < rank(sponsors[j-1].Tier); j-- {
			sponsors[j], sponsors[j-1] = sponsors[j-1], sponsors[j]
		}
	}
}

// Create inserts a sponsor.
func (r *Repository) Create(ctx context.Context, s *models.Sponsor) error {
	query := fmt.Sprintf(`
		INSERT INTO sponsors (id, org_id, name, tier, website_url, logo_path, is_published, sort_index)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, sponsorColumns)
	created, err := scanSponsor(r.pool.QueryRow(ctx, query,
		s.OrgID, s.Name, s.Tier, s.WebsiteURL, s.LogoPath, s.IsPublished, s.SortIndex))
	if err != nil {
		return fmt.Errorf("failed to create sponsor: %w", err)
	}
	*s = *created
	return nil
}

// Update replaces a sponsor's editable fields.
func (r *Repository) Update(ctx context.Context, s *models.Sponsor) error {
	query := `
		UPDATE sponsors
		SET name = $3, tier = $4, website_url = $5, logo_path = $6, is_published = $7, sort_index = $8, updated_at = NOW()
		WHERE org_id = $1 AND id = $2`
	if _, err := r.pool.Exec(ctx, query, s.OrgID, s.ID, s.Name, s.Tier, s.WebsiteURL, s.LogoPath, s.IsPublished, s.SortIndex); err != nil {
		return fmt.Errorf("failed to update sponsor: %w", err)
	}
	return nil
}

// Delete removes a sponsor. Returns false when no row matched.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sponsors WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete sponsor: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
