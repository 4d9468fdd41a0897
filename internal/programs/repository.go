// Package programs manages an org's program catalog (teams, clinics, league
// seasons).
package programs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

// Repository handles program persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const programColumns = `id, org_id, name, description, age_group, season, is_active, sort_index, created_at, updated_at`

func scanProgram(row pgx.Row) (*models.Program, error) {
	var p models.Program
	err := row.Scan(&p.ID, &p.OrgID, &p.Name, &p.Description, &p.AgeGroup, &p.Season, &p.IsActive, &p.SortIndex, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) collect(rows pgx.Rows) ([]models.Program, error) {
	defer rows.Close()
	programs := []models.Program{}
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.OrgID, &p.Name, &p.Description, &p.AgeGroup, &p.Season, &p.IsActive, &p.SortIndex, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan program: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// GetByID returns a program, or (nil, nil) when absent.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Program, error) {
	query := fmt.Sprintf(`SELECT %s FROM programs WHERE org_id = $1 AND id = $2`, programColumns)
	p, err := scanProgram(r.pool.QueryRow(ctx, query, orgID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	return p, nil
}

// List returns all of an org's programs, active first.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Program, error) {
	query := fmt.Sprintf(`SELECT %s FROM programs WHERE org_id = $1 ORDER BY is_active DESC, sort_index, name`, programColumns)
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return r.collect(rows)
}

// ListActive returns active programs for public display.
func (r *Repository) ListActive(ctx context.Context, orgID uuid.UUID, limit int) ([]models.Program, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM programs
		WHERE org_id = $1 AND is_active = TRUE
		ORDER BY sort_index, name
		LIMIT $2`, programColumns)
	rows, err := r.pool.Query(ctx, query, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active programs: %w", err)
	}
	return r.collect(rows)
}

// Create inserts a program.
func (r *Repository) Create(ctx context.Context, p *models.Program) error {
	query := fmt.Sprintf(`
		INSERT INTO programs (id, org_id, name, description, age_group, season, is_active, sort_index)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, programColumns)
	created, err := scanProgram(r.pool.QueryRow(ctx, query,
		p.OrgID, p.Name, p.Description, p.AgeGroup, p.Season, p.IsActive, p.SortIndex))
	if err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}
	*p = *created
	return nil
}

// Update replaces a program's editable fields.
func (r *Repository) Update(ctx context.Context, p *models.Program) error {
	query := `
		UPDATE programs
		SET name = $3, description = $4, age_group = $5, season = $6, is_active = $7, sort_index = $8, updated_at = NOW()
		WHERE org_id = $1 AND id = $2`
	if _, err := r.pool.Exec(ctx, query, p.OrgID, p.ID, p.Name, p.Description, p.AgeGroup, p.Season, p.IsActive, p.SortIndex); err != nil {
		return fmt.Errorf("failed to update program: %w", err)
	}
	return nil
}

// Delete removes a program. Returns false when no row matched.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM programs WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete program: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
