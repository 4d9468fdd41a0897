package orgs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/permissions"
)

const orgColumns = `id, slug, name,
	COALESCE(logo_path,''), COALESCE(icon_path,''), COALESCE(primary_color,''), COALESCE(secondary_color,''),
	COALESCE(governing_body,''), created_at, updated_at`

// Repository handles org persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an orgs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanOrg(row pgx.Row) (*models.Org, error) {
	var o models.Org
	err := row.Scan(&o.ID, &o.Slug, &o.Name,
		&o.Branding.LogoPath, &o.Branding.IconPath, &o.Branding.PrimaryColor, &o.Branding.SecondaryColor,
		&o.GoverningBody, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetBySlug returns an org by slug, or nil if no such org. Implements
// tenancy.OrgStore.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Org, error) {
	return scanOrg(r.pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM orgs WHERE slug = $1`, slug))
}

// GetByID returns an org by ID, or nil if no such org.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Org, error) {
	return scanOrg(r.pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM orgs WHERE id = $1`, id))
}

// CreateWithAdmin creates the org and the creator's admin membership in one
// transaction. There is no path that creates an org without an admin.
func (r *Repository) CreateWithAdmin(ctx context.Context, org *models.Org, creatorID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertOrg = `INSERT INTO orgs (id, slug, name, governing_body)
		VALUES (gen_random_uuid(), $1, $2, NULLIF($3,''))
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertOrg, org.Slug, org.Name, org.GoverningBody).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt); err != nil {
		return err
	}

	const insertMembership = `INSERT INTO org_memberships (id, org_id, user_id, role)
		VALUES (gen_random_uuid(), $1, $2, $3)`
	if _, err := tx.Exec(ctx, insertMembership, org.ID, creatorID, permissions.RoleAdmin); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateSettings updates an org's name, branding, and governing body.
func (r *Repository) UpdateSettings(ctx context.Context, org *models.Org) error {
	const q = `UPDATE orgs SET name = $2,
		logo_path = NULLIF($3,''), icon_path = NULLIF($4,''),
		primary_color = NULLIF($5,''), secondary_color = NULLIF($6,''),
		governing_body = NULLIF($7,''), updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, org.ID, org.Name,
		org.Branding.LogoPath, org.Branding.IconPath,
		org.Branding.PrimaryColor, org.Branding.SecondaryColor,
		org.GoverningBody).Scan(&org.UpdatedAt)
}

// ListForUser returns orgs the user is a member of.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Org, error) {
	const q = `SELECT o.id, o.slug, o.name,
		COALESCE(o.logo_path,''), COALESCE(o.icon_path,''), COALESCE(o.primary_color,''), COALESCE(o.secondary_color,''),
		COALESCE(o.governing_body,''), o.created_at, o.updated_at
		FROM orgs o
		INNER JOIN org_memberships m ON m.org_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.name`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Org
	for rows.Next() {
		var o models.Org
		if err := rows.Scan(&o.ID, &o.Slug, &o.Name,
			&o.Branding.LogoPath, &o.Branding.IconPath, &o.Branding.PrimaryColor, &o.Branding.SecondaryColor,
			&o.GoverningBody, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
