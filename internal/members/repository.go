package members

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

// Repository handles membership and custom role persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a members repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetRole returns the user's role key in the org. Implements
// tenancy.MembershipStore; found=false means no membership row.
func (r *Repository) GetRole(ctx context.Context, orgID, userID uuid.UUID) (string, bool, error) {
	const q = `SELECT role FROM org_memberships WHERE org_id = $1 AND user_id = $2`
	var role string
	err := r.pool.QueryRow(ctx, q, orgID, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}

// AddMember adds a user to an org with a role, updating the role if the
// membership already exists. One membership per (org, user).
func (r *Repository) AddMember(ctx context.Context, orgID, userID uuid.UUID, role string) error {
	const q = `INSERT INTO org_memberships (id, org_id, user_id, role)
		VALUES (gen_random_uuid(), $1, $2, $3)
		ON CONFLICT (org_id, user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, orgID, userID, role)
	return err
}

// UpdateRole changes a member's role. Returns false when no membership row
// was updated.
func (r *Repository) UpdateRole(ctx context.Context, orgID, userID uuid.UUID, role string) (bool, error) {
	const q = `UPDATE org_memberships SET role = $3, updated_at = NOW() WHERE org_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, q, orgID, userID, role)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveMember deletes a membership row.
func (r *Repository) RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM org_memberships WHERE org_id = $1 AND user_id = $2`, orgID, userID)
	return err
}

// CountAdmins returns the number of members holding the given role key.
func (r *Repository) CountRole(ctx context.Context, orgID uuid.UUID, role string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM org_memberships WHERE org_id = $1 AND role = $2`, orgID, role).Scan(&n)
	return n, err
}

// Member is an org member with user details for the members list.
type Member struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	AddedAt  time.Time `json:"added_at"`
}

// ListMembers returns members of an org (join org_memberships + users).
func (r *Repository) ListMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error) {
	const q = `SELECT m.id, m.user_id, u.email, COALESCE(u.full_name, ''), m.role, m.created_at
		FROM org_memberships m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.org_id = $1
		ORDER BY m.created_at ASC`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.UserID, &m.Email, &m.FullName, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetRolePermissions returns a custom role's stored permission strings.
// Implements permissions.CustomRoleStore; found=false when the org has no
// role with that key.
func (r *Repository) GetRolePermissions(ctx context.Context, orgID uuid.UUID, roleKey string) ([]string, bool, error) {
	const q = `SELECT permissions FROM org_custom_roles WHERE org_id = $1 AND role_key = $2`
	var perms []string
	err := r.pool.QueryRow(ctx, q, orgID, roleKey).Scan(&perms)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return perms, true, nil
}

// GetCustomRole returns a custom role by key, or nil if no such role.
func (r *Repository) GetCustomRole(ctx context.Context, orgID uuid.UUID, roleKey string) (*models.CustomRole, error) {
	const q = `SELECT id, org_id, role_key, label, permissions, created_at, updated_at
		FROM org_custom_roles WHERE org_id = $1 AND role_key = $2`
	var cr models.CustomRole
	err := r.pool.QueryRow(ctx, q, orgID, roleKey).
		Scan(&cr.ID, &cr.OrgID, &cr.RoleKey, &cr.Label, &cr.Permissions, &cr.CreatedAt, &cr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

// ListCustomRoles returns all custom roles for an org.
func (r *Repository) ListCustomRoles(ctx context.Context, orgID uuid.UUID) ([]models.CustomRole, error) {
	const q = `SELECT id, org_id, role_key, label, permissions, created_at, updated_at
		FROM org_custom_roles WHERE org_id = $1 ORDER BY role_key`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.CustomRole
	for rows.Next() {
		var cr models.CustomRole
		if err := rows.Scan(&cr.ID, &cr.OrgID, &cr.RoleKey, &cr.Label, &cr.Permissions, &cr.CreatedAt, &cr.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, cr)
	}
	return list, rows.Err()
}

// CreateCustomRole inserts a custom role (role_key unique per org).
func (r *Repository) CreateCustomRole(ctx context.Context, cr *models.CustomRole) error {
	const q = `INSERT INTO org_custom_roles (id, org_id, role_key, label, permissions)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, cr.OrgID, cr.RoleKey, cr.Label, cr.Permissions).
		Scan(&cr.ID, &cr.CreatedAt, &cr.UpdatedAt)
}

// UpdateCustomRole updates a custom role's label and permissions.
func (r *Repository) UpdateCustomRole(ctx context.Context, cr *models.CustomRole) (bool, error) {
	const q = `UPDATE org_custom_roles SET label = $3, permissions = $4, updated_at = NOW()
		WHERE org_id = $1 AND role_key = $2`
	tag, err := r.pool.Exec(ctx, q, cr.OrgID, cr.RoleKey, cr.Label, cr.Permissions)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteCustomRole removes a custom role.
func (r *Repository) DeleteCustomRole(ctx context.Context, orgID uuid.UUID, roleKey string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM org_custom_roles WHERE org_id = $1 AND role_key = $2`, orgID, roleKey)
	return err
}
