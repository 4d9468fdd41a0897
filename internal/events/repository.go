// Package events manages the org calendar (games, practices, meetings).
package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `id, org_id, title, location, starts_at, ends_at, is_public, created_at, updated_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.OrgID, &e.Title, &e.Location, &e.StartsAt, &e.EndsAt, &e.IsPublic, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collect(rows pgx.Rows) ([]models.Event, error) {
	defer rows.Close()
	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.OrgID, &e.Title, &e.Location, &e.StartsAt, &e.EndsAt, &e.IsPublic, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID returns an event, or (nil, nil) when absent.
func (r *Repository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM org_events WHERE org_id = $1 AND id = $2`, eventColumns)
	e, err := scanEvent(r.pool.QueryRow(ctx, query, orgID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// List returns all of an org's events, soonest first.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM org_events WHERE org_id = $1 ORDER BY starts_at`, eventColumns)
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return collect(rows)
}

// ListUpcoming returns public events starting now or later, soonest first.
func (r *Repository) ListUpcoming(ctx context.Context, orgID uuid.UUID, limit int) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM org_events
		WHERE org_id = $1 AND is_public = TRUE AND starts_at >= NOW()
		ORDER BY starts_at
		LIMIT $2`, eventColumns)
	rows, err := r.pool.Query(ctx, query, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	return collect(rows)
}

// Create inserts an event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	query := fmt.Sprintf(`
		INSERT INTO org_events (id, org_id, title, location, starts_at, ends_at, is_public)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
		RETURNING %s`, eventColumns)
	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		e.OrgID, e.Title, e.Location, e.StartsAt, e.EndsAt, e.IsPublic))
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	*e = *created
	return nil
}

// Update replaces an event's editable fields.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE org_events
		SET title = $3, location = $4, starts_at = $5, ends_at = $6, is_public = $7, updated_at = NOW()
		WHERE org_id = $1 AND id = $2`
	if _, err := r.pool.Exec(ctx, query, e.OrgID, e.ID, e.Title, e.Location, e.StartsAt, e.EndsAt, e.IsPublic); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// Delete removes an event. Returns false when no row matched.
func (r *Repository) Delete(ctx context.Context, orgID, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM org_events WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
