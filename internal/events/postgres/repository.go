// Package postgres provides PostgreSQL implementation of the events repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/events"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements events.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateEvent inserts a donation event.
func (r *Repository) CreateEvent(ctx context.Context, event *domain.DonationEvent) error {
	query := `
		INSERT INTO events (hospital, event_name, event_date, location, required_blood_types)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	required := event.RequiredBloodTypes
	if required == nil {
		required = []string{}
	}

	err := r.db.QueryRow(ctx, query,
		event.Hospital,
		event.EventName,
		event.EventDate,
		event.Location,
		required,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// ListEvents retrieves events in scheduling order.
func (r *Repository) ListEvents(ctx context.Context, filter events.EventFilter) ([]domain.DonationEvent, error) {
	query := `
		SELECT id, hospital, event_name, event_date, location, required_blood_types, created_at
		FROM events
	`
	var args []interface{}
	if filter.Hospital != nil {
		args = append(args, *filter.Hospital)
		query += " WHERE hospital = $1"
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	result := make([]domain.DonationEvent, 0)
	for rows.Next() {
		var event domain.DonationEvent
		if err := rows.Scan(
			&event.ID,
			&event.Hospital,
			&event.EventName,
			&event.EventDate,
			&event.Location,
			&event.RequiredBloodTypes,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if event.RequiredBloodTypes == nil {
			event.RequiredBloodTypes = []string{}
		}
		result = append(result, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return result, nil
}
