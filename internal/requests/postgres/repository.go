// Package postgres provides PostgreSQL implementation of the requests repository.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/requests"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the requests.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateRequest inserts a blood request.
func (r *Repository) CreateRequest(ctx context.Context, request *domain.BloodRequest) error {
	query := `
		INSERT INTO requests (blood_type, quantity, status, hospital)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		request.BloodType,
		request.Quantity,
		request.Status,
		request.Hospital,
	).Scan(&request.ID, &request.CreatedAt)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

// ListRequests retrieves requests in submission order.
func (r *Repository) ListRequests(ctx context.Context, filter requests.RequestFilter) ([]domain.BloodRequest, error) {
	query := `
		SELECT id, blood_type, quantity, status, COALESCE(hospital, ''), created_at
		FROM requests
	`

	var conditions []string
	var args []interface{}

	if filter.Hospital != nil {
		args = append(args, *filter.Hospital)
		conditions = append(conditions, fmt.Sprintf("hospital = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	result := make([]domain.BloodRequest, 0)
	for rows.Next() {
		var req domain.BloodRequest
		if err := rows.Scan(
			&req.ID,
			&req.BloodType,
			&req.Quantity,
			&req.Status,
			&req.Hospital,
			&req.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		result = append(result, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return result, nil
}
