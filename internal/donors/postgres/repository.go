// Package postgres provides PostgreSQL implementation of the donors repository.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/donors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the donors.Repository interface using PostgreSQL.
// Attributes are stored as a JSONB document next to the username key.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetDonor retrieves a donor by username.
func (r *Repository) GetDonor(ctx context.Context, username string) (*domain.Donor, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT doc FROM donors WHERE username = $1`, username).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, donors.ErrDonorNotFound
		}
		return nil, fmt.Errorf("get donor: %w", err)
	}

	var attributes domain.Document
	if err := json.Unmarshal(raw, &attributes); err != nil {
		return nil, fmt.Errorf("decode donor: %w", err)
	}

	return &domain.Donor{Username: username, Attributes: attributes}, nil
}

// UpsertDonor inserts or replaces a donor document.
func (r *Repository) UpsertDonor(ctx context.Context, donor *domain.Donor) error {
	raw, err := json.Marshal(donor.Attributes)
	if err != nil {
		return fmt.Errorf("encode donor: %w", err)
	}

	query := `
		INSERT INTO donors (username, doc)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE
		SET doc = EXCLUDED.doc, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, donor.Username, raw); err != nil {
		return fmt.Errorf("upsert donor: %w", err)
	}
	return nil
}
