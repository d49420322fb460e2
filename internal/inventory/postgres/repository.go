// Package postgres provides PostgreSQL implementation of the inventory repository.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the inventory.Repository interface using PostgreSQL.
// Items are stored as JSONB documents.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListItems retrieves all inventory documents in insertion order.
func (r *Repository) ListItems(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.Query(ctx, `SELECT doc FROM inventory ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Document, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		var doc domain.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode inventory item: %w", err)
		}
		result = append(result, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}

	return result, nil
}

// CreateItem inserts an inventory document.
func (r *Repository) CreateItem(ctx context.Context, item domain.Document) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode inventory item: %w", err)
	}

	if _, err := r.db.Exec(ctx, `INSERT INTO inventory (doc) VALUES ($1)`, raw); err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}
