package inventory

import (
	"context"

	"github.com/bissquit/bloodbridge/internal/domain"
)

// Repository defines the interface for inventory data access.
type Repository interface {
	ListItems(ctx context.Context) ([]domain.Document, error)
	CreateItem(ctx context.Context, item domain.Document) error
}
