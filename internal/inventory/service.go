// Package inventory exposes blood stock documents.
package inventory

import (
	"context"
	"fmt"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/ctxlog"
)

// Service implements inventory business logic.
type Service struct {
	repo Repository
}

// NewService creates a new inventory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListItems returns every inventory document without internal ids.
func (s *Service) ListItems(ctx context.Context) ([]domain.Document, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	result := make([]domain.Document, 0, len(items))
	for _, item := range items {
		result = append(result, item.Clean())
	}
	return result, nil
}

// AddItem stores a new inventory document. A client-supplied _id is dropped.
func (s *Service) AddItem(ctx context.Context, item domain.Document) error {
	item = item.Clean()
	if len(item) == 0 {
		return ErrEmptyItem
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}

	ctxlog.FromContext(ctx).Info("inventory item added", "fields", len(item))
	return nil
}
