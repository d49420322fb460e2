// Package donors serves donor records to their owners.
package donors

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/ctxlog"
)

// Service implements donor business logic.
type Service struct {
	repo Repository
}

// NewService creates a new donor service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetDonor returns the donor record owned by username.
func (s *Service) GetDonor(ctx context.Context, username string) (*domain.Donor, error) {
	donor, err := s.repo.GetDonor(ctx, username)
	if err != nil {
		if errors.Is(err, ErrDonorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get donor: %w", err)
	}
	return donor, nil
}

// PutDonor creates or replaces the donor record for username.
// The username argument always wins over a username inside attributes.
func (s *Service) PutDonor(ctx context.Context, username string, attributes domain.Document) (*domain.Donor, error) {
	attributes = attributes.Clean()
	delete(attributes, "username")
	if len(attributes) == 0 {
		return nil, ErrEmptyDonor
	}

	donor := &domain.Donor{Username: username, Attributes: attributes}
	if err := s.repo.UpsertDonor(ctx, donor); err != nil {
		return nil, fmt.Errorf("upsert donor: %w", err)
	}

	ctxlog.FromContext(ctx).Info("donor record saved", "donor", username)
	return donor, nil
}
