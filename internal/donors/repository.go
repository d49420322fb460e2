package donors

import (
	"context"

	"github.com/bissquit/bloodbridge/internal/domain"
)

// Repository defines the interface for donor data access.
type Repository interface {
	// GetDonor returns ErrDonorNotFound when no record exists for username.
	GetDonor(ctx context.Context, username string) (*domain.Donor, error)
	// UpsertDonor replaces the record for donor.Username, creating it if absent.
	UpsertDonor(ctx context.Context, donor *domain.Donor) error
}
