package requests

import (
	"context"

	"github.com/bissquit/bloodbridge/internal/domain"
)

// Repository defines the interface for blood request storage.
type Repository interface {
	CreateRequest(ctx context.Context, request *domain.BloodRequest) error
	ListRequests(ctx context.Context, filter RequestFilter) ([]domain.BloodRequest, error)
}

// RequestFilter narrows a request listing. Nil fields match everything.
type RequestFilter struct {
	Hospital *string
	Status   *domain.RequestStatus
}
