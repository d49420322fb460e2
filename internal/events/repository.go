package events

import (
	"context"

	"github.com/bissquit/bloodbridge/internal/domain"
)

// Repository defines the interface for donation event storage.
type Repository interface {
	CreateEvent(ctx context.Context, event *domain.DonationEvent) error
	ListEvents(ctx context.Context, filter EventFilter) ([]domain.DonationEvent, error)
}

// EventFilter holds filter options for listing events.
type EventFilter struct {
	Hospital *string
}
