// Package events schedules hospital blood donation events.
package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/ctxlog"
	"github.com/bissquit/bloodbridge/internal/pkg/metrics"
)

// Service implements donation event business logic.
type Service struct {
	repo Repository
}

// NewService creates a new event service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ScheduleInput holds data for scheduling an event.
type ScheduleInput struct {
	EventName          string
	EventDate          string
	Location           string
	RequiredBloodTypes []domain.BloodType
}

// Schedule records an event for hospital. RequiredBloodTypes is stored as an
// empty list when none are given.
func (s *Service) Schedule(ctx context.Context, hospital string, input ScheduleInput) (*domain.DonationEvent, error) {
	if strings.TrimSpace(input.EventName) == "" ||
		strings.TrimSpace(input.EventDate) == "" ||
		strings.TrimSpace(input.Location) == "" {
		return nil, ErrMissingFields
	}

	required := make([]string, 0, len(input.RequiredBloodTypes))
	for _, bt := range input.RequiredBloodTypes {
		if !bt.IsValid() {
			return nil, ErrInvalidBloodType
		}
		required = append(required, string(bt))
	}

	event := &domain.DonationEvent{
		Hospital:           hospital,
		EventName:          input.EventName,
		EventDate:          input.EventDate,
		Location:           input.Location,
		RequiredBloodTypes: required,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	metrics.EventsScheduledTotal.Inc()
	ctxlog.FromContext(ctx).Info("donation event scheduled",
		"hospital", hospital,
		"event_date", event.EventDate,
	)

	return event, nil
}

// ListEvents returns scheduled events, optionally for one hospital.
func (s *Service) ListEvents(ctx context.Context, filter EventFilter) ([]domain.DonationEvent, error) {
	events, err := s.repo.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
