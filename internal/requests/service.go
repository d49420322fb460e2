// Package requests handles emergency and hospital blood requests.
package requests

import (
	"context"
	"fmt"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/ctxlog"
	"github.com/bissquit/bloodbridge/internal/pkg/metrics"
)

// Request sources, used as a metric label.
const (
	SourceEmergency = "emergency"
	SourceHospital  = "hospital"
)

// Service implements blood request business logic.
type Service struct {
	repo Repository
}

// NewService creates a new request service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SubmitInput holds data for a new blood request.
type SubmitInput struct {
	BloodType domain.BloodType
	Quantity  int
}

// SubmitEmergency records an anonymous pending request.
func (s *Service) SubmitEmergency(ctx context.Context, input SubmitInput) (*domain.BloodRequest, error) {
	return s.submit(ctx, input, "", SourceEmergency)
}

// SubmitHospital records a pending request on behalf of hospital.
func (s *Service) SubmitHospital(ctx context.Context, hospital string, input SubmitInput) (*domain.BloodRequest, error) {
	return s.submit(ctx, input, hospital, SourceHospital)
}

func (s *Service) submit(ctx context.Context, input SubmitInput, hospital, source string) (*domain.BloodRequest, error) {
	if !input.BloodType.IsValid() {
		return nil, ErrInvalidBloodType
	}
	if input.Quantity <= 0 || input.Quantity > domain.MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	request := &domain.BloodRequest{
		BloodType: input.BloodType,
		Quantity:  input.Quantity,
		Status:    domain.RequestStatusPending,
		Hospital:  hospital,
	}

	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	metrics.BloodRequestsTotal.WithLabelValues(source, string(request.BloodType)).Inc()
	ctxlog.FromContext(ctx).Info("blood request submitted",
		"source", source,
		"blood_type", request.BloodType,
		"quantity", request.Quantity,
	)

	return request, nil
}

// ListRequests returns requests matching filter. An empty status matches all.
func (s *Service) ListRequests(ctx context.Context, status domain.RequestStatus) ([]domain.BloodRequest, error) {
	filter := RequestFilter{}
	if status != "" {
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}

	requests, err := s.repo.ListRequests(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return requests, nil
}

// ListHospitalRequests returns every request submitted by hospital.
func (s *Service) ListHospitalRequests(ctx context.Context, hospital string) ([]domain.BloodRequest, error) {
	requests, err := s.repo.ListRequests(ctx, RequestFilter{Hospital: &hospital})
	if err != nil {
		return nil, fmt.Errorf("list hospital requests: %w", err)
	}
	return requests, nil
}
