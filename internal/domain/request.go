package domain

import (
	"math"
	"time"
)

// RequestStatus is the state of a blood request.
type RequestStatus string

// Request statuses. Requests are created pending and nothing transitions them yet.
const (
	RequestStatusPending RequestStatus = "pending"
)

// MaxQuantity is the largest number of units a single request may ask for.
const MaxQuantity = math.MaxInt32

// BloodRequest is a request for units of blood. Hospital is empty for
// anonymous emergency requests.
type BloodRequest struct {
	ID        string        `json:"-"`
	BloodType BloodType     `json:"bloodType"`
	Quantity  int           `json:"quantity"`
	Status    RequestStatus `json:"status"`
	Hospital  string        `json:"hospital,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// IsValid checks if the request status is known.
func (s RequestStatus) IsValid() bool {
	return s == RequestStatusPending
}
