package events

import "errors"

// Event errors.
var (
	ErrMissingFields    = errors.New("event name, date, and location are required")
	ErrInvalidBloodType = errors.New("invalid required blood type")
)
