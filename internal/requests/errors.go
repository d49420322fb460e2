package requests

import "errors"

// Request errors.
var (
	ErrInvalidBloodType = errors.New("invalid blood type")
	ErrInvalidQuantity  = errors.New("quantity out of range")
	ErrInvalidStatus    = errors.New("invalid request status")
)
