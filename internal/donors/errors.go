package donors

import "errors"

// Donor errors.
var (
	ErrDonorNotFound = errors.New("donor not found")
	ErrEmptyDonor    = errors.New("donor record must not be empty")
)
