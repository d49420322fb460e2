package identity

import "errors"

// Identity errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidSession     = errors.New("invalid or expired session")
)
