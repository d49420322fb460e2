package identity

import (
	"context"
	"time"

	"github.com/bissquit/bloodbridge/internal/domain"
)

// Repository defines the interface for user storage.
type Repository interface {
	// CreateUser stores a new user and fills in ID and CreatedAt.
	// Returns ErrUsernameExists if the username is taken.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByUsername returns ErrUserNotFound if no user matches.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Session is an issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Authenticator issues and verifies session tokens.
type Authenticator interface {
	IssueSession(user *domain.User) (*Session, error)
	ParseSession(token string) (username string, role domain.Role, err error)
}
