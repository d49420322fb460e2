// Package identity provides account registration, login and session handling.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/pkg/ctxlog"
	"github.com/bissquit/bloodbridge/internal/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// Service implements identity business logic.
type Service struct {
	repo     Repository
	auth     Authenticator
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService creates a new identity service.
func NewService(repo Repository, auth Authenticator) *Service {
	return &Service{
		repo:     repo,
		auth:     auth,
		hashCost: bcrypt.DefaultCost,
	}
}

// RegisterInput holds data for creating an account.
type RegisterInput struct {
	Username string
	Password string
	Role     domain.Role
}

// LoginInput holds login credentials.
type LoginInput struct {
	Username string
	Password string
}

// Register creates a new account. An empty role defaults to RoleUser.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if len(input.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username: input.Username,
		Password: string(hash),
		Role:     role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failure").Inc()
		if errors.Is(err, ErrUsernameExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	ctxlog.FromContext(ctx).Info("user registered", "username", user.Username, "role", user.Role)

	return user, nil
}

// Login verifies credentials and issues a session. Unknown usernames and
// wrong passwords both return ErrInvalidCredentials after the same bcrypt work.
func (s *Service) Login(ctx context.Context, input LoginInput) (*domain.User, *Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(input.Password))
			metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.auth.IssueSession(user)
	if err != nil {
		return nil, nil, fmt.Errorf("issue session: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()

	return user, session, nil
}

// ValidateSession verifies a session token. It satisfies httputil.SessionValidator.
func (s *Service) ValidateSession(_ context.Context, token string) (string, domain.Role, error) {
	username, role, err := s.auth.ParseSession(token)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !role.IsValid() {
		return "", "", ErrInvalidSession
	}
	return username, role, nil
}

// dummyPasswordHash is compared against when the user does not exist.
func (s *Service) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("bloodbridge-timing-equaliser"), s.hashCost)
		if err != nil {
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
