// Package session issues and verifies HS256-signed session tokens carried in
// the session cookie.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/bissquit/bloodbridge/internal/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultIssuer is used when Config.Issuer is empty.
const DefaultIssuer = "bloodbridge"

// MinSecretLength is the minimum accepted signing secret length in bytes.
const MinSecretLength = 32

// ErrWeakSecret is returned for secrets shorter than MinSecretLength.
var ErrWeakSecret = errors.New("session secret too short")

// Config contains session signing settings.
type Config struct {
	SecretKey string
	Duration  time.Duration
	Issuer    string
}

// Claims are the session token claims. Subject holds the username.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager implements identity.Authenticator.
type Manager struct {
	secret   []byte
	duration time.Duration
	issuer   string
	now      func() time.Time
}

var _ identity.Authenticator = (*Manager)(nil)

// NewManager creates a session manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.SecretKey) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrWeakSecret, MinSecretLength)
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}

	duration := cfg.Duration
	if duration <= 0 {
		duration = 24 * time.Hour
	}

	return &Manager{
		secret:   []byte(cfg.SecretKey),
		duration: duration,
		issuer:   issuer,
		now:      time.Now,
	}, nil
}

// IssueSession signs a token for user.
func (m *Manager) IssueSession(user *domain.User) (*identity.Session, error) {
	now := m.now()
	expiresAt := now.Add(m.duration)

	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	return &identity.Session{Token: token, ExpiresAt: expiresAt}, nil
}

// ParseSession verifies signature, issuer and expiry and returns the identity.
func (m *Manager) ParseSession(token string) (string, domain.Role, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", "", fmt.Errorf("parse session: %w", err)
	}

	if claims.Subject == "" {
		return "", "", errors.New("parse session: empty subject")
	}

	return claims.Subject, claims.Role, nil
}
