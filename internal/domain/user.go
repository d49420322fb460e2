package domain

import "time"

// Role gates access to role-specific routes.
type Role string

// MaxUsernameLength is the longest username, in characters, the stores accept.
const MaxUsernameLength = 255

// Roles.
const (
	RoleUser     Role = "user"
	RoleHospital Role = "hospital"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleHospital, RoleAdmin:
		return true
	}
	return false
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// User is a registered account. Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID        string
	Username  string
	Password  string
	Role      Role
	CreatedAt time.Time
}
