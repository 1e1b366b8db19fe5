package domain

import "time"

// Role of a user. No hierarchy: route gates list every allowed role
// explicitly.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Provider identifies how an account authenticates.
type Provider string

const (
	ProviderManual   Provider = "manual"
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderLinkedIn Provider = "linkedin"
	ProviderApple    Provider = "apple"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderManual, ProviderGoogle, ProviderFacebook, ProviderLinkedIn, ProviderApple:
		return true
	}
	return false
}

// User is the principal record. PasswordHash is nil for social-only accounts.
// RefreshTokenHash holds the fingerprint of the single currently-valid
// refresh token, nil when logged out. TokenVersion invalidates outstanding
// reset/invite tokens when bumped.
type User struct {
	ID               string
	Email            string
	Name             string
	PasswordHash     *string
	Role             Role
	Provider         Provider
	EmailVerified    bool
	Active           bool
	Blocked          bool
	RefreshTokenHash *string
	TokenVersion     int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasPassword reports whether the account has a password set. Social-only
// accounts don't until the user sets one via change-password.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
