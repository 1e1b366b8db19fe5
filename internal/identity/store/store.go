package store

import (
	"context"
	"errors"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrStaleRefreshToken reports a failed refresh-token compare-and-set:
	// the presented token is no longer the stored one (already rotated, or
	// cleared by logout).
	ErrStaleRefreshToken = errors.New("store: stale refresh token")
)

// Store is the root data access interface. Concrete drivers (sqlite) implement
// this.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Users is the user store. Mutations are deliberately narrow: each method is a
// single statement so the auth flows never need a read-modify-write cycle
// split across calls.
type Users interface {
	// Create inserts a new user. Returns ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u domain.User) error

	// GetByID returns a user by id.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByEmail is used by login, social login, and the reset/invite flows.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// List returns all users ordered by creation date (newest first).
	List(ctx context.Context) ([]domain.User, error)

	// Delete removes a user.
	Delete(ctx context.Context, id string) error

	// IsEmpty reports whether there are no users (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)

	// UpdateProfile applies an admin edit (name, role, active, blocked).
	UpdateProfile(ctx context.Context, id, name string, role domain.Role, active, blocked bool) error

	// SetRefreshTokenHash stores the fingerprint of a freshly minted refresh
	// token, replacing whatever was there (login issues a new session).
	SetRefreshTokenHash(ctx context.Context, id, hash string) error

	// RotateRefreshTokenHash atomically swaps oldHash for newHash in a single
	// conditional update. Returns ErrStaleRefreshToken when the stored value
	// is not oldHash, which is what makes concurrent refreshes with the same
	// stale token lose.
	RotateRefreshTokenHash(ctx context.Context, id, oldHash, newHash string) error

	// ClearRefreshTokenHash nulls the stored fingerprint (logout).
	ClearRefreshTokenHash(ctx context.Context, id string) error

	// MarkSocialLogin records a successful social login: the provider is
	// stamped and the email marked verified.
	MarkSocialLogin(ctx context.Context, id string, provider domain.Provider) error

	// ResetCredentials completes a password reset: new hash, token-version
	// bump (consumes the reset token), refresh token cleared.
	ResetCredentials(ctx context.Context, id, hash string) error

	// ActivateWithPassword completes an invitation: new hash, account
	// activated, email verified, token-version bump, refresh token cleared.
	ActivateWithPassword(ctx context.Context, id, hash string) error
}
