package tokenx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tabwriterlabs/identity/pkg/idx"
)

// Default token TTLs. Short-lived access tokens limit the blast radius of a
// leaked bearer header; the refresh TTL bounds how long an idle session lives.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultPurposeTTL = 30 * time.Minute
)

// Kind scopes a token to exactly one use. A token of one kind is never
// accepted where another kind is expected.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
	KindReset   Kind = "reset"
	KindInvite  Kind = "invite"
)

// Claims are the JWT claims carried by every token this service mints.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the subject at issuance time ("USER" or "ADMIN").
	// Only meaningful on access tokens.
	Role string `json:"role,omitempty"`

	// Kind discriminates access/refresh/reset/invite tokens.
	Kind Kind `json:"kind"`

	// TokenVersion snapshots the subject's token-version counter for
	// reset/invite tokens. Bumping the stored counter invalidates every
	// purpose token minted before the bump, which is what makes them
	// single-use.
	TokenVersion int64 `json:"tkv,omitempty"`
}

func newClaims(subject, role string, kind Kind, ttl time.Duration, tokenVersion int64, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique jti so two tokens minted in the same second for the
			// same subject never serialize identically.
			ID:        idx.New().String(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:         role,
		Kind:         kind,
		TokenVersion: tokenVersion,
	}
}
