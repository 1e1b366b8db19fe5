package social

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	appleJWKSURL = "https://appleid.apple.com/auth/keys"
	appleIssuer  = "https://appleid.apple.com"
)

// AppleVerifier validates a Sign in with Apple id_token against Apple's
// published JWKS. Apple does not expose a userinfo endpoint, so the id_token
// itself carries the profile.
type AppleVerifier struct {
	clientID string
	jwks     *keyfunc.JWKS
}

// NewAppleVerifier fetches Apple's JWKS and keeps it refreshed in the
// background. clientID is the app's Services ID, checked against the token
// audience.
func NewAppleVerifier(clientID string) (*AppleVerifier, error) {
	jwks, err := keyfunc.Get(appleJWKSURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch apple jwks: %w", err)
	}
	return &AppleVerifier{clientID: clientID, jwks: jwks}, nil
}

type appleClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
}

func (v *AppleVerifier) Verify(ctx context.Context, assertion string) (Profile, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(appleIssuer),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)

	var claims appleClaims
	token, err := parser.ParseWithClaims(assertion, &claims, v.jwks.Keyfunc)
	if err != nil || !token.Valid {
		return Profile{}, ErrAssertionInvalid
	}
	if claims.Email == "" {
		return Profile{}, ErrNoEmail
	}

	// Apple only shares the name on the first authorization and it never
	// appears in the id_token, so the email doubles as the display name.
	return Profile{Email: claims.Email, Name: claims.Email}, nil
}

// Close stops the background JWKS refresh.
func (v *AppleVerifier) Close() {
	v.jwks.EndBackground()
}
