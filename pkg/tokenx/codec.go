package tokenx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLength = 32

var (
	// ErrInvalid covers every verification failure except expiry: bad
	// signature, malformed token, wrong issuer, kind mismatch. Collapsing
	// them avoids telling an attacker which check tripped.
	ErrInvalid = errors.New("tokenx: invalid token")

	// ErrExpired is surfaced separately so clients can decide between
	// refreshing and forcing a fresh login.
	ErrExpired = errors.New("tokenx: token expired")

	// ErrWeakSecret rejects signing secrets below 256 bits.
	ErrWeakSecret = errors.New("tokenx: signing secret must be at least 32 bytes")
)

// Codec signs and verifies HS256 JWTs with a single symmetric secret.
// The secret is loaded once at startup and never mutated, so a Codec is
// safe for concurrent use. Session tokens (access/refresh) and purpose
// tokens (reset/invite) use separate Codec instances with separate secrets.
type Codec struct {
	secret []byte
	issuer string
}

func NewCodec(secret []byte, issuer string) (*Codec, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}

	return &Codec{secret: secret, issuer: issuer}, nil
}

// Issue mints a token of the given kind for subject.
func (c *Codec) Issue(subject, role string, kind Kind, ttl time.Duration, tokenVersion int64) (string, error) {
	claims := newClaims(subject, role, kind, ttl, tokenVersion, c.issuer, time.Now().UTC())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature, expiry, issuer, and kind. Expiry failures return
// ErrExpired; everything else returns ErrInvalid uniformly.
func (c *Codec) Verify(raw string, expected Kind) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		// An expired forgery is still a forgery: only report expiry when
		// the signature held up.
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalid
	}

	if claims.Kind != expected || claims.Subject == "" {
		return Claims{}, ErrInvalid
	}

	return *claims, nil
}
