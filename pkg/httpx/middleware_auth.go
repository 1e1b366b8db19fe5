package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tabwriterlabs/identity/pkg/slogx"
	"github.com/tabwriterlabs/identity/pkg/tokenx"
)

// TokenVerifier is the slice of tokenx.Codec the gate needs.
type TokenVerifier interface {
	Verify(raw string, expected tokenx.Kind) (tokenx.Claims, error)
}

// PrincipalSource resolves a verified token subject to a live principal.
// Implementations return ErrPrincipalNotFound when the account no longer
// exists and ErrPrincipalBlocked when it does but may not authenticate.
type PrincipalSource interface {
	LoadPrincipal(ctx context.Context, id string) (Principal, error)
}

var (
	ErrPrincipalNotFound = errors.New("httpx: principal not found")
	ErrPrincipalBlocked  = errors.New("httpx: principal blocked")
)

// Authenticate gates protected routes: it extracts the bearer token, verifies
// it as an access token, resolves the subject to a live principal, and rejects
// blocked accounts. The principal is injected into the request context. The
// identity a handler sees always comes from here, never from the query string
// or body.
func Authenticate(v TokenVerifier, src PrincipalSource) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				WriteErrorCode(w, http.StatusUnauthorized, CodeTokenInvalid, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw, tokenx.KindAccess)
			if err != nil {
				if errors.Is(err, tokenx.ErrExpired) {
					WriteErrorCode(w, http.StatusUnauthorized, CodeTokenExpired, "access token expired")
					return
				}
				log.Warn("access token verification failed", "err", err)
				WriteErrorCode(w, http.StatusUnauthorized, CodeTokenInvalid, "invalid access token")
				return
			}

			principal, err := src.LoadPrincipal(ctx, claims.Subject)
			if err != nil {
				switch {
				case errors.Is(err, ErrPrincipalNotFound):
					WriteErrorCode(w, http.StatusUnauthorized, CodeTokenInvalid, "account no longer exists")
				case errors.Is(err, ErrPrincipalBlocked):
					WriteError(w, http.StatusForbidden, "account is blocked")
				default:
					log.Error("principal lookup failed", "err", err, "user_id", claims.Subject)
					WriteError(w, http.StatusInternalServerError, "something went wrong")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(ctx, principal)))
		})
	}
}

// RequireRole allows the request through only when the authenticated
// principal's role is in the allowed set. There is no role hierarchy: an
// ADMIN passes a USER-only gate only if the route lists ADMIN explicitly.
func RequireRole(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		want[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				// Route wiring bug: RequireRole without Authenticate.
				WriteErrorCode(w, http.StatusUnauthorized, CodeTokenInvalid, "missing bearer token")
				return
			}

			if _, ok := want[principal.Role]; !ok {
				WriteError(w, http.StatusForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
