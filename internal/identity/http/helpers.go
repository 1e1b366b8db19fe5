package http

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/service"
	"github.com/tabwriterlabs/identity/internal/identity/social"
	"github.com/tabwriterlabs/identity/internal/identity/store"
	"github.com/tabwriterlabs/identity/pkg/httpx"
	"github.com/tabwriterlabs/identity/pkg/identsdk"
	"github.com/tabwriterlabs/identity/pkg/slogx"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeAndValidate parses a JSON body into v and runs its validation rules.
// On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validation.Validatable) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := v.Validate(); err != nil {
		httpx.WriteValidationError(w, err)
		return false
	}
	return true
}

func toUserResponse(u domain.User) identsdk.User {
	return identsdk.User{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          string(u.Role),
		Provider:      string(u.Provider),
		EmailVerified: u.EmailVerified,
		Active:        u.Active,
		Blocked:       u.Blocked,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toAuthData(u domain.User, pair domain.TokenPair) identsdk.AuthData {
	return identsdk.AuthData{
		User:         toUserResponse(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}
}

// writeServiceError maps service sentinel errors onto the uniform envelope.
// Anything unrecognized is logged and reported as a plain 500 so internals
// never leak to clients.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrAccountBlocked):
		httpx.WriteError(w, http.StatusForbidden, "account is blocked")
	case errors.Is(err, service.ErrAccountInactive):
		httpx.WriteError(w, http.StatusForbidden, "account is not active")
	case errors.Is(err, service.ErrSessionRevoked):
		httpx.WriteErrorCode(w, http.StatusUnauthorized, httpx.CodeTokenInvalid, "session has been revoked")
	case errors.Is(err, service.ErrTokenExpired):
		httpx.WriteErrorCode(w, http.StatusUnauthorized, httpx.CodeTokenExpired, "token has expired")
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteErrorCode(w, http.StatusUnauthorized, httpx.CodeTokenInvalid, "token is invalid")
	case errors.Is(err, service.ErrInviteConsumed):
		httpx.WriteError(w, http.StatusConflict, "invitation has already been accepted")
	case errors.Is(err, service.ErrWrongPassword):
		httpx.WriteError(w, http.StatusBadRequest, "current password is incorrect")
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "email is already registered")
	case errors.Is(err, service.ErrSelfDemotion):
		httpx.WriteError(w, http.StatusBadRequest, "cannot modify your own account")
	case errors.Is(err, social.ErrUnknownProvider):
		httpx.WriteError(w, http.StatusBadRequest, "unsupported social provider")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user not found")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// mustPrincipal pulls the authenticated principal; the auth middleware
// guarantees presence on secured routes.
func mustPrincipal(w http.ResponseWriter, r *http.Request) (httpx.Principal, bool) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return httpx.Principal{}, false
	}
	return p, true
}
