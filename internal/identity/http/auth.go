package http

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/tabwriterlabs/identity/internal/identity/service"
	"github.com/tabwriterlabs/identity/pkg/cryptox"
	"github.com/tabwriterlabs/identity/pkg/httpx"
	"github.com/tabwriterlabs/identity/pkg/identsdk"
)

// AuthHandler serves the session lifecycle endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	identsdk.LoginRequest
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r.LoginRequest,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Authenticates an email/password pair and returns access and refresh tokens.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	identsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	identsdk.Envelope[identsdk.AuthData]
//	@Failure		400		{object}	identsdk.Envelope[any]	"validation errors"
//	@Failure		401		{object}	identsdk.Envelope[any]	"invalid credentials"
//	@Failure		403		{object}	identsdk.Envelope[any]	"account blocked or inactive"
//	@Router			/v1/users/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteData(w, http.StatusOK, toAuthData(user, pair))
}

type registerRequest struct {
	identsdk.RegisterRequest
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r.RegisterRequest,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.Password, validation.Required, validation.By(cryptox.ValidateStrength)),
	)
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Creates a new account and returns a token pair for it.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	identsdk.RegisterRequest	true	"New account"
//	@Success		201		{object}	identsdk.Envelope[identsdk.AuthData]
//	@Failure		400		{object}	identsdk.Envelope[any]	"validation errors"
//	@Failure		409		{object}	identsdk.Envelope[any]	"email already registered"
//	@Router			/v1/users/register [post]
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.AuthService.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteData(w, http.StatusCreated, toAuthData(user, pair))
}

type refreshRequest struct {
	identsdk.RefreshRequest
}

func (r refreshRequest) Validate() error {
	return validation.ValidateStruct(&r.RefreshRequest,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// HandleRefresh godoc
//
//	@Summary		Refresh tokens
//	@Description	Rotates the refresh token: the presented token is revoked and a new pair is issued.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	identsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	identsdk.Envelope[identsdk.TokenData]
//	@Failure		401		{object}	identsdk.Envelope[any]	"token invalid, expired, or revoked"
//	@Router			/v1/users/refresh-token [post]
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteData(w, http.StatusOK, identsdk.TokenData{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Revokes the current session's refresh token. Idempotent.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	identsdk.Envelope[any]
//	@Failure		401	{object}	identsdk.Envelope[any]
//	@Router			/v1/users/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}

	if err := h.AuthService.Logout(r.Context(), p.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "logged out")
}
