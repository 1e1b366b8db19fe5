package http

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/service"
	"github.com/tabwriterlabs/identity/pkg/httpx"
	"github.com/tabwriterlabs/identity/pkg/identsdk"
)

// SocialHandler serves POST /v1/users/social/{provider}.
type SocialHandler struct {
	AuthService *service.AuthService
}

type socialLoginRequest struct {
	identsdk.SocialLoginRequest
}

func (r socialLoginRequest) Validate() error {
	return validation.ValidateStruct(&r.SocialLoginRequest,
		validation.Field(&r.AccessToken, validation.Required.When(r.IDToken == "").Error("either access_token or id_token is required")),
	)
}

// assertion returns whichever credential the provider flow supplied.
func (r socialLoginRequest) assertion() string {
	if r.IDToken != "" {
		return r.IDToken
	}
	return r.AccessToken
}

// HandleSocialLogin godoc
//
//	@Summary		Social login
//	@Description	Authenticates via a third-party provider. Google, Facebook, and LinkedIn take an OAuth access_token; Apple takes an id_token. The account is created on first login.
//	@Tags			Social Login
//	@Accept			json
//	@Produce		json
//	@Param			provider	path		string	true	"Provider"	Enums(google, facebook, linkedin, apple)
//	@Param			request		body		identsdk.SocialLoginRequest	true	"Provider assertion"
//	@Success		200			{object}	identsdk.Envelope[identsdk.AuthData]
//	@Failure		400			{object}	identsdk.Envelope[any]	"unsupported provider or missing assertion"
//	@Failure		401			{object}	identsdk.Envelope[any]	"assertion rejected by provider"
//	@Router			/v1/users/social/{provider} [post]
func (h *SocialHandler) HandleSocialLogin(w http.ResponseWriter, r *http.Request) {
	provider := domain.Provider(r.PathValue("provider"))

	var req socialLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.AuthService.SocialLogin(r.Context(), provider, req.assertion())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteData(w, http.StatusOK, toAuthData(user, pair))
}
