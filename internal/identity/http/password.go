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

// PasswordHandler serves password change and recovery endpoints.
type PasswordHandler struct {
	AuthService *service.AuthService
}

type forgotPasswordRequest struct {
	identsdk.ForgotPasswordRequest
}

func (r forgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r.ForgotPasswordRequest,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// HandleForgot godoc
//
//	@Summary		Request password reset
//	@Description	Emails a single-use reset link. Always returns 200 so the endpoint cannot be used to probe which emails are registered.
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identsdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	identsdk.Envelope[any]
//	@Failure		400		{object}	identsdk.Envelope[any]	"validation errors"
//	@Router			/v1/users/forgot-password [post]
func (h *PasswordHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.AuthService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "if the email is registered, a reset link has been sent")
}

type resetPasswordRequest struct {
	identsdk.ResetPasswordRequest
}

func (r resetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r.ResetPasswordRequest,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.By(cryptox.ValidateStrength)),
		validation.Field(&r.ConfirmPassword, validation.Required,
			validation.In(r.Password).Error("must match password")),
	)
}

// HandleReset godoc
//
//	@Summary		Reset password
//	@Description	Consumes a reset token from the emailed link and installs the new password. All existing sessions are revoked.
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identsdk.ResetPasswordRequest	true	"Reset token and new password"
//	@Success		200		{object}	identsdk.Envelope[any]
//	@Failure		400		{object}	identsdk.Envelope[any]	"validation errors"
//	@Failure		401		{object}	identsdk.Envelope[any]	"token invalid, expired, or already used"
//	@Router			/v1/users/reset-password [post]
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "password has been reset")
}

type changePasswordRequest struct {
	identsdk.ChangePasswordRequest
}

// CurrentPassword is not required here: accounts created through a social
// provider have no password yet, and the service only verifies the current
// one when a hash exists.
func (r changePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r.ChangePasswordRequest,
		validation.Field(&r.NewPassword, validation.Required, validation.By(cryptox.ValidateStrength)),
		validation.Field(&r.ConfirmPassword, validation.Required,
			validation.In(r.NewPassword).Error("must match newPassword")),
	)
}

// HandleChange godoc
//
//	@Summary		Change password
//	@Description	Swaps the password after verifying the current one. Social-only accounts set their first password without one. The session is revoked, so the client must log in again.
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		identsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	identsdk.Envelope[any]
//	@Failure		400		{object}	identsdk.Envelope[any]	"wrong current password or weak new password"
//	@Failure		401		{object}	identsdk.Envelope[any]
//	@Router			/v1/users/change-password [post]
func (h *PasswordHandler) HandleChange(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.AuthService.ChangePassword(r.Context(), p.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "password changed, please log in again")
}
