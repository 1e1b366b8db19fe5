package http

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/service"
	"github.com/tabwriterlabs/identity/pkg/cryptox"
	"github.com/tabwriterlabs/identity/pkg/httpx"
	"github.com/tabwriterlabs/identity/pkg/identsdk"
)

// InviteHandler serves the invitation endpoints.
type InviteHandler struct {
	AuthService *service.AuthService
}

type inviteRequest struct {
	identsdk.InviteRequest
}

func (r inviteRequest) Validate() error {
	return validation.ValidateStruct(&r.InviteRequest,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.Role, validation.In(string(domain.RoleUser), string(domain.RoleAdmin))),
	)
}

// HandleInvite godoc
//
//	@Summary		Invite a user
//	@Description	Creates an inactive account and emails an invitation link. The account becomes usable once the invitee accepts and sets a password.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		identsdk.InviteRequest	true	"Invitee"
//	@Success		201		{object}	identsdk.Envelope[identsdk.User]
//	@Failure		400		{object}	identsdk.Envelope[any]	"validation errors"
//	@Failure		403		{object}	identsdk.Envelope[any]	"requires ADMIN"
//	@Failure		409		{object}	identsdk.Envelope[any]	"email already registered"
//	@Router			/v1/users/invite [post]
func (h *InviteHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleUser
	}

	user, err := h.AuthService.InviteUser(r.Context(), req.Email, req.Name, role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, toUserResponse(user))
}

type acceptInvitationRequest struct {
	identsdk.AcceptInvitationRequest
}

func (r acceptInvitationRequest) Validate() error {
	return validation.ValidateStruct(&r.AcceptInvitationRequest,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.By(cryptox.ValidateStrength)),
		validation.Field(&r.ConfirmPassword, validation.Required,
			validation.In(r.Password).Error("must match password")),
	)
}

// HandleAccept godoc
//
//	@Summary		Accept an invitation
//	@Description	Consumes an invite token, sets the password, activates the account, and returns a token pair. Each invitation can only be accepted once.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identsdk.AcceptInvitationRequest	true	"Invite token and chosen password"
//	@Success		200		{object}	identsdk.Envelope[identsdk.AuthData]
//	@Failure		400		{object}	identsdk.Envelope[any]	"validation errors"
//	@Failure		401		{object}	identsdk.Envelope[any]	"token invalid or expired"
//	@Failure		409		{object}	identsdk.Envelope[any]	"invitation already accepted"
//	@Router			/v1/users/verify-invitation [post]
func (h *InviteHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req acceptInvitationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.AuthService.AcceptInvitation(r.Context(), req.Token, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteData(w, http.StatusOK, toAuthData(user, pair))
}
