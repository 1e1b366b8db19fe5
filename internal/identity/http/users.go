package http

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/service"
	"github.com/tabwriterlabs/identity/pkg/httpx"
	"github.com/tabwriterlabs/identity/pkg/identsdk"
)

// UsersHandler serves the profile and admin user-management endpoints.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleMe godoc
//
//	@Summary		Current user
//	@Description	Returns the authenticated account's profile.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	identsdk.Envelope[identsdk.User]
//	@Failure		401	{object}	identsdk.Envelope[any]
//	@Router			/v1/users/me [get]
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), p.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toUserResponse(user))
}

// HandleList godoc
//
//	@Summary		List users
//	@Description	Returns every account, newest first.
//	@Tags			Admin Management
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	identsdk.Envelope[[]identsdk.User]
//	@Failure		403	{object}	identsdk.Envelope[any]	"requires ADMIN"
//	@Router			/v1/users [get]
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]identsdk.User, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpx.WriteData(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Get a user
//	@Description	Returns one account by id.
//	@Tags			Admin Management
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"User id"
//	@Success		200	{object}	identsdk.Envelope[identsdk.User]
//	@Failure		404	{object}	identsdk.Envelope[any]
//	@Router			/v1/users/{id} [get]
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toUserResponse(user))
}

type updateUserRequest struct {
	identsdk.UpdateUserRequest
}

func (r updateUserRequest) Validate() error {
	return validation.ValidateStruct(&r.UpdateUserRequest,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.Role, validation.Required,
			validation.In(string(domain.RoleUser), string(domain.RoleAdmin))),
	)
}

// HandleUpdate godoc
//
//	@Summary		Update a user
//	@Description	Applies an admin edit to another account: name, role, active, and blocked flags. Blocking also revokes the account's session. Admins cannot edit their own record.
//	@Tags			Admin Management
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"User id"
//	@Param			request	body		identsdk.UpdateUserRequest	true	"New profile values"
//	@Success		200		{object}	identsdk.Envelope[identsdk.User]
//	@Failure		400		{object}	identsdk.Envelope[any]	"validation errors or self-edit"
//	@Failure		404		{object}	identsdk.Envelope[any]
//	@Router			/v1/users/{id} [put]
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.UserService.UpdateUser(
		r.Context(), p.ID, r.PathValue("id"),
		req.Name, domain.Role(req.Role), req.Active, req.Blocked,
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toUserResponse(user))
}

// HandleDelete godoc
//
//	@Summary		Delete a user
//	@Description	Removes an account. Admins cannot delete themselves.
//	@Tags			Admin Management
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"User id"
//	@Success		200	{object}	identsdk.Envelope[any]
//	@Failure		400	{object}	identsdk.Envelope[any]	"self-delete"
//	@Failure		404	{object}	identsdk.Envelope[any]
//	@Router			/v1/users/{id} [delete]
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), p.ID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "user deleted")
}
