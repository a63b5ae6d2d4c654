package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/users/domain"
	"github.com/aussiebroadwan/accounts/internal/users/service"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
	"github.com/aussiebroadwan/accounts/pkg/usersdk"
)

// UsersHandler serves registration, the availability checks and the
// authenticated profile endpoints.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleRegister handles POST /v1/users
//
//	@Summary		Register
//	@Description	Creates a user. id, email and nickName must all be unused.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usersdk.RegisterRequest	true	"New user"
//	@Success		201		{object}	usersdk.UserResponse
//	@Failure		400		{object}	httpx.APIError	"missing or malformed fields"
//	@Failure		409		{object}	httpx.APIError	"id, email or nickName already taken"
//	@Failure		500		{object}	httpx.APIError
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req usersdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.UserService.Register(ctx, service.RegisterInput{
		ID:       req.ID,
		Name:     req.Name,
		Password: req.Password,
		Email:    req.Email,
		NickName: req.NickName,
	})
	if err != nil {
		writeServiceError(w, r, "register", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleCheckID handles GET /v1/users/id/{id}
//
//	@Summary		Check id
//	@Description	200 when the id is free, 400 already_taken otherwise.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string	true	"User id"
//	@Success		200	{object}	usersdk.AvailabilityResponse
//	@Failure		400	{object}	httpx.APIError
//	@Router			/v1/users/id/{id} [get].
func (h *UsersHandler) HandleCheckID(w http.ResponseWriter, r *http.Request) {
	h.checkTaken(w, r, r.PathValue("id"), "id", h.UserService.IsIDTaken)
}

// HandleCheckNickName handles GET /v1/users/nickName/{nickName}
//
//	@Summary		Check nickname
//	@Description	200 when the nickname is free, 400 already_taken otherwise.
//	@Tags			Users
//	@Produce		json
//	@Param			nickName	path		string	true	"Nickname"
//	@Success		200			{object}	usersdk.AvailabilityResponse
//	@Failure		400			{object}	httpx.APIError
//	@Router			/v1/users/nickName/{nickName} [get].
func (h *UsersHandler) HandleCheckNickName(w http.ResponseWriter, r *http.Request) {
	h.checkTaken(w, r, r.PathValue("nickName"), "nickname", h.UserService.IsNickNameTaken)
}

// HandleCheckEmail handles GET /v1/users/email/{email}
//
//	@Summary		Check email
//	@Description	200 when the email is free, 400 already_taken otherwise.
//	@Tags			Users
//	@Produce		json
//	@Param			email	path		string	true	"Email address"
//	@Success		200		{object}	usersdk.AvailabilityResponse
//	@Failure		400		{object}	httpx.APIError
//	@Router			/v1/users/email/{email} [get].
func (h *UsersHandler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	h.checkTaken(w, r, r.PathValue("email"), "email", h.UserService.IsEmailTaken)
}

func (h *UsersHandler) checkTaken(
	w http.ResponseWriter,
	r *http.Request,
	value, field string,
	taken func(context.Context, string) (bool, error),
) {
	if value == "" {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	found, err := taken(r.Context(), value)
	if err != nil {
		writeServiceError(w, r, "check "+field, err)
		return
	}
	if found {
		httpx.NewAPIError(http.StatusBadRequest, httpx.CodeAlreadyTaken, field+" is already taken").WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, usersdk.AvailabilityResponse{Available: true})
}

// HandleMe handles GET /v1/users
//
//	@Summary		Current user
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	usersdk.UserResponse
//	@Failure		401	{object}	httpx.APIError	"invalid or missing access token"
//	@Failure		408	{object}	httpx.APIError	"access token expired, call /v1/auth/refresh"
//	@Failure		404	{object}	httpx.APIError
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.ErrMissingToken.WriteError(w)
		return
	}

	u, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "load user", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleUpdate handles PUT /v1/users
//
//	@Summary		Update profile
//	@Description	Changes nickName, profileImage, level or exp. Omitted fields are kept.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usersdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	usersdk.UserResponse
//	@Failure		400		{object}	httpx.APIError
//	@Failure		401		{object}	httpx.APIError
//	@Failure		408		{object}	httpx.APIError
//	@Failure		409		{object}	httpx.APIError	"nickName already taken"
//	@Router			/v1/users [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.ErrMissingToken.WriteError(w)
		return
	}

	var req usersdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.UserService.UpdateProfile(r.Context(), userID, service.ProfileUpdate{
		NickName:     req.NickName,
		ProfileImage: req.ProfileImage,
		Level:        req.Level,
		Exp:          req.Exp,
	})
	if err != nil {
		writeServiceError(w, r, "update profile", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleChangePassword handles PUT /v1/users/password
//
//	@Summary		Change password
//	@Description	Verifies the current password, stores the new one and ends the session.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	usersdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204
//	@Failure		400	{object}	httpx.APIError	"current password is incorrect"
//	@Failure		401	{object}	httpx.APIError
//	@Failure		408	{object}	httpx.APIError
//	@Router			/v1/users/password [put].
func (h *UsersHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.ErrMissingToken.WriteError(w)
		return
	}

	var req usersdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.UserService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, "change password", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /v1/users
//
//	@Summary		Delete account
//	@Tags			Users
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	httpx.APIError
//	@Failure		404	{object}	httpx.APIError
//	@Failure		408	{object}	httpx.APIError
//	@Router			/v1/users [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.ErrMissingToken.WriteError(w)
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), userID); err != nil {
		writeServiceError(w, r, "delete user", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toUserResponse(u domain.User) usersdk.UserResponse {
	return usersdk.UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		NickName:     u.NickName,
		ProfileImage: u.ProfileImage,
		Level:        u.Level,
		Exp:          u.Exp,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	apiErr, expected := apiError(err)
	log := slogx.FromContext(r.Context())
	if expected {
		log.Info(op+" rejected", "status", apiErr.StatusCode, "code", apiErr.Code, "err", err)
	} else {
		log.Error(op+" failed", "err", err)
	}
	apiErr.WriteError(w)
}
