package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/philly/snapgram/internal/adapters/rest/middleware"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/users/application"
)

type UserHandler struct {
	*BaseHandler
	service *application.UserService
}

func NewUserHandler(base *BaseHandler, service *application.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		service:     service,
	}
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitnil,min=1"`
	Bio      *string `json:"bio"`
}

type ChangeUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

// ProvisionUser creates the user record for a freshly verified identity. It
// runs behind the JWT middleware only, since the user does not exist yet.
func (h *UserHandler) ProvisionUser(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetJWTUserID(r.Context())
	if !ok {
		h.WriteJSONError(w, r, string(apperror.CodeUnauthorized), "User ID not found in context", http.StatusUnauthorized)
		return
	}
	email, _ := middleware.GetJWTUserEmail(r.Context())

	user, err := h.service.ProvisionUser(r.Context(), subject, email, middleware.GetJWTPicture(r.Context()))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, toUserResponse(user, true), http.StatusCreated)
}

func (h *UserHandler) GetUserData(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetUserData(r.Context(), h.GetUserIDFromContext(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	var resp UserDataResponse
	if profile != nil {
		p := toProfileResponse(profile, true)
		resp.User = &p
	}
	h.WriteJSONResponse(w, r, resp, http.StatusOK)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), h.GetUserIDFromContext(r), application.UpdateProfileParams{
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, toUserResponse(user, true), http.StatusOK)
}

func (h *UserHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req ChangeUsernameRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.ChangeUsername(r.Context(), h.GetUserIDFromContext(r), req.Username)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, toUserResponse(user, true), http.StatusOK)
}

func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	results := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		results[i] = toProfileResponse(p, false)
	}
	h.WriteJSONResponse(w, r, map[string]any{"users": results}, http.StatusOK)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, toProfileResponse(profile, false), http.StatusOK)
}

func (h *UserHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	following, err := h.service.IsFollowing(r.Context(), h.GetUserIDFromContext(r), chi.URLParam(r, "username"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, map[string]bool{"following": following}, http.StatusOK)
}

func (h *UserHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.service.ToggleFollow(r.Context(), h.GetUserIDFromContext(r), chi.URLParam(r, "username"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, ToggleResponse{Result: outcome}, http.StatusOK)
}
