package rest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/posts/application"
)

type PostsHandler struct {
	*BaseHandler
	service *application.PostsService
}

func NewPostsHandler(base *BaseHandler, service *application.PostsService) *PostsHandler {
	return &PostsHandler{
		BaseHandler: base,
		service:     service,
	}
}

type CreatePostRequest struct {
	MediaID uuid.UUID `json:"media_id" validate:"required"`
	Caption string    `json:"caption"`
}

type UpdatePostRequest struct {
	Caption string `json:"caption"`
}

func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.service.CreatePost(r.Context(), h.GetUserIDFromContext(r), application.CreatePostParams{
		MediaID: req.MediaID,
		Caption: req.Caption,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, toPostResponse(post), http.StatusCreated)
}

func (h *PostsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}

	details, err := h.service.GetPost(r.Context(), h.GetUserIDFromContext(r), postID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, toPostDetailsResponse(details), http.StatusOK)
}

func (h *PostsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdatePostRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.service.UpdatePost(r.Context(), h.GetUserIDFromContext(r), postID, application.UpdatePostParams{
		Caption: req.Caption,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, toPostResponse(post), http.StatusOK)
}

func (h *PostsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePost(r.Context(), h.GetUserIDFromContext(r), postID); err != nil {
		h.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostsHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}

	outcome, err := h.service.ToggleLike(r.Context(), h.GetUserIDFromContext(r), postID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, ToggleResponse{Result: outcome}, http.StatusOK)
}

// ListRecentPosts serves the explore feed. limit is optional; the service
// clamps it.
func (h *PostsHandler) ListRecentPosts(w http.ResponseWriter, r *http.Request) {
	var limit int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		h.WriteJSONError(w, r, string(apperror.CodeValidationFailed), "Invalid limit", http.StatusBadRequest)
		return
	}

	items, err := h.service.ListRecentPosts(r.Context(), limit)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, toFeedResponse(items), http.StatusOK)
}

func (h *PostsHandler) GetLatestPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetLatestPost(r.Context(), h.GetUserIDFromContext(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, toPostResponse(post), http.StatusOK)
}

func (h *PostsHandler) GetMediaURL(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}

	url, err := h.service.GetMediaURL(r.Context(), mediaID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, MediaURLResponse{URL: url}, http.StatusOK)
}
