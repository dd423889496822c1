package rest

import (
	"net/http"

	"github.com/philly/snapgram/internal/comments/application"
)

type CommentsHandler struct {
	*BaseHandler
	service *application.CommentsService
}

func NewCommentsHandler(base *BaseHandler, service *application.CommentsService) *CommentsHandler {
	return &CommentsHandler{
		BaseHandler: base,
		service:     service,
	}
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}

func (h *CommentsHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req CreateCommentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	actorID := h.GetUserIDFromContext(r)
	comment, err := h.service.CreateComment(r.Context(), actorID, application.CreateCommentParams{
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, CommentResponse{
		ID:             comment.ID,
		PostID:         comment.PostID,
		Text:           comment.Text,
		CreatedAt:      comment.CreatedAt,
		Author:         AuthorResponse{ID: comment.AuthorID},
		CreatedByActor: true,
	}, http.StatusCreated)
}

func (h *CommentsHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}

	views, err := h.service.ListComments(r.Context(), h.GetUserIDFromContext(r), postID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp := CommentsResponse{Comments: make([]CommentResponse, len(views))}
	for i, v := range views {
		resp.Comments[i] = toCommentResponse(v)
	}
	h.WriteJSONResponse(w, r, resp, http.StatusOK)
}

func (h *CommentsHandler) ToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	commentID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}

	outcome, err := h.service.ToggleCommentLike(r.Context(), h.GetUserIDFromContext(r), commentID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, ToggleResponse{Result: outcome}, http.StatusOK)
}

func (h *CommentsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(r.Context(), h.GetUserIDFromContext(r), commentID); err != nil {
		h.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
