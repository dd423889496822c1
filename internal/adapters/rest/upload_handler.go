package rest

import (
	"net/http"

	"github.com/philly/snapgram/internal/posts/application"
	"github.com/philly/snapgram/internal/posts/domain"
)

type UploadHandler struct {
	*BaseHandler
	service *application.UploadService
}

func NewUploadHandler(base *BaseHandler, service *application.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RequestUploadRequest is not tag-validated: a rejected file is reported in
// the body as a failure, not as a 400.
type RequestUploadRequest struct {
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Checksum    string `json:"checksum"`
}

// RequestUpload issues a presigned PUT URL. Both outcomes answer 200.
func (h *UploadHandler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	var req RequestUploadRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.RequestUpload(r.Context(), h.GetUserIDFromContext(r), domain.UploadRequest{
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		Checksum:    req.Checksum,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	var resp UploadResponse
	if result.OK() {
		resp.Success = &UploadTicketResponse{URL: result.Ticket.URL, MediaID: result.Ticket.MediaID}
	} else {
		resp.Failure = result.FailureReason
	}
	h.WriteJSONResponse(w, r, resp, http.StatusOK)
}
