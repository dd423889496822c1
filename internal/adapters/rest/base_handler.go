package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	playground "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/philly/snapgram/internal/adapters/rest/middleware"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/platform/logger"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error        string `json:"error"`
	BusinessCode string `json:"business_code,omitempty"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger   logger.Logger
	validate *playground.Validate
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger:   logger,
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// WriteJSONError writes a JSON error response
func (h *BaseHandler) WriteJSONError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	h.writeError(w, r, ErrorResponse{Error: code, Message: message}, statusCode)
}

// WriteJSONResponse writes a successful JSON response
func (h *BaseHandler) WriteJSONResponse(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// HandleError renders err. AppErrors keep their status and codes; anything
// else is logged and hidden behind a generic 500.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.From(err)
	if !ok {
		h.logger.Error(r.Context(), "unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		h.WriteJSONError(w, r, string(apperror.CodeInternalError), "An unexpected error occurred", http.StatusInternalServerError)
		return
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			"error", appErr.Message,
			"cause", appErr.Inner,
			"path", r.URL.Path,
		)
	}

	h.writeError(w, r, ErrorResponse{
		Error:        string(appErr.Code),
		BusinessCode: string(appErr.BusinessCode),
		Message:      appErr.Message,
		Details:      appErr.Details,
	}, appErr.HTTPStatus)
}

func (h *BaseHandler) writeError(w http.ResponseWriter, r *http.Request, body ErrorResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(r.Context(), "failed to encode error response",
			"error", err,
			"error_code", body.Error,
			"status_code", statusCode,
		)
	}
}

// GetUserIDFromContext returns the internal user ID set by the auth adapter.
// Routes using it are always mounted behind that middleware, so a missing ID
// is a wiring bug.
func (h *BaseHandler) GetUserIDFromContext(r *http.Request) uuid.UUID {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		panic("rest: user ID missing from request context")
	}
	return userID
}

// DecodeAndValidate reads a JSON body into dst and runs its validate tags.
// It writes the error response itself and reports whether the caller may
// continue.
func (h *BaseHandler) DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.WriteJSONError(w, r, string(apperror.CodeValidationFailed), "Invalid request body", http.StatusBadRequest)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs playground.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			h.HandleError(w, r, err)
			return false
		}
		details := make([]FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		h.writeError(w, r, ErrorResponse{
			Error:        string(apperror.CodeValidationFailed),
			BusinessCode: string(apperror.BusinessCodeInvalidFormat),
			Message:      "Request validation failed",
			Details:      details,
		}, http.StatusBadRequest)
		return false
	}
	return true
}

// PathUUID binds the named chi URL parameter as a UUID.
func (h *BaseHandler) PathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		h.WriteJSONError(w, r, string(apperror.CodeValidationFailed), "Invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
