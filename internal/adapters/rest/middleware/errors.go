package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/philly/snapgram/internal/platform/apperror"
)

// Error codes written by middleware. They share the vocabulary of the
// handlers so clients see one error shape.
const (
	ErrorCodeUnauthorized        = string(apperror.CodeUnauthorized)
	ErrorCodeNotFound            = string(apperror.CodeNotFound)
	ErrorCodeInvalidToken        = "INVALID_TOKEN"
	ErrorCodeTokenExpired        = "TOKEN_EXPIRED"
	ErrorCodeInternalServerError = string(apperror.CodeInternalError)
)

// WriteJSONError writes a JSON error response in the same format as
// rest.BaseHandler.
func WriteJSONError(w http.ResponseWriter, code string, message string, status int) {
	WriteJSONErrorWithDetails(w, code, message, status, nil)
}

// WriteJSONErrorWithDetails writes a JSON error response with additional
// top-level fields.
func WriteJSONErrorWithDetails(w http.ResponseWriter, code string, message string, status int, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]any{
		"error":   code,
		"message": message,
	}
	for k, v := range details {
		errorResp[k] = v
	}

	// Already on the error path.
	_ = json.NewEncoder(w).Encode(errorResp)
}
