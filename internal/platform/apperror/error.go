package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type every service returns across a port boundary.
type AppError struct {
	Code         ErrorCode    // General category (e.g., NOT_FOUND)
	BusinessCode BusinessCode // Precise reason (e.g., POST_NOT_FOUND)
	Message      string       // User-facing message
	HTTPStatus   int          // HTTP status code
	Details      any          // Extra details (e.g., validation errors)
	Inner        error        // Wrapped underlying error
}

func (e *AppError) Error() string { return e.Message }
func (e *AppError) Unwrap() error { return e.Inner }

// WithDetails returns a copy of the error carrying details. Package-level
// sentinels stay untouched.
func (e *AppError) WithDetails(details any) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// New creates a new AppError.
func New(code ErrorCode, bizCode BusinessCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, BusinessCode: bizCode, Message: message, HTTPStatus: httpStatus}
}

// Wrap creates a new AppError that wraps an existing error.
func Wrap(inner error, code ErrorCode, bizCode BusinessCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, BusinessCode: bizCode, Message: message, HTTPStatus: httpStatus, Inner: inner}
}

func NotFound(bizCode BusinessCode, message string) *AppError {
	return New(CodeNotFound, bizCode, message, http.StatusNotFound)
}

func Forbidden(bizCode BusinessCode, message string) *AppError {
	return New(CodeForbidden, bizCode, message, http.StatusForbidden)
}

func Conflict(bizCode BusinessCode, message string) *AppError {
	return New(CodeConflict, bizCode, message, http.StatusConflict)
}

func Validation(bizCode BusinessCode, message string) *AppError {
	return New(CodeValidationFailed, bizCode, message, http.StatusBadRequest)
}

// Internal wraps an infrastructure failure. The inner error is kept for logs
// and never shown to the caller.
func Internal(inner error, message string) *AppError {
	return Wrap(inner, CodeInternalError, BusinessCodeGeneral, message, http.StatusInternalServerError)
}

// From extracts the first AppError in err's chain.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given category.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := From(err)
	return ok && appErr.Code == code
}

// Is allows errors.Is to work with AppError
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.BusinessCode == t.BusinessCode
}

// Format implements fmt.Formatter for better error output
func (e *AppError) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			_, _ = fmt.Fprintf(f, "Code: %s, BusinessCode: %s, Message: %s, HTTPStatus: %d",
				e.Code, e.BusinessCode, e.Message, e.HTTPStatus)
			if e.Inner != nil {
				_, _ = fmt.Fprintf(f, "\nCaused by: %+v", e.Inner)
			}
			if e.Details != nil {
				_, _ = fmt.Fprintf(f, "\nDetails: %+v", e.Details)
			}
		} else {
			_, _ = fmt.Fprint(f, e.Message)
		}
	case 's':
		_, _ = fmt.Fprint(f, e.Message)
	}
}
