package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMiddlewareRejectsBeforeVerification(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no header", "", ErrMissingToken.Error()},
		{"not a bearer token", "Basic dXNlcjpwYXNz", "Invalid authorization header format"},
	}

	// The key cache is never reached on these paths.
	m := &JWTMiddleware{issuer: "https://issuer.test"}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			m.Middleware(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, ErrorCodeUnauthorized, body["error"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}
