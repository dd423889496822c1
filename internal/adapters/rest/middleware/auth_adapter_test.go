package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/adapters/rest/middleware"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	ids map[string]uuid.UUID
	err error
}

func (s stubResolver) ResolveExternalID(_ context.Context, externalID string) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	id, ok := s.ids[externalID]
	if !ok {
		return uuid.Nil, apperror.NotFound(apperror.BusinessCodeUserNotFound, "no user")
	}
	return id, nil
}

func serveAdapter(t *testing.T, resolver middleware.UserResolver, ctx context.Context) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var seen *http.Request
	adapter := middleware.NewAuthAdapter(resolver, memstore.Logger())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	adapter.Middleware(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthAdapterResolvesSubject(t *testing.T) {
	userID := uuid.New()
	ctx := middleware.WithJWTClaims(context.Background(), "sub-1", "ada@example.com")

	rec, seen := serveAdapter(t, stubResolver{ids: map[string]uuid.UUID{"sub-1": userID}}, ctx)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	got, ok := middleware.GetUserID(seen.Context())
	require.True(t, ok)
	assert.Equal(t, userID, got)
	email, ok := middleware.GetUserEmail(seen.Context())
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", email)
}

func TestAuthAdapterFailures(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		resolver stubResolver
		status   int
		code     string
	}{
		{
			name:   "no subject",
			ctx:    context.Background(),
			status: http.StatusUnauthorized,
			code:   middleware.ErrorCodeUnauthorized,
		},
		{
			name:   "unprovisioned identity",
			ctx:    middleware.WithJWTClaims(context.Background(), "sub-2", "new@example.com"),
			status: http.StatusNotFound,
			code:   middleware.ErrorCodeNotFound,
		},
		{
			name:     "resolver failure",
			ctx:      middleware.WithJWTClaims(context.Background(), "sub-1", "ada@example.com"),
			resolver: stubResolver{err: errors.New("connection refused")},
			status:   http.StatusInternalServerError,
			code:     middleware.ErrorCodeInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, seen := serveAdapter(t, tt.resolver, tt.ctx)

			assert.Nil(t, seen)
			assert.Equal(t, tt.status, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["error"])
		})
	}
}
