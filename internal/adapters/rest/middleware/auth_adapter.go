package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/platform/logger"
)

// UserResolver maps an identity-provider subject to the internal user ID.
type UserResolver interface {
	ResolveExternalID(ctx context.Context, externalID string) (uuid.UUID, error)
}

// AuthAdapter turns the subject set by JWTMiddleware into the internal user
// ID every service takes as its acting principal. It must run after
// JWTMiddleware.
//
// Each authenticated request costs one lookup. Carrying the internal ID as a
// custom claim would remove it, but the identity provider is not under our
// control.
type AuthAdapter struct {
	users  UserResolver
	logger logger.Logger
}

func NewAuthAdapter(users UserResolver, logger logger.Logger) *AuthAdapter {
	return &AuthAdapter{
		users:  users,
		logger: logger,
	}
}

func (a *AuthAdapter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		subject, ok := GetJWTUserID(ctx)
		if !ok {
			a.logger.Warn(ctx, "subject not found in context")
			WriteJSONError(w, ErrorCodeUnauthorized, "Authentication required", http.StatusUnauthorized)
			return
		}

		userID, err := a.users.ResolveExternalID(ctx, subject)
		if apperror.HasCode(err, apperror.CodeNotFound) {
			a.logger.Debug(ctx, "identity not provisioned", "subject", subject)
			WriteJSONErrorWithDetails(w, ErrorCodeNotFound, "User profile not found", http.StatusNotFound,
				map[string]any{"provision": "POST /api/v1/users"})
			return
		}
		if err != nil {
			a.logger.Error(ctx, "failed to resolve user",
				"subject", subject,
				"error", err,
			)
			WriteJSONError(w, ErrorCodeInternalServerError, "Failed to resolve user", http.StatusInternalServerError)
			return
		}

		ctx = SetUserID(ctx, userID)
		ctx = logger.WithAttrs(ctx, "user_id", userID.String())
		if email, ok := GetJWTUserEmail(ctx); ok {
			ctx = context.WithValue(ctx, UserEmailKey, email)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
