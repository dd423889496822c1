package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// UserIDKey holds the internal ID of the authenticated user.
	UserIDKey contextKey = "userID"

	// UserEmailKey holds the authenticated user's email.
	UserEmailKey contextKey = "userEmail"
)

// SetUserID stores the internal user ID. Only the auth adapter should call it
// outside of tests.
func SetUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}
