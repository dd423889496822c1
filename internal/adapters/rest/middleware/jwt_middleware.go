package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var (
	ErrMissingToken   = errors.New("missing authentication token")
	ErrInvalidToken   = errors.New("invalid authentication token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrMissingSubject = errors.New("missing subject in token")
	ErrMissingEmail   = errors.New("missing email in token")
)

type jwtContextKey string

const (
	JWTUserIDContextKey    jwtContextKey = "jwt_user_id"
	JWTUserEmailContextKey jwtContextKey = "jwt_email"
	JWTPictureContextKey   jwtContextKey = "jwt_picture"
)

// JWTMiddleware verifies bearer tokens against a cached JWKS and exposes the
// identity claims to the next handler.
type JWTMiddleware struct {
	jwksEndpoint string
	issuer       string
	cache        *jwk.Cache
}

func NewJWTMiddleware(ctx context.Context, jwksEndpoint string, issuer string) (*JWTMiddleware, error) {
	cache, err := jwk.NewCache(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	if err := cache.Register(ctx, jwksEndpoint); err != nil {
		return nil, fmt.Errorf("failed to register JWKS URL: %w", err)
	}

	// Fail startup on a bad endpoint rather than on the first request.
	if _, err := cache.Lookup(ctx, jwksEndpoint); err != nil {
		return nil, fmt.Errorf("failed to fetch initial JWKS: %w", err)
	}

	return &JWTMiddleware{
		jwksEndpoint: jwksEndpoint,
		issuer:       issuer,
		cache:        cache,
	}, nil
}

func (m *JWTMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteJSONError(w, ErrorCodeUnauthorized, ErrMissingToken.Error(), http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			WriteJSONError(w, ErrorCodeUnauthorized, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		keySet, err := m.cache.Lookup(r.Context(), m.jwksEndpoint)
		if err != nil {
			WriteJSONError(w, ErrorCodeInternalServerError, "Failed to load signing keys", http.StatusInternalServerError)
			return
		}

		token, err := jwt.ParseString(
			tokenString,
			jwt.WithKeySet(keySet),
			jwt.WithValidate(true),
			jwt.WithIssuer(m.issuer),
		)
		if err != nil {
			if strings.Contains(err.Error(), "exp not satisfied") || strings.Contains(err.Error(), "expired") {
				WriteJSONError(w, ErrorCodeTokenExpired, ErrTokenExpired.Error(), http.StatusUnauthorized)
				return
			}
			WriteJSONError(w, ErrorCodeInvalidToken, ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		var subject string
		if err := token.Get("sub", &subject); err != nil || subject == "" {
			WriteJSONError(w, ErrorCodeInvalidToken, ErrMissingSubject.Error(), http.StatusUnauthorized)
			return
		}

		var email string
		if err := token.Get("email", &email); err != nil || email == "" {
			WriteJSONError(w, ErrorCodeInvalidToken, ErrMissingEmail.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), JWTUserIDContextKey, subject)
		ctx = context.WithValue(ctx, JWTUserEmailContextKey, email)

		// Optional: providers that know the avatar put it here.
		var picture string
		if err := token.Get("picture", &picture); err == nil && picture != "" {
			ctx = context.WithValue(ctx, JWTPictureContextKey, picture)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetJWTUserID returns the identity-provider subject set by JWTMiddleware.
func GetJWTUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(JWTUserIDContextKey).(string)
	return userID, ok
}

func GetJWTUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(JWTUserEmailContextKey).(string)
	return email, ok
}

func GetJWTPicture(ctx context.Context) string {
	picture, _ := ctx.Value(JWTPictureContextKey).(string)
	return picture
}

// WithJWTClaims stores identity claims the way JWTMiddleware does. Tests and
// alternative authenticators use it to stand in for a verified token.
func WithJWTClaims(ctx context.Context, subject, email string) context.Context {
	ctx = context.WithValue(ctx, JWTUserIDContextKey, subject)
	return context.WithValue(ctx, JWTUserEmailContextKey, email)
}
