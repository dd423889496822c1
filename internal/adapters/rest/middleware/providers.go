package middleware

import (
	"context"

	"github.com/google/wire"
	"github.com/philly/snapgram/internal/users/application"
)

// ProviderSet is the wire provider set for middleware components
var ProviderSet = wire.NewSet(
	ProvideJWTMiddleware,
	NewAuthAdapter,
	wire.Bind(new(UserResolver), new(*application.UserService)),
)

// JWTConfig carries the minimal settings needed to construct the JWT middleware
type JWTConfig struct {
	JWKS   string
	Issuer string
}

func ProvideJWTMiddleware(ctx context.Context, cfg JWTConfig) (*JWTMiddleware, error) {
	return NewJWTMiddleware(ctx, cfg.JWKS, cfg.Issuer)
}
