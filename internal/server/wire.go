//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/google/wire"
	"github.com/philly/snapgram/internal/adapters/metrics"
	"github.com/philly/snapgram/internal/adapters/postgres"
	"github.com/philly/snapgram/internal/adapters/rest"
	"github.com/philly/snapgram/internal/adapters/rest/middleware"
	"github.com/philly/snapgram/internal/adapters/s3store"
	commentsApp "github.com/philly/snapgram/internal/comments/application"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/logger"
	postsApp "github.com/philly/snapgram/internal/posts/application"
	postsPorts "github.com/philly/snapgram/internal/posts/ports"
	usersApp "github.com/philly/snapgram/internal/users/application"
)

var infrastructureSet = wire.NewSet(
	// Bootstrap phase
	LoadConfig,
	provideLoggerConfig,
	logger.ProviderSet,

	ConnectDatabase,
	postgres.ProviderSet,

	provideObjectStoreConfig,
	ConnectObjectStore,
	wire.Bind(new(postsPorts.ObjectStore), new(*s3store.Store)),

	eventbus.ProviderSet,
	provideMetrics,
)

// InitializeApp creates a fully configured App with all dependencies
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		infrastructureSet,

		ConnectRedis,
		provideUploadLimiter,

		// Application services
		usersApp.ProviderSet,
		postsApp.ProviderSet,
		commentsApp.ProviderSet,
		provideSweeperConfig,

		// REST handlers
		rest.ProviderSet,
		provideVersion,
		provideHealthChecks,

		// Auth middleware
		provideJWTConfig,
		middleware.ProviderSet,

		NewHTTPServer,
		NewApp,
	)
	return nil, nil, nil
}

// InitializeSweeper builds only what a one-off media sweep needs: no HTTP
// server and no JWKS fetch.
func InitializeSweeper(ctx context.Context) (*postsApp.MediaSweeper, func(), error) {
	wire.Build(
		infrastructureSet,
		provideSweeperConfig,
		postsApp.NewMediaSweeper,
	)
	return nil, nil, nil
}

// provideMetrics registers the collectors on the default registry served at
// /metrics and feeds them from the bus.
func provideMetrics(bus *eventbus.Bus) *metrics.Metrics {
	m := metrics.NewDefault()
	m.Subscribe(bus)
	return m
}
