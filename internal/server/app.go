package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/posts/application"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server  *http.Server
	config  Config
	sweeper *application.MediaSweeper
	bus     *eventbus.Bus
	logger  logger.Logger
}

func NewApp(
	server *http.Server,
	config Config,
	sweeper *application.MediaSweeper,
	bus *eventbus.Bus,
	log logger.Logger,
) *App {
	return &App{
		server:  server,
		config:  config,
		sweeper: sweeper,
		bus:     bus,
		logger:  log,
	}
}

// Sweeper is exposed for the one-shot sweep command.
func (a *App) Sweeper() *application.MediaSweeper {
	return a.sweeper
}

// Run serves HTTP until SIGINT or SIGTERM, then drains in-flight requests
// and pending event handlers.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "starting server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	if a.config.MediaSweepInterval > 0 {
		a.logger.Info(ctx, "media sweeper started", "interval", a.config.MediaSweepInterval)
		go a.sweeper.Run(ctx, a.config.MediaSweepInterval)
	}

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		a.logger.Info(context.Background(), "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}
	}

	a.bus.Wait()
	a.logger.Info(context.Background(), "server stopped")
	return nil
}
