package main

import (
	"context"
	"fmt"
	"time"

	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/platform/migrations"
	"github.com/philly/snapgram/internal/platform/seeder"
	"github.com/philly/snapgram/internal/server"
	usersseeder "github.com/philly/snapgram/internal/users/seeder"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "snapgram",
		Short:         "Snapgram API server",
		Version:       server.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Bare invocation serves, so existing container entrypoints keep working.
		RunE: runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		newMigrateCmd(),
		&cobra.Command{
			Use:   "sweep-media",
			Short: "Delete media that was never attached to a post, then exit",
			Args:  cobra.NoArgs,
			RunE:  runSweep,
		},
	)
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, cleanup, err := server.InitializeApp(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer cleanup()

	return app.Run()
}

func newMigrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(migrations.Up), string(migrations.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := migrations.Direction(args[0])
			if direction != migrations.Up && direction != migrations.Down {
				return fmt.Errorf("unknown direction %q, want up or down", args[0])
			}
			if seed && direction != migrations.Up {
				return fmt.Errorf("--seed only applies to migrate up")
			}
			return runMigrate(cmd.Context(), direction, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert demo users after migrating up")
	return cmd
}

func runMigrate(ctx context.Context, direction migrations.Direction, seed bool) error {
	config, err := server.LoadConfig(logger.NewBootstrapLogger())
	if err != nil {
		return err
	}
	log := logger.NewSlogAdapter(config.Environment, config.LogLevel)

	if err := migrations.Run(ctx, config.DatabaseURL, direction, log); err != nil {
		return err
	}
	if !seed {
		return nil
	}

	pool, cleanup, err := server.ConnectDatabase(ctx, config, log)
	if err != nil {
		return err
	}
	defer cleanup()

	return seeder.NewOrchestrator(log, pool, usersseeder.NewDemoSeeder()).RunAll(ctx)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	sweeper, cleanup, err := server.InitializeSweeper(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize sweeper: %w", err)
	}
	defer cleanup()

	removed, err := sweeper.Sweep(cmd.Context(), time.Now())
	if err != nil {
		return err
	}
	cmd.Printf("removed %d orphaned media\n", removed)
	return nil
}
