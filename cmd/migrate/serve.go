package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zatekoja/recipemigration/internal/api/handlers"
	"github.com/zatekoja/recipemigration/internal/api/routes"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

func serveCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP control surface and the scheduled batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *logLevel, serve)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	migrationHandler := handlers.NewMigrationHandler(a.orchestrator, a.status, a.cfg.Migration.BatchSize)
	recipeHandler := handlers.NewRecipeHandler(a.recipes)
	eventsHandler := handlers.NewMigrationEventsHandler(a.events, 0)
	router := routes.NewRouter(migrationHandler, recipeHandler, eventsHandler, a.sources, a.cfg.Server.AllowedOrigins, a.metrics)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // event streams stay open
		IdleTimeout:  60 * time.Second,
	}
	// Closing the bus ends open event streams so Shutdown can drain.
	server.RegisterOnShutdown(func() {
		if err := a.events.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close event bus")
		}
	})

	scheduler, err := startScheduler(ctx, a)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	a.orchestrator.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn().Msg("Scheduled run did not finish before shutdown deadline")
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited")
	return runErr
}

// startScheduler registers the batch pass on MIGRATION_SCHEDULE. It returns nil when no schedule is set.
func startScheduler(ctx context.Context, a *app) (*cron.Cron, error) {
	schedule := a.cfg.Migration.Schedule
	if schedule == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		summary, err := a.orchestrator.MigrateBatch(ctx, a.cfg.Migration.BatchSize)
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
				log.Info().Msg("Scheduled batch skipped: another run holds the lock")
				return
			}
			log.Error().Err(err).Msg("Scheduled batch failed")
			return
		}
		log.Info().
			Str("run_id", summary.RunID).
			Int("success", summary.SuccessCount).
			Int("failed", summary.FailedCount).
			Int("skipped", summary.SkippedCount).
			Msg("Scheduled batch finished")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid MIGRATION_SCHEDULE %q: %w", schedule, err)
	}

	c.Start()
	log.Info().Str("schedule", schedule).Int("batch_size", a.cfg.Migration.BatchSize).Msg("Scheduled batch migration enabled")
	return c, nil
}
