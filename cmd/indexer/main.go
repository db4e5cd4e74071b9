package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zatekoja/recipemigration/internal/adapters/database"
	"github.com/zatekoja/recipemigration/internal/adapters/search"
	"github.com/zatekoja/recipemigration/internal/application/services"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/sqlite"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
	"github.com/zatekoja/recipemigration/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		reset    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:          "indexer",
		Short:        "Rebuild the ingredient search index from the ingredient catalog",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval < 0 {
				return fmt.Errorf("interval must not be negative")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			observability.InitLogger("ingredient-indexer", cfg.App.Env, cfg.App.LogLevel)

			ctx := cmd.Context()
			for {
				if err := indexOnce(ctx, cfg, reset); err != nil {
					log.Error().Err(err).Msg("Reindex failed")
				}
				if interval == 0 {
					return nil
				}

				reset = false
				log.Info().Dur("interval", interval).Msg("Reindex complete, waiting for next run")

				select {
				case <-ctx.Done():
					log.Info().Msg("Indexer shutting down")
					return nil
				case <-time.After(interval):
				}
			}
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Delete the existing collection before reindexing")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Repeat interval for reindexing (e.g. 6h, 30m)")
	return cmd
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	var db database.Client
	if cfg.Database.Driver == "sqlite" {
		client, err := sqlite.NewClient(cfg.Database.SQLitePath)
		if err != nil {
			return err
		}
		defer client.Close()
		db = client
	} else {
		client, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			return err
		}
		defer client.Close()
		db = client
	}

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset {
		log.Info().Str("collection", typesense.IngredientsCollection).Msg("Deleting collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.IngredientsCollection).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to delete collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	indexer := services.NewIngredientIndexer(database.NewIngredientAdapter(db), search.NewTypesenseAdapter(tsClient))
	indexed, failed, err := indexer.Reindex(ctx)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d ingredients failed to index", failed, indexed+failed)
	}
	return nil
}
