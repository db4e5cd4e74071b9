package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/recipemigration/internal/adapters/cache"
	"github.com/zatekoja/recipemigration/internal/adapters/database"
	"github.com/zatekoja/recipemigration/internal/adapters/events"
	"github.com/zatekoja/recipemigration/internal/adapters/search"
	"github.com/zatekoja/recipemigration/internal/application/services"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	"github.com/zatekoja/recipemigration/internal/extraction"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/completion"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/redis"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/sqlite"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
	"github.com/zatekoja/recipemigration/pkg/config"
	"github.com/zatekoja/recipemigration/pkg/utils"
)

// app holds the wired services shared by every subcommand
type app struct {
	cfg     *config.Config
	metrics *observability.Metrics

	sources repositories.SourceDocumentRepository
	recipes repositories.RecipeRepository
	events  providers.EventBus

	orchestrator *services.MigrationOrchestrator
	status       *services.MigrationStatusService
	importer     *services.SourceImporter

	closers []func(context.Context) error
}

type sqlClient interface {
	database.Client
	Close() error
}

func openDatabase(cfg *config.DatabaseConfig) (sqlClient, error) {
	if cfg.Driver == "sqlite" {
		client, err := sqlite.NewClient(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := postgres.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			observability.AttachOTelHook(cfg.OTEL.ServiceName)
			a.closers = append(a.closers, shutdown)
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}
	a.metrics = metrics

	db, err := openDatabase(&cfg.Database)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return db.Close() })
	log.Info().Str("driver", cfg.Database.Driver).Msg("Connected to database")

	if err := database.EnsureSchema(ctx, db); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	rules, err := extraction.LoadRules(cfg.Migration.RulesPath)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to load extraction rules: %w", err)
	}

	a.sources = database.NewSourceDocumentAdapter(db)
	a.recipes = database.NewRecipeAdapter(db)
	ingredients := database.NewIngredientAdapter(db)
	taxonomy := database.NewTaxonomyAdapter(db)
	var lock providers.RunLock = cache.NewLocalRunLock()
	var bus providers.EventBus = events.NewLocalEventBus()

	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, using uncached taxonomy, in-process run lock and event bus")
		} else {
			a.closers = append(a.closers, func(context.Context) error { return redisClient.Close() })
			taxonomy = database.NewCachedTaxonomyAdapter(taxonomy, cache.NewRedisAdapter(redisClient), metrics)
			lock = cache.NewRedisRunLock(redisClient)
			bus = events.NewRedisEventBus(redisClient)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Connected to Redis")
		}
	}

	a.events = bus
	a.closers = append(a.closers, func(context.Context) error { return bus.Close() })

	var ingredientSearch providers.IngredientSearchProvider
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, ingredient resolution uses the catalog only")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense schema")
		} else {
			ingredientSearch = search.NewTypesenseAdapter(tsClient)
		}
	}

	completionProvider, err := completion.NewProvider(ctx, &cfg.AI)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create completion provider: %w", err)
	}

	ledger := services.NewMigrationLedger(database.NewMigrationRecordAdapter(db))
	a.orchestrator = services.NewMigrationOrchestrator(services.OrchestratorDeps{
		Sources:    a.sources,
		Recipes:    a.recipes,
		Taxonomy:   taxonomy,
		Ledger:     ledger,
		Extractor:  extraction.NewContentExtractor(rules),
		Classifier: extraction.NewAgeGroupClassifier(rules),
		Normalizer: services.NewIngredientNormalizer(utils.NewIngredientParser(rules.Qualifiers...), services.NewIngredientResolver(ingredients, ingredientSearch)),
		Enricher: services.NewEnrichmentGateway(completionProvider, taxonomy, services.EnrichmentConfig{
			Timeout:         cfg.AI.Timeout,
			MinCallInterval: cfg.AI.MinCallInterval,
			MaxOutputTokens: cfg.AI.MaxOutputTokens,
		}, metrics),
		SEO:     services.NewSEOMetadataGenerator(cfg.Migration.BrandSuffix),
		Lock:    lock,
		Events:  bus,
		Metrics: metrics,
	}, services.OrchestratorConfig{
		BatchSize: cfg.Migration.BatchSize,
		LockTTL:   cfg.Migration.LockTTL,
	})
	a.status = services.NewMigrationStatusService(a.sources, ledger)
	a.importer = services.NewSourceImporter(a.sources)

	return a, nil
}

// Close releases resources in reverse acquisition order
func (a *app) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("Error during shutdown")
		}
	}
	a.closers = nil
}
