package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	"github.com/zatekoja/recipemigration/internal/extraction"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
	"github.com/zatekoja/recipemigration/pkg/utils"
)

const (
	runLockName     = "recipe-migration"
	defaultLockTTL  = 30 * time.Minute
	defaultBatch    = 10
	corpusPageSize  = 100
	outcomeMigrated = "migrated"
	outcomeFailed   = "failed"
	outcomeSkipped  = "skipped"
	outcomeDryRun   = "dry_run"
)

// MigrateOptions tunes a single-document migration.
type MigrateOptions struct {
	// DryRun composes the recipe without enrichment, persistence or ledger writes.
	DryRun bool
	RunID  string
}

// OrchestratorConfig holds batch settings.
type OrchestratorConfig struct {
	BatchSize int
	LockTTL   time.Duration
}

// OrchestratorDeps are the collaborators of the orchestrator. Lock, Events and Metrics may be nil.
type OrchestratorDeps struct {
	Sources    repositories.SourceDocumentRepository
	Recipes    repositories.RecipeRepository
	Taxonomy   repositories.TaxonomyRepository
	Ledger     *MigrationLedger
	Extractor  *extraction.ContentExtractor
	Classifier *extraction.AgeGroupClassifier
	Normalizer *IngredientNormalizer
	Enricher   *EnrichmentGateway
	SEO        *SEOMetadataGenerator
	Lock       providers.RunLock
	Events     providers.EventBus
	Metrics    *observability.Metrics
}

// MigrationOrchestrator drives the per-document pipeline and the batch and corpus runs.
// Documents are processed one at a time.
type MigrationOrchestrator struct {
	deps    OrchestratorDeps
	cfg     OrchestratorConfig
	stopped atomic.Bool
	runs    atomic.Int32
}

// NewMigrationOrchestrator creates an orchestrator.
func NewMigrationOrchestrator(deps OrchestratorDeps, cfg OrchestratorConfig) *MigrationOrchestrator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatch
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	return &MigrationOrchestrator{deps: deps, cfg: cfg}
}

// Stop asks the active or starting run to finish after the current document. It has no
// effect while no run is active.
func (o *MigrationOrchestrator) Stop() {
	if o.runs.Load() > 0 {
		o.stopped.Store(true)
	}
}

// StartAll launches MigrateAll in the background and reports its result to done. The run
// counts as active from the moment StartAll returns, so an immediate Stop is honored.
func (o *MigrationOrchestrator) StartAll(ctx context.Context, done func(*entities.MigrationSummary, error)) {
	o.beginRun()
	go func() {
		defer o.endRun()
		summary, err := o.MigrateAll(ctx)
		if done != nil {
			done(summary, err)
		}
	}()
}

func (o *MigrationOrchestrator) beginRun() {
	o.runs.Add(1)
}

// endRun clears a pending stop once the last active run is over.
func (o *MigrationOrchestrator) endRun() {
	if o.runs.Add(-1) == 0 {
		o.stopped.Store(false)
	}
}

// MigrateOne migrates a single post. An already migrated post is reported as skipped with
// its existing recipe ID. Any pipeline error is recorded as failed in the ledger and returned
// as an *AppError alongside a failed outcome.
func (o *MigrationOrchestrator) MigrateOne(ctx context.Context, sourceID string, opts MigrateOptions) (outcome *entities.MigrationOutcome, err error) {
	ctx, span := observability.StartSpan(ctx, "migration.migrate_one")
	defer span.End()
	start := time.Now()
	logger := log.With().Str("source_id", sourceID).Str("run_id", opts.RunID).Logger()

	defer func() {
		label := outcomeMigrated
		switch {
		case err != nil:
			label = outcomeFailed
			observability.RecordError(span, err)
		case outcome != nil && outcome.Status == entities.OutcomeSkipped:
			label = outcomeSkipped
		case outcome != nil && outcome.Status == entities.OutcomeDryRun:
			label = outcomeDryRun
		}
		observability.RecordDocumentMetric(ctx, o.deps.Metrics, label, time.Since(start))
		if outcome != nil {
			o.publish(ctx, entities.NewOutcomeEvent(opts.RunID, outcome))
		}
	}()

	if sourceID == "" {
		return nil, apperrors.NewValidationError("source id is required")
	}

	if !opts.DryRun {
		migrated, targetID, err := o.deps.Ledger.IsMigrated(ctx, sourceID)
		if err != nil {
			return failedOutcome(sourceID, err), apperrors.NewInternalError("failed to read migration ledger", err)
		}
		if migrated {
			logger.Debug().Str("target_id", targetID).Msg("Source already migrated, skipping")
			return &entities.MigrationOutcome{
				SourceID: sourceID,
				TargetID: targetID,
				Status:   entities.OutcomeSkipped,
				Message:  "already migrated",
			}, nil
		}
	}

	doc, err := o.deps.Sources.GetByID(ctx, sourceID)
	if err != nil {
		if !opts.DryRun && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			o.recordFetchFailure(ctx, sourceID, err)
		}
		return failedOutcome(sourceID, err), err
	}
	if doc.Status == entities.SourceStatusDraft {
		logger.Debug().Msg("Source is a draft, skipping")
		return &entities.MigrationOutcome{SourceID: sourceID, Status: entities.OutcomeSkipped, Message: "source is a draft"}, nil
	}

	if opts.DryRun {
		recipe, meta, err := o.compose(ctx, doc, opts)
		if err != nil {
			return failedOutcome(sourceID, err), apperrors.NewInternalError("dry run failed", err)
		}
		return &entities.MigrationOutcome{
			SourceID: sourceID,
			Status:   entities.OutcomeDryRun,
			Metadata: meta,
			Recipe:   recipe,
		}, nil
	}

	if _, err := o.deps.Ledger.Start(ctx, sourceID); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			logger.Debug().Msg("Ledger reports source already migrated, skipping")
			skipped := &entities.MigrationOutcome{SourceID: sourceID, Status: entities.OutcomeSkipped, Message: "already migrated"}
			if rec, gerr := o.deps.Ledger.Get(ctx, sourceID); gerr == nil {
				skipped.TargetID = rec.TargetID
			} else {
				logger.Warn().Err(gerr).Msg("Failed to read existing migration record")
			}
			return skipped, nil
		}
		return failedOutcome(sourceID, err), apperrors.NewPersistenceError("failed to open migration record", err)
	}

	targetID, meta, err := o.run(ctx, doc, opts)
	if err != nil {
		logger.Error().Err(err).Msg("Migration failed")
		if ferr := o.deps.Ledger.Fail(ctx, sourceID, err.Error(), meta); ferr != nil {
			logger.Error().Err(ferr).Msg("Failed to record migration failure")
		}
		out := failedOutcome(sourceID, err)
		out.Metadata = meta
		if _, ok := err.(*apperrors.AppError); ok {
			return out, err
		}
		return out, apperrors.NewPersistenceError("migration failed", err)
	}

	logger.Info().Str("target_id", targetID).Bool("ai_enriched", meta.AIEnriched).Msg("Source migrated")
	return &entities.MigrationOutcome{
		SourceID: sourceID,
		TargetID: targetID,
		Status:   entities.OutcomeMigrated,
		Metadata: meta,
	}, nil
}

// recordFetchFailure opens the ledger record of a post that could not be read and marks it failed.
func (o *MigrationOrchestrator) recordFetchFailure(ctx context.Context, sourceID string, cause error) {
	if _, err := o.deps.Ledger.Start(ctx, sourceID); err != nil {
		log.Error().Err(err).Str("source_id", sourceID).Msg("Failed to open migration record")
		return
	}
	if err := o.deps.Ledger.Fail(ctx, sourceID, cause.Error(), nil); err != nil {
		log.Error().Err(err).Str("source_id", sourceID).Msg("Failed to record migration failure")
	}
}

// run composes and persists the recipe, then cross-links, retires and closes the ledger record.
func (o *MigrationOrchestrator) run(ctx context.Context, doc *entities.SourceDocument, opts MigrateOptions) (targetID string, meta *entities.MigrationMetadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewInternalError(fmt.Sprintf("migration panicked: %v", r), nil)
		}
	}()

	recipe, meta, err := o.compose(ctx, doc, opts)
	if err != nil {
		return "", meta, err
	}

	targetID, created, err := o.deps.Recipes.CreateIfAbsent(ctx, recipe)
	if err != nil {
		return "", meta, err
	}
	if !created {
		log.Info().Str("source_id", doc.ID).Str("target_id", targetID).Msg("Recipe already exists for source, reusing it")
	}

	if doc.FeaturedMediaID != "" {
		if err := o.deps.Recipes.SetFeaturedMedia(ctx, targetID, doc.FeaturedMediaID); err != nil {
			return targetID, meta, err
		}
	}
	if err := o.deps.Sources.SetMigratedRecipe(ctx, doc.ID, targetID); err != nil {
		return targetID, meta, err
	}
	if !doc.IsRetired() {
		if err := o.deps.Sources.Retire(ctx, doc.ID); err != nil {
			return targetID, meta, err
		}
	}
	if err := o.deps.Ledger.Success(ctx, doc.ID, targetID, meta); err != nil {
		return targetID, meta, err
	}
	return targetID, meta, nil
}

// compose runs extract, normalize, classify, enrich and SEO and returns the recipe to persist.
func (o *MigrationOrchestrator) compose(ctx context.Context, doc *entities.SourceDocument, opts MigrateOptions) (*entities.Recipe, *entities.MigrationMetadata, error) {
	meta := &entities.MigrationMetadata{RunID: opts.RunID}
	title := utils.CollapseSpaces(doc.Title)

	extracted := o.deps.Extractor.Extract(doc.Content, title)
	meta.InstructionCount = len(extracted.Instructions)

	normalized, err := o.deps.Normalizer.Normalize(ctx, extracted.Ingredients)
	if err != nil {
		return nil, meta, err
	}
	meta.IngredientCount = len(normalized.Ingredients)
	meta.DroppedIngredients = normalized.Dropped
	meta.PlaceholderCount = normalized.Placeholders

	recipe := &entities.Recipe{
		SourcePostID:    doc.ID,
		Title:           title,
		Ingredients:     normalized.Ingredients,
		Instructions:    nonNil(extracted.Instructions),
		Substitutes:     []entities.Substitute{},
		Expert:          entities.NewExpertAttribution(extracted.ExpertName, extracted.ExpertTitle, extracted.ExpertNote),
		SpecialNotes:    extracted.SpecialNotes,
		VideoURL:        extracted.VideoURL,
		AuthorID:        doc.AuthorID,
		AllergenTermIDs: []string{},
		DietTypeTermIDs: []string{},
		MealTypeTermIDs: []string{},
	}

	recipe.AgeGroup = o.deps.Classifier.Classify(title, extraction.StripTags(doc.Content))
	meta.AgeGroup = recipe.AgeGroup
	if recipe.AgeGroup.IsValid() && !opts.DryRun {
		term, err := o.deps.Taxonomy.EnsureTerm(ctx, entities.TaxonomyAgeGroup, recipe.AgeGroup.Label())
		if err != nil {
			return nil, meta, err
		}
		recipe.AgeGroupTermID = term.ID
	}

	enrichment := entities.SkippedEnrichment("dry run")
	if !opts.DryRun {
		names := make([]string, 0, len(recipe.Ingredients))
		for _, ing := range recipe.Ingredients {
			names = append(names, ing.Name)
		}
		enrichment = o.deps.Enricher.Enrich(ctx, EnrichmentInput{
			Title:        title,
			Ingredients:  names,
			Instructions: recipe.Instructions,
		})
	}
	meta.AIEnriched = enrichment.Succeeded()
	meta.EnrichmentReason = enrichment.Outcome.Reason

	if enrichment.Succeeded() {
		recipe.PrepTime = enrichment.PrepTime
		recipe.Nutrition = enrichment.Nutrition
		if len(enrichment.Substitutes) > 0 {
			recipe.Substitutes = enrichment.Substitutes
		}
		recipe.PrimaryIngredient = enrichment.PrimaryIngredient
		recipe.CrossPromotion = enrichment.CrossPromotion
		recipe.AllergenTermIDs = o.deps.Enricher.MapTerms(ctx, enrichment.Allergens, entities.TaxonomyAllergen)
		recipe.DietTypeTermIDs = o.deps.Enricher.MapTerms(ctx, enrichment.DietTypes, entities.TaxonomyDietType)
		recipe.MealTypeTermIDs = o.deps.Enricher.MapTerms(ctx, enrichment.MealTypes, entities.TaxonomyMealType)
	}

	recipe.Description = enrichment.Description
	if recipe.Description == "" {
		recipe.Description = utils.CollapseSpaces(extraction.StripTags(doc.Excerpt))
	}

	recipe.SEO = o.deps.SEO.Generate(SEOInput{
		Title:         title,
		Excerpt:       doc.Excerpt,
		AgeGroup:      recipe.AgeGroup,
		PrepTime:      recipe.PrepTime,
		AIDescription: enrichment.Description,
	})
	if opts.DryRun {
		recipe.FeaturedMediaID = doc.FeaturedMediaID
	}
	return recipe, meta, nil
}

// MigrateBatch migrates up to size posts without a successful migration, least attempted first.
// Per-document failures are aggregated into the summary; the returned error covers only the run
// itself (lock or listing).
func (o *MigrationOrchestrator) MigrateBatch(ctx context.Context, size int) (*entities.MigrationSummary, error) {
	if size <= 0 {
		size = o.cfg.BatchSize
	}

	return o.withRun(ctx, func(ctx context.Context, summary *entities.MigrationSummary) error {
		docs, err := o.deps.Sources.ListUnmigrated(ctx, size)
		if err != nil {
			return err
		}

		log.Info().Str("run_id", summary.RunID).Int("documents", len(docs)).Msg("Starting migration batch")
		for _, doc := range docs {
			if o.shouldStop(ctx) {
				summary.Cancelled = true
				break
			}
			summary.Record(o.MigrateOne(ctx, doc.ID, MigrateOptions{RunID: summary.RunID}))
		}
		return nil
	})
}

// MigrateAll walks the whole corpus in ID order. Already migrated posts count as skipped.
func (o *MigrationOrchestrator) MigrateAll(ctx context.Context) (*entities.MigrationSummary, error) {
	return o.withRun(ctx, func(ctx context.Context, summary *entities.MigrationSummary) error {
		log.Info().Str("run_id", summary.RunID).Msg("Starting full corpus migration")

		after := ""
		for {
			ids, err := o.deps.Sources.ListIDs(ctx, after, corpusPageSize)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return nil
			}

			for _, id := range ids {
				if o.shouldStop(ctx) {
					summary.Cancelled = true
					return nil
				}
				summary.Record(o.MigrateOne(ctx, id, MigrateOptions{RunID: summary.RunID}))
			}
			after = ids[len(ids)-1]
		}
	})
}

func (o *MigrationOrchestrator) withRun(ctx context.Context, fn func(context.Context, *entities.MigrationSummary) error) (*entities.MigrationSummary, error) {
	o.beginRun()
	defer o.endRun()

	if o.deps.Lock != nil {
		release, err := o.deps.Lock.Acquire(ctx, runLockName, o.cfg.LockTTL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Msg("Failed to release migration run lock")
			}
		}()
	}

	summary := &entities.MigrationSummary{
		RunID:     ulid.Make().String(),
		Errors:    []entities.MigrationError{},
		StartedAt: time.Now().UTC(),
	}
	o.publish(ctx, entities.NewMigrationEvent(summary.RunID, entities.MigrationEventRunStarted))

	err := fn(ctx, summary)
	summary.FinishedAt = time.Now().UTC()

	finished := entities.NewMigrationEvent(summary.RunID, entities.MigrationEventRunFinished)
	finished.Summary = summary
	if err != nil {
		finished.Message = err.Error()
	}
	o.publish(ctx, finished)
	if err != nil {
		return summary, err
	}

	log.Info().
		Str("run_id", summary.RunID).
		Int("success", summary.SuccessCount).
		Int("failed", summary.FailedCount).
		Int("skipped", summary.SkippedCount).
		Bool("cancelled", summary.Cancelled).
		Dur("duration", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("Migration run finished")
	return summary, nil
}

// publish emits a progress event. Delivery failures never affect the migration.
func (o *MigrationOrchestrator) publish(ctx context.Context, event *entities.MigrationEvent) {
	if o.deps.Events == nil || event == nil {
		return
	}
	if err := o.deps.Events.Publish(context.WithoutCancel(ctx), providers.EventChannelMigrations, event); err != nil {
		log.Warn().Err(err).Str("event_type", string(event.EventType)).Msg("Failed to publish migration event")
	}
}

func (o *MigrationOrchestrator) shouldStop(ctx context.Context) bool {
	return ctx.Err() != nil || o.stopped.Load()
}

func failedOutcome(sourceID string, err error) *entities.MigrationOutcome {
	return &entities.MigrationOutcome{
		SourceID: sourceID,
		Status:   entities.OutcomeFailed,
		Message:  err.Error(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
