package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/zatekoja/recipemigration/internal/api/loaders"
	"github.com/zatekoja/recipemigration/internal/application/services"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
)

// MigrationRunner is the orchestrator surface the handler drives
type MigrationRunner interface {
	MigrateOne(ctx context.Context, sourceID string, opts services.MigrateOptions) (*entities.MigrationOutcome, error)
	MigrateBatch(ctx context.Context, size int) (*entities.MigrationSummary, error)
	StartAll(ctx context.Context, done func(*entities.MigrationSummary, error))
	Stop()
}

// MigrationStatusReader exposes ledger progress
type MigrationStatusReader interface {
	Status(ctx context.Context) (*entities.MigrationStatusReport, error)
	ListFailed(ctx context.Context, limit, offset int) ([]*entities.MigrationRecord, error)
	Get(ctx context.Context, sourceID string) (*entities.MigrationRecord, error)
}

// MigrationHandler handles migration control and status requests
type MigrationHandler struct {
	runner           MigrationRunner
	status           MigrationStatusReader
	defaultBatchSize int
}

// NewMigrationHandler creates a new migration handler
func NewMigrationHandler(runner MigrationRunner, status MigrationStatusReader, defaultBatchSize int) *MigrationHandler {
	if defaultBatchSize <= 0 {
		defaultBatchSize = 10
	}
	return &MigrationHandler{
		runner:           runner,
		status:           status,
		defaultBatchSize: defaultBatchSize,
	}
}

// MigrateOne handles POST /api/migrations/{id}
func (h *MigrationHandler) MigrateOne(w http.ResponseWriter, r *http.Request) {
	sourceID := r.PathValue("id")
	if sourceID == "" {
		respondWithError(w, http.StatusBadRequest, "source ID is required")
		return
	}

	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))
	outcome, err := h.runner.MigrateOne(r.Context(), sourceID, services.MigrateOptions{DryRun: dryRun})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	statusCode := http.StatusOK
	if outcome.Status == entities.OutcomeMigrated {
		statusCode = http.StatusCreated
	}
	respondWithJSON(w, statusCode, outcome)
}

// MigrateBatch handles POST /api/migrations/batch
func (h *MigrationHandler) MigrateBatch(w http.ResponseWriter, r *http.Request) {
	size, ok := queryInt(r, "size", h.defaultBatchSize)
	if !ok || size <= 0 {
		respondWithError(w, http.StatusBadRequest, "size must be a positive integer")
		return
	}

	summary, err := h.runner.MigrateBatch(r.Context(), size)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// MigrateAll handles POST /api/migrations/all. The run continues after the
// response is written; its summary is logged.
func (h *MigrationHandler) MigrateAll(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	logger := observability.LoggerFromContext(ctx)
	h.runner.StartAll(ctx, func(summary *entities.MigrationSummary, err error) {
		if err != nil {
			logger.Error().Err(err).Msg("Full migration run failed")
			return
		}
		logger.Info().
			Str("run_id", summary.RunID).
			Int("success", summary.SuccessCount).
			Int("failed", summary.FailedCount).
			Int("skipped", summary.SkippedCount).
			Bool("cancelled", summary.Cancelled).
			Msg("Full migration run finished")
	})

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// Stop handles POST /api/migrations/stop
func (h *MigrationHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.runner.Stop()
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "stopping"})
}

// GetStatus handles GET /api/migrations/status
func (h *MigrationHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	report, err := h.status.Status(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// failedRecord is a failed ledger row with the legacy post title attached
type failedRecord struct {
	*entities.MigrationRecord
	SourceTitle string `json:"source_title,omitempty"`
}

// ListFailed handles GET /api/migrations/failed
func (h *MigrationHandler) ListFailed(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 50)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	offset, ok := queryInt(r, "offset", 0)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "offset must be an integer")
		return
	}

	records, err := h.status.ListFailed(r.Context(), limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	items := make([]failedRecord, len(records))
	for i, rec := range records {
		items[i] = failedRecord{MigrationRecord: rec}
	}

	if l := loaders.For(r.Context()); l != nil && len(records) > 0 {
		ids := make([]string, len(records))
		for i, rec := range records {
			ids[i] = rec.SourceID
		}
		docs, errs := l.SourceLoader.LoadMany(r.Context(), ids)()
		for i := range items {
			if i < len(docs) && docs[i] != nil && (len(errs) <= i || errs[i] == nil) {
				items[i].SourceTitle = docs[i].Title
			}
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"records": items,
		"count":   len(items),
		"limit":   limit,
		"offset":  offset,
	})
}

// GetRecord handles GET /api/migrations/{id}
func (h *MigrationHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	sourceID := r.PathValue("id")
	if sourceID == "" {
		respondWithError(w, http.StatusBadRequest, "source ID is required")
		return
	}

	record, err := h.status.Get(r.Context(), sourceID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}
