package services

import (
	"context"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
)

// MigrationStatusService reports progress over the ledger and the corpus.
type MigrationStatusService struct {
	sources repositories.SourceDocumentRepository
	ledger  *MigrationLedger
}

// NewMigrationStatusService creates a status service.
func NewMigrationStatusService(sources repositories.SourceDocumentRepository, ledger *MigrationLedger) *MigrationStatusService {
	return &MigrationStatusService{sources: sources, ledger: ledger}
}

// Status returns counts per ledger status, the corpus size and how many posts remain.
func (s *MigrationStatusService) Status(ctx context.Context) (*entities.MigrationStatusReport, error) {
	counts, err := s.ledger.Counts(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.sources.Count(ctx)
	if err != nil {
		return nil, err
	}

	remaining := total - counts[entities.MigrationSuccess]
	if remaining < 0 {
		remaining = 0
	}
	return &entities.MigrationStatusReport{Counts: counts, Total: total, Remaining: remaining}, nil
}

// ListFailed pages through failed ledger records, most recent first.
func (s *MigrationStatusService) ListFailed(ctx context.Context, limit, offset int) ([]*entities.MigrationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledger.List(ctx, entities.MigrationFailed, limit, offset)
}

// Get returns the ledger record of one post.
func (s *MigrationStatusService) Get(ctx context.Context, sourceID string) (*entities.MigrationRecord, error) {
	return s.ledger.Get(ctx, sourceID)
}
