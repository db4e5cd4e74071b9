package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

// MigrationLedger keeps one record per source post and applies its status transitions.
type MigrationLedger struct {
	repo repositories.MigrationRecordRepository
	now  func() time.Time
}

// NewMigrationLedger creates a ledger over repo.
func NewMigrationLedger(repo repositories.MigrationRecordRepository) *MigrationLedger {
	return &MigrationLedger{repo: repo, now: time.Now}
}

// Start opens an attempt for sourceID and returns the record. It fails with CONFLICT
// when the post has already been migrated successfully.
func (l *MigrationLedger) Start(ctx context.Context, sourceID string) (*entities.MigrationRecord, error) {
	if sourceID == "" {
		return nil, apperrors.NewValidationError("source id is required")
	}
	if err := l.repo.InsertIfAbsent(ctx, sourceID); err != nil {
		return nil, err
	}

	started, err := l.repo.MarkInProgress(ctx, sourceID, l.now().UTC())
	if err != nil {
		return nil, err
	}
	if !started {
		return nil, apperrors.NewConflictError(fmt.Sprintf("source %s is already migrated", sourceID))
	}
	return l.repo.GetBySourceID(ctx, sourceID)
}

// Success closes the open attempt with the produced recipe.
func (l *MigrationLedger) Success(ctx context.Context, sourceID, targetID string, metadata *entities.MigrationMetadata) error {
	completed := l.now().UTC()
	return l.repo.Complete(ctx, &entities.MigrationRecord{
		SourceID:    sourceID,
		TargetID:    targetID,
		Status:      entities.MigrationSuccess,
		CompletedAt: &completed,
		Metadata:    metadata,
	})
}

// Fail closes the open attempt with message.
func (l *MigrationLedger) Fail(ctx context.Context, sourceID, message string, metadata *entities.MigrationMetadata) error {
	completed := l.now().UTC()
	return l.repo.Complete(ctx, &entities.MigrationRecord{
		SourceID:     sourceID,
		Status:       entities.MigrationFailed,
		CompletedAt:  &completed,
		ErrorMessage: message,
		Metadata:     metadata,
	})
}

// IsMigrated reports whether the post has a success record. A missing record is not an error.
func (l *MigrationLedger) IsMigrated(ctx context.Context, sourceID string) (bool, string, error) {
	record, err := l.repo.GetBySourceID(ctx, sourceID)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	if record.Status != entities.MigrationSuccess {
		return false, "", nil
	}
	return true, record.TargetID, nil
}

// Get returns the ledger record for sourceID.
func (l *MigrationLedger) Get(ctx context.Context, sourceID string) (*entities.MigrationRecord, error) {
	return l.repo.GetBySourceID(ctx, sourceID)
}

// Counts aggregates the ledger per status.
func (l *MigrationLedger) Counts(ctx context.Context) (map[entities.MigrationStatus]int, error) {
	return l.repo.CountByStatus(ctx)
}

// List pages through records with status.
func (l *MigrationLedger) List(ctx context.Context, status entities.MigrationStatus, limit, offset int) ([]*entities.MigrationRecord, error) {
	return l.repo.ListByStatus(ctx, status, limit, offset)
}
