package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

// MigrationRecordRepository defines the interface for the migration ledger
type MigrationRecordRepository interface {
	// InsertIfAbsent creates a pending record for sourceID unless one exists.
	InsertIfAbsent(ctx context.Context, sourceID string) error

	// MarkInProgress moves a non-successful record to in_progress and bumps its attempt
	// counter. It reports false when the record is already a success.
	MarkInProgress(ctx context.Context, sourceID string, startedAt time.Time) (bool, error)

	// Complete applies the terminal transition to a pending or in_progress record.
	Complete(ctx context.Context, record *entities.MigrationRecord) error

	GetBySourceID(ctx context.Context, sourceID string) (*entities.MigrationRecord, error)
	CountByStatus(ctx context.Context) (map[entities.MigrationStatus]int, error)
	ListByStatus(ctx context.Context, status entities.MigrationStatus, limit, offset int) ([]*entities.MigrationRecord, error)
}
