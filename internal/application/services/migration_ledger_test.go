package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/recipemigration/internal/application/services"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

func TestMigrationLedger_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("opens an attempt", func(t *testing.T) {
		repo := new(MockMigrationRecordRepository)
		ledger := services.NewMigrationLedger(repo)

		repo.On("InsertIfAbsent", mock.Anything, "p1").Return(nil)
		repo.On("MarkInProgress", mock.Anything, "p1", mock.Anything).Return(true, nil)
		repo.On("GetBySourceID", mock.Anything, "p1").Return(&entities.MigrationRecord{
			SourceID: "p1", Status: entities.MigrationInProgress, Attempts: 1,
		}, nil)

		rec, err := ledger.Start(ctx, "p1")

		require.NoError(t, err)
		assert.Equal(t, entities.MigrationInProgress, rec.Status)
		repo.AssertExpectations(t)
	})

	t.Run("already migrated is a conflict", func(t *testing.T) {
		repo := new(MockMigrationRecordRepository)
		ledger := services.NewMigrationLedger(repo)

		repo.On("InsertIfAbsent", mock.Anything, "p1").Return(nil)
		repo.On("MarkInProgress", mock.Anything, "p1", mock.Anything).Return(false, nil)

		_, err := ledger.Start(ctx, "p1")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		_, err := services.NewMigrationLedger(new(MockMigrationRecordRepository)).Start(ctx, "")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestMigrationLedger_TerminalTransitions(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMigrationRecordRepository)
	ledger := services.NewMigrationLedger(repo)
	meta := &entities.MigrationMetadata{IngredientCount: 3}

	repo.On("Complete", mock.Anything, mock.MatchedBy(func(r *entities.MigrationRecord) bool {
		return r.SourceID == "p1" && r.Status == entities.MigrationSuccess && r.TargetID == "r1" &&
			r.CompletedAt != nil && r.Metadata == meta
	})).Return(nil).Once()
	repo.On("Complete", mock.Anything, mock.MatchedBy(func(r *entities.MigrationRecord) bool {
		return r.SourceID == "p2" && r.Status == entities.MigrationFailed && r.ErrorMessage == "boom"
	})).Return(nil).Once()

	require.NoError(t, ledger.Success(ctx, "p1", "r1", meta))
	require.NoError(t, ledger.Fail(ctx, "p2", "boom", nil))
	repo.AssertExpectations(t)
}

func TestMigrationLedger_IsMigrated(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMigrationRecordRepository)
	ledger := services.NewMigrationLedger(repo)

	repo.On("GetBySourceID", mock.Anything, "new").Return(nil, apperrors.NewNotFoundError("none"))
	repo.On("GetBySourceID", mock.Anything, "failed").Return(&entities.MigrationRecord{Status: entities.MigrationFailed}, nil)
	repo.On("GetBySourceID", mock.Anything, "done").Return(&entities.MigrationRecord{Status: entities.MigrationSuccess, TargetID: "r9"}, nil)

	ok, _, err := ledger.IsMigrated(ctx, "new")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _, err = ledger.IsMigrated(ctx, "failed")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, target, err := ledger.IsMigrated(ctx, "done")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "r9", target)
}
