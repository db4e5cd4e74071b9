package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/recipemigration/internal/adapters/database"
	"github.com/zatekoja/recipemigration/internal/application/services"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/sqlite"
)

func TestMigrationStatusService_Status(t *testing.T) {
	ctx := context.Background()
	client, err := sqlite.NewClient(":memory:")
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, database.EnsureSchema(ctx, client))

	sources := database.NewSourceDocumentAdapter(client)
	ledger := services.NewMigrationLedger(database.NewMigrationRecordAdapter(client))
	svc := services.NewMigrationStatusService(sources, ledger)

	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		require.NoError(t, sources.Create(ctx, &entities.SourceDocument{ID: id, Title: id}))
	}
	require.NoError(t, sources.Create(ctx, &entities.SourceDocument{ID: "d1", Title: "draft", Status: entities.SourceStatusDraft}))

	_, err = ledger.Start(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, ledger.Success(ctx, "p1", "r1", nil))
	_, err = ledger.Start(ctx, "p2")
	require.NoError(t, err)
	require.NoError(t, ledger.Fail(ctx, "p2", "store rejected recipe", nil))
	_, err = ledger.Start(ctx, "p3")
	require.NoError(t, err)

	report, err := svc.Status(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 3, report.Remaining)
	assert.Equal(t, 1, report.Counts[entities.MigrationSuccess])
	assert.Equal(t, 1, report.Counts[entities.MigrationFailed])
	assert.Equal(t, 1, report.Counts[entities.MigrationInProgress])
	assert.Equal(t, 0, report.Counts[entities.MigrationPending])

	failed, err := svc.ListFailed(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "p2", failed[0].SourceID)
	assert.Equal(t, "store rejected recipe", failed[0].ErrorMessage)
}

func TestMigrationStatusService_ListFailedClampsPaging(t *testing.T) {
	repo := new(MockMigrationRecordRepository)
	svc := services.NewMigrationStatusService(nil, services.NewMigrationLedger(repo))

	repo.On("ListByStatus", mock.Anything, entities.MigrationFailed, 50, 0).
		Return([]*entities.MigrationRecord{}, nil).Once()

	_, err := svc.ListFailed(context.Background(), 1000, -3)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
