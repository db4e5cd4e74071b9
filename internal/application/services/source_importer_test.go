package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/recipemigration/internal/adapters/database"
	"github.com/zatekoja/recipemigration/internal/application/services"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/sqlite"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

const postExport = `[
  {"id": "101", "title": "Havuçlu Pirinç Lapası", "content": "<p>Malzemeler</p>", "status": "publish", "created_at": "2018-03-01T10:00:00Z"},
  {"id": "102", "title": "Taslak Tarif", "content": "<p>...</p>", "status": "draft"},
  {"id": "", "title": "Kimliksiz", "content": "<p>x</p>"},
  {"id": "103", "title": "Bilinmeyen Durum", "content": "<p>x</p>", "status": "private"}
]`

func TestSourceImporter_ImportJSON(t *testing.T) {
	ctx := context.Background()
	client, err := sqlite.NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, database.EnsureSchema(ctx, client))

	sources := database.NewSourceDocumentAdapter(client)
	importer := services.NewSourceImporter(sources)

	result, err := importer.ImportJSON(ctx, strings.NewReader(postExport))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Existing)
	assert.Equal(t, 2, result.Invalid)
	assert.Len(t, result.Errors, 2)

	doc, err := sources.GetByID(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, "Havuçlu Pirinç Lapası", doc.Title)
	assert.Equal(t, entities.SourceStatusPublish, doc.Status)

	draft, err := sources.GetByID(ctx, "102")
	require.NoError(t, err)
	assert.Equal(t, entities.SourceStatusDraft, draft.Status)

	// A second import leaves existing posts untouched.
	result, err = importer.ImportJSON(ctx, strings.NewReader(postExport))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 2, result.Existing)
}

func TestSourceImporter_RejectsMalformedExport(t *testing.T) {
	importer := services.NewSourceImporter(nil)

	_, err := importer.ImportJSON(context.Background(), strings.NewReader(`{"id": "1"}`))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
