package services

import (
	"context"

	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
)

const indexPageSize = 500

// IngredientIndexer copies the ingredient catalog into the search index
type IngredientIndexer struct {
	repo   repositories.IngredientRepository
	search providers.IngredientSearchProvider
}

// NewIngredientIndexer creates an indexer
func NewIngredientIndexer(repo repositories.IngredientRepository, search providers.IngredientSearchProvider) *IngredientIndexer {
	return &IngredientIndexer{repo: repo, search: search}
}

// Reindex pages through the catalog and upserts every ingredient. Individual index
// failures are counted and logged; a catalog read failure aborts.
func (i *IngredientIndexer) Reindex(ctx context.Context) (indexed, failed int, err error) {
	logger := observability.LoggerFromContext(ctx)

	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return indexed, failed, err
		}

		page, err := i.repo.List(ctx, afterID, indexPageSize)
		if err != nil {
			return indexed, failed, err
		}
		if len(page) == 0 {
			break
		}

		for _, ingredient := range page {
			if err := i.search.Index(ctx, ingredient); err != nil {
				failed++
				logger.Warn().Err(err).Str("ingredient_id", ingredient.ID).Msg("Failed to index ingredient")
				continue
			}
			indexed++
		}

		afterID = page[len(page)-1].ID
		if len(page) < indexPageSize {
			break
		}
	}

	logger.Info().Int("indexed", indexed).Int("failed", failed).Msg("Ingredient reindex finished")
	return indexed, failed, nil
}
