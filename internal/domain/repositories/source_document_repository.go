package repositories

import (
	"context"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

// SourceDocumentRepository defines the interface for legacy post storage
type SourceDocumentRepository interface {
	Create(ctx context.Context, doc *entities.SourceDocument) error
	GetByID(ctx context.Context, id string) (*entities.SourceDocument, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entities.SourceDocument, error)

	// ListUnmigrated returns up to limit non-draft posts without a successful migration,
	// least-attempted first so that a permanently failing post cannot starve the batch.
	ListUnmigrated(ctx context.Context, limit int) ([]*entities.SourceDocument, error)

	// ListIDs pages through every non-draft post ID in ascending order after afterID.
	ListIDs(ctx context.Context, afterID string, limit int) ([]string, error)

	// Count returns the size of the migratable corpus (non-draft posts).
	Count(ctx context.Context) (int, error)

	SetMigratedRecipe(ctx context.Context, id, recipeID string) error
	Retire(ctx context.Context, id string) error
}
