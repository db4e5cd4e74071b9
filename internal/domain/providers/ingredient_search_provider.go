package providers

import (
	"context"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

// IngredientSearchProvider offers typo-tolerant lookup over the ingredient catalog
type IngredientSearchProvider interface {
	Search(ctx context.Context, query string, limit int) ([]*entities.Ingredient, error)
	Index(ctx context.Context, ingredient *entities.Ingredient) error
}

// EntityResolver is the capability the ingredient normaliser needs to link lines to catalog entries
type EntityResolver interface {
	FindByName(ctx context.Context, name string) (*entities.Ingredient, error)
	SearchByName(ctx context.Context, name string) (*entities.Ingredient, error)
	CreatePlaceholder(ctx context.Context, name string) (*entities.Ingredient, error)
}
