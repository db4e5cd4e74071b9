package repositories

import (
	"context"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

// IngredientRepository defines the interface for the canonical ingredient catalog
type IngredientRepository interface {
	FindByName(ctx context.Context, name string) (*entities.Ingredient, error)
	SearchByName(ctx context.Context, query string, limit int) ([]*entities.Ingredient, error)

	// CreateIfAbsent inserts the ingredient unless its slug exists and returns the stored row.
	CreateIfAbsent(ctx context.Context, ingredient *entities.Ingredient) (*entities.Ingredient, error)
	List(ctx context.Context, afterID string, limit int) ([]*entities.Ingredient, error)
}
