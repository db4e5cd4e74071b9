package repositories

import (
	"context"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

// RecipeRepository defines the interface for recipe storage
type RecipeRepository interface {
	// CreateIfAbsent stores recipe unless a recipe already references the same source post.
	// It returns the ID of the stored or pre-existing recipe and whether it was created.
	CreateIfAbsent(ctx context.Context, recipe *entities.Recipe) (id string, created bool, err error)
	GetByID(ctx context.Context, id string) (*entities.Recipe, error)
	GetBySourceID(ctx context.Context, sourceID string) (*entities.Recipe, error)
	SetFeaturedMedia(ctx context.Context, id, mediaID string) error
}
