package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	tsclient "github.com/zatekoja/recipemigration/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements ingredient search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements IngredientSearchProvider
var _ providers.IngredientSearchProvider = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts an ingredient into the search collection
func (a *TypesenseAdapter) Index(ctx context.Context, ingredient *entities.Ingredient) error {
	_, err := a.client.Client().Collection(tsclient.IngredientsCollection).Documents().Upsert(ctx, ingredientDocument(ingredient))
	if err != nil {
		return fmt.Errorf("failed to index ingredient: %w", err)
	}
	return nil
}

// Search runs a typo-tolerant prefix query over ingredient names
func (a *TypesenseAdapter) Search(ctx context.Context, query string, limit int) ([]*entities.Ingredient, error) {
	if limit <= 0 {
		limit = 5
	}
	params := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name"),
		NumTypos: pointer.String("2"),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.IngredientsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	if result.Hits == nil {
		return nil, nil
	}

	ingredients := make([]*entities.Ingredient, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if ing := documentToIngredient(*hit.Document); ing != nil {
			ingredients = append(ingredients, ing)
		}
	}
	return ingredients, nil
}

func ingredientDocument(ingredient *entities.Ingredient) map[string]interface{} {
	return map[string]interface{}{
		"id":         ingredient.ID,
		"name":       ingredient.Name,
		"slug":       ingredient.Slug,
		"status":     string(ingredient.Status),
		"created_at": ingredient.CreatedAt.Unix(),
	}
}

// documentToIngredient rebuilds the indexed fields. Hits without an id or name are dropped.
func documentToIngredient(doc map[string]interface{}) *entities.Ingredient {
	id, _ := doc["id"].(string)
	name, _ := doc["name"].(string)
	if id == "" || name == "" {
		return nil
	}
	slug, _ := doc["slug"].(string)
	status, _ := doc["status"].(string)
	return &entities.Ingredient{
		ID:     id,
		Name:   name,
		Slug:   slug,
		Status: entities.IngredientStatus(status),
	}
}
