package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

// RecipeAdapter implements RecipeRepository
type RecipeAdapter struct {
	client Client
	db     *goqu.Database
}

// NewRecipeAdapter creates a new recipe adapter
func NewRecipeAdapter(client Client) repositories.RecipeRepository {
	return &RecipeAdapter{
		client: client,
		db:     newGoqu(client),
	}
}

var recipeColumns = []interface{}{
	"id", "source_post_id", "title", "description", "ingredients", "instructions", "substitutes",
	"prep_time", "nutrition", "expert", "special_notes", "video_url", "featured_media_id", "seo",
	"age_group", "age_group_term_id", "allergen_term_ids", "diet_type_term_ids", "meal_type_term_ids",
	"primary_ingredient", "cross_promotion", "author_id", "created_at", "updated_at",
}

// CreateIfAbsent inserts the recipe unless one already references the same source post
func (a *RecipeAdapter) CreateIfAbsent(ctx context.Context, recipe *entities.Recipe) (string, bool, error) {
	if recipe == nil || recipe.SourcePostID == "" {
		return "", false, apperrors.NewValidationError("recipe with a source post id is required")
	}
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	query, args, err := a.db.Insert(recipesTable).Prepared(true).
		Rows(recipeRecord(recipe)).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return "", false, apperrors.NewInternalError("failed to build recipe insert", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return "", false, apperrors.NewPersistenceError("failed to create recipe", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		return recipe.ID, true, nil
	}

	existing, err := a.GetBySourceID(ctx, recipe.SourcePostID)
	if err != nil {
		return "", false, apperrors.NewPersistenceError("recipe insert was ignored but no recipe references the source", err)
	}
	return existing.ID, false, nil
}

// GetByID retrieves a recipe by ID
func (a *RecipeAdapter) GetByID(ctx context.Context, id string) (*entities.Recipe, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("recipe %s not found", id))
}

// GetBySourceID retrieves the recipe migrated from a source post
func (a *RecipeAdapter) GetBySourceID(ctx context.Context, sourceID string) (*entities.Recipe, error) {
	return a.getOne(ctx, goqu.Ex{"source_post_id": sourceID}, fmt.Sprintf("no recipe for source %s", sourceID))
}

// SetFeaturedMedia attaches the primary media reference
func (a *RecipeAdapter) SetFeaturedMedia(ctx context.Context, id, mediaID string) error {
	query, args, err := a.db.Update(recipesTable).Prepared(true).
		Set(goqu.Record{"featured_media_id": mediaID, "updated_at": time.Now().UTC()}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build recipe update", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewPersistenceError("failed to set featured media", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("recipe %s not found", id))
	}
	return nil
}

func (a *RecipeAdapter) getOne(ctx context.Context, where goqu.Ex, notFound string) (*entities.Recipe, error) {
	query, args, err := a.db.From(recipesTable).Prepared(true).
		Select(recipeColumns...).
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build recipe query", err)
	}

	recipe, err := scanRecipe(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get recipe", err)
	}
	return recipe, nil
}

func recipeRecord(r *entities.Recipe) goqu.Record {
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []entities.RecipeIngredient{}
	}
	substitutes := r.Substitutes
	if substitutes == nil {
		substitutes = []entities.Substitute{}
	}

	return goqu.Record{
		"id":                 r.ID,
		"source_post_id":     r.SourcePostID,
		"title":              r.Title,
		"description":        r.Description,
		"ingredients":        encodeJSON(ingredients),
		"instructions":       encodeJSON(nonNilStrings(r.Instructions)),
		"substitutes":        encodeJSON(substitutes),
		"prep_time":          r.PrepTime,
		"nutrition":          encodeJSON(r.Nutrition),
		"expert":             encodeJSON(r.Expert),
		"special_notes":      r.SpecialNotes,
		"video_url":          r.VideoURL,
		"featured_media_id":  r.FeaturedMediaID,
		"seo":                encodeJSON(r.SEO),
		"age_group":          string(r.AgeGroup),
		"age_group_term_id":  r.AgeGroupTermID,
		"allergen_term_ids":  encodeJSON(nonNilStrings(r.AllergenTermIDs)),
		"diet_type_term_ids": encodeJSON(nonNilStrings(r.DietTypeTermIDs)),
		"meal_type_term_ids": encodeJSON(nonNilStrings(r.MealTypeTermIDs)),
		"primary_ingredient": r.PrimaryIngredient,
		"cross_promotion":    r.CrossPromotion,
		"author_id":          r.AuthorID,
		"created_at":         r.CreatedAt,
		"updated_at":         r.UpdatedAt,
	}
}

func scanRecipe(row rowScanner) (*entities.Recipe, error) {
	r := &entities.Recipe{}
	var ingredients, instructions, substitutes, nutrition, expert, seo string
	var ageGroup, allergens, diets, meals string

	err := row.Scan(
		&r.ID,
		&r.SourcePostID,
		&r.Title,
		&r.Description,
		&ingredients,
		&instructions,
		&substitutes,
		&r.PrepTime,
		&nutrition,
		&expert,
		&r.SpecialNotes,
		&r.VideoURL,
		&r.FeaturedMediaID,
		&seo,
		&ageGroup,
		&r.AgeGroupTermID,
		&allergens,
		&diets,
		&meals,
		&r.PrimaryIngredient,
		&r.CrossPromotion,
		&r.AuthorID,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.AgeGroup = entities.AgeGroup(ageGroup)
	decodeJSON(ingredients, &r.Ingredients)
	decodeJSON(instructions, &r.Instructions)
	decodeJSON(substitutes, &r.Substitutes)
	decodeJSON(nutrition, &r.Nutrition)
	decodeJSON(expert, &r.Expert)
	decodeJSON(seo, &r.SEO)
	decodeJSON(allergens, &r.AllergenTermIDs)
	decodeJSON(diets, &r.DietTypeTermIDs)
	decodeJSON(meals, &r.MealTypeTermIDs)
	return r, nil
}
