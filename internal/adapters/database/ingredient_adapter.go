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
	"github.com/zatekoja/recipemigration/pkg/utils"
)

// IngredientAdapter implements IngredientRepository
type IngredientAdapter struct {
	client Client
	db     *goqu.Database
}

// NewIngredientAdapter creates a new ingredient adapter
func NewIngredientAdapter(client Client) repositories.IngredientRepository {
	return &IngredientAdapter{
		client: client,
		db:     newGoqu(client),
	}
}

var ingredientColumns = []interface{}{"id", "name", "slug", "status", "created_at", "updated_at"}

// FindByName looks an ingredient up by the slug of name, which ignores case and diacritics
func (a *IngredientAdapter) FindByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	slug := utils.Slugify(name)
	if slug == "" {
		return nil, apperrors.NewValidationError("ingredient name is required")
	}
	return a.getBySlug(ctx, slug)
}

// SearchByName returns ingredients whose slug contains the query's slug, shortest names first
func (a *IngredientAdapter) SearchByName(ctx context.Context, query string, limit int) ([]*entities.Ingredient, error) {
	slug := utils.Slugify(query)
	if slug == "" {
		return []*entities.Ingredient{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	sqlQuery, args, err := a.db.From(ingredientsTable).Prepared(true).
		Select(ingredientColumns...).
		Where(goqu.C("slug").Like("%" + slug + "%")).
		Order(goqu.L("LENGTH(slug)").Asc(), goqu.C("slug").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ingredient search", err)
	}
	return a.query(ctx, sqlQuery, args)
}

// CreateIfAbsent inserts the ingredient unless its slug exists and returns the stored row
func (a *IngredientAdapter) CreateIfAbsent(ctx context.Context, ingredient *entities.Ingredient) (*entities.Ingredient, error) {
	if ingredient.Slug == "" {
		ingredient.Slug = utils.Slugify(ingredient.Name)
	}
	if ingredient.Slug == "" {
		return nil, apperrors.NewValidationError("ingredient name is required")
	}
	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	if ingredient.Status == "" {
		ingredient.Status = entities.IngredientStatusActive
	}
	now := time.Now().UTC()

	query, args, err := a.db.Insert(ingredientsTable).Prepared(true).
		Rows(goqu.Record{
			"id":         ingredient.ID,
			"name":       ingredient.Name,
			"slug":       ingredient.Slug,
			"status":     string(ingredient.Status),
			"created_at": now,
			"updated_at": now,
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ingredient insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewPersistenceError("failed to create ingredient", err)
	}
	return a.getBySlug(ctx, ingredient.Slug)
}

// List pages through the catalog in ID order
func (a *IngredientAdapter) List(ctx context.Context, afterID string, limit int) ([]*entities.Ingredient, error) {
	ds := a.db.From(ingredientsTable).Prepared(true).
		Select(ingredientColumns...).
		Order(goqu.C("id").Asc())
	if afterID != "" {
		ds = ds.Where(goqu.C("id").Gt(afterID))
	}
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ingredient list", err)
	}
	return a.query(ctx, query, args)
}

func (a *IngredientAdapter) getBySlug(ctx context.Context, slug string) (*entities.Ingredient, error) {
	query, args, err := a.db.From(ingredientsTable).Prepared(true).
		Select(ingredientColumns...).
		Where(goqu.Ex{"slug": slug}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ingredient query", err)
	}

	ing, err := scanIngredient(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ingredient %s not found", slug))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get ingredient", err)
	}
	return ing, nil
}

func (a *IngredientAdapter) query(ctx context.Context, query string, args []interface{}) ([]*entities.Ingredient, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query ingredients", err)
	}
	defer rows.Close()

	out := []*entities.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan ingredient", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func scanIngredient(row rowScanner) (*entities.Ingredient, error) {
	ing := &entities.Ingredient{}
	var status string
	if err := row.Scan(&ing.ID, &ing.Name, &ing.Slug, &status, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
		return nil, err
	}
	ing.Status = entities.IngredientStatus(status)
	return ing, nil
}
