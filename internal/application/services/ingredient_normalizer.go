package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
	"github.com/zatekoja/recipemigration/pkg/utils"
)

// NormalizeResult is the outcome of normalising every raw ingredient line of one post.
type NormalizeResult struct {
	Ingredients  []entities.RecipeIngredient
	Dropped      int
	Placeholders int
}

// IngredientNormalizer parses raw lines and links each to a catalog ingredient.
type IngredientNormalizer struct {
	parser   *utils.IngredientParser
	resolver providers.EntityResolver
}

// NewIngredientNormalizer creates a normaliser. A nil resolver leaves ingredients unlinked.
func NewIngredientNormalizer(parser *utils.IngredientParser, resolver providers.EntityResolver) *IngredientNormalizer {
	if parser == nil {
		parser = utils.NewIngredientParser()
	}
	return &IngredientNormalizer{parser: parser, resolver: resolver}
}

// Parse normalises a single line without touching the catalog.
func (n *IngredientNormalizer) Parse(line string) entities.RecipeIngredient {
	p := n.parser.Parse(line)
	return entities.RecipeIngredient{
		Quantity: p.Quantity,
		Unit:     p.Unit,
		Name:     p.Name,
		Note:     p.Note,
	}
}

// Normalize parses lines in order, drops those without a name and resolves the rest.
// Resolution failures leave the ingredient unlinked; only context cancellation is returned.
func (n *IngredientNormalizer) Normalize(ctx context.Context, lines []string) (*NormalizeResult, error) {
	res := &NormalizeResult{Ingredients: make([]entities.RecipeIngredient, 0, len(lines))}

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ing := n.Parse(line)
		if ing.Name == "" {
			res.Dropped++
			log.Debug().Str("line", line).Msg("Dropping ingredient line without a name")
			continue
		}

		if n.resolver != nil {
			id, placeholder, err := n.resolve(ctx, ing.Name)
			if err != nil {
				log.Warn().Err(err).Str("ingredient", ing.Name).Msg("Ingredient resolution failed")
			}
			ing.IngredientID = id
			if placeholder {
				res.Placeholders++
			}
		}
		res.Ingredients = append(res.Ingredients, ing)
	}
	return res, nil
}

// resolve runs exact lookup, then fuzzy search, then placeholder creation.
func (n *IngredientNormalizer) resolve(ctx context.Context, name string) (string, bool, error) {
	ing, err := n.resolver.FindByName(ctx, name)
	if err == nil && ing != nil {
		return ing.ID, false, nil
	}
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return "", false, err
	}

	ing, err = n.resolver.SearchByName(ctx, name)
	if err != nil {
		return "", false, err
	}
	if ing != nil {
		return ing.ID, false, nil
	}

	ing, err = n.resolver.CreatePlaceholder(ctx, name)
	if err != nil {
		return "", false, err
	}
	return ing.ID, true, nil
}
