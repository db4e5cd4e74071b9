package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	"github.com/zatekoja/recipemigration/pkg/utils"
)

const searchCandidates = 5

// IngredientResolver links parsed ingredient names to the canonical catalog.
// The fuzzy step prefers the search index and falls back to a LIKE query on the store.
type IngredientResolver struct {
	repo   repositories.IngredientRepository
	search providers.IngredientSearchProvider
}

var _ providers.EntityResolver = (*IngredientResolver)(nil)

// NewIngredientResolver creates a resolver. search may be nil.
func NewIngredientResolver(repo repositories.IngredientRepository, search providers.IngredientSearchProvider) *IngredientResolver {
	return &IngredientResolver{repo: repo, search: search}
}

// FindByName performs the exact (slug) lookup.
func (r *IngredientResolver) FindByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	return r.repo.FindByName(ctx, name)
}

// SearchByName returns the closest catalog entry or nil when nothing is close enough.
func (r *IngredientResolver) SearchByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	if r.search != nil {
		hits, err := r.search.Search(ctx, name, searchCandidates)
		if err != nil {
			log.Warn().Err(err).Str("ingredient", name).Msg("Ingredient search failed, falling back to store")
		} else if hit := closestMatch(name, hits); hit != nil {
			return hit, nil
		}
	}

	hits, err := r.repo.SearchByName(ctx, name, searchCandidates)
	if err != nil {
		return nil, err
	}
	return closestMatch(name, hits), nil
}

// CreatePlaceholder stores a needs_enrichment ingredient and indexes it.
func (r *IngredientResolver) CreatePlaceholder(ctx context.Context, name string) (*entities.Ingredient, error) {
	ing, err := r.repo.CreateIfAbsent(ctx, &entities.Ingredient{
		Name:   name,
		Status: entities.IngredientStatusNeedsEnrichment,
	})
	if err != nil {
		return nil, err
	}

	if r.search != nil {
		if err := r.search.Index(ctx, ing); err != nil {
			log.Warn().Err(err).Str("ingredient_id", ing.ID).Msg("Failed to index placeholder ingredient")
		}
	}
	return ing, nil
}

// closestMatch prefers an exact folded match, then the first hit whose words include every
// word of the query, or the reverse. Matching is per whole word, so "su" never matches "susam".
func closestMatch(name string, hits []*entities.Ingredient) *entities.Ingredient {
	want := utils.Fold(name)
	if want == "" {
		return nil
	}

	var partial *entities.Ingredient
	for _, h := range hits {
		if h == nil {
			continue
		}
		got := utils.Fold(h.Name)
		if got == want {
			return h
		}
		if partial == nil && got != "" && (hasAllWords(got, want) || hasAllWords(want, got)) {
			partial = h
		}
	}
	return partial
}

// hasAllWords reports whether every word of sub is a word of s.
func hasAllWords(s, sub string) bool {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		words[w] = struct{}{}
	}
	for _, w := range strings.Fields(sub) {
		if _, ok := words[w]; !ok {
			return false
		}
	}
	return true
}
