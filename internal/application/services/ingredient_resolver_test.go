package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/recipemigration/internal/application/services"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

func TestIngredientResolver_SearchByName(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers the search index when it has a close hit", func(t *testing.T) {
		repo := new(MockIngredientRepository)
		search := new(MockIngredientSearchProvider)
		r := services.NewIngredientResolver(repo, search)

		search.On("Search", mock.Anything, "Kırmızı mercimek", 5).Return([]*entities.Ingredient{
			{ID: "a", Name: "Yeşil mercimek"},
			{ID: "b", Name: "Kirmizi Mercimek"},
		}, nil)

		got, err := r.SearchByName(ctx, "Kırmızı mercimek")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "b", got.ID)
		repo.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("falls back to the store when the index fails", func(t *testing.T) {
		repo := new(MockIngredientRepository)
		search := new(MockIngredientSearchProvider)
		r := services.NewIngredientResolver(repo, search)

		search.On("Search", mock.Anything, "Pirinç", 5).Return(nil, errors.New("typesense down"))
		repo.On("SearchByName", mock.Anything, "Pirinç", 5).Return([]*entities.Ingredient{
			{ID: "p", Name: "Pirinç unu"},
		}, nil)

		got, err := r.SearchByName(ctx, "Pirinç")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "p", got.ID)
	})

	t.Run("unrelated hits are rejected", func(t *testing.T) {
		repo := new(MockIngredientRepository)
		r := services.NewIngredientResolver(repo, nil)

		repo.On("SearchByName", mock.Anything, "Avokado", 5).Return([]*entities.Ingredient{
			{ID: "x", Name: "Avuç"},
		}, nil)

		got, err := r.SearchByName(ctx, "Avokado")

		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestIngredientResolver_SearchByName_WholeWords(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		query  string
		hits   []*entities.Ingredient
		wantID string
	}{
		{
			name:  "short name does not match a longer word",
			query: "Su",
			hits:  []*entities.Ingredient{{ID: "sesame", Name: "Susam"}},
		},
		{
			name:  "prefix of a word is not a match",
			query: "Un",
			hits:  []*entities.Ingredient{{ID: "u", Name: "Unlu mamul"}},
		},
		{
			name:   "query word inside a longer catalog name",
			query:  "Tereyağı",
			hits:   []*entities.Ingredient{{ID: "t", Name: "Tuzsuz tereyağı"}},
			wantID: "t",
		},
		{
			name:   "catalog name inside a longer query",
			query:  "Taze kabak",
			hits:   []*entities.Ingredient{{ID: "k", Name: "Kabak"}},
			wantID: "k",
		},
		{
			name:   "whole word hit is chosen over a substring hit",
			query:  "Su",
			hits:   []*entities.Ingredient{{ID: "sesame", Name: "Susam"}, {ID: "w", Name: "Içme su"}},
			wantID: "w",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockIngredientRepository)
			r := services.NewIngredientResolver(repo, nil)
			repo.On("SearchByName", mock.Anything, tt.query, 5).Return(tt.hits, nil)

			got, err := r.SearchByName(ctx, tt.query)

			require.NoError(t, err)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestIngredientResolver_CreatePlaceholder(t *testing.T) {
	ctx := context.Background()
	repo := new(MockIngredientRepository)
	search := new(MockIngredientSearchProvider)
	r := services.NewIngredientResolver(repo, search)

	stored := &entities.Ingredient{ID: "ing-1", Name: "Kinoa", Slug: "kinoa", Status: entities.IngredientStatusNeedsEnrichment}
	repo.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(i *entities.Ingredient) bool {
		return i.Name == "Kinoa" && i.Status == entities.IngredientStatusNeedsEnrichment
	})).Return(stored, nil)
	search.On("Index", mock.Anything, stored).Return(errors.New("index unavailable"))

	got, err := r.CreatePlaceholder(ctx, "Kinoa")

	require.NoError(t, err)
	assert.Equal(t, stored, got)
	repo.AssertExpectations(t)
	search.AssertExpectations(t)
}
