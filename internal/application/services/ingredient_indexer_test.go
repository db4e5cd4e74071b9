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

func TestIngredientIndexer_Reindex(t *testing.T) {
	repo := new(MockIngredientRepository)
	search := new(MockIngredientSearchProvider)

	page := []*entities.Ingredient{
		{ID: "i1", Name: "Havuç"},
		{ID: "i2", Name: "Lahana"},
		{ID: "i3", Name: "Patates"},
	}
	repo.On("List", mock.Anything, "", 500).Return(page, nil)
	search.On("Index", mock.Anything, page[0]).Return(nil)
	search.On("Index", mock.Anything, page[1]).Return(errors.New("typesense unavailable"))
	search.On("Index", mock.Anything, page[2]).Return(nil)

	indexed, failed, err := services.NewIngredientIndexer(repo, search).Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, indexed)
	assert.Equal(t, 1, failed)
	repo.AssertExpectations(t)
	search.AssertExpectations(t)
}

func TestIngredientIndexer_CatalogError(t *testing.T) {
	repo := new(MockIngredientRepository)
	search := new(MockIngredientSearchProvider)
	repo.On("List", mock.Anything, "", 500).Return(nil, errors.New("db down"))

	_, _, err := services.NewIngredientIndexer(repo, search).Reindex(context.Background())
	assert.Error(t, err)
	search.AssertNotCalled(t, "Index", mock.Anything, mock.Anything)
}
