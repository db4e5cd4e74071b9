package handlers

import (
	"net/http"

	"github.com/zatekoja/recipemigration/internal/domain/repositories"
)

// RecipeHandler serves migrated recipes
type RecipeHandler struct {
	recipeRepo repositories.RecipeRepository
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipeRepo repositories.RecipeRepository) *RecipeHandler {
	return &RecipeHandler{recipeRepo: recipeRepo}
}

// GetRecipe handles GET /api/recipes/{id}
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID := r.PathValue("id")
	if recipeID == "" {
		respondWithError(w, http.StatusBadRequest, "recipe ID is required")
		return
	}

	recipe, err := h.recipeRepo.GetByID(r.Context(), recipeID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, recipe)
}

// GetRecipeBySource handles GET /api/sources/{id}/recipe
func (h *RecipeHandler) GetRecipeBySource(w http.ResponseWriter, r *http.Request) {
	sourceID := r.PathValue("id")
	if sourceID == "" {
		respondWithError(w, http.StatusBadRequest, "source ID is required")
		return
	}

	recipe, err := h.recipeRepo.GetBySourceID(r.Context(), sourceID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, recipe)
}
