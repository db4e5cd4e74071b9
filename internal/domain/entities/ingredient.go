package entities

import "time"

// IngredientStatus tracks whether a catalog ingredient is complete
type IngredientStatus string

const (
	IngredientStatusActive          IngredientStatus = "active"
	IngredientStatusNeedsEnrichment IngredientStatus = "needs_enrichment"
)

// Ingredient is a canonical ingredient in the catalog
type Ingredient struct {
	ID        string           `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Slug      string           `json:"slug" db:"slug"`
	Status    IngredientStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}
