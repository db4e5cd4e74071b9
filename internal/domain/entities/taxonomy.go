package entities

// Taxonomy names a vocabulary of terms that can be assigned to a recipe
type Taxonomy string

const (
	TaxonomyAllergen Taxonomy = "allergen"
	TaxonomyDietType Taxonomy = "diet_type"
	TaxonomyMealType Taxonomy = "meal_type"
	TaxonomyAgeGroup Taxonomy = "age_group"
)

// TaxonomyTerm is a canonical term within a taxonomy
type TaxonomyTerm struct {
	ID       string   `json:"id" db:"id"`
	Taxonomy Taxonomy `json:"taxonomy" db:"taxonomy"`
	Name     string   `json:"name" db:"name"`
	Slug     string   `json:"slug" db:"slug"`
}
