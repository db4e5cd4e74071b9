package entities

import "time"

// RecipeIngredient is one normalised ingredient line of a recipe
type RecipeIngredient struct {
	Quantity     string `json:"quantity,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Name         string `json:"name"`
	Note         string `json:"note,omitempty"`
	IngredientID string `json:"ingredient_id,omitempty"`
}

// Substitute pairs an ingredient with an alternative
type Substitute struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// Nutrition holds free-text nutrition facts
type Nutrition struct {
	Calories string `json:"calories,omitempty"`
	Protein  string `json:"protein,omitempty"`
	Fiber    string `json:"fiber,omitempty"`
	Vitamins string `json:"vitamins,omitempty"`
}

// IsEmpty reports whether no nutrition field is set
func (n Nutrition) IsEmpty() bool {
	return n.Calories == "" && n.Protein == "" && n.Fiber == "" && n.Vitamins == ""
}

// ExpertAttribution credits a nutrition expert's note on a recipe
type ExpertAttribution struct {
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	Note     string `json:"note,omitempty"`
	Approved bool   `json:"approved"`
}

// NewExpertAttribution builds an attribution. It is only approved when both a name and a note are present.
func NewExpertAttribution(name, title, note string) ExpertAttribution {
	return ExpertAttribution{
		Name:     name,
		Title:    title,
		Note:     note,
		Approved: name != "" && note != "",
	}
}

// SEOMetadata holds search-engine fields
type SEOMetadata struct {
	Title        string `json:"seo_title"`
	Description  string `json:"seo_description"`
	FocusKeyword string `json:"focus_keyword"`
}

// Recipe is the structured record produced by migrating a SourceDocument
type Recipe struct {
	ID                string             `json:"id" db:"id"`
	SourcePostID      string             `json:"source_post_id" db:"source_post_id"`
	Title             string             `json:"title" db:"title"`
	Description       string             `json:"description" db:"description"`
	Ingredients       []RecipeIngredient `json:"ingredients" db:"ingredients"`
	Instructions      []string           `json:"instructions" db:"instructions"`
	Substitutes       []Substitute       `json:"substitutes" db:"substitutes"`
	PrepTime          string             `json:"prep_time,omitempty" db:"prep_time"`
	Nutrition         Nutrition          `json:"nutrition" db:"nutrition"`
	Expert            ExpertAttribution  `json:"expert" db:"expert"`
	SpecialNotes      string             `json:"special_notes,omitempty" db:"special_notes"`
	VideoURL          string             `json:"video_url,omitempty" db:"video_url"`
	FeaturedMediaID   string             `json:"featured_media_id,omitempty" db:"featured_media_id"`
	SEO               SEOMetadata        `json:"seo" db:"seo"`
	AgeGroup          AgeGroup           `json:"age_group,omitempty" db:"age_group"`
	AgeGroupTermID    string             `json:"age_group_term_id,omitempty" db:"age_group_term_id"`
	AllergenTermIDs   []string           `json:"allergen_term_ids" db:"allergen_term_ids"`
	DietTypeTermIDs   []string           `json:"diet_type_term_ids" db:"diet_type_term_ids"`
	MealTypeTermIDs   []string           `json:"meal_type_term_ids" db:"meal_type_term_ids"`
	PrimaryIngredient string             `json:"primary_ingredient,omitempty" db:"primary_ingredient"`
	CrossPromotion    string             `json:"cross_promotion,omitempty" db:"cross_promotion"`
	AuthorID          string             `json:"author_id,omitempty" db:"author_id"`
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" db:"updated_at"`
}
