package entities

// EnrichmentStatus is the tag of an EnrichmentOutcome
type EnrichmentStatus string

const (
	EnrichmentSucceeded EnrichmentStatus = "succeeded"
	EnrichmentFailed    EnrichmentStatus = "failed"
	EnrichmentSkipped   EnrichmentStatus = "skipped"
)

// EnrichmentOutcome records whether the AI collaborator produced usable data, and why not
type EnrichmentOutcome struct {
	Status EnrichmentStatus `json:"status"`
	Reason string           `json:"reason,omitempty"`
}

// EnrichmentResult carries the AI-derived fields of a recipe. Every field is optional.
type EnrichmentResult struct {
	Description       string       `json:"description,omitempty"`
	PrepTime          string       `json:"prep_time,omitempty"`
	Nutrition         Nutrition    `json:"nutrition"`
	Substitutes       []Substitute `json:"substitutes,omitempty"`
	Allergens         []string     `json:"allergens,omitempty"`
	DietTypes         []string     `json:"diet_types,omitempty"`
	MealTypes         []string     `json:"meal_types,omitempty"`
	PrimaryIngredient string       `json:"primary_ingredient,omitempty"`
	CrossPromotion    string       `json:"cross_promotion,omitempty"`
	Provider          string       `json:"provider,omitempty"`
	Model             string       `json:"model,omitempty"`

	Outcome EnrichmentOutcome `json:"outcome"`
}

// Succeeded reports whether the collaborator returned a parsed payload
func (r *EnrichmentResult) Succeeded() bool {
	return r != nil && r.Outcome.Status == EnrichmentSucceeded
}

// FailedEnrichment returns an empty result tagged as failed with reason
func FailedEnrichment(reason string) *EnrichmentResult {
	return &EnrichmentResult{Outcome: EnrichmentOutcome{Status: EnrichmentFailed, Reason: reason}}
}

// SkippedEnrichment returns an empty result for runs without a collaborator
func SkippedEnrichment(reason string) *EnrichmentResult {
	return &EnrichmentResult{Outcome: EnrichmentOutcome{Status: EnrichmentSkipped, Reason: reason}}
}
