package entities

import "time"

// SourceStatus is the lifecycle state of a legacy blog post
type SourceStatus string

const (
	SourceStatusPublish SourceStatus = "publish"
	SourceStatusDraft   SourceStatus = "draft"
	SourceStatusRetired SourceStatus = "retired"
)

// SourceDocument is a legacy blog post awaiting migration. Only Status and
// MigratedRecipeID change after import.
type SourceDocument struct {
	ID               string       `json:"id" db:"id"`
	Title            string       `json:"title" db:"title"`
	Content          string       `json:"content" db:"content"`
	Excerpt          string       `json:"excerpt" db:"excerpt"`
	AuthorID         string       `json:"author_id" db:"author_id"`
	FeaturedMediaID  string       `json:"featured_media_id,omitempty" db:"featured_media_id"`
	Status           SourceStatus `json:"status" db:"status"`
	MigratedRecipeID string       `json:"migrated_recipe_id,omitempty" db:"migrated_recipe_id"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at" db:"updated_at"`
}

// IsRetired reports whether the post has already been replaced by a recipe
func (d *SourceDocument) IsRetired() bool {
	return d.Status == SourceStatusRetired
}
