package repositories

import (
	"context"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

// TaxonomyRepository defines the interface for taxonomy term storage
type TaxonomyRepository interface {
	ListByTaxonomy(ctx context.Context, taxonomy entities.Taxonomy) ([]*entities.TaxonomyTerm, error)

	// EnsureTerm returns the term with the given name's slug, creating it if absent.
	EnsureTerm(ctx context.Context, taxonomy entities.Taxonomy, name string) (*entities.TaxonomyTerm, error)
}
