package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
)

// CachedTaxonomyAdapter wraps a TaxonomyRepository with a term-list cache
type CachedTaxonomyAdapter struct {
	adapter repositories.TaxonomyRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedTaxonomyAdapter creates a new cached taxonomy adapter. metrics may be nil.
func NewCachedTaxonomyAdapter(adapter repositories.TaxonomyRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.TaxonomyRepository {
	return &CachedTaxonomyAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// taxonomy lists change only through EnsureTerm, which invalidates them
const taxonomyListTTL = 3600

func taxonomyCacheKey(taxonomy entities.Taxonomy) string {
	return fmt.Sprintf("taxonomy:terms:%s", taxonomy)
}

// ListByTaxonomy returns the term list, served from cache when possible
func (a *CachedTaxonomyAdapter) ListByTaxonomy(ctx context.Context, taxonomy entities.Taxonomy) ([]*entities.TaxonomyTerm, error) {
	key := taxonomyCacheKey(taxonomy)

	cached, err := a.cache.Get(ctx, key)
	switch {
	case err == nil:
		var terms []*entities.TaxonomyTerm
		if err := json.Unmarshal(cached, &terms); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, key)
			return terms, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cached taxonomy list")
	case !errors.Is(err, providers.ErrCacheMiss):
		log.Warn().Err(err).Str("key", key).Msg("taxonomy cache read failed")
	}
	observability.RecordCacheMiss(ctx, a.metrics, key)

	terms, err := a.adapter.ListByTaxonomy(ctx, taxonomy)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(terms); err == nil {
		if err := a.cache.Set(ctx, key, data, taxonomyListTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache taxonomy list")
		}
	}
	return terms, nil
}

// EnsureTerm delegates to the store and drops the cached list for the taxonomy
func (a *CachedTaxonomyAdapter) EnsureTerm(ctx context.Context, taxonomy entities.Taxonomy, name string) (*entities.TaxonomyTerm, error) {
	term, err := a.adapter.EnsureTerm(ctx, taxonomy, name)
	if err != nil {
		return nil, err
	}
	if err := a.cache.Delete(ctx, taxonomyCacheKey(taxonomy)); err != nil {
		log.Warn().Err(err).Str("taxonomy", string(taxonomy)).Msg("failed to invalidate taxonomy cache")
	}
	return term, nil
}
