package loaders_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/recipemigration/internal/api/loaders"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

type countingSources struct {
	repositories.SourceDocumentRepository

	mu    sync.Mutex
	calls int
	docs  map[string]*entities.SourceDocument
}

func (c *countingSources) GetByIDs(ctx context.Context, ids []string) ([]*entities.SourceDocument, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	var out []*entities.SourceDocument
	for _, id := range ids {
		if d, ok := c.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func TestSourceLoader_BatchesLookups(t *testing.T) {
	repo := &countingSources{docs: map[string]*entities.SourceDocument{
		"p1": {ID: "p1", Title: "Elmalı Yulaf"},
		"p2": {ID: "p2", Title: "Brokolili Omlet"},
	}}
	l := loaders.NewLoaders(repo)

	docs, errs := l.SourceLoader.LoadMany(context.Background(), []string{"p1", "p2", "missing"})()
	require.Len(t, docs, 3)
	assert.Equal(t, "Elmalı Yulaf", docs[0].Title)
	assert.Equal(t, "Brokolili Omlet", docs[1].Title)
	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.True(t, apperrors.IsType(errs[2], apperrors.ErrorTypeNotFound))
	assert.Equal(t, 1, repo.calls)
}

func TestMiddleware_AttachesLoaders(t *testing.T) {
	repo := &countingSources{docs: map[string]*entities.SourceDocument{}}

	var got *loaders.Loaders
	h := loaders.Middleware(repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = loaders.For(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.NotNil(t, got)
	assert.Nil(t, loaders.For(context.Background()))
}
