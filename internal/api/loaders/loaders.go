package loaders

import (
	"context"
	"net/http"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders contains the per-request dataloaders
type Loaders struct {
	SourceLoader *dataloader.Loader[string, *entities.SourceDocument]
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(sourceRepo repositories.SourceDocumentRepository) *Loaders {
	return &Loaders{
		SourceLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[*entities.SourceDocument] {
			results := make([]*dataloader.Result[*entities.SourceDocument], len(keys))
			docs, err := sourceRepo.GetByIDs(ctx, keys)

			docMap := make(map[string]*entities.SourceDocument, len(docs))
			if err == nil {
				for _, d := range docs {
					docMap[d.ID] = d
				}
			}

			for i, key := range keys {
				if err != nil {
					results[i] = &dataloader.Result[*entities.SourceDocument]{Error: err}
				} else if d, ok := docMap[key]; ok {
					results[i] = &dataloader.Result[*entities.SourceDocument]{Data: d}
				} else {
					results[i] = &dataloader.Result[*entities.SourceDocument]{Error: apperrors.NewNotFoundError("source document " + key + " not found")}
				}
			}
			return results
		}),
	}
}

// For returns the loaders attached to ctx, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// Middleware attaches a fresh set of loaders to every request
func Middleware(sourceRepo repositories.SourceDocumentRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(sourceRepo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
