package routes

import (
	"net/http"

	"github.com/zatekoja/recipemigration/internal/api/handlers"
	"github.com/zatekoja/recipemigration/internal/api/loaders"
	"github.com/zatekoja/recipemigration/internal/api/middleware"
	"github.com/zatekoja/recipemigration/internal/domain/repositories"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	migrationHandler *handlers.MigrationHandler
	recipeHandler    *handlers.RecipeHandler
	eventsHandler    *handlers.MigrationEventsHandler

	sourceRepo     repositories.SourceDocumentRepository
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	migrationHandler *handlers.MigrationHandler,
	recipeHandler *handlers.RecipeHandler,
	eventsHandler *handlers.MigrationEventsHandler,
	sourceRepo repositories.SourceDocumentRepository,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		migrationHandler: migrationHandler,
		recipeHandler:    recipeHandler,
		eventsHandler:    eventsHandler,
		sourceRepo:       sourceRepo,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Migration control
	r.mux.HandleFunc("POST /api/migrations/batch", r.migrationHandler.MigrateBatch)
	r.mux.HandleFunc("POST /api/migrations/all", r.migrationHandler.MigrateAll)
	r.mux.HandleFunc("POST /api/migrations/stop", r.migrationHandler.Stop)
	r.mux.HandleFunc("POST /api/migrations/{id}", r.migrationHandler.MigrateOne)

	// Migration status
	r.mux.HandleFunc("GET /api/migrations/status", r.migrationHandler.GetStatus)
	r.mux.HandleFunc("GET /api/migrations/failed", r.migrationHandler.ListFailed)
	r.mux.HandleFunc("GET /api/migrations/{id}", r.migrationHandler.GetRecord)

	// Progress stream
	if r.eventsHandler != nil {
		r.mux.HandleFunc("GET /api/migrations/events", r.eventsHandler.Stream)
		r.mux.HandleFunc("GET /api/migrations/events/stats", r.eventsHandler.Stats)
	}

	// Recipes
	if r.recipeHandler != nil {
		r.mux.HandleFunc("GET /api/recipes/{id}", r.recipeHandler.GetRecipe)
		r.mux.HandleFunc("GET /api/sources/{id}/recipe", r.recipeHandler.GetRecipeBySource)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	if r.sourceRepo != nil {
		handler = loaders.Middleware(r.sourceRepo)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)

	// CORS wraps everything so preflight requests never reach the mux
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
