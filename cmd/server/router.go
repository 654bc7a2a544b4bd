package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/library-api/internal/api"
	apiMiddleware "github.com/phrazzld/library-api/internal/api/middleware"
	"github.com/phrazzld/library-api/internal/api/shared"
	"github.com/phrazzld/library-api/internal/resource/paging"
	"github.com/rs/cors"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	authorHandler, bookHandler, collectionHandler := app.handlers()
	return newRouter(app, authorHandler, bookHandler, collectionHandler)
}

// newRouter wires middleware and routes around the given handlers.
func newRouter(
	app *application,
	authorHandler *api.AuthorHandler,
	bookHandler *api.BookHandler,
	collectionHandler *api.AuthorCollectionHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	if origins := app.config.Server.AllowedOrigins; len(origins) > 0 {
		r.Use(newCORS(origins).Handler)
	}

	r.Get("/health", api.HealthHandler)
	api.RegisterRoutes(r, authorHandler, bookHandler, collectionHandler)

	return r
}

// newCORS allows the configured origins to call the API and read the
// pagination, location and trace headers. It must not be installed with an
// empty origin list, which rs/cors treats as "*".
func newCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{paging.HeaderName, "Location", shared.TraceIDHeader},
		MaxAge:         300,
	})
}
