package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/library-api/internal/api"
	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/platform/postgres"
	"github.com/phrazzld/library-api/internal/resource/links"
	"github.com/phrazzld/library-api/internal/resource/propmap"
	"github.com/phrazzld/library-api/internal/service"
	"github.com/phrazzld/library-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Built once at startup and read-only afterwards.
	mappings *propmap.Registry
	links    *links.Builder

	authorStore store.AuthorStore
	bookStore   store.BookStore

	authorService service.AuthorService
	bookService   service.BookService
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// A broken mapping table is a programming error and aborts startup.
	var err error
	app.mappings, err = service.NewPropertyMappings()
	if err != nil {
		return nil, fmt.Errorf("failed to register property mappings: %w", err)
	}

	app.links, err = links.NewBuilder(cfg.Server.PublicURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create link builder: %w", err)
	}

	app.authorStore = postgres.NewPostgresAuthorStore(db, logger)
	app.bookStore = postgres.NewPostgresBookStore(db, logger)

	app.authorService, err = service.NewAuthorService(db, app.authorStore, app.mappings, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create author service: %w", err)
	}

	app.bookService, err = service.NewBookService(db, app.authorStore, app.bookStore, app.mappings, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create book service: %w", err)
	}

	logger.Info("Application initialized successfully",
		slog.String("public_url", cfg.Server.PublicURL))
	return app, nil
}

// handlers builds the HTTP handlers from the application services.
func (app *application) handlers() (*api.AuthorHandler, *api.BookHandler, *api.AuthorCollectionHandler) {
	return api.NewAuthorHandler(app.authorService, app.mappings, app.links, app.config.Paging, app.logger),
		api.NewBookHandler(app.bookService, app.mappings, app.links, app.logger),
		api.NewAuthorCollectionHandler(app.authorService, app.links, app.logger)
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		closeDatabase(app.db, app.logger)
	}

	app.logger.Info("Application shutdown completed")
}
