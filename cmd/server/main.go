// Package main implements the entry point for the library API server,
// which serves authors and their books over a shaped, paged and
// hypermedia-linked REST interface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/phrazzld/library-api/internal/config"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/platform/postgres"
)

// main is the entry point for the library-api server. With -migrate it runs
// the given migration command and exits; otherwise it serves HTTP until
// interrupted.
func main() {
	migrateCmd := flag.String("migrate", "",
		"Run a database migration command ("+strings.Join(postgres.MigrationCommands, ", ")+") and exit")
	configFile := flag.String("config", "", "Path to a config file (default: ./config.yaml if present)")
	flag.Parse()

	if err := run(context.Background(), *configFile, *migrateCmd); err != nil {
		log.Fatalf("library-api: %v", err)
	}
}

// run loads configuration, sets up logging and the database, then either
// runs migrations or serves the API.
func run(ctx context.Context, configFile, migrateCmd string) error {
	cfg, err := loadAppConfig(configFile)
	if err != nil {
		return err
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := setupAppDatabase(ctx, cfg, appLogger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDatabase(db, appLogger)
		return handleMigrations(ctx, db, migrateCmd, appLogger)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		closeDatabase(db, appLogger)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from environment
// variables and the optional config file.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	return cfg, nil
}
