package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"github.com/phrazzld/library-api/internal/platform/postgres"
)

// handleMigrations runs one migration command against db. It's called from
// run() when the -migrate flag is set.
func handleMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if !slices.Contains(postgres.MigrationCommands, command) {
		return fmt.Errorf("unknown migration command %q, expected one of %v", command, postgres.MigrationCommands)
	}

	logger.Info("Executing migrations", slog.String("command", command))
	if err := postgres.Migrate(ctx, db, command, logger); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	logger.Info("Migrations finished", slog.String("command", command))
	return nil
}
