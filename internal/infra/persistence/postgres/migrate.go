package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"tasker/internal/errors"
	"tasker/internal/infra/persistence/migrations"

	"github.com/pressly/goose/v3"
)

const migrationDialect = "postgres"

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to the database.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(migrationDialect); err != nil {
		return errors.Wrap(err, "failed to set migration dialect")
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}

	logger.InfoContext(ctx, "Database migrations applied")

	return nil
}
