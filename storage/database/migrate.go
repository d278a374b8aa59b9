package database

import (
	"context"
	"embed"
	"log"
	"os"
	"path"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// migrationsDir returns the migrations folder and goose dialect for the driver behind db.
func migrationsDir(db *sqlx.DB) (dir, dialect string, err error) {
	switch db.DriverName() {
	case Postgres:
		return path.Join("migrations", Postgres), "postgres", nil
	case SQLite:
		return path.Join("migrations", SQLite), "sqlite3", nil
	}
	return "", "", errors.Errorf("no migrations for driver %q", db.DriverName())
}

// RunMigrations runs a goose command (up, down, status, ...) against db.
func RunMigrations(ctx context.Context, db *sqlx.DB, command string, args ...string) error {
	dir, dialect, err := migrationsDir(db)
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	if err = goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	return goose.RunContext(ctx, command, db.DB, dir, args...)
}

// Migrate applies all pending migrations.
func Migrate(db *sqlx.DB) error {
	if err := RunMigrations(context.Background(), db, "up"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// SetMigrationLogging toggles goose's own output.
func SetMigrationLogging(enabled bool) {
	if enabled {
		goose.SetLogger(log.New(os.Stdout, "MIGRATE : ", log.LstdFlags))
		return
	}
	goose.SetLogger(goose.NopLogger())
}
