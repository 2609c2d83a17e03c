package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"character-explorer/internal/common/database/migrations"
	apperrors "character-explorer/internal/common/errors"
)

const migrationTable = "schema_migrations"

// ApplyMigrations brings the schema up to the latest embedded version.
func ApplyMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	return applyMigrationsFS(ctx, db, dialect, migrations.FS, dialect.MigrationDir())
}

func applyMigrationsFS(ctx context.Context, db *sql.DB, dialect Dialect, migrationFS fs.FS, root string) error {
	if db == nil {
		return fmt.Errorf("sql db is required")
	}

	src, err := iofs.New(migrationFS, root)
	if err != nil {
		return apperrors.NewMigrationFailedError(root, fmt.Errorf("read migrations dir: %w", err))
	}
	defer src.Close()

	driver, release, err := migrationDriver(ctx, db, dialect)
	if err != nil {
		return apperrors.NewMigrationFailedError(migrationTable, err)
	}
	defer release()

	// m.Close is never called: it would close db along with the driver.
	m, err := migrate.NewWithInstance("iofs", src, dialect.Name(), driver)
	if err != nil {
		return apperrors.NewMigrationFailedError(root, err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperrors.NewMigrationFailedError(root, err)
	}
	return nil
}

// migrationDriver wraps db for golang-migrate. The postgres driver pins one
// connection for its advisory lock; release hands it back.
func migrationDriver(ctx context.Context, db *sql.DB, dialect Dialect) (migratedb.Driver, func(), error) {
	switch dialect.Name() {
	case "postgres":
		conn, err := db.Conn(ctx)
		if err != nil {
			return nil, nil, err
		}
		driver, err := migratepg.WithConnection(ctx, conn, &migratepg.Config{MigrationsTable: migrationTable})
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return driver, func() { _ = conn.Close() }, nil
	case "sqlite":
		driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{MigrationsTable: migrationTable})
		if err != nil {
			return nil, nil, err
		}
		return driver, func() {}, nil
	}
	return nil, nil, fmt.Errorf("no migration driver for dialect %q", dialect.Name())
}
