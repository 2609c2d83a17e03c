// internal/common/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"character-explorer/internal/common/config"
	apperrors "character-explorer/internal/common/errors"
)

// Client wraps the SQL handle together with the dialect it speaks.
type Client struct {
	DB      *sql.DB
	Dialect Dialect
	// Location is the sqlite file path or the postgres host/db, for logging.
	Location string
}

// Open connects to the configured driver and applies embedded migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Client, error) {
	var (
		client *Client
		err    error
	)
	switch cfg.Driver {
	case config.DriverSQLite, "":
		client, err = NewSQLite(cfg.SQLite)
	case config.DriverPostgres:
		client, err = NewPostgres(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	if err := ApplyMigrations(ctx, client.DB, client.Dialect); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Ping tests the database connection
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *Client) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
