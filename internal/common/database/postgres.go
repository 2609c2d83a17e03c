// internal/common/database/postgres.go
package database

import (
	"database/sql"
	"fmt"
	"time"

	"character-explorer/internal/common/config"

	_ "github.com/lib/pq"
)

// NewPostgres creates a client for a shared PostgreSQL catalog.
func NewPostgres(cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 4
	}
	db.SetMaxOpenConns(maxConns)
	// connections are released after every operation, nothing is kept idle
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Client{
		DB:       db,
		Dialect:  PostgresDialect{},
		Location: fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database),
	}, nil
}
