// Package store is the catalog's data-access layer. Every operation acquires
// its own connection, runs one statement (two for franchise find-or-create)
// in autocommit mode and releases the connection before returning.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"character-explorer/internal/common/database"
	apperrors "character-explorer/internal/common/errors"
	"character-explorer/internal/common/logger"
	"character-explorer/internal/common/metrics"
)

type Store struct {
	db      *sql.DB
	dialect database.Dialect
	logger  logger.Logger
}

// New builds a Store over an opened database client.
func New(client *database.Client, log logger.Logger) *Store {
	return NewWithDB(client.DB, client.Dialect, log)
}

// NewWithDB builds a Store over a raw handle, e.g. a sqlmock connection.
func NewWithDB(db *sql.DB, dialect database.Dialect, log logger.Logger) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		logger: logger.Component(log, "store").WithFields(map[string]interface{}{
			"dialect": dialect.Name(),
		}),
	}
}

// withConn runs fn on a dedicated connection and always gives it back.
func (s *Store) withConn(ctx context.Context, operation string, fn func(conn *sql.Conn) error) (err error) {
	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = string(apperrors.CodeOf(err))
		}
		metrics.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
		metrics.StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}
	metrics.StoreConnectionsActive.Inc()
	defer func() {
		metrics.StoreConnectionsActive.Dec()
		if cerr := conn.Close(); cerr != nil && !errors.Is(cerr, sql.ErrConnDone) {
			s.logger.Warn("release connection failed", map[string]interface{}{
				"operation": operation,
				"error":     cerr.Error(),
			})
		}
	}()

	if err := s.dialect.PrepareConn(ctx, conn); err != nil {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}

	if err := fn(conn); err != nil {
		s.logger.Debug("operation failed", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
		return err
	}
	s.logger.Debug("operation completed", map[string]interface{}{
		"operation":  operation,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return nil
}

func (s *Store) q(query string) string {
	return s.dialect.Rebind(query)
}

// writeError maps a failed character/franchise write onto the catalog's
// error taxonomy.
func (s *Store) writeError(operation string, err error, franchiseID *int64, franchiseName string) error {
	switch s.dialect.Constraint(err) {
	case database.ConstraintForeignKey:
		var id int64
		if franchiseID != nil {
			id = *franchiseID
		}
		return apperrors.NewReferentialIntegrityError(id, err)
	case database.ConstraintUnique:
		return apperrors.NewDuplicateFranchiseError(franchiseName, err)
	case database.ConstraintCheck, database.ConstraintNotNull:
		return apperrors.NewConstraintViolationError(operation, err)
	}
	return apperrors.NewQueryExecutionFailedError(operation, err)
}

// CountCatalog returns the number of franchises and characters.
func (s *Store) CountCatalog(ctx context.Context) (franchises, characters int, err error) {
	err = s.withConn(ctx, "count_catalog", func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx,
			`SELECT (SELECT COUNT(*) FROM franchise), (SELECT COUNT(*) FROM "character")`)
		if err := row.Scan(&franchises, &characters); err != nil {
			return apperrors.NewQueryExecutionFailedError("count_catalog", err)
		}
		return nil
	})
	return franchises, characters, err
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func nullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

// nullableBlob binds a nil image as SQL NULL rather than an empty blob.
func nullableBlob(b []byte) interface{} {
	if b == nil {
		return nil
	}
	return b
}
