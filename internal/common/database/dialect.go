package database

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ConstraintKind classifies a driver error raised by a violated constraint.
type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintUnique
	ConstraintForeignKey
	ConstraintCheck
	ConstraintNotNull
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintUnique:
		return "unique"
	case ConstraintForeignKey:
		return "foreign_key"
	case ConstraintCheck:
		return "check"
	case ConstraintNotNull:
		return "not_null"
	default:
		return "none"
	}
}

// Dialect hides the differences between the supported SQL engines. Queries
// are written once with '?' placeholders and rebound per dialect.
type Dialect interface {
	Name() string
	// Rebind rewrites '?' placeholders into the engine's native form.
	Rebind(query string) string
	// CaseInsensitiveLike is the operator used for substring search.
	CaseInsensitiveLike() string
	// PrepareConn runs per-connection setup on a freshly acquired connection.
	PrepareConn(ctx context.Context, conn *sql.Conn) error
	// Constraint reports which constraint, if any, err violated.
	Constraint(err error) ConstraintKind
	// MigrationDir names the embedded migration directory for the dialect.
	MigrationDir() string
}

// SQLiteDialect targets modernc.org/sqlite.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string { return "sqlite" }

func (SQLiteDialect) Rebind(query string) string { return query }

// LIKE is case-insensitive for ASCII in SQLite.
func (SQLiteDialect) CaseInsensitiveLike() string { return "LIKE" }

func (SQLiteDialect) MigrationDir() string { return "sqlite" }

// PrepareConn enables foreign keys, which SQLite scopes to the connection.
func (SQLiteDialect) PrepareConn(ctx context.Context, conn *sql.Conn) error {
	_, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	return err
}

func (SQLiteDialect) Constraint(err error) ConstraintKind {
	if err == nil {
		return ConstraintNone
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ConstraintUnique
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ConstraintForeignKey
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
			return ConstraintCheck
		case sqlite3lib.SQLITE_CONSTRAINT_NOTNULL:
			return ConstraintNotNull
		}
	}
	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "unique constraint failed"):
		return ConstraintUnique
	case strings.Contains(message, "foreign key constraint failed"):
		return ConstraintForeignKey
	case strings.Contains(message, "check constraint failed"):
		return ConstraintCheck
	case strings.Contains(message, "not null constraint failed"):
		return ConstraintNotNull
	}
	return ConstraintNone
}

// PostgresDialect targets github.com/lib/pq.
type PostgresDialect struct{}

func (PostgresDialect) Name() string { return "postgres" }

func (PostgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c == '\'' {
			inQuote = !inQuote
		}
		if c == '?' && !inQuote {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (PostgresDialect) CaseInsensitiveLike() string { return "ILIKE" }

func (PostgresDialect) MigrationDir() string { return "postgres" }

func (PostgresDialect) PrepareConn(context.Context, *sql.Conn) error { return nil }

// SQLSTATE class 23 codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
func (PostgresDialect) Constraint(err error) ConstraintKind {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return ConstraintNone
	}
	switch pqErr.Code {
	case "23505":
		return ConstraintUnique
	case "23503":
		return ConstraintForeignKey
	case "23514":
		return ConstraintCheck
	case "23502":
		return ConstraintNotNull
	}
	return ConstraintNone
}

// DialectFor returns the dialect registered for a config driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite":
		return SQLiteDialect{}, nil
	case "postgres":
		return PostgresDialect{}, nil
	}
	return nil, errors.New("unsupported driver: " + driver)
}
