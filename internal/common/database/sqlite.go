// internal/common/database/sqlite.go
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"character-explorer/internal/common/config"

	_ "modernc.org/sqlite"
)

// NewSQLite opens the local catalog file, creating its directory if needed.
func NewSQLite(cfg config.SQLiteConfig) (*Client, error) {
	dir, err := ResolveDataDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	fileName := cfg.FileName
	if strings.TrimSpace(fileName) == "" {
		fileName = "characters.db"
	}
	path := filepath.Join(dir, fileName)
	return OpenSQLiteFile(path, cfg.BusyTimeout)
}

// OpenSQLiteFile opens a catalog at an explicit path.
func OpenSQLiteFile(path string, busyTimeoutMs int) (*Client, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if busyTimeoutMs <= 0 {
		busyTimeoutMs = 5000
	}
	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", cleanPath, busyTimeoutMs)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// single writer; each operation takes the one connection and gives it back
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	return &Client{DB: db, Dialect: SQLiteDialect{}, Location: cleanPath}, nil
}

// ResolveDataDir turns a relative data directory into one next to the running
// executable and makes sure it exists. Absolute paths are used as given.
func ResolveDataDir(dataDir string) (string, error) {
	if strings.TrimSpace(dataDir) == "" {
		dataDir = "data"
	}
	dir := dataDir
	if !filepath.IsAbs(dir) {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("resolve executable path: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = filepath.Join(filepath.Dir(exe), dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return dir, nil
}
