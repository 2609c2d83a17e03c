package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "character-explorer", cfg.App.Name)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data", cfg.Database.SQLite.DataDir)
	assert.Equal(t, "characters.db", cfg.Database.SQLite.FileName)
	assert.Equal(t, 5000, cfg.Database.SQLite.BusyTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFrom_FileAndEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
database:
  driver: postgres
  postgres:
    host: db.internal
    port: 5433
    database: catalog
    password: ${CATALOG_TEST_PG_PASSWORD}
logging:
  level: debug
`)
	writeConfig(t, dir, "config.staging.yaml", `
logging:
  format: json
`)
	t.Setenv("APP_ENVIRONMENT", "staging")
	t.Setenv("CATALOG_TEST_PG_PASSWORD", "s3cret")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := LoadFrom(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 5433, cfg.Database.Postgres.Port)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "dbname=catalog")
}

func TestLoadFrom_RejectsInvalidDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := LoadFrom(viper.New(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database.driver")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "sqlite file name with separator",
			cfg: Config{Database: DatabaseConfig{
				Driver: DriverSQLite,
				SQLite: SQLiteConfig{FileName: "../escape.db"},
			}},
			wantErr: "bare file name",
		},
		{
			name: "postgres without host",
			cfg: Config{Database: DatabaseConfig{
				Driver:   DriverPostgres,
				Postgres: PostgresConfig{Port: 5432, Database: "characters"},
			}},
			wantErr: "host is required",
		},
		{
			name: "valid sqlite",
			cfg: Config{Database: DatabaseConfig{
				Driver: DriverSQLite,
				SQLite: SQLiteConfig{FileName: "characters.db"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
