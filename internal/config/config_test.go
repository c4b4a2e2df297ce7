package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scripturekit/bibles/pkg/database"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, LogFormatStandard, cfg.LogFormat)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeoutDuration())
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeoutDuration())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeoutDuration())

	assert.Equal(t, database.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "bibles.db", cfg.Database.Path)
	require.NotNil(t, cfg.Database.ReadOnly)
	assert.True(t, *cfg.Database.ReadOnly)

	assert.Equal(t, SearchBackendSQL, cfg.Search.Backend)
	assert.Equal(t, 50, cfg.Search.DefaultLimit)
	assert.Equal(t, 1000, cfg.Search.MaxLimit)
	assert.Equal(t, 1, cfg.Search.MinQueryLength)
}

func TestLoadConfig(t *testing.T) {
	t.Run("no file uses defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "bibles.db", cfg.Database.Path)
	})

	t.Run("file values", func(t *testing.T) {
		path := writeConfig(t, `
log_level  = "debug"
log_format = "json"

server {
  addr                 = "127.0.0.1:9000"
  cors_allowed_origins = ["https://bible.example"]
  shutdown_timeout     = "3s"
}

database {
  path              = "/data/bibles.db"
  read_only         = false
  max_open_conns    = 4
  conn_max_lifetime = "1m"
  connect_retries   = 2
}

search {
  backend          = "bleve"
  index_path       = "/data/verses.bleve"
  default_limit    = 20
  max_limit        = 200
  min_query_length = 3
}
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, LogFormatJSON, cfg.LogFormat)
		assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
		assert.Equal(t, []string{"https://bible.example"}, cfg.Server.CORSAllowedOrigins)
		assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeoutDuration())
		// Unset values in a present block still get defaults.
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeoutDuration())

		assert.Equal(t, SearchBackendBleve, cfg.Search.Backend)
		assert.Equal(t, "/data/verses.bleve", cfg.Search.IndexPath)
		assert.Equal(t, 20, cfg.Search.DefaultLimit)
		assert.Equal(t, 200, cfg.Search.MaxLimit)
		assert.Equal(t, 3, cfg.Search.MinQueryLength)

		dbCfg := cfg.DatabaseConfig()
		assert.Equal(t, database.Config{
			Driver:          database.DriverSQLite,
			Path:            "/data/bibles.db",
			ReadOnly:        false,
			MaxOpenConns:    4,
			ConnMaxLifetime: time.Minute,
			ConnectRetries:  2,
		}, dbCfg)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
		assert.ErrorContains(t, err, "configuration file not found")
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `server { addr = `))
		assert.ErrorContains(t, err, "failed to parse configuration file")
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv(EnvDatabasePath, "/env/bibles.db")
		t.Setenv(EnvAddr, ":8080")
		t.Setenv(EnvLogLevel, "warn")

		cfg, err := LoadConfig(writeConfig(t, `
database {
  path = "/file/bibles.db"
}
`))
		require.NoError(t, err)
		assert.Equal(t, "/env/bibles.db", cfg.Database.Path)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, "warn", cfg.LogLevel)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: []string{"log_level"},
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: []string{"log_format"},
		},
		{
			name:    "bad duration",
			mutate:  func(c *Config) { c.Server.ReadTimeout = "soon" },
			wantErr: []string{"server.read_timeout"},
		},
		{
			name:    "unsupported driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: []string{"database.driver"},
		},
		{
			name: "postgres without dsn",
			mutate: func(c *Config) {
				c.Database.Driver = database.DriverPostgres
			},
			wantErr: []string{"database.dsn is required"},
		},
		{
			name:    "unsupported backend",
			mutate:  func(c *Config) { c.Search.Backend = "algolia" },
			wantErr: []string{"search.backend"},
		},
		{
			name: "limits",
			mutate: func(c *Config) {
				c.Search.DefaultLimit = 100
				c.Search.MaxLimit = 10
				c.Search.MinQueryLength = -1
			},
			wantErr: []string{"search.max_limit", "search.min_query_length"},
		},
		{
			name: "all problems reported together",
			mutate: func(c *Config) {
				c.LogFormat = "xml"
				c.Server.Addr = ""
				c.Database.ConnectRetries = -1
			},
			wantErr: []string{"log_format", "server.addr", "database.connect_retries"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			for _, want := range tc.wantErr {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := NewConfig()
	cfg.LogLevel = "debug"

	log := cfg.NewLogger("bibles")
	assert.Equal(t, "bibles", log.Name())
	assert.True(t, log.IsDebug())
	assert.False(t, log.IsTrace())
}
