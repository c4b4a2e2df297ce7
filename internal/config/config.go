// Package config loads the server configuration from an optional HCL file,
// environment variables and defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/scripturekit/bibles/pkg/database"
)

// Environment variables that override file values.
const (
	EnvDatabasePath = "BIBLES_DB_PATH"
	EnvAddr         = "BIBLES_ADDR"
	EnvLogLevel     = "BIBLES_LOG_LEVEL"
)

// Search backends.
const (
	SearchBackendSQL   = "sql"
	SearchBackendBleve = "bleve"
)

// Log formats.
const (
	LogFormatStandard = "standard"
	LogFormatJSON     = "json"
)

// Config contains the server configuration.
type Config struct {
	// LogLevel is the hclog level name (trace, debug, info, warn, error).
	LogLevel string `hcl:"log_level,optional"`

	// LogFormat is "standard" or "json".
	LogFormat string `hcl:"log_format,optional"`

	Server   *Server   `hcl:"server,block"`
	Database *Database `hcl:"database,block"`
	Search   *Search   `hcl:"search,block"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr               string   `hcl:"addr,optional"`
	CORSAllowedOrigins []string `hcl:"cors_allowed_origins,optional"`
	ReadTimeout        string   `hcl:"read_timeout,optional"`
	WriteTimeout       string   `hcl:"write_timeout,optional"`
	ShutdownTimeout    string   `hcl:"shutdown_timeout,optional"`
}

// Database configures the scripture database.
type Database struct {
	Driver          string `hcl:"driver,optional"`
	Path            string `hcl:"path,optional"`
	DSN             string `hcl:"dsn,optional"`
	ReadOnly        *bool  `hcl:"read_only,optional"`
	MaxIdleConns    int    `hcl:"max_idle_conns,optional"`
	MaxOpenConns    int    `hcl:"max_open_conns,optional"`
	ConnMaxLifetime string `hcl:"conn_max_lifetime,optional"`
	ConnMaxIdleTime string `hcl:"conn_max_idle_time,optional"`
	ConnectRetries  int    `hcl:"connect_retries,optional"`
}

// Search configures verse text search.
type Search struct {
	Backend        string `hcl:"backend,optional"`
	IndexPath      string `hcl:"index_path,optional"`
	RebuildIndex   bool   `hcl:"rebuild_index,optional"`
	DefaultLimit   int    `hcl:"default_limit,optional"`
	MaxLimit       int    `hcl:"max_limit,optional"`
	MinQueryLength int    `hcl:"min_query_length,optional"`
}

// NewConfig returns a configuration with every default applied.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig decodes the HCL file at path (if not empty), applies defaults and
// environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = LogFormatStandard
	}

	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "0.0.0.0:8000"
	}
	if c.Server.CORSAllowedOrigins == nil {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}

	if c.Database == nil {
		c.Database = &Database{}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = database.DriverSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = "bibles.db"
	}
	if c.Database.ReadOnly == nil {
		readOnly := true
		c.Database.ReadOnly = &readOnly
	}

	if c.Search == nil {
		c.Search = &Search{}
	}
	if c.Search.Backend == "" {
		c.Search.Backend = SearchBackendSQL
	}
	if c.Search.DefaultLimit == 0 {
		c.Search.DefaultLimit = 50
	}
	if c.Search.MaxLimit == 0 {
		c.Search.MaxLimit = 1000
	}
	if c.Search.MinQueryLength == 0 {
		c.Search.MinQueryLength = 1
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDatabasePath); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result,
			fmt.Errorf("log_level %q is not a valid level", c.LogLevel))
	}
	if c.LogFormat != LogFormatStandard && c.LogFormat != LogFormatJSON {
		result = multierror.Append(result,
			fmt.Errorf("log_format must be %q or %q", LogFormatStandard, LogFormatJSON))
	}

	if c.Server == nil || c.Database == nil || c.Search == nil {
		return multierror.Append(result,
			fmt.Errorf("server, database and search blocks must be set")).ErrorOrNil()
	}

	if c.Server.Addr == "" {
		result = multierror.Append(result, fmt.Errorf("server.addr is required"))
	}
	for name, v := range map[string]string{
		"server.read_timeout":         c.Server.ReadTimeout,
		"server.write_timeout":        c.Server.WriteTimeout,
		"server.shutdown_timeout":     c.Server.ShutdownTimeout,
		"database.conn_max_lifetime":  c.Database.ConnMaxLifetime,
		"database.conn_max_idle_time": c.Database.ConnMaxIdleTime,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
		}
	}

	switch c.Database.Driver {
	case database.DriverSQLite:
		if c.Database.Path == "" {
			result = multierror.Append(result, fmt.Errorf("database.path is required for sqlite"))
		}
	case database.DriverPostgres:
		if c.Database.DSN == "" {
			result = multierror.Append(result, fmt.Errorf("database.dsn is required for postgres"))
		}
	default:
		result = multierror.Append(result,
			fmt.Errorf("database.driver %q is not supported (must be %q or %q)",
				c.Database.Driver, database.DriverSQLite, database.DriverPostgres))
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxOpenConns < 0 {
		result = multierror.Append(result, fmt.Errorf("database connection limits must not be negative"))
	}
	if c.Database.ConnectRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("database.connect_retries must not be negative"))
	}

	switch strings.ToLower(c.Search.Backend) {
	case SearchBackendSQL, SearchBackendBleve:
	default:
		result = multierror.Append(result,
			fmt.Errorf("search.backend %q is not supported (must be %q or %q)",
				c.Search.Backend, SearchBackendSQL, SearchBackendBleve))
	}
	if c.Search.DefaultLimit < 1 {
		result = multierror.Append(result, fmt.Errorf("search.default_limit must be at least 1"))
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		result = multierror.Append(result,
			fmt.Errorf("search.max_limit must be at least search.default_limit"))
	}
	if c.Search.MinQueryLength < 1 {
		result = multierror.Append(result, fmt.Errorf("search.min_query_length must be at least 1"))
	}

	return result.ErrorOrNil()
}

// NewLogger returns a root logger with the configured level and format.
func (c *Config) NewLogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(c.LogLevel),
		JSONFormat: c.LogFormat == LogFormatJSON,
	})
}

// DatabaseConfig converts the database block for database.Connect.
func (c *Config) DatabaseConfig() database.Config {
	return database.Config{
		Driver:          c.Database.Driver,
		Path:            c.Database.Path,
		DSN:             c.Database.DSN,
		ReadOnly:        c.Database.ReadOnly == nil || *c.Database.ReadOnly,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: parseDuration(c.Database.ConnMaxLifetime),
		ConnMaxIdleTime: parseDuration(c.Database.ConnMaxIdleTime),
		ConnectRetries:  c.Database.ConnectRetries,
	}
}

// ReadTimeoutDuration returns the HTTP server read timeout.
func (s *Server) ReadTimeoutDuration() time.Duration {
	return parseDuration(s.ReadTimeout)
}

// WriteTimeoutDuration returns the HTTP server write timeout.
func (s *Server) WriteTimeoutDuration() time.Duration {
	return parseDuration(s.WriteTimeout)
}

// ShutdownTimeoutDuration returns how long in-flight requests may run after a
// shutdown signal.
func (s *Server) ShutdownTimeoutDuration() time.Duration {
	return parseDuration(s.ShutdownTimeout)
}

// parseDuration returns zero for empty or invalid values; Validate reports
// invalid ones.
func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
