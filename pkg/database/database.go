package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/scripturekit/bibles/pkg/database/sqlfold"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds configuration for database connection.
type Config struct {
	Driver string // "sqlite" (default) or "postgres"

	// SQLite config
	Path     string // e.g., "bibles.db"
	ReadOnly bool   // Open the SQLite file with mode=ro

	// PostgreSQL config
	DSN string

	// Connection pool settings
	MaxIdleConns    int           // Maximum idle connections in pool (default: 10)
	MaxOpenConns    int           // Maximum open connections (default: 25)
	ConnMaxLifetime time.Duration // Maximum connection lifetime (default: 5 minutes)
	ConnMaxIdleTime time.Duration // Maximum connection idle time (default: 10 minutes)

	// ConnectRetries is the number of additional attempts made to open the
	// database before giving up. Zero means a single attempt.
	ConnectRetries int
}

// Connect establishes a database connection using the provided configuration.
// The returned handle is safe for concurrent use and should be shared for the
// life of the process.
func Connect(ctx context.Context, cfg Config, log hclog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	// Create GORM config with optional logger
	gormConfig := &gorm.Config{}
	if log != nil {
		gormConfig.Logger = NewGormLogger(log.Named("gorm"))
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var db *gorm.DB
	open := func() error {
		var err error
		db, err = gorm.Open(dialector, gormConfig)
		if err != nil && log != nil {
			log.Warn("error opening database, will retry", "error", err)
		}
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(), uint64(max(cfg.ConnectRetries, 0))),
		ctx,
	)
	if err := backoff.Retry(open, policy); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	// Apply connection pool settings with sensible defaults
	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = 10
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)

	maxOpenConns := cfg.MaxOpenConns
	if maxOpenConns == 0 {
		maxOpenConns = 25
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)

	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	connMaxIdleTime := cfg.ConnMaxIdleTime
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	if log != nil {
		log.Info("connected to database",
			"driver", driverName(cfg),
			"path", cfg.Path,
			"read_only", cfg.ReadOnly,
			"max_idle_conns", maxIdleConns,
			"max_open_conns", maxOpenConns,
			"conn_max_lifetime", connMaxLifetime,
			"conn_max_idle_time", connMaxIdleTime,
		)
	}

	return db, nil
}

func driverName(cfg Config) string {
	if cfg.Driver == "" {
		return DriverSQLite
	}
	return cfg.Driver
}

// dialectorFor builds the GORM dialector for cfg.
func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch driverName(cfg) {
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, errors.New("sqlite database path is required")
		}
		// SQLite would silently create a missing file, which would then serve
		// an empty schema.
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("database file not found: %s: %w", cfg.Path, err)
		}
		return sqlfold.SQLite(SQLiteDSN(cfg.Path, cfg.ReadOnly)), nil

	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("postgres dsn is required")
		}
		return postgres.Open(cfg.DSN), nil

	default:
		return nil, fmt.Errorf(
			"unsupported database driver: %s (must be %q or %q)",
			cfg.Driver, DriverSQLite, DriverPostgres)
	}
}

// SQLiteDSN returns the URI connection string for a SQLite file. The path is
// percent-encoded so '?', '#' and '%' in file names survive.
func SQLiteDSN(path string, readOnly bool) string {
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath()
	if !readOnly {
		return dsn
	}
	params := url.Values{}
	params.Set("mode", "ro")
	params.Set("_query_only", "true")
	return dsn + "?" + params.Encode()
}

// Ping verifies the database is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	return sqlDB.Close()
}

// PoolStats holds database connection pool statistics.
type PoolStats struct {
	MaxOpenConnections int           // Maximum number of open connections to the database
	OpenConnections    int           // The number of established connections both in use and idle
	InUse              int           // The number of connections currently in use
	Idle               int           // The number of idle connections
	WaitCount          int64         // The total number of connections waited for
	WaitDuration       time.Duration // The total time blocked waiting for a new connection
	MaxIdleClosed      int64         // The total number of connections closed due to SetMaxIdleConns
	MaxIdleTimeClosed  int64         // The total number of connections closed due to SetConnMaxIdleTime
	MaxLifetimeClosed  int64         // The total number of connections closed due to SetConnMaxLifetime
}

// GetPoolStats returns connection pool statistics from a GORM DB instance.
func GetPoolStats(db *gorm.DB) (*PoolStats, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	stats := sqlDB.Stats()
	return &PoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}, nil
}
