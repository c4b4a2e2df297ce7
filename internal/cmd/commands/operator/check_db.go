package operator

import (
	"context"
	"flag"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/scripturekit/bibles/internal/cmd/base"
	"github.com/scripturekit/bibles/internal/config"
	"github.com/scripturekit/bibles/pkg/database"
	"github.com/scripturekit/bibles/pkg/models"
)

type CheckDBCommand struct {
	*base.Command

	flagConfig  string
	flagDB      string
	flagTimeout time.Duration
}

func (c *CheckDBCommand) Synopsis() string {
	return "Check that the scripture database is readable"
}

func (c *CheckDBCommand) Help() string {
	return `Usage: bibles operator check-db [options]

  This command opens the configured database read-only, prints the number
  of rows in each table and the connection pool statistics.` +
		c.Flags().Help()
}

func (c *CheckDBCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("check-db", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to an HCL config file.",
	)
	f.StringVar(
		&c.flagDB, "db", "", "Path to the SQLite database (overrides config).",
	)
	f.DurationVar(
		&c.flagTimeout, "timeout", 30*time.Second, "Time allowed for the check.",
	)

	return f
}

// TableCount is the number of rows in one table.
type TableCount struct {
	Table string
	Rows  int64
}

// CountRows returns the row count of every table in the schema.
func CountRows(ctx context.Context, db *gorm.DB) ([]TableCount, error) {
	var counts []TableCount
	for _, m := range models.ModelsToAutoMigrate() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("error parsing model: %w", err)
		}

		var n int64
		if err := db.WithContext(ctx).Model(m).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("error counting %s: %w", stmt.Schema.Table, err)
		}
		counts = append(counts, TableCount{Table: stmt.Schema.Table, Rows: n})
	}
	return counts, nil
}

func (c *CheckDBCommand) Run(args []string) int {
	logger, ui := c.Log, c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.LoadConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	if c.flagDB != "" {
		cfg.Database.Path = c.flagDB
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.flagTimeout)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseConfig(), logger)
	if err != nil {
		ui.Error(fmt.Sprintf("error connecting to database: %v", err))
		return 1
	}
	defer database.Close(db)

	if err := database.Ping(ctx, db); err != nil {
		ui.Error(fmt.Sprintf("error pinging database: %v", err))
		return 1
	}

	counts, err := CountRows(ctx, db)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	for _, tc := range counts {
		ui.Output(fmt.Sprintf("%-14s %d", tc.Table, tc.Rows))
	}

	stats, err := database.GetPoolStats(db)
	if err != nil {
		ui.Error(fmt.Sprintf("error getting pool stats: %v", err))
		return 1
	}
	ui.Output(fmt.Sprintf(
		"pool: max_open=%d open=%d in_use=%d idle=%d",
		stats.MaxOpenConnections, stats.OpenConnections, stats.InUse, stats.Idle))

	ui.Info("database OK")
	return 0
}
