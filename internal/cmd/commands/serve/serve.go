package serve

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/scripturekit/bibles/internal/api"
	"github.com/scripturekit/bibles/internal/cmd/base"
	"github.com/scripturekit/bibles/internal/config"
	"github.com/scripturekit/bibles/internal/server"
	"github.com/scripturekit/bibles/pkg/database"
)

type Command struct {
	*base.Command

	flagConfig string
	flagAddr   string
	flagDB     string
}

func (c *Command) Synopsis() string {
	return "Run the API server"
}

func (c *Command) Help() string {
	return `Usage: bibles serve [options]

  Run the read-only Bible translations API.

  Configuration is read from the optional HCL file given with -config,
  then overridden by BIBLES_DB_PATH, BIBLES_ADDR and BIBLES_LOG_LEVEL,
  then by the -addr and -db flags.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("serve", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to an HCL config file.",
	)
	f.StringVar(
		&c.flagAddr, "addr", "", "Address to listen on (overrides config).",
	)
	f.StringVar(
		&c.flagDB, "db", "", "Path to the SQLite database (overrides config).",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.LoadConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	if c.flagAddr != "" {
		cfg.Server.Addr = c.flagAddr
	}
	if c.flagDB != "" {
		cfg.Database.Path = c.flagDB
	}

	log := cfg.NewLogger(c.Log.Name())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DatabaseConfig(), log)
	if err != nil {
		ui.Error(fmt.Sprintf("error connecting to database: %v", err))
		return 1
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("error closing database", "error", err)
		}
	}()

	searcher, closeSearcher, err := newSearcher(ctx, cfg.Search, db, log)
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing search: %v", err))
		return 1
	}
	defer closeSearcher()

	srv := server.Server{
		Config:   cfg,
		DB:       db,
		Logger:   log,
		Searcher: searcher,
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(srv),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Addr, "search_backend", searcher.Name())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			ui.Error(fmt.Sprintf("error starting listener: %v", err))
			return 1
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		ui.Error(fmt.Sprintf("error shutting down server: %v", err))
		return 1
	}

	return 0
}
