package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/contactstore/internal/config"
	"github.com/roach88/contactstore/internal/database"
	"github.com/roach88/contactstore/internal/store"
)

// closeTimeout bounds how long a command waits for queued work at exit.
const closeTimeout = 30 * time.Second

// session bundles what every store-backed command needs.
type session struct {
	cfg    *config.Config
	db     *database.DB
	logger *slog.Logger
	out    *OutputFormatter
}

// loadConfig reads the config file named by --config, or the defaults when
// none is given, and applies flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.Database != "" {
		cfg.Database.Path = opts.Database
	}
	return cfg, nil
}

// newLogger builds the slog logger described by cfg. --verbose forces debug.
func newLogger(cfg *config.Config, verbose bool, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler), nil
}

// newFormatter creates the output formatter for cmd.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openSession loads configuration, opens the store and starts the DB lanes.
// Callers must call close.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	logger, err := newLogger(cfg, opts.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to configure logging", err)
	}
	slog.SetDefault(logger)

	if err := cfg.EnsureDirs(); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to prepare data directory", err)
	}

	logger.Debug("opening database", "path", cfg.Database.Path)
	st, err := store.Open(cfg.Database.Path, cfg.StoreOptions()...)
	if err != nil {
		if store.RequiresReset(err) {
			return nil, WrapExitError(ExitRequiresReset, "database requires reset", err)
		}
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	db := database.New(st, cfg.Retention, database.WithLogger(logger))
	// Lanes outlive command cancellation; close drains them.
	db.Start(context.Background())

	return &session{
		cfg:    cfg,
		db:     db,
		logger: logger,
		out:    newFormatter(opts, cmd),
	}, nil
}

// close drains queued work and closes the store.
func (s *session) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := s.db.Close(ctx); err != nil {
		s.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
