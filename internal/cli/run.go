package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/contactstore/internal/database"
	"github.com/roach88/contactstore/internal/retention"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	// RunIDs allows overriding the sweep run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs retention.RunIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Keep the store open and sweep expired data periodically",
		Long: `Open the contact store and run the retention sweeper until interrupted.

The first sweep runs immediately; later sweeps follow [sweeper] interval.
Queued writes are drained before the store is closed.

Example:
  contactstore run --config ./contactstore.toml
  contactstore run --db /tmp/contacts.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runService(opts, cmd)
		},
	}

	return cmd
}

func runService(opts *RunOptions, cmd *cobra.Command) (err error) {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.close(); closeErr != nil && err == nil {
			err = storeExitError("failed to close database", closeErr)
		}
	}()

	interval, err := s.cfg.SweepInterval()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid sweeper interval", err)
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	unsubscribe := s.db.Subscribe(database.ObserverFunc(func(ev database.ChangeEvent) {
		s.logger.Debug("storage changed", "kind", ev.Kind, "table", ev.Table, "rows", ev.Rows)
	}))
	defer unsubscribe()

	sweeperOpts := []retention.SweeperOption{retention.WithLogger(s.logger)}
	if opts.RunIDs != nil {
		sweeperOpts = append(sweeperOpts, retention.WithRunIDGenerator(opts.RunIDs))
	}
	sweeper := retention.NewSweeper(s.db, sweeperOpts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case sig := <-sigChan:
			s.logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		return sweeper.Run(gctx, interval)
	})

	s.logger.Info("store open", "db", s.cfg.Database.Path, "sweep_interval", interval)
	fmt.Fprintln(cmd.OutOrStdout(), "Contact store open. Sweeping expired data every", interval)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	if err := g.Wait(); err != nil {
		return storeExitError("sweeper stopped", err)
	}

	s.logger.Info("store closed gracefully")
	return nil
}
