package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// ResetOptions holds flags for the reset command.
type ResetOptions struct {
	*RootOptions
	Yes bool
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate every table",
		Long: `Drop all four tables and recreate them empty. Every stored record is lost.

This is the recovery path when another command exits with code 3.

Example:
  contactstore reset --db ./contacts.db --yes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm that all data will be deleted")

	return cmd
}

func runReset(opts *ResetOptions, cmd *cobra.Command) (err error) {
	if !opts.Yes {
		return NewExitError(ExitCommandError, "refusing to reset without --yes")
	}

	s, err := openSession(opts.RootOptions, cmd)
	if GetExitCode(err) == ExitRequiresReset {
		// The file cannot be opened as a store at all; start over from an
		// empty file.
		if rmErr := removeDatabaseFiles(opts.RootOptions); rmErr != nil {
			return WrapExitError(ExitFailure, "failed to remove unusable database", rmErr)
		}
		s, err = openSession(opts.RootOptions, cmd)
	}
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.close(); closeErr != nil && err == nil {
			err = storeExitError("failed to close database", closeErr)
		}
	}()

	if _, err := s.db.RecreateTables().Wait(commandContext(cmd)); err != nil {
		return storeExitError("reset failed", err)
	}

	return s.out.Success(map[string]string{"reset": s.cfg.Database.Path}, "All tables recreated.")
}

// removeDatabaseFiles deletes the database file and its WAL side files.
func removeDatabaseFiles(opts *RootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		path := cfg.Database.Path + suffix
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	slog.Warn("removed unusable database", "path", cfg.Database.Path)
	return nil
}
