package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/contactstore/internal/ir"
	"github.com/roach88/contactstore/internal/retention"
	"github.com/roach88/contactstore/internal/store"
)

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	*RootOptions
	Now string // YYYY-MM-DD; empty means the current time
}

// fixedNow is a retention.Clock pinned to one instant.
type fixedNow time.Time

func (f fixedNow) Now() time.Time { return time.Time(f) }

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete data outside the retention windows once",
		Long: `Run one retention sweep and report how many rows each table lost.

Example:
  contactstore sweep --db ./contacts.db
  contactstore sweep --db ./contacts.db --now 2026-10-15 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Now, "now", "", "sweep as of this UTC day (YYYY-MM-DD)")

	return cmd
}

func runSweep(opts *SweepOptions, cmd *cobra.Command) (err error) {
	var clock retention.Clock = retention.SystemClock{}
	if opts.Now != "" {
		day, parseErr := ir.ParseDay(opts.Now)
		if parseErr != nil {
			return WrapExitError(ExitCommandError, "invalid --now", parseErr)
		}
		clock = fixedNow(day.Time())
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.close(); closeErr != nil && err == nil {
			err = storeExitError("failed to close database", closeErr)
		}
	}()

	sweeper := retention.NewSweeper(s.db, retention.WithClock(clock), retention.WithLogger(s.logger))
	res, err := sweeper.Sweep(commandContext(cmd))
	if err != nil {
		return storeExitError("sweep failed", err)
	}

	return s.out.Success(res, formatPruneResult(res)...)
}

func formatPruneResult(res store.PruneResult) []string {
	return []string{
		fmt.Sprintf("Deleted %d rows", res.Total()),
		fmt.Sprintf("  %-14s %d", store.TableHandshakes, res.Handshakes),
		fmt.Sprintf("  %-14s %d", store.TableContacts, res.Contacts),
		fmt.Sprintf("  %-14s %d", store.TableKnownCases, res.KnownCases),
		fmt.Sprintf("  %-14s %d", store.TableExposureDays, res.ExposureDays),
	}
}
