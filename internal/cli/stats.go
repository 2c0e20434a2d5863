package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/contactstore/internal/store"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show row counts per table",
		Long: `Show how many rows each table holds.

Example:
  contactstore stats --db ./contacts.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}

	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command) (err error) {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.close(); closeErr != nil && err == nil {
			err = storeExitError("failed to close database", closeErr)
		}
	}()

	counts, err := s.db.Counts(commandContext(cmd))
	if err != nil {
		return storeExitError("failed to count rows", err)
	}

	return s.out.Success(counts, formatCounts(counts)...)
}

func formatCounts(c store.Counts) []string {
	return []string{
		fmt.Sprintf("%-14s %d", store.TableHandshakes, c.Handshakes),
		fmt.Sprintf("%-14s %d", store.TableContacts, c.Contacts),
		fmt.Sprintf("%-14s %d", store.TableKnownCases, c.KnownCases),
		fmt.Sprintf("%-14s %d", store.TableExposureDays, c.ExposureDays),
		fmt.Sprintf("%-14s %d", "total", c.Total()),
	}
}
