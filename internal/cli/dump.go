package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/contactstore/internal/store"
)

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <table>",
		Short: "Print every row of one table",
		Long: fmt.Sprintf(`Print every row of a table in id order, one JSON object per line.

Tables: %s

Example:
  contactstore dump handshakes --db ./contacts.db
  contactstore dump exposure_days --db ./contacts.db --format json`, strings.Join(store.Tables, ", ")),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, cmd, args[0])
		},
	}

	return cmd
}

func runDump(opts *RootOptions, cmd *cobra.Command, table string) (err error) {
	if !isKnownTable(table) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown table %q: must be one of %v", table, store.Tables))
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.close(); closeErr != nil && err == nil {
			err = storeExitError("failed to close database", closeErr)
		}
	}()

	ctx := commandContext(cmd)
	var rows any
	switch table {
	case store.TableHandshakes:
		rows, err = s.db.Handshakes(ctx)
	case store.TableContacts:
		rows, err = s.db.Contacts(ctx)
	case store.TableKnownCases:
		rows, err = s.db.KnownCases(ctx)
	case store.TableExposureDays:
		rows, err = s.db.ExposureDays(ctx)
	}
	if err != nil {
		return storeExitError("failed to read "+table, err)
	}

	lines, err := jsonLines(rows)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode rows", err)
	}
	if len(lines) == 0 && s.out.Format != "json" {
		lines = []string{"(no rows)"}
	}
	return s.out.Success(rows, lines...)
}

func isKnownTable(table string) bool {
	for _, t := range store.Tables {
		if t == table {
			return true
		}
	}
	return false
}

// jsonLines encodes each element of a slice as one compact JSON line.
func jsonLines(rows any) ([]string, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, err
	}
	lines := make([]string, len(elems))
	for i, e := range elems {
		lines[i] = string(e)
	}
	return lines, nil
}
