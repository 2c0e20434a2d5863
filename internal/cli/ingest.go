package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/contactstore/internal/ir"
)

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <batch.yaml>",
		Short: "Append records from a YAML batch file",
		Long: `Append the handshakes, contacts, known cases and exposure days listed in a
YAML batch file. Records are stored in file order. PHY labels are trimmed
and converted to Unicode NFC before they are stored.

Batch file format:
  handshakes:
    - timestamp: 1792065600000          # ms since epoch
      ephid: 000102030405060708090a0b0c0d0e0f
      tx_power_level: -8
      rssi: -67
      phy_primary: LE_1M
      phy_secondary: LE_2M
      timestamp_nanos: 1792065600000000000
  contacts:
    - date: 2026-10-14
      ephid: 000102030405060708090a0b0c0d0e0f
      window_count: 3
      associated_known_case: 1
  known_cases:
    - day: 2026-10-14
      keys: [aabbcc, ddeeff]
  exposure_days:
    - report_date: 2026-10-12

Example:
  contactstore ingest --db ./contacts.db ./batch.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(rootOpts, cmd, args[0])
		},
	}

	return cmd
}

// loadBatch reads and decodes a YAML batch file.
func loadBatch(path string) (ir.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ir.Batch{}, fmt.Errorf("read batch file: %w", err)
	}

	var b ir.Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return ir.Batch{}, fmt.Errorf("parse batch file %s: %w", path, err)
	}
	// Hand-written files carry stray spaces and decomposed accents.
	b.NormalizePhyLabels()
	return b, nil
}

func runIngest(opts *RootOptions, cmd *cobra.Command, path string) (err error) {
	b, err := loadBatch(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load batch", err)
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

	if b.IsEmpty() {
		s.out.VerboseLog("batch %s is empty", path)
	}

	counts, err := s.db.Apply(commandContext(cmd), b)
	if err != nil {
		return storeExitError("ingest failed", err)
	}

	s.logger.Info("batch ingested", "file", path, "rows", counts.Total())
	lines := append([]string{fmt.Sprintf("Stored %d rows", counts.Total())}, formatCounts(counts)...)
	return s.out.Success(counts, lines...)
}
