package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// dbPath returns a database path inside a fresh temp directory.
func dbPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "contacts.db")
}

// writeFile writes body to name inside a fresh temp directory.
func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

// decodeData decodes the data field of a JSON CLIResponse into v.
func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

// sampleBatch holds two rows per data table, one recent and one from
// 2026-09-01, which a sweep on 2026-10-15 removes.
const sampleBatch = `
handshakes:
  - timestamp: 1792065600000
    ephid: 000102030405060708090a0b0c0d0e0f
    tx_power_level: -8
    rssi: -67
    phy_primary: LE_1M
    phy_secondary: LE_2M
    timestamp_nanos: 1792065600000000000
  - timestamp: 1788264000000
    ephid: 0f0e0d0c0b0a09080706050403020100
    tx_power_level: -8
    rssi: -80
    phy_primary: LE_CODED
    phy_secondary: ""
    timestamp_nanos: 1788264000000000000
contacts:
  - date: 2026-10-14
    ephid: 000102030405060708090a0b0c0d0e0f
    window_count: 3
    associated_known_case: 1
known_cases:
  - day: 2026-10-14
    keys: [aabbcc, ddeeff]
  - day: 2026-09-01
    keys: [010203]
exposure_days:
  - report_date: 2026-10-12
  - report_date: 2026-09-01
`
