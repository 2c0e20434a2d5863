package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/contactstore/internal/ir"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testEphID returns an EphID whose bytes are all n.
func testEphID(n byte) ir.EphID {
	var id ir.EphID
	for i := range id {
		id[i] = n
	}
	return id
}

// createTestHandshake creates a handshake observed at noon UTC on day.
func createTestHandshake(day ir.DayDate, n byte) ir.Handshake {
	ts := day.Time().Add(12 * time.Hour)
	return ir.Handshake{
		Timestamp:      ts.UnixMilli(),
		EphID:          testEphID(n),
		TxPowerLevel:   -8,
		RSSI:           -60 - int(n),
		PrimaryPhy:     "LE_1M",
		SecondaryPhy:   "LE_2M",
		TimestampNanos: ts.UnixNano() + int64(n),
	}
}

var today = ir.MustParseDay("2026-10-15")

func bg() context.Context {
	return context.Background()
}
