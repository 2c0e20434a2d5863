package store

import (
	"context"

	"github.com/roach88/contactstore/internal/ir"
)

// InsertHandshake appends one handshake and returns its local id.
// Field values are trusted; no validation is applied.
func (s *Store) InsertHandshake(ctx context.Context, h ir.Handshake) (int64, error) {
	return insertRow(ctx, s.db, HandshakeMapping, h)
}

// InsertContact appends one matched contact and returns its local id.
func (s *Store) InsertContact(ctx context.Context, c ir.Contact) (int64, error) {
	return insertRow(ctx, s.db, ContactMapping, c)
}

// InsertExposureDay appends one exposure day and returns its local id.
func (s *Store) InsertExposureDay(ctx context.Context, e ir.ExposureDay) (int64, error) {
	return insertRow(ctx, s.db, ExposureDayMapping, e)
}

// InsertKnownCases appends the published keys for one day in a single
// transaction. Either all keys are stored or none are.
func (s *Store) InsertKnownCases(ctx context.Context, day ir.DayDate, keys [][]byte) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify("insert", TableKnownCases, err)
	}
	defer tx.Rollback() // No-op if committed

	for _, key := range keys {
		if _, err := insertRow(ctx, tx, KnownCaseMapping, ir.KnownCase{Day: day, Key: key}); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, classify("commit", TableKnownCases, err)
	}
	return len(keys), nil
}
