package store

import (
	"context"

	"github.com/roach88/contactstore/internal/ir"
)

// ReadHandshakes returns all handshakes ordered by id ascending.
func (s *Store) ReadHandshakes(ctx context.Context) ([]ir.Handshake, error) {
	return readAll(ctx, s.db, HandshakeMapping)
}

// ReadContacts returns all contacts ordered by id ascending.
func (s *Store) ReadContacts(ctx context.Context) ([]ir.Contact, error) {
	return readAll(ctx, s.db, ContactMapping)
}

// ReadKnownCases returns all known cases ordered by id ascending.
func (s *Store) ReadKnownCases(ctx context.Context) ([]ir.KnownCase, error) {
	return readAll(ctx, s.db, KnownCaseMapping)
}

// ReadExposureDays returns all exposure days ordered by id ascending.
func (s *Store) ReadExposureDays(ctx context.Context) ([]ir.ExposureDay, error) {
	return readAll(ctx, s.db, ExposureDayMapping)
}

// Counts holds the number of rows per table.
type Counts struct {
	Handshakes   int `json:"handshakes"`
	Contacts     int `json:"contacts"`
	KnownCases   int `json:"known_cases"`
	ExposureDays int `json:"exposure_days"`
}

// Total is the number of rows across all tables.
func (c Counts) Total() int {
	return c.Handshakes + c.Contacts + c.KnownCases + c.ExposureDays
}

// Counts returns the row count of every table.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	targets := []*int{&c.Handshakes, &c.Contacts, &c.KnownCases, &c.ExposureDays}
	for i, table := range Tables {
		n, err := countRows(ctx, s.db, table)
		if err != nil {
			return Counts{}, err
		}
		*targets[i] = n
	}
	return c, nil
}
