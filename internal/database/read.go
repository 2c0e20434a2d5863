package database

import (
	"context"

	"github.com/roach88/contactstore/internal/ir"
	"github.com/roach88/contactstore/internal/lane"
	"github.com/roach88/contactstore/internal/store"
)

// Snapshot is a consistent view of all four tables, read in one unit.
type Snapshot struct {
	Handshakes   []ir.Handshake   `json:"handshakes"`
	Contacts     []ir.Contact     `json:"contacts"`
	KnownCases   []ir.KnownCase   `json:"known_cases"`
	ExposureDays []ir.ExposureDay `json:"exposure_days"`
}

// readSync runs read inline when ctx is a writer-lane unit, and otherwise
// routes it through the lane and waits for it.
func readSync[T any](ctx context.Context, db *DB, name string, read func(context.Context) (T, error)) (T, error) {
	if db.writer.OnLane(ctx) {
		return read(ctx)
	}
	return lane.Submit(db.writer, name, read).Wait(ctx)
}

// Handshakes returns all handshakes ordered by local id ascending.
func (db *DB) Handshakes(ctx context.Context) ([]ir.Handshake, error) {
	return readSync(ctx, db, "read handshakes", db.store.ReadHandshakes)
}

// HandshakesAsync reads all handshakes on the lane.
func (db *DB) HandshakesAsync() *lane.Future[[]ir.Handshake] {
	return lane.Submit(db.writer, "read handshakes", db.store.ReadHandshakes)
}

// Contacts returns all contacts ordered by local id ascending.
func (db *DB) Contacts(ctx context.Context) ([]ir.Contact, error) {
	return readSync(ctx, db, "read contacts", db.store.ReadContacts)
}

// ContactsAsync reads all contacts on the lane.
func (db *DB) ContactsAsync() *lane.Future[[]ir.Contact] {
	return lane.Submit(db.writer, "read contacts", db.store.ReadContacts)
}

// KnownCases returns all known cases ordered by local id ascending.
func (db *DB) KnownCases(ctx context.Context) ([]ir.KnownCase, error) {
	return readSync(ctx, db, "read known cases", db.store.ReadKnownCases)
}

// KnownCasesAsync reads all known cases on the lane.
func (db *DB) KnownCasesAsync() *lane.Future[[]ir.KnownCase] {
	return lane.Submit(db.writer, "read known cases", db.store.ReadKnownCases)
}

// ExposureDays returns all exposure days ordered by local id ascending.
func (db *DB) ExposureDays(ctx context.Context) ([]ir.ExposureDay, error) {
	return readSync(ctx, db, "read exposure days", db.store.ReadExposureDays)
}

// ExposureDaysAsync reads all exposure days on the lane.
func (db *DB) ExposureDaysAsync() *lane.Future[[]ir.ExposureDay] {
	return lane.Submit(db.writer, "read exposure days", db.store.ReadExposureDays)
}

// Counts returns the row count of every table.
func (db *DB) Counts(ctx context.Context) (store.Counts, error) {
	return readSync(ctx, db, "count rows", db.store.Counts)
}

// Snapshot reads all four tables in a single unit, so no write can land
// between the table reads.
func (db *DB) Snapshot() *lane.Future[Snapshot] {
	return lane.Submit(db.writer, "snapshot", func(ctx context.Context) (Snapshot, error) {
		var snap Snapshot
		var err error
		if snap.Handshakes, err = db.store.ReadHandshakes(ctx); err != nil {
			return Snapshot{}, err
		}
		if snap.Contacts, err = db.store.ReadContacts(ctx); err != nil {
			return Snapshot{}, err
		}
		if snap.KnownCases, err = db.store.ReadKnownCases(ctx); err != nil {
			return Snapshot{}, err
		}
		if snap.ExposureDays, err = db.store.ReadExposureDays(ctx); err != nil {
			return Snapshot{}, err
		}
		return snap, nil
	})
}
