package database

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/roach88/contactstore/internal/ir"
	"github.com/roach88/contactstore/internal/lane"
	"github.com/roach88/contactstore/internal/retention"
	"github.com/roach88/contactstore/internal/store"
)

// DB is the record store: typed operations over one store, all executed on
// a single writer lane.
//
// Thread-safety model:
//   - every exported method is safe from any goroutine
//   - the underlying store is touched only from the writer lane
type DB struct {
	store  *store.Store
	policy retention.Policy
	writer *lane.Lane
	events *lane.Lane
	obs    observers
	logger *slog.Logger
}

// Option allows configuration of a DB.
type Option func(*DB)

// WithLogger sets the logger for the DB and its lanes.
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		db.logger = logger
	}
}

// New creates a DB that takes exclusive ownership of st.
// Units may be submitted right away; they run once Start is called.
func New(st *store.Store, policy retention.Policy, opts ...Option) *DB {
	db := &DB{
		store:  st,
		policy: policy,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(db)
	}

	db.writer = lane.New(lane.WithName("writer"), lane.WithLogger(db.logger))
	db.events = lane.New(lane.WithName("events"), lane.WithLogger(db.logger))
	return db
}

// Start runs the writer and delivery lanes until Close or ctx cancellation.
//
// The delivery lane ignores ctx and closes once the writer has drained, so
// units still running after cancellation can publish their notifications.
func (db *DB) Start(ctx context.Context) {
	db.writer.Start(ctx)
	db.events.Start(context.WithoutCancel(ctx))
	go func() {
		<-db.writer.Done()
		db.events.Close()
	}()
}

// Close stops admission, waits for every queued unit and pending
// notification, then closes the store.
func (db *DB) Close(ctx context.Context) error {
	if err := db.writer.Shutdown(ctx); err != nil {
		return err
	}
	if err := db.events.Shutdown(ctx); err != nil {
		return err
	}
	return db.store.Close()
}

// Policy returns the retention windows used by RemoveOldData.
func (db *DB) Policy() retention.Policy {
	return db.policy
}

// Subscribe registers obs for storage-changed notifications and returns a
// function that removes the subscription.
func (db *DB) Subscribe(obs Observer) (unsubscribe func()) {
	return db.obs.add(obs)
}

// InsertHandshake appends one handshake. The Future yields its local id.
func (db *DB) InsertHandshake(h ir.Handshake) *lane.Future[int64] {
	return lane.Submit(db.writer, "insert handshake", func(ctx context.Context) (int64, error) {
		id, err := db.store.InsertHandshake(ctx, h)
		if err != nil {
			return 0, err
		}
		db.notify(ChangeEvent{Kind: ChangeInsert, Table: store.TableHandshakes, Rows: 1})
		return id, nil
	})
}

// InsertContact appends one matched contact.
func (db *DB) InsertContact(c ir.Contact) *lane.Future[int64] {
	return lane.Submit(db.writer, "insert contact", func(ctx context.Context) (int64, error) {
		id, err := db.store.InsertContact(ctx, c)
		if err != nil {
			return 0, err
		}
		db.notify(ChangeEvent{Kind: ChangeInsert, Table: store.TableContacts, Rows: 1})
		return id, nil
	})
}

// InsertKnownCases ingests one day's published keys atomically.
// The Future yields the number of keys stored.
func (db *DB) InsertKnownCases(day ir.DayDate, keys [][]byte) *lane.Future[int] {
	return lane.Submit(db.writer, "insert known cases", func(ctx context.Context) (int, error) {
		n, err := db.store.InsertKnownCases(ctx, day, keys)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			db.notify(ChangeEvent{Kind: ChangeInsert, Table: store.TableKnownCases, Rows: int64(n)})
		}
		return n, nil
	})
}

// InsertExposureDay appends one exposure day.
func (db *DB) InsertExposureDay(e ir.ExposureDay) *lane.Future[int64] {
	return lane.Submit(db.writer, "insert exposure day", func(ctx context.Context) (int64, error) {
		id, err := db.store.InsertExposureDay(ctx, e)
		if err != nil {
			return 0, err
		}
		db.notify(ChangeEvent{Kind: ChangeInsert, Table: store.TableExposureDays, Rows: 1})
		return id, nil
	})
}

// RemoveOldData deletes every row outside its retention window, measured
// from the UTC day of now. The whole sweep is one unit of work.
func (db *DB) RemoveOldData(now time.Time) *lane.Future[store.PruneResult] {
	cutoffs := db.policy.Cutoffs(now)
	return lane.Submit(db.writer, "remove old data", func(ctx context.Context) (store.PruneResult, error) {
		res, err := db.store.Prune(ctx, cutoffs)
		if err != nil {
			return store.PruneResult{}, err
		}

		db.logger.Info("old data removed",
			"data_cutoff", cutoffs.Handshakes,
			"exposure_cutoff", cutoffs.ExposureDays,
			"handshakes", res.Handshakes,
			"contacts", res.Contacts,
			"known_cases", res.KnownCases,
			"exposure_days", res.ExposureDays,
		)

		if res.Total() > 0 {
			db.notify(ChangeEvent{Kind: ChangePrune, Rows: res.Total()})
		}
		return res, nil
	})
}

// RecreateTables drops and recreates every table. All persisted data is
// lost; callers must treat this as a full reset.
func (db *DB) RecreateTables() *lane.Future[struct{}] {
	return db.writer.Post("recreate tables", func(ctx context.Context) error {
		if err := db.store.RecreateTables(ctx); err != nil {
			return err
		}
		db.logger.Warn("all tables recreated")
		db.notify(ChangeEvent{Kind: ChangeRecreate})
		return nil
	})
}

// Do runs fn as one unit on the writer lane. Sync reads issued with the ctx
// passed to fn run inline.
//
// fn must not Wait on futures returned by this DB; they are queued behind
// fn and the wait would never end.
func (db *DB) Do(name string, fn func(ctx context.Context) error) *lane.Future[struct{}] {
	return db.writer.Post(name, fn)
}

// notify fans ev out to the current observers on the delivery lane.
// Each observer gets its own unit, so one panicking observer does not keep
// the others from being called.
func (db *DB) notify(ev ChangeEvent) {
	for _, obs := range db.obs.snapshot() {
		f := db.events.Post("notify", func(ctx context.Context) error {
			obs.StorageChanged(ev)
			return nil
		})
		select {
		case <-f.Done():
			if _, err := f.Wait(context.Background()); errors.Is(err, lane.ErrClosed) {
				db.logger.Warn("storage change not delivered",
					"kind", ev.Kind,
					"table", ev.Table,
					"rows", ev.Rows,
					"error", err,
				)
			}
		default:
		}
	}
}
