package database

import (
	"context"
	"fmt"

	"github.com/roach88/contactstore/internal/ir"
	"github.com/roach88/contactstore/internal/lane"
	"github.com/roach88/contactstore/internal/store"
)

// Apply queues every record in b and waits for all of them. Records are
// queued table by table in file order, so ids follow the batch.
//
// Apply is not atomic across records: on error, records queued before the
// failing one stay stored. Counts reports what was stored.
func (db *DB) Apply(ctx context.Context, b ir.Batch) (store.Counts, error) {
	var counts store.Counts

	// Queue everything first so the lane sees the batch back to back.
	hs := make([]*lane.Future[int64], 0, len(b.Handshakes))
	for _, h := range b.Handshakes {
		hs = append(hs, db.InsertHandshake(h))
	}
	cs := make([]*lane.Future[int64], 0, len(b.Contacts))
	for _, c := range b.Contacts {
		cs = append(cs, db.InsertContact(c))
	}
	ks := make([]*lane.Future[int], 0, len(b.KnownCases))
	for _, k := range b.KnownCases {
		ks = append(ks, db.InsertKnownCases(k.Day, k.RawKeys()))
	}
	es := make([]*lane.Future[int64], 0, len(b.ExposureDays))
	for _, e := range b.ExposureDays {
		es = append(es, db.InsertExposureDay(e))
	}

	var firstErr error
	record := func(err error, what string, n *int, added int) {
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("apply %s: %w", what, err)
			}
			return
		}
		*n += added
	}

	for _, f := range hs {
		_, err := f.Wait(ctx)
		record(err, store.TableHandshakes, &counts.Handshakes, 1)
	}
	for _, f := range cs {
		_, err := f.Wait(ctx)
		record(err, store.TableContacts, &counts.Contacts, 1)
	}
	for _, f := range ks {
		n, err := f.Wait(ctx)
		record(err, store.TableKnownCases, &counts.KnownCases, n)
	}
	for _, f := range es {
		_, err := f.Wait(ctx)
		record(err, store.TableExposureDays, &counts.ExposureDays, 1)
	}

	return counts, firstErr
}
