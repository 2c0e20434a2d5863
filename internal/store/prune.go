package store

import (
	"context"

	"github.com/roach88/contactstore/internal/ir"
)

// Cutoffs holds the first day to keep for each table. Rows dated strictly
// before their table's cutoff are deleted by Prune.
type Cutoffs struct {
	Handshakes   ir.DayDate
	Contacts     ir.DayDate
	KnownCases   ir.DayDate
	ExposureDays ir.DayDate
}

// PruneResult reports how many rows Prune deleted per table.
type PruneResult struct {
	Handshakes   int64 `json:"handshakes"`
	Contacts     int64 `json:"contacts"`
	KnownCases   int64 `json:"known_cases"`
	ExposureDays int64 `json:"exposure_days"`
}

// Total is the number of rows deleted across all tables.
func (r PruneResult) Total() int64 {
	return r.Handshakes + r.Contacts + r.KnownCases + r.ExposureDays
}

// Prune deletes every row older than its table's cutoff in one transaction,
// so a sweep is either applied to all tables or to none.
//
// Handshakes compare their millisecond timestamp against the start of the
// cutoff day; the other tables compare their stored day bucket.
func (s *Store) Prune(ctx context.Context, c Cutoffs) (PruneResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PruneResult{}, classify("prune", "", err)
	}
	defer tx.Rollback() // No-op if committed

	var result PruneResult
	steps := []struct {
		table  string
		query  string
		cutoff ir.DayDate
		count  *int64
	}{
		{TableHandshakes, "DELETE FROM handshakes WHERE timestamp < ?", c.Handshakes, &result.Handshakes},
		{TableKnownCases, "DELETE FROM known_cases WHERE bucket_time < ?", c.KnownCases, &result.KnownCases},
		{TableContacts, "DELETE FROM contacts WHERE date < ?", c.Contacts, &result.Contacts},
		{TableExposureDays, "DELETE FROM exposure_days WHERE report_date < ?", c.ExposureDays, &result.ExposureDays},
	}

	for _, step := range steps {
		res, err := tx.ExecContext(ctx, step.query, step.cutoff.StartOfDayMillis())
		if err != nil {
			return PruneResult{}, classify("prune", step.table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return PruneResult{}, classify("prune", step.table, err)
		}
		*step.count = n
	}

	if err := tx.Commit(); err != nil {
		return PruneResult{}, classify("prune", "", err)
	}

	return result, nil
}
