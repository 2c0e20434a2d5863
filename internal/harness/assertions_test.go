package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contactstore/internal/database"
	"github.com/roach88/contactstore/internal/ir"
	"github.com/roach88/contactstore/internal/store"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Kind: database.ChangeInsert, Table: store.TableHandshakes, Rows: 1},
		{Seq: 2, Kind: database.ChangeInsert, Table: store.TableContacts, Rows: 1},
		{Seq: 3, Kind: database.ChangePrune, Rows: 2},
		{Seq: 4, Kind: database.ChangeRecreate},
	}
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Kind: "prune"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Kind: "insert", Table: store.TableContacts}))

	err := assertTraceContains(trace, Assertion{Kind: "insert", Table: store.TableKnownCases})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert on known_cases")
	assert.Contains(t, err.Error(), "Full trace")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Kinds: []string{"insert", "prune", "recreate"}}))

	err := assertTraceOrder(trace, Assertion{Kinds: []string{"prune", "insert"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should be before")

	err = assertTraceOrder(trace, Assertion{Kinds: []string{"insert", "vacuum"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing kind: vacuum")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Kind: "insert", Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Kind: "insert", Table: store.TableHandshakes, Count: 1}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Kind: "insert", Table: store.TableKnownCases, Count: 0}))

	err := assertTraceCount(trace, Assertion{Kind: "prune", Count: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 events")
}

func sampleResult() *Result {
	day := ir.MustParseDay("2026-10-14")
	r := NewResult()
	r.Final = database.Snapshot{
		Contacts: []ir.Contact{
			{ID: 1, Date: day, WindowCount: 2, AssociatedKnownCase: 9},
			{ID: 2, Date: day, WindowCount: 5, AssociatedKnownCase: 9},
		},
		KnownCases: []ir.KnownCase{{ID: 1, Day: day, Key: ir.HexBytes{0xab}}},
	}
	r.Counts = store.Counts{Contacts: 2, KnownCases: 1}
	return r
}

func TestAssertRowCount(t *testing.T) {
	r := sampleResult()

	assert.NoError(t, assertRowCount(r, Assertion{Table: store.TableContacts, Count: 2}))
	assert.NoError(t, assertRowCount(r, Assertion{Table: store.TableHandshakes, Count: 0}))
	assert.Error(t, assertRowCount(r, Assertion{Table: store.TableKnownCases, Count: 3}))
}

func TestAssertFinalState(t *testing.T) {
	r := sampleResult()

	t.Run("match", func(t *testing.T) {
		err := assertFinalState(r, Assertion{
			Table:  store.TableContacts,
			Where:  map[string]interface{}{"id": 2},
			Expect: map[string]interface{}{"window_count": 5, "date": "2026-10-14"},
		})
		assert.NoError(t, err)
	})

	t.Run("yaml date value", func(t *testing.T) {
		err := assertFinalState(r, Assertion{
			Table:  store.TableKnownCases,
			Where:  map[string]interface{}{"key": "ab"},
			Expect: map[string]interface{}{"day": time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)},
		})
		assert.NoError(t, err)
	})

	t.Run("ambiguous", func(t *testing.T) {
		err := assertFinalState(r, Assertion{
			Table:  store.TableContacts,
			Where:  map[string]interface{}{"associated_known_case": 9},
			Expect: map[string]interface{}{"window_count": 2},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous")
	})

	t.Run("not found", func(t *testing.T) {
		err := assertFinalState(r, Assertion{
			Table:  store.TableContacts,
			Where:  map[string]interface{}{"id": 7},
			Expect: map[string]interface{}{"window_count": 2},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row not found")
	})

	t.Run("missing field", func(t *testing.T) {
		err := assertFinalState(r, Assertion{
			Table:  store.TableContacts,
			Where:  map[string]interface{}{"id": 1},
			Expect: map[string]interface{}{"colour": "red"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not present")
	})

	t.Run("value mismatch", func(t *testing.T) {
		err := assertFinalState(r, Assertion{
			Table:  store.TableContacts,
			Where:  map[string]interface{}{"id": 1},
			Expect: map[string]interface{}{"window_count": 3},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `field "window_count" = 2`)
	})
}

func TestCanonicalValue(t *testing.T) {
	assert.Equal(t, "4", canonicalValue(4))
	assert.Equal(t, "4", canonicalValue(float64(4)))
	assert.Equal(t, "4.5", canonicalValue(4.5))
	assert.Equal(t, "true", canonicalValue(true))
	assert.Equal(t, "null", canonicalValue(nil))
	assert.Equal(t, "2026-10-14", canonicalValue(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)))
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: "magic"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unknown assertion type")
}
