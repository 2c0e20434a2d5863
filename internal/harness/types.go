package harness

import (
	"github.com/roach88/contactstore/internal/database"
	"github.com/roach88/contactstore/internal/store"
)

// TraceEvent is one storage-changed notification observed during a run.
type TraceEvent struct {
	Seq   int64               `json:"seq"`
	Kind  database.ChangeKind `json:"kind"`
	Table string              `json:"table,omitempty"`
	Rows  int64               `json:"rows"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace holds the notifications in delivery order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`

	// Final is the store content after the last step.
	Final database.Snapshot `json:"-"`

	// Counts is the row count per table after the last step.
	Counts store.Counts `json:"counts"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEvent appends a notification to the trace.
func (r *Result) AddEvent(ev database.ChangeEvent, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:   seq,
		Kind:  ev.Kind,
		Table: ev.Table,
		Rows:  ev.Rows,
	})
}
