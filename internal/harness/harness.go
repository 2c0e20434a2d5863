package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/contactstore/internal/database"
	"github.com/roach88/contactstore/internal/lane"
	"github.com/roach88/contactstore/internal/store"
)

// stepTimeout bounds each step so a stuck lane fails the run instead of
// hanging the test binary.
const stepTimeout = 30 * time.Second

// Harness executes scenario steps against one DB.
type Harness struct {
	db     *database.DB
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Open the store and subscribe the trace recorder
// 2. Execute steps in order, waiting for each to finish
// 3. Snapshot all tables
// 4. Close the DB so every notification has been delivered
// 5. Evaluate assertions against the trace and snapshot
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	db := database.New(st, scenario.policy(), database.WithLogger(logger))

	result := NewResult()
	seq := lane.NewClock()
	var mu sync.Mutex
	db.Subscribe(database.ObserverFunc(func(ev database.ChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		result.AddEvent(ev, seq.Next())
	}))

	db.Start(context.Background())
	h := &Harness{db: db, logger: logger}

	runErr := h.executeSteps(scenario.Steps)
	if runErr == nil {
		runErr = h.capture(result)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), stepTimeout)
	defer cancel()
	if err := db.Close(closeCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to close store: %w", err)
	}
	if runErr != nil {
		return nil, runErr
	}

	mu.Lock()
	defer mu.Unlock()
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// executeSteps runs every step and waits for it before starting the next.
func (h *Harness) executeSteps(steps []Step) error {
	for i, step := range steps {
		ctx, cancel := context.WithTimeout(context.Background(), stepTimeout)
		err := h.executeStep(ctx, i, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (h *Harness) executeStep(ctx context.Context, i int, step Step) error {
	switch {
	case step.Insert != nil:
		counts, err := h.db.Apply(ctx, *step.Insert)
		if err != nil {
			return err
		}
		h.logger.Info("insert step completed", "step", i, "rows", counts.Total())

	case step.Sweep != nil:
		res, err := h.db.RemoveOldData(step.Sweep.Time()).Wait(ctx)
		if err != nil {
			return err
		}
		h.logger.Info("sweep step completed", "step", i, "as_of", *step.Sweep, "deleted", res.Total())

	case step.Reset:
		if _, err := h.db.RecreateTables().Wait(ctx); err != nil {
			return err
		}
		h.logger.Info("reset step completed", "step", i)
	}
	return nil
}

// capture records the final table contents in result.
func (h *Harness) capture(result *Result) error {
	ctx, cancel := context.WithTimeout(context.Background(), stepTimeout)
	defer cancel()

	snap, err := h.db.Snapshot().Wait(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot store: %w", err)
	}
	result.Final = snap
	result.Counts = store.Counts{
		Handshakes:   len(snap.Handshakes),
		Contacts:     len(snap.Contacts),
		KnownCases:   len(snap.KnownCases),
		ExposureDays: len(snap.ExposureDays),
	}
	return nil
}
