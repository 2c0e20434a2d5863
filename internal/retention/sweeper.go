package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/contactstore/internal/lane"
	"github.com/roach88/contactstore/internal/store"
)

// Remover deletes data outside the retention windows as of now.
// *database.DB implements it.
type Remover interface {
	RemoveOldData(now time.Time) *lane.Future[store.PruneResult]
}

// Clock supplies the wall-clock time a sweep measures from.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// RunIDGenerator tags each sweep so its log lines can be correlated.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Sweeper removes expired data on demand or on a fixed interval.
type Sweeper struct {
	remover Remover
	clock   Clock
	ids     RunIDGenerator
	logger  *slog.Logger
}

// SweeperOption allows configuration of a Sweeper.
type SweeperOption func(*Sweeper)

// WithClock sets the clock sweeps measure from.
func WithClock(c Clock) SweeperOption {
	return func(s *Sweeper) {
		s.clock = c
	}
}

// WithRunIDGenerator sets the run id source.
func WithRunIDGenerator(g RunIDGenerator) SweeperOption {
	return func(s *Sweeper) {
		s.ids = g
	}
}

// WithLogger sets the sweeper's logger.
func WithLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// NewSweeper creates a sweeper over r using the system clock.
func NewSweeper(r Remover, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		remover: r,
		clock:   SystemClock{},
		ids:     UUIDv7Generator{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep runs one retention pass and waits for it.
//
// Cancelling ctx stops the wait only. A pass already queued still runs to
// completion.
func (s *Sweeper) Sweep(ctx context.Context) (store.PruneResult, error) {
	runID := s.ids.Generate()
	now := s.clock.Now()
	logger := s.logger.With("run_id", runID)

	logger.Debug("sweep started", "now", now.UTC().Format(time.RFC3339))

	res, err := s.remover.RemoveOldData(now).Wait(ctx)
	if err != nil {
		logger.Error("sweep failed", "error", err)
		return store.PruneResult{}, fmt.Errorf("sweep %s: %w", runID, err)
	}

	logger.Info("sweep finished", "deleted", res.Total())
	return res, nil
}

// Run sweeps once immediately and then every interval until ctx is done.
// Failed sweeps are logged and retried on the next tick, except failures
// that require a reset, which end the loop.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if store.RequiresReset(err) {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
