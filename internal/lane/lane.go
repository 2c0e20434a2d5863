package lane

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// Task is a unit of work with no result value.
type Task func(ctx context.Context) error

// unit is one queued piece of work. run executes the task and resolves its
// Future; fail resolves the Future when the task panicked.
type unit struct {
	name string
	run  func(ctx context.Context) error
	fail func(err error)
}

// Lane is a single serialized execution lane.
//
// Thread-safety model:
//   - Post(), Submit(), Close(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
type Lane struct {
	name    string
	queue   *fifo[unit]
	clock   *Clock
	logger  *slog.Logger
	done    chan struct{}
	started atomic.Bool
	running atomic.Bool
}

// Option allows configuration of a Lane.
type Option func(*Lane)

// WithName sets the name used in log lines.
func WithName(name string) Option {
	return func(l *Lane) {
		l.name = name
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lane) {
		l.logger = logger
	}
}

// WithClock sets the clock that stamps executed units.
func WithClock(clock *Clock) Option {
	return func(l *Lane) {
		l.clock = clock
	}
}

// New creates a Lane. It executes nothing until Run or Start is called;
// units submitted before that are queued.
func New(opts ...Option) *Lane {
	l := &Lane{
		name:   "lane",
		queue:  newFIFO[unit](),
		clock:  NewClock(),
		logger: slog.Default(),
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Name returns the lane's name.
func (l *Lane) Name() string {
	return l.name
}

// Post submits a fire-and-forget unit. The returned Future may be ignored.
// Thread-safe: may be called from any goroutine.
func (l *Lane) Post(name string, fn Task) *Future[struct{}] {
	return Submit(l, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}

// Submit queues fn on the lane and returns a Future for its result.
// Thread-safe: may be called from any goroutine.
//
// If the lane has been closed, the Future is already resolved with ErrClosed.
func Submit[T any](l *Lane, name string, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	u := unit{
		name: name,
		run: func(ctx context.Context) error {
			v, err := fn(ctx)
			f.resolve(v, err)
			return err
		},
		fail: func(err error) {
			var zero T
			f.resolve(zero, err)
		},
	}

	if !l.queue.Enqueue(u) {
		return failedFuture[T](ErrClosed)
	}
	return f
}

// Pending returns the number of queued units not yet started.
func (l *Lane) Pending() int {
	return l.queue.Len()
}

// Executed returns how many units the lane has started.
func (l *Lane) Executed() int64 {
	return l.clock.Current()
}

// Run starts the single-writer loop.
// Blocks until Close() is called or ctx is cancelled; in both cases every
// unit already queued is executed before Run returns.
//
// CRITICAL: Must be called from exactly ONE goroutine. A lane runs once; any
// further call returns ErrAlreadyRunning.
//
// ERROR HANDLING: On unit failure, the error is logged with the unit's name
// and sequence number, delivered to its Future, and processing continues.
func (l *Lane) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(l.done)

	// Units are never interrupted, so they do not inherit cancellation.
	unitCtx := context.WithValue(context.WithoutCancel(ctx), laneKey{}, l)

	l.logger.Info("lane starting", "lane", l.name)

	for {
		if u, ok := l.queue.TryDequeue(); ok {
			l.execute(unitCtx, u)
			continue
		}

		select {
		case <-ctx.Done():
			l.queue.Close()
			n := l.drain(unitCtx)
			l.logger.Info("lane stopping: context cancelled", "lane", l.name, "drained", n)
			return ctx.Err()

		case <-l.queue.Wait():
			// The signal channel closes when the queue is closed, so this
			// case fires immediately once Close has been called.
			if l.queue.Drained() {
				l.logger.Info("lane stopping: closed", "lane", l.name)
				return nil
			}
		}
	}
}

// Start runs the lane on a new goroutine. From the moment Start returns,
// Shutdown waits for that goroutine to drain the queue.
func (l *Lane) Start(ctx context.Context) {
	l.started.Store(true)
	go func() {
		if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			l.logger.Error("lane exited", "lane", l.name, "error", err)
		}
	}()
}

// Close stops admission of new units. Units already queued still run.
// Safe to call more than once.
func (l *Lane) Close() {
	l.queue.Close()
}

// Done returns a channel closed when Run has returned.
func (l *Lane) Done() <-chan struct{} {
	return l.done
}

// Shutdown closes the lane and waits until every queued unit has run or
// ctx is done. If neither Start nor Run has been called there is nothing to
// wait for; queued units run once the lane is started.
func (l *Lane) Shutdown(ctx context.Context) error {
	l.Close()
	if !l.started.Load() && !l.running.Load() {
		return nil
	}
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnLane reports whether ctx belongs to a unit executing on l.
// Code holding such a context already has exclusive use of the lane and must
// not Wait on a unit submitted to the same lane.
func (l *Lane) OnLane(ctx context.Context) bool {
	owner, ok := ctx.Value(laneKey{}).(*Lane)
	return ok && owner == l
}

type laneKey struct{}

// drain executes every remaining unit of a closed queue.
func (l *Lane) drain(ctx context.Context) int {
	n := 0
	for {
		u, ok := l.queue.TryDequeue()
		if !ok {
			return n
		}
		l.execute(ctx, u)
		n++
	}
}

// execute runs one unit to completion, recovering panics.
// CRITICAL: Called only from Run() goroutine - single-writer guarantee.
func (l *Lane) execute(ctx context.Context, u unit) {
	seq := l.clock.Next()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := &PanicError{Task: u.name, Value: r, Stack: debug.Stack()}
			u.fail(err)
			l.logger.Error("lane task panicked",
				"lane", l.name,
				"task", u.name,
				"seq", seq,
				"panic", r,
			)
		}
	}()

	if err := u.run(ctx); err != nil {
		l.logger.Error("lane task failed",
			"lane", l.name,
			"task", u.name,
			"seq", seq,
			"error", err,
		)
		return
	}

	l.logger.Debug("lane task done",
		"lane", l.name,
		"task", u.name,
		"seq", seq,
		"elapsed", time.Since(start),
	)
}
