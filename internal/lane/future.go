package lane

import (
	"context"
	"sync"
)

// Future is the eventual result of a unit of work.
//
// It can be observed with a blocking Wait or a non-blocking OnResult
// registration. A Future resolves exactly once.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// failedFuture returns a Future that is already resolved with err.
func failedFuture[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.resolve(zero, err)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the Future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future resolves or ctx is done.
//
// Giving up on the wait does not cancel the unit; it still runs.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnResult registers fn to receive the result. fn runs on its own goroutine,
// never on the lane, so slow result handling cannot stall other units.
func (f *Future[T]) OnResult(fn func(T, error)) {
	go func() {
		<-f.done
		fn(f.val, f.err)
	}()
}
