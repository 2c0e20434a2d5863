package database

import "sync"

// ChangeKind names the mutation that changed the store.
type ChangeKind string

const (
	ChangeInsert   ChangeKind = "insert"
	ChangePrune    ChangeKind = "prune"
	ChangeRecreate ChangeKind = "recreate"
)

// ChangeEvent describes one successful mutating write.
type ChangeEvent struct {
	Kind ChangeKind

	// Table is the affected table; empty when every table was touched.
	Table string

	// Rows is the number of rows inserted or deleted.
	Rows int64
}

// Observer receives storage-changed notifications.
type Observer interface {
	StorageChanged(ev ChangeEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev ChangeEvent)

// StorageChanged calls f(ev).
func (f ObserverFunc) StorageChanged(ev ChangeEvent) {
	f(ev)
}

// observers is the set of current subscriptions.
type observers struct {
	mu   sync.Mutex
	next int
	subs map[int]Observer
}

func (o *observers) add(obs Observer) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.subs == nil {
		o.subs = make(map[int]Observer)
	}
	id := o.next
	o.next++
	o.subs[id] = obs
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
	}
}

// snapshot returns the subscribers in subscription order.
func (o *observers) snapshot() []Observer {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Observer, 0, len(o.subs))
	for id := 0; id < o.next; id++ {
		if obs, ok := o.subs[id]; ok {
			out = append(out, obs)
		}
	}
	return out
}
