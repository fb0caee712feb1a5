package services

import "sync"

// RefreshBus fans out "data changed, re-fetch" signals to interested
// listeners. Notifications are coalesced: a listener that has not yet
// drained its channel sees one pending signal no matter how many
// notifications arrived in between. Notify never blocks.
type RefreshBus struct {
	mu      sync.Mutex
	version uint64
	subs    map[uint64]chan struct{}
	nextID  uint64
}

// NewRefreshBus creates an empty bus.
func NewRefreshBus() *RefreshBus {
	return &RefreshBus{subs: make(map[uint64]chan struct{})}
}

// Subscribe registers a listener. The returned channel carries coalesced
// refresh signals; the cancel function removes the subscription and must
// be called exactly once.
func (b *RefreshBus) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
	return ch, cancel
}

// Notify signals all subscribers that shared data changed. Subscribers
// with a signal already pending are skipped.
func (b *RefreshBus) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.version++
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Version returns the number of notifications published so far.
func (b *RefreshBus) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}
