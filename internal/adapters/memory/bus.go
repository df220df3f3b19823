package memory

import (
	"context"
	"sync"

	"github.com/aretw0/sensei/pkg/ports"
)

// Bus is an in-process fan-out of content-changed and event-satisfied
// notifications, plus an event sink with declared interests. It stands in
// for the Redis bus when everything runs in one process.
type Bus struct {
	mu          sync.Mutex
	contentSubs map[int]chan struct{}
	eventSubs   map[int]chan ports.TaskRef
	nextID      int

	interests map[string]bool
	received  []string
}

// NewBus creates a bus with no interests: every notified event yields
// ErrNotInterested until Interest declares otherwise.
func NewBus() *Bus {
	return &Bus{
		contentSubs: make(map[int]chan struct{}),
		eventSubs:   make(map[int]chan ports.TaskRef),
		interests:   make(map[string]bool),
	}
}

// Interest marks an event name as interesting to the bus's consumer.
func (b *Bus) Interest(names ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range names {
		b.interests[n] = true
	}
}

// Watch implements ports.ContentWatcher. The channel closes when ctx is
// done.
func (b *Bus) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.contentSubs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.contentSubs, id)
		b.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// SatisfiedEvents implements ports.EventSource.
func (b *Bus) SatisfiedEvents(ctx context.Context) (<-chan ports.TaskRef, error) {
	ch := make(chan ports.TaskRef, 4)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.eventSubs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.eventSubs, id)
		b.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// NotifyEvent implements ports.EventSink. Events nobody declared an
// interest in are answered with ErrNotInterested, which callers treat as
// a non-error.
func (b *Bus) NotifyEvent(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.interests[name] {
		return ports.ErrNotInterested
	}
	b.received = append(b.received, name)
	return nil
}

// Received returns the events accepted so far.
func (b *Bus) Received() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.received...)
}

// PublishContentChanged signals every watcher that the catalog changed.
// Slow subscribers coalesce: the signal is a level, not a count.
func (b *Bus) PublishContentChanged() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.contentSubs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// PublishSatisfied signals every event subscriber that a task's external
// event fired.
func (b *Bus) PublishSatisfied(ref ports.TaskRef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.eventSubs {
		select {
		case ch <- ref:
		default:
		}
	}
}
