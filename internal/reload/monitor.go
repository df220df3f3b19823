// Package reload watches for service-side catalog changes while a
// practice session is open. The main loop is blocked on the keyboard most
// of the time, so a background listener with a sticky flag is the only way
// to learn about external changes without polling on every keystroke.
package reload

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/aretw0/sensei/internal/logging"
	"github.com/aretw0/sensei/pkg/ports"
)

// Monitor subscribes to the service's content-changed notification and
// exposes a single sticky flag. The flag is deliberately one-way: a stale
// session must abort, never resynchronize mid-flight.
type Monitor struct {
	watcher ports.ContentWatcher
	logger  *slog.Logger

	reloaded atomic.Bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the monitor's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// New creates a monitor over a watcher. A nil watcher yields a monitor
// that is permanently non-reloaded, which keeps callers free of nil
// checks when the service connection has no notification channel.
func New(watcher ports.ContentWatcher, opts ...Option) *Monitor {
	m := &Monitor{
		watcher: watcher,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start spawns the background listener. Without a watcher it does
// nothing; a second Start on a running monitor is a no-op.
func (m *Monitor) Start() {
	if m.watcher == nil || m.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := m.watcher.Watch(ctx)
	if err != nil {
		m.logger.Warn("content watch unavailable", "err", err)
		cancel()
		return
	}

	m.cancel = cancel
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				m.reloaded.Store(true)
				m.logger.Debug("content change observed")
			}
		}
	}()
}

// Reloaded reports whether a content change has ever been observed. It is
// non-blocking and monotonic: once true, always true.
func (m *Monitor) Reloaded() bool {
	return m.reloaded.Load()
}

// Stop unsubscribes and joins the listener. Safe to call when Start never
// ran or the watcher was absent.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}
