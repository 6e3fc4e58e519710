package controller

import (
	"context"
	"sync"
	"time"

	"github.com/animeverse/animeverse/internal/apperrors"
)

// DefaultDebounce is the quiet period applied to suggestion lookups.
const DefaultDebounce = 350 * time.Millisecond

type waiter struct {
	done  chan error
	timer Timer
}

// Debouncer lets only the latest call per key through once a quiet period
// has passed. A call that is replaced before its period ends returns
// apperrors.ErrSuperseded. Calls already let through are never cancelled.
type Debouncer struct {
	mu      sync.Mutex
	clock   Clock
	delay   time.Duration
	pending map[string]*waiter
}

// NewDebouncer creates a Debouncer. A non-positive delay uses DefaultDebounce.
func NewDebouncer(clock Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = RealClock()
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		clock:   clock,
		delay:   delay,
		pending: make(map[string]*waiter),
	}
}

// Wait blocks until the quiet period for key elapses. It returns nil when the
// caller should proceed, apperrors.ErrSuperseded when a newer Wait for the
// same key arrived first, or the context error.
func (d *Debouncer) Wait(ctx context.Context, key string) error {
	w := &waiter{done: make(chan error, 1)}

	d.mu.Lock()
	w.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.pending[key] == w {
			delete(d.pending, key)
			w.done <- nil
		}
	})
	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
		prev.done <- apperrors.ErrSuperseded
	}
	d.pending[key] = w
	d.mu.Unlock()

	select {
	case err := <-w.done:
		return err
	case <-ctx.Done():
		d.mu.Lock()
		if d.pending[key] == w {
			delete(d.pending, key)
			w.timer.Stop()
		}
		d.mu.Unlock()
		return ctx.Err()
	}
}

// Pending returns the number of keys waiting for their quiet period.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
