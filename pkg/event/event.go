// Package event dispatches in-process domain events to listeners.
//
// Fire runs listeners inline; FireAsync hands each listener to a bounded
// worker pool and never blocks the caller. When the pool is saturated the
// event is dropped for that listener and counted in
// foodhub_events_dropped_total.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/metrics"
	"github.com/shashiranjanraj/foodhub/pkg/workerpool"
)

// Event is a named payload.
type Event struct {
	Name    string
	Payload any
}

// Handler receives an event. Returned errors are logged.
type Handler func(ctx context.Context, e Event) error

// Bus routes events to the handlers registered for their name.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	pool     *workerpool.Pool
}

// NewBus creates a bus whose async listeners run on pool. A nil pool makes
// FireAsync behave like Fire.
func NewBus(pool *workerpool.Pool) *Bus {
	return &Bus{handlers: map[string][]Handler{}, pool: pool}
}

// Listen registers h for events named name. "*" receives every event.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) listeners(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Handler, 0, len(b.handlers[name])+len(b.handlers["*"]))
	out = append(out, b.handlers[name]...)
	return append(out, b.handlers["*"]...)
}

// Fire runs every listener synchronously and joins their errors.
func (b *Bus) Fire(ctx context.Context, e Event) error {
	var errs []error
	for _, h := range b.listeners(e.Name) {
		if err := h(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FireAsync schedules every listener on the pool and returns immediately.
// Listeners get a context detached from the caller's cancellation so a
// finished HTTP request does not abort them.
func (b *Bus) FireAsync(ctx context.Context, e Event) {
	hs := b.listeners(e.Name)
	if len(hs) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)

	for _, h := range hs {
		h := h
		run := func() {
			if err := h(detached, e); err != nil {
				logger.WithCtx(detached).Warn("event listener failed", "event", e.Name, "error", err)
			}
		}

		if b.pool == nil {
			run()
			continue
		}
		if err := b.pool.Submit(run); err != nil {
			metrics.EventsDropped.WithLabelValues(e.Name).Inc()
			logger.WithCtx(ctx).Warn("event dropped", "event", e.Name, "error", err)
		}
	}
}

// Flush removes every listener.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}
