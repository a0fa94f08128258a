// Package testutil provides common test utilities for the replenishment
// engine backend.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/flexiwear/backend/internal/domain/shared"
)

// EventRecorder implements shared.EventHandler and captures every event it
// receives. Safe for use from the bus's dispatch goroutines.
type EventRecorder struct {
	mu       sync.Mutex
	types    []string
	seen     []shared.DomainEvent
	failWith error
}

// NewEventRecorder returns a recorder subscribed to the given event types.
// With no types it records everything when registered as a wildcard handler.
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{types: eventTypes}
}

func (r *EventRecorder) EventTypes() []string { return r.types }

func (r *EventRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, event)
	return r.failWith
}

// Events returns a copy of everything recorded so far.
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shared.DomainEvent, len(r.seen))
	copy(out, r.seen)
	return out
}

// Count returns how many events have been recorded.
func (r *EventRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

// FailWith makes subsequent Handle calls return err. Events are still
// recorded; the bus logs handler errors but does not retry.
func (r *EventRecorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

// Reset discards recorded events and clears any injected error.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = nil
	r.failWith = nil
}

// StubEvent is a minimal domain event for bus and handler tests.
type StubEvent struct {
	shared.BaseDomainEvent
	ProductCode string
}

// NewStubEvent builds a stub event of the given type against a throwaway
// aggregate ID.
func NewStubEvent(eventType string) *StubEvent {
	return &StubEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "ProductStock", uuid.New()),
		ProductCode:     "CG-SLV-M",
	}
}

// WaitFor polls cond every 10ms until it returns true or the timeout
// elapses. Returns whether the condition was met.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

// WaitForEvents waits until the recorder has captured at least n events.
func WaitForEvents(t *testing.T, rec *EventRecorder, n int, timeout time.Duration) bool {
	t.Helper()

	return WaitFor(t, timeout, func() bool { return rec.Count() >= n })
}
