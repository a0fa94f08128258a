package testutil

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRecorder(t *testing.T) {
	rec := NewEventRecorder("replenishment.alert.raised")
	ctx := context.Background()

	assert.Equal(t, []string{"replenishment.alert.raised"}, rec.EventTypes())
	assert.Zero(t, rec.Count())

	event := NewStubEvent("replenishment.alert.raised")
	require.NoError(t, rec.Handle(ctx, event))

	require.Equal(t, 1, rec.Count())
	assert.Equal(t, event, rec.Events()[0])

	rec.FailWith(assert.AnError)
	assert.ErrorIs(t, rec.Handle(ctx, NewStubEvent("replenishment.alert.raised")), assert.AnError)
	assert.Equal(t, 2, rec.Count(), "failing handler still records")

	rec.Reset()
	assert.Zero(t, rec.Count())
	assert.NoError(t, rec.Handle(ctx, event))
}

func TestEventRecorderWildcard(t *testing.T) {
	rec := NewEventRecorder()
	assert.Empty(t, rec.EventTypes())
}

func TestStubEvent(t *testing.T) {
	event := NewStubEvent("purchase_order.created")

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "purchase_order.created", event.EventType())
	assert.Equal(t, "ProductStock", event.AggregateType())
	assert.False(t, event.OccurredAt().IsZero())
	assert.Equal(t, "CG-SLV-M", event.ProductCode)
}

func TestWaitFor(t *testing.T) {
	var flag atomic.Bool
	go func() {
		time.Sleep(20 * time.Millisecond)
		flag.Store(true)
	}()

	assert.True(t, WaitFor(t, 200*time.Millisecond, flag.Load))
	assert.False(t, WaitFor(t, 30*time.Millisecond, func() bool { return false }))
}

func TestWaitForEvents(t *testing.T) {
	rec := NewEventRecorder()

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = rec.Handle(context.Background(), NewStubEvent("stock.received"))
		_ = rec.Handle(context.Background(), NewStubEvent("stock.received"))
	}()

	assert.True(t, WaitForEvents(t, rec, 2, 200*time.Millisecond))
}
