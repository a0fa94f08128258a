package event

import (
	"context"

	"github.com/flexiwear/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingEventHandler writes every published domain event to the audit log.
// Subscribed as a wildcard handler so operators can trace order and stock
// movements without a dedicated event store.
type LoggingEventHandler struct {
	logger *zap.Logger
}

// NewLoggingEventHandler creates a LoggingEventHandler
func NewLoggingEventHandler(logger *zap.Logger) *LoggingEventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingEventHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice, subscribing the handler to all events
func (h *LoggingEventHandler) EventTypes() []string {
	return nil
}
