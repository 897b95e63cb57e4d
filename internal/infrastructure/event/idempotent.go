package event

import (
	"context"
	"time"

	"github.com/salesmanager/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultDedupTTL is how long a handled event id is remembered
const DefaultDedupTTL = 24 * time.Hour

// DedupHandler runs the wrapped handler at most once per event id.
// When the store fails the event is handled anyway.
type DedupHandler struct {
	next   shared.EventHandler
	store  shared.IdempotencyStore
	ttl    time.Duration
	scope  string
	logger *zap.Logger
}

// Deduplicate wraps next. scope separates the ids of different handlers
// sharing one store.
func Deduplicate(next shared.EventHandler, store shared.IdempotencyStore, scope string, ttl time.Duration, logger *zap.Logger) *DedupHandler {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &DedupHandler{next: next, store: store, ttl: ttl, scope: scope, logger: logger}
}

// EventTypes returns the wrapped handler's event types
func (h *DedupHandler) EventTypes() []string {
	return h.next.EventTypes()
}

// Handle forwards first deliveries and drops repeats
func (h *DedupHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	key := h.scope + ":" + ev.EventID().String()
	isNew, err := h.store.MarkProcessed(ctx, key, h.ttl)
	switch {
	case err != nil:
		h.logger.Warn("Idempotency check failed, handling event anyway",
			zap.String("event_id", ev.EventID().String()),
			zap.Error(err),
		)
	case !isNew:
		h.logger.Debug("Duplicate event skipped",
			zap.String("event_id", ev.EventID().String()),
			zap.String("event_type", ev.EventType()),
		)
		return nil
	}
	return h.next.Handle(ctx, ev)
}

var _ shared.EventHandler = (*DedupHandler)(nil)
