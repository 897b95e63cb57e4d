// Package event dispatches domain events to in-process handlers.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/salesmanager/backend/internal/domain/shared"
	applog "github.com/salesmanager/backend/internal/infrastructure/logger"
	"github.com/salesmanager/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Bus is an in-memory EventBus. Handler failures are logged and never
// returned to the publisher. In async mode handlers run on their own
// goroutine with a context detached from the request.
type Bus struct {
	registry *registry
	logger   *zap.Logger
	async    bool

	// mu orders the running check and wg.Add in Publish against Stop
	mu      sync.RWMutex
	running bool
	wg      sync.WaitGroup
}

// Option configures a Bus
type Option func(*Bus)

// WithAsync dispatches events without blocking the publisher
func WithAsync() Option {
	return func(b *Bus) { b.async = true }
}

// NewBus creates a started bus
func NewBus(logger *zap.Logger, opts ...Option) *Bus {
	b := &Bus{registry: newRegistry(), logger: logger}
	for _, opt := range opts {
		opt(b)
	}
	b.running = true
	return b
}

// Publish hands every event to its handlers
func (b *Bus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	if !b.running {
		b.mu.RUnlock()
		return shared.WrapDomainError("SERVICE_ERROR", "event bus is stopped", shared.ErrService)
	}
	if !b.async {
		b.mu.RUnlock()
		for _, ev := range events {
			for _, h := range b.registry.handlersFor(ev.EventType()) {
				b.dispatch(ctx, h, ev)
			}
		}
		return nil
	}
	for _, ev := range events {
		for _, h := range b.registry.handlersFor(ev.EventType()) {
			b.wg.Add(1)
			go func(h shared.EventHandler, ev shared.DomainEvent) {
				defer b.wg.Done()
				b.dispatch(context.WithoutCancel(ctx), h, ev)
			}(h, ev)
		}
	}
	b.mu.RUnlock()
	return nil
}

// Subscribe registers handler for eventTypes, or for its own EventTypes when none are given
func (b *Bus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.add(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes handler from every event type
func (b *Bus) Unsubscribe(handler shared.EventHandler) {
	b.registry.remove(handler)
}

// Start accepts events again after Stop
func (b *Bus) Start(context.Context) error {
	b.mu.Lock()
	b.running = true
	b.mu.Unlock()
	return nil
}

// Stop rejects new events and waits for in-flight async handlers
func (b *Bus) Stop(ctx context.Context) error {
	// Once the write lock is held no Publish can add to wg
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("Event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) dispatch(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) {
	ctx, span := telemetry.StartSpan(ctx, "event."+ev.EventType(),
		attribute.String("event.id", ev.EventID().String()),
		attribute.String("event.aggregate_type", ev.AggregateType()),
	)
	var err error
	defer telemetry.EndSpan(span, &err)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
			applog.Enrich(ctx, b.logger).Error("Event handler panicked",
				zap.String("event_type", ev.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	if err = h.Handle(ctx, ev); err != nil {
		applog.Enrich(ctx, b.logger).Error("Event handler failed",
			zap.String("event_type", ev.EventType()),
			zap.String("event_id", ev.EventID().String()),
			zap.Error(err),
		)
	}
}

var _ shared.EventBus = (*Bus)(nil)
