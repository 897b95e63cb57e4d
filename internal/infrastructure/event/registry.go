package event

import (
	"sync"

	"github.com/salesmanager/backend/internal/domain/shared"
)

// registry maps event types to handlers. Handlers registered without
// types receive every event.
type registry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

func newRegistry() *registry {
	return &registry{byType: make(map[string][]shared.EventHandler)}
}

func (r *registry) add(h shared.EventHandler, types ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(types) == 0 {
		r.wildcard = append(r.wildcard, h)
		return
	}
	for _, t := range types {
		r.byType[t] = append(r.byType[t], h)
	}
}

func (r *registry) remove(h shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wildcard = without(r.wildcard, h)
	for t, hs := range r.byType {
		if hs = without(hs, h); len(hs) == 0 {
			delete(r.byType, t)
		} else {
			r.byType[t] = hs
		}
	}
}

func (r *registry) handlersFor(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]shared.EventHandler, 0, len(r.byType[eventType])+len(r.wildcard))
	out = append(out, r.byType[eventType]...)
	return append(out, r.wildcard...)
}

func without(hs []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := hs[:0:0]
	for _, h := range hs {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}
