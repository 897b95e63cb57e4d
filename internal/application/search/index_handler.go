package search

import (
	"context"
	"fmt"

	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IndexHandler keeps the autocomplete index in step with product changes
type IndexHandler struct {
	facade *SearchFacade
	logger *zap.Logger
}

// NewIndexHandler creates a handler feeding product events to the facade
func NewIndexHandler(facade *SearchFacade, logger *zap.Logger) *IndexHandler {
	return &IndexHandler{facade: facade, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *IndexHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductSaved, catalog.EventTypeProductDeleted}
}

// Handle indexes saved products and removes deleted ones
func (h *IndexHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	pe, ok := ev.(*catalog.ProductEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", ev)
	}
	store, err := h.facade.storeRepo.FindByID(ctx, pe.StoreID())
	if err != nil {
		return fmt.Errorf("load store for product index: %w", err)
	}

	// Drop every language first so a removed translation leaves the index
	if err := h.facade.RemoveProduct(ctx, store.Code, pe.ProductID, store.Languages()); err != nil {
		return err
	}
	if pe.EventType() == catalog.EventTypeProductDeleted {
		h.logger.Debug("Product removed from search index", zap.String("sku", pe.Sku))
		return nil
	}
	return h.facade.IndexProduct(ctx, store.Code, pe.ProductID, pe.Names)
}
