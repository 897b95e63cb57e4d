package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/order"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/email"
	"go.uber.org/zap"
)

// Mailer sends rendered notifications
type Mailer interface {
	Send(ctx context.Context, msg email.Email) error
}

// StatusNotificationHandler mails the customer when an order changes status
// and the change was flagged for notification
type StatusNotificationHandler struct {
	storeRepo merchant.MerchantStoreRepository
	mailer    Mailer
	baseURL   string
	logger    *zap.Logger
}

// NewStatusNotificationHandler creates a handler
func NewStatusNotificationHandler(storeRepo merchant.MerchantStoreRepository, mailer Mailer, baseURL string, logger *zap.Logger) *StatusNotificationHandler {
	return &StatusNotificationHandler{
		storeRepo: storeRepo,
		mailer:    mailer,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StatusNotificationHandler) EventTypes() []string {
	return []string{order.EventTypeOrderStatusChanged}
}

// Handle sends the status update mail
func (h *StatusNotificationHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	se, ok := ev.(*order.StatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", ev)
	}
	if !se.NotifyCustomer || se.CustomerEmail == "" {
		return nil
	}
	store, err := h.storeRepo.FindByID(ctx, se.StoreID())
	if err != nil {
		return fmt.Errorf("load store for order notification: %w", err)
	}

	msg := email.Email{
		To:       []string{se.CustomerEmail},
		Subject:  fmt.Sprintf("%s order %s is %s", store.Name, se.Number, strings.ToLower(string(se.NewStatus))),
		Template: email.TemplateOrderStatusUpdate,
		Model: map[string]any{
			email.KeyStoreName:       store.Name,
			email.KeyStoreURL:        h.baseURL,
			email.KeyStoreEmail:      store.Email,
			email.KeyCustomerEmail:   se.CustomerEmail,
			email.KeyOrderNumber:     se.Number,
			email.KeyOrderStatus:     string(se.NewStatus),
			email.KeyOrderComments:   se.Comments,
			email.KeyFooterCopyright: fmt.Sprintf("Copyright %s %d", store.Name, time.Now().Year()),
		},
	}
	if err := h.mailer.Send(ctx, msg); err != nil {
		return err
	}
	h.logger.Info("Order status notification sent",
		zap.String("number", se.Number),
		zap.String("status", string(se.NewStatus)))
	return nil
}
