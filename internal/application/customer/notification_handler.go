package customer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/salesmanager/backend/internal/domain/customer"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/email"
	"go.uber.org/zap"
)

// Mailer sends rendered notifications
type Mailer interface {
	Send(ctx context.Context, msg email.Email) error
}

// NotificationHandler mails customers on registration and password reset requests
type NotificationHandler struct {
	storeRepo merchant.MerchantStoreRepository
	mailer    Mailer
	baseURL   string
	logger    *zap.Logger
}

// NewNotificationHandler creates a handler. baseURL is the public shop URL used in links.
func NewNotificationHandler(storeRepo merchant.MerchantStoreRepository, mailer Mailer, baseURL string, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		storeRepo: storeRepo,
		mailer:    mailer,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *NotificationHandler) EventTypes() []string {
	return []string{customer.EventTypeCustomerRegistered, customer.EventTypePasswordResetRequested}
}

// Handle sends the mail matching the event
func (h *NotificationHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	ce, ok := ev.(*customer.CustomerEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", ev)
	}
	store, err := h.storeRepo.FindByID(ctx, ce.StoreID())
	if err != nil {
		return fmt.Errorf("load store for customer notification: %w", err)
	}

	model := map[string]any{
		email.KeyStoreName:         store.Name,
		email.KeyStoreURL:          h.baseURL,
		email.KeyStoreEmail:        store.Email,
		email.KeyCustomerFirstName: ce.FirstName,
		email.KeyCustomerEmail:     ce.Email,
		email.KeyFooterCopyright:   fmt.Sprintf("Copyright %s %d", store.Name, time.Now().Year()),
	}
	msg := email.Email{To: []string{ce.Email}, Model: model}

	switch ce.EventType() {
	case customer.EventTypeCustomerRegistered:
		msg.Subject = "Welcome to " + store.Name
		msg.Template = email.TemplateCustomerRegistration
	case customer.EventTypePasswordResetRequested:
		msg.Subject = store.Name + " password reset"
		msg.Template = email.TemplatePasswordResetRequest
		model[email.KeyResetLink] = h.resetLink(store.Code, ce.ResetToken)
	default:
		return nil
	}

	if err := h.mailer.Send(ctx, msg); err != nil {
		return err
	}
	h.logger.Info("Customer notification sent",
		zap.String("event_type", ce.EventType()),
		zap.String("customer_id", ce.CustomerID.String()))
	return nil
}

func (h *NotificationHandler) resetLink(storeCode, tok string) string {
	q := url.Values{}
	q.Set("store", storeCode)
	q.Set("token", tok)
	return h.baseURL + "/customer/password/reset?" + q.Encode()
}

var _ shared.EventHandler = (*NotificationHandler)(nil)
