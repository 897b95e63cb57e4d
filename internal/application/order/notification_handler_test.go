package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/infrastructure/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type storeLookup struct {
	merchant.MerchantStoreRepository
	store *merchant.MerchantStore
}

func (s storeLookup) FindByID(context.Context, uuid.UUID) (*merchant.MerchantStore, error) {
	return s.store, nil
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg email.Email) error {
	return m.Called(ctx, msg).Error(0)
}

func TestStatusNotificationHandler(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	mailer := new(MockMailer)
	handler := NewStatusNotificationHandler(storeLookup{store: f.store}, mailer, "https://shop.example.com/", zap.NewNop())

	t.Run("silent change", func(t *testing.T) {
		o := f.placedOrder(t)
		require.NoError(t, o.ChangeStatus("PROCESSED", "", false))

		require.NoError(t, handler.Handle(ctx, o.GetDomainEvents()[0]))
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("notified change", func(t *testing.T) {
		o := f.placedOrder(t)
		require.NoError(t, o.ChangeStatus("CANCELED", "out of print", true))

		mailer.On("Send", ctx, mock.MatchedBy(func(m email.Email) bool {
			return m.Template == email.TemplateOrderStatusUpdate &&
				m.To[0] == "jane@example.com" &&
				m.Model[email.KeyOrderStatus] == "CANCELED" &&
				m.Model[email.KeyOrderComments] == "out of print" &&
				m.Model[email.KeyStoreURL] == "https://shop.example.com"
		})).Return(nil).Once()

		require.NoError(t, handler.Handle(ctx, o.GetDomainEvents()[0]))
		mailer.AssertExpectations(t)
	})

	assert.Equal(t, []string{"OrderStatusChanged"}, handler.EventTypes())
}
