package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New(), uuid.New(), "Buyer@Example.com", "usd", []LineInput{
		{ProductID: uuid.New(), Sku: "SKU-1", Name: "Mug", Quantity: 2, UnitPrice: decimal.NewFromFloat(9.5)},
		{ProductID: uuid.New(), Sku: "SKU-2", Name: "Poster", Quantity: 1, UnitPrice: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t)

	assert.Equal(t, StatusOrdered, o.Status)
	assert.Equal(t, "USD", o.Currency)
	assert.Equal(t, "buyer@example.com", o.CustomerEmail)
	assert.True(t, o.SubTotal.Equal(decimal.NewFromInt(39)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(39)))
	require.Len(t, o.History, 1)
	assert.Equal(t, StatusOrdered, o.History[0].Status)
	assert.Contains(t, o.Number, o.DatePurchased.Format("20060102"))
}

func TestNewOrder_Invalid(t *testing.T) {
	_, err := NewOrder(uuid.New(), uuid.New(), "a@b.c", "USD", nil)
	assert.Error(t, err)

	_, err = NewOrder(uuid.New(), uuid.New(), "a@b.c", "USD", []LineInput{{Sku: "X", Quantity: 0, UnitPrice: decimal.NewFromInt(1)}})
	assert.Error(t, err)

	_, err = NewOrder(uuid.New(), uuid.New(), "a@b.c", "DOLLARS", []LineInput{{Sku: "X", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}})
	assert.Error(t, err)
}

func TestOrder_SetCharges(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.SetCharges(decimal.NewFromInt(5), decimal.NewFromFloat(2.5)))
	assert.True(t, o.Total.Equal(decimal.NewFromFloat(46.5)))

	assert.Error(t, o.SetCharges(decimal.NewFromInt(-1), decimal.Zero))
}

func TestOrder_ChangeStatus(t *testing.T) {
	tests := []struct {
		name  string
		path  []Status
		next  Status
		valid bool
	}{
		{"ordered to processed", nil, StatusProcessed, true},
		{"ordered to canceled", nil, StatusCanceled, true},
		{"ordered to delivered", nil, StatusDelivered, false},
		{"processed to delivered", []Status{StatusProcessed}, StatusDelivered, true},
		{"processed to canceled", []Status{StatusProcessed}, StatusCanceled, true},
		{"delivered to refunded", []Status{StatusProcessed, StatusDelivered}, StatusRefunded, true},
		{"delivered to canceled", []Status{StatusProcessed, StatusDelivered}, StatusCanceled, false},
		{"canceled is terminal", []Status{StatusCanceled}, StatusProcessed, false},
		{"refunded is terminal", []Status{StatusProcessed, StatusDelivered, StatusRefunded}, StatusCanceled, false},
		{"unknown status", nil, Status("LOST"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrder(t)
			for _, s := range tt.path {
				require.NoError(t, o.ChangeStatus(s, "", false))
			}
			o.ClearDomainEvents()

			err := o.ChangeStatus(tt.next, "note", true)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.next, o.Status)
				require.Len(t, o.GetDomainEvents(), 1)
				evt := o.GetDomainEvents()[0].(*StatusChangedEvent)
				assert.Equal(t, tt.next, evt.NewStatus)
				assert.True(t, evt.NotifyCustomer)
				last := o.History[len(o.History)-1]
				assert.Equal(t, tt.next, last.Status)
				assert.Equal(t, "note", last.Comments)
			} else {
				require.Error(t, err)
				assert.Empty(t, o.GetDomainEvents())
			}
		})
	}
}

func TestOrder_ChangeStatus_InvalidStateError(t *testing.T) {
	o := newTestOrder(t)
	err := o.ChangeStatus(StatusRefunded, "", false)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestOrderProductDownload_Consume(t *testing.T) {
	d, err := NewOrderProductDownload(uuid.New(), "ebook.pdf")
	require.NoError(t, err)
	d.MaxCount = 2

	now := d.CreatedAt.Add(time.Hour)
	require.NoError(t, d.Consume(now))
	require.NoError(t, d.Consume(now))
	assert.Error(t, d.Consume(now))
	assert.Equal(t, 2, d.DownloadCount)
}

func TestOrderProductDownload_Expired(t *testing.T) {
	d, err := NewOrderProductDownload(uuid.New(), "ebook.pdf")
	require.NoError(t, err)

	later := d.CreatedAt.AddDate(0, 0, DefaultDownloadMaxDays+1)
	assert.True(t, d.IsExpired(later))
	assert.Error(t, d.Consume(later))

	_, err = NewOrderProductDownload(uuid.New(), "")
	assert.Error(t, err)
}
