package customer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer(uuid.New(), " John@Example.com ", "hash", "John", "Doe")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", c.Email)
	assert.Equal(t, "John Doe", c.FullName())
	assert.True(t, c.Active)

	events := c.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeCustomerRegistered, events[0].EventType())

	_, err = NewCustomer(uuid.New(), "not-an-email", "hash", "John", "Doe")
	assert.Error(t, err)

	_, err = NewCustomer(uuid.New(), "a@b.com", "hash", "", "Doe")
	assert.Error(t, err)
}

func TestCustomer_PasswordReset(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "a@b.com", "hash", "A", "B")
	require.NoError(t, err)
	now := time.Now()

	c.StartPasswordReset("tok", now.Add(time.Hour))
	assert.NoError(t, c.ValidateResetToken("tok", now))
	assert.Error(t, c.ValidateResetToken("other", now))
	assert.Error(t, c.ValidateResetToken("tok", now.Add(2*time.Hour)))

	c.ChangePassword("new-hash")
	assert.Equal(t, "new-hash", c.Password)
	assert.Error(t, c.ValidateResetToken("tok", now), "token is single use")
}

func TestCustomer_SetAddresses(t *testing.T) {
	c, _ := NewCustomer(uuid.New(), "a@b.com", "hash", "A", "B")
	billing, err := valueobject.NewAddress("1 Main", "Laval", "H7A", "CA")
	require.NoError(t, err)

	require.NoError(t, c.SetAddresses(billing, valueobject.Address{}))
	assert.Equal(t, billing, c.Delivery)

	assert.Error(t, c.SetAddresses(valueobject.Address{City: "x"}, valueobject.Address{}))
}

func TestCustomer_UpdateProfile(t *testing.T) {
	c, _ := NewCustomer(uuid.New(), "a@b.com", "hash", "A", "B")
	require.NoError(t, c.UpdateProfile("Ann", "Bee", "ACME", GenderFemale, "FR"))
	assert.Equal(t, "fr", c.DefaultLanguage)
	assert.Equal(t, 2, c.Version)
	assert.Error(t, c.UpdateProfile("Ann", "Bee", "", Gender("X"), ""))
}
