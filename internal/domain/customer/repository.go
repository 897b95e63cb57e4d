package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// CustomerCriteria filters customer listings
type CustomerCriteria struct {
	shared.Criteria
	StoreID   uuid.UUID `criteria:"-"`
	Email     string    `criteria:"Email"`
	FirstName string    `criteria:"FirstName"`
	LastName  string    `criteria:"LastName"`
	Name      string    `criteria:"Name"`
}

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Customer, error)
	FindByEmail(ctx context.Context, storeID uuid.UUID, email string) (*Customer, error)
	FindByResetToken(ctx context.Context, storeID uuid.UUID, token string) (*Customer, error)
	List(ctx context.Context, criteria CustomerCriteria) ([]Customer, int64, error)
	ExistsByEmail(ctx context.Context, storeID uuid.UUID, email string) (bool, error)
	// ClearExpiredResetTokens removes reset tokens that expired before now and returns how many were cleared
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}
