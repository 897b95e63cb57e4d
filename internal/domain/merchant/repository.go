package merchant

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// MerchantStoreCriteria filters store listings
type MerchantStoreCriteria struct {
	shared.Criteria
	Code      string     `criteria:"Code"`
	Name      string     `criteria:"Name"`
	Retailers bool       `criteria:"Retailers"`
	ParentID  *uuid.UUID `criteria:"ParentID"`
}

// MerchantStoreRepository persists merchant stores
type MerchantStoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MerchantStore, error)
	FindByCode(ctx context.Context, code string) (*MerchantStore, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, criteria MerchantStoreCriteria) ([]MerchantStore, int64, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]MerchantStore, error)
	Save(ctx context.Context, store *MerchantStore) error
	Delete(ctx context.Context, id uuid.UUID) error
}
