package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// ContentCriteria filters content listings
type ContentCriteria struct {
	shared.Criteria
	StoreID     uuid.UUID     `criteria:"-"`
	ContentType []ContentType `criteria:"ContentType"`
	Code        string        `criteria:"Code"`
	Visible     *bool         `criteria:"Visible"`
}

// ContentRepository is the content query layer
type ContentRepository interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Content, error)
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*Content, error)
	// FindByCodeAndLanguage loads the content with only the description in lang
	FindByCodeAndLanguage(ctx context.Context, storeID uuid.UUID, code, lang string) (*Content, error)
	FindBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*Content, error)
	ListByType(ctx context.Context, storeID uuid.UUID, types []ContentType, lang string) ([]Content, error)
	ListNameByType(ctx context.Context, storeID uuid.UUID, types []ContentType, lang string) ([]ContentName, error)
	FindByCriteria(ctx context.Context, criteria ContentCriteria) ([]Content, int64, error)
	ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, content *Content) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}
