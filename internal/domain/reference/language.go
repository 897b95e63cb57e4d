package reference

import (
	"context"
	"strings"

	"github.com/salesmanager/backend/internal/domain/shared"
)

// Language is a storefront language identified by its ISO 639-1 code
type Language struct {
	shared.BaseEntity
	Code      string `gorm:"type:varchar(5);not null;uniqueIndex"`
	SortOrder int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Language) TableName() string {
	return "languages"
}

// NewLanguage creates a language from its ISO code
func NewLanguage(code string, sortOrder int) (*Language, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) < 2 || len(code) > 5 {
		return nil, shared.NewDomainError("INVALID_LANGUAGE", "Language code must be 2 to 5 characters")
	}
	return &Language{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		SortOrder:  sortOrder,
	}, nil
}

// LanguageRepository reads reference languages
type LanguageRepository interface {
	FindByCode(ctx context.Context, code string) (*Language, error)
	FindAll(ctx context.Context) ([]Language, error)
	Save(ctx context.Context, language *Language) error
}
