package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/content"
	"gorm.io/gorm"
)

// GormContentRepository implements ContentRepository using GORM
type GormContentRepository struct {
	db *gorm.DB
}

// NewGormContentRepository creates a new GormContentRepository
func NewGormContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: trackVersions(db)}
}

func (r *GormContentRepository) scoped(ctx context.Context, storeID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Scopes(StoreScope(storeID))
}

func languageOnly(lang string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if lang == "" {
			return db
		}
		return db.Where("language = ?", lang)
	}
}

// FindByID finds content by ID within a store
func (r *GormContentRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*content.Content, error) {
	var c content.Content
	if err := r.scoped(ctx, storeID).Preload("Descriptions").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindByCode finds content by its store-unique code
func (r *GormContentRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*content.Content, error) {
	var c content.Content
	if err := r.scoped(ctx, storeID).Preload("Descriptions").Where("code = ?", code).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindByCodeAndLanguage loads content with only its description in lang
func (r *GormContentRepository) FindByCodeAndLanguage(ctx context.Context, storeID uuid.UUID, code, lang string) (*content.Content, error) {
	var c content.Content
	err := r.scoped(ctx, storeID).
		Preload("Descriptions", languageOnly(lang)).
		Where("code = ?", code).
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindBySeUrl finds content by a localized friendly URL
func (r *GormContentRepository) FindBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*content.Content, error) {
	sub := r.db.Model(&content.ContentDescription{}).Select("content_id").
		Where("language = ? AND se_url = ?", lang, seUrl)
	var c content.Content
	err := r.scoped(ctx, storeID).
		Preload("Descriptions", languageOnly(lang)).
		Where("id IN (?)", sub).
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListByType returns the contents of the given types with descriptions in lang
func (r *GormContentRepository) ListByType(ctx context.Context, storeID uuid.UUID, types []content.ContentType, lang string) ([]content.Content, error) {
	var list []content.Content
	err := r.scoped(ctx, storeID).
		Preload("Descriptions", languageOnly(lang)).
		Where("content_type IN ?", types).
		Order("sort_order ASC").
		Find(&list).Error
	return list, err
}

// ListNameByType returns lightweight name projections of the given types
func (r *GormContentRepository) ListNameByType(ctx context.Context, storeID uuid.UUID, types []content.ContentType, lang string) ([]content.ContentName, error) {
	var names []content.ContentName
	q := r.db.WithContext(ctx).
		Table("contents c").
		Select("c.id AS id, c.code AS code, c.content_type AS content_type, d.language AS language, d.name AS name, d.se_url AS se_url, c.sort_order AS sort_order").
		Joins("JOIN content_descriptions d ON d.content_id = c.id").
		Where("c.merchant_store_id = ? AND c.content_type IN ?", storeID, types)
	if lang != "" {
		q = q.Where("d.language = ?", lang)
	}
	err := q.Order("c.sort_order ASC").Scan(&names).Error
	return names, err
}

// FindByCriteria returns a page of contents matching the criteria
func (r *GormContentRepository) FindByCriteria(ctx context.Context, criteria content.ContentCriteria) ([]content.Content, int64, error) {
	q := r.db.WithContext(ctx).Model(&content.Content{}).Scopes(StoreScope(criteria.StoreID))
	if len(criteria.ContentType) > 0 {
		q = q.Where("content_type IN ?", criteria.ContentType)
	}
	if criteria.Code != "" {
		q = q.Where("LOWER(code) LIKE ? ESCAPE '\\'", Like(criteria.Code))
	}
	if criteria.Visible != nil {
		q = q.Where("visible = ?", *criteria.Visible)
	}
	if criteria.Search != "" {
		q = q.Where("id IN (?)", r.db.Model(&content.ContentDescription{}).Select("content_id").
			Where("LOWER(name) LIKE ? ESCAPE '\\'", Like(criteria.Search)))
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []content.Content
	err := q.Scopes(OrderBy(criteria.Criteria, ContentSortFields, "sort_order"), Paginate(criteria.Criteria)).
		Preload("Descriptions", languageOnly(criteria.Language)).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ExistsByCode checks whether a content code is taken in the store
func (r *GormContentRepository) ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&content.Content{}).Scopes(StoreScope(storeID)).Where("code = ?", code))
}

// Save creates or updates content with its descriptions
func (r *GormContentRepository) Save(ctx context.Context, c *content.Content) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveVersioned(tx, c, func(tx *gorm.DB) error {
			return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(c).Error
		})
	})
}

// Delete removes content and its descriptions
func (r *GormContentRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_id = ?", id).Delete(&content.ContentDescription{}).Error; err != nil {
			return err
		}
		return affected(tx.Scopes(StoreScope(storeID)).Delete(&content.Content{}, "id = ?", id))
	})
}
