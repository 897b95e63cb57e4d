package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, events shared.EventPublisher, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		events:       events,
		logger:       logger,
	}
}

// Create creates a root or child category
func (s *CategoryService) Create(ctx context.Context, storeID uuid.UUID, lang string, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByCode(ctx, storeID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.WrapDomainError("ALREADY_EXISTS", "Category with this code already exists", shared.ErrAlreadyExists)
	}

	var category *catalog.Category
	if req.ParentID != nil {
		parent, err := s.findParent(ctx, storeID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		category, err = catalog.NewChildCategory(storeID, req.Code, parent)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(storeID, req.Code)
		if err != nil {
			return nil, err
		}
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}
	category.SortOrder = req.SortOrder
	category.Visible = visible
	category.Featured = req.Featured

	if err := applyCategoryDescriptions(category, req.Descriptions); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publish(ctx, category)

	resp := ToCategoryResponse(category, lang)
	return &resp, nil
}

// Update changes display attributes, descriptions and, when requested, the parent.
// Moving a category rewrites the materialized path of all its descendants.
func (s *CategoryService) Update(ctx context.Context, storeID, id uuid.UUID, lang string, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	sortOrder, visible, featured := category.SortOrder, category.Visible, category.Featured
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if req.Visible != nil {
		visible = *req.Visible
	}
	if req.Featured != nil {
		featured = *req.Featured
	}
	category.Update(sortOrder, visible, featured)

	if err := applyCategoryDescriptions(category, req.Descriptions); err != nil {
		return nil, err
	}

	toSave := []catalog.Category{}
	if req.Root || req.ParentID != nil {
		descendants, err := s.move(ctx, category, req)
		if err != nil {
			return nil, err
		}
		toSave = descendants
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	if len(toSave) > 0 {
		if err := s.categoryRepo.SaveAll(ctx, toSave); err != nil {
			return nil, err
		}
	}
	s.publish(ctx, category)

	resp := ToCategoryResponse(category, lang)
	return &resp, nil
}

func (s *CategoryService) move(ctx context.Context, category *catalog.Category, req UpdateCategoryRequest) ([]catalog.Category, error) {
	var parent *catalog.Category
	if !req.Root {
		if category.ParentID != nil && *category.ParentID == *req.ParentID {
			return nil, nil
		}
		p, err := s.findParent(ctx, category.MerchantStoreID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		parent = p
	} else if category.IsRoot() {
		return nil, nil
	}

	descendants, err := s.categoryRepo.ListByLineage(ctx, category.MerchantStoreID, category.Path)
	if err != nil {
		return nil, err
	}

	oldDepth := category.Depth
	oldPath, err := category.MoveTo(parent)
	if err != nil {
		return nil, err
	}

	subtree := 0
	for i := range descendants {
		if d := descendants[i].Depth - oldDepth; d > subtree {
			subtree = d
		}
	}
	if category.Depth+subtree >= catalog.MaxCategoryDepth {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED",
			fmt.Sprintf("Category depth cannot exceed %d levels", catalog.MaxCategoryDepth))
	}

	for i := range descendants {
		descendants[i].RewritePath(oldPath, category.Path)
	}
	return descendants, nil
}

// GetByID retrieves a category
func (s *CategoryService) GetByID(ctx context.Context, storeID, id uuid.UUID, lang string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category, lang)
	return &resp, nil
}

// GetBySeUrl retrieves a category by its friendly url in lang
func (s *CategoryService) GetBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySeUrl(ctx, storeID, lang, seUrl)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category, lang)
	return &resp, nil
}

// Tree returns the category hierarchy of a store with product counts.
// Hidden categories and their subtrees are skipped unless includeHidden is set.
func (s *CategoryService) Tree(ctx context.Context, storeID uuid.UUID, lang string, includeHidden bool) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !includeHidden {
		categories = visibleOnly(categories)
	}

	ids := make([]uuid.UUID, 0, len(categories))
	for i := range categories {
		ids = append(ids, categories[i].ID)
	}
	counts, err := s.categoryRepo.CountProductsByCategories(ctx, storeID, ids)
	if err != nil {
		return nil, err
	}

	roots := catalog.BuildTree(categories)
	out := make([]CategoryResponse, 0, len(roots))
	for _, n := range roots {
		out = append(out, toTreeResponse(n, lang, counts))
	}
	return out, nil
}

// Children lists the direct children of parentID, or the roots when parentID is nil
func (s *CategoryService) Children(ctx context.Context, storeID uuid.UUID, parentID *uuid.UUID, lang string) ([]CategoryResponse, error) {
	var parent *catalog.Category
	if parentID != nil {
		p, err := s.categoryRepo.FindByID(ctx, storeID, *parentID)
		if err != nil {
			return nil, err
		}
		parent = p
	}
	categories, err := s.categoryRepo.ListByStoreAndParent(ctx, storeID, parent)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i], lang))
	}
	return out, nil
}

// CodeExists reports whether a category code is taken in the store
func (s *CategoryService) CodeExists(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	return s.categoryRepo.ExistsByCode(ctx, storeID, code)
}

// Delete removes a leaf category
func (s *CategoryService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return err
	}
	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.WrapDomainError("HAS_CHILDREN", "Category has sub-categories and cannot be deleted", shared.ErrInvalidState)
	}
	if err := s.categoryRepo.Delete(ctx, storeID, id); err != nil {
		return err
	}
	if err := s.events.Publish(ctx, catalog.NewCategoryEvent(catalog.EventTypeCategoryDeleted, category)); err != nil {
		s.logger.Warn("Failed to publish category event", zap.Error(err))
	}
	return nil
}

func (s *CategoryService) findParent(ctx context.Context, storeID, parentID uuid.UUID) (*catalog.Category, error) {
	parent, err := s.categoryRepo.FindByID(ctx, storeID, parentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
		}
		return nil, err
	}
	return parent, nil
}

func (s *CategoryService) publish(ctx context.Context, category *catalog.Category) {
	events := category.GetDomainEvents()
	category.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish category event", zap.Error(err))
	}
}

func applyCategoryDescriptions(c *catalog.Category, in []CategoryDescriptionInput) error {
	for _, d := range in {
		if err := c.SetDescription(d.Language, d.Name, d.SeUrl, d.MetaDescription); err != nil {
			return err
		}
	}
	return nil
}

// visibleOnly drops hidden categories along with everything below them
func visibleOnly(categories []catalog.Category) []catalog.Category {
	var hidden []string
	for i := range categories {
		if !categories[i].Visible {
			hidden = append(hidden, categories[i].Path)
		}
	}
	if len(hidden) == 0 {
		return categories
	}
	out := make([]catalog.Category, 0, len(categories))
next:
	for i := range categories {
		for _, h := range hidden {
			if categories[i].Path == h || strings.HasPrefix(categories[i].Path, h+"/") {
				continue next
			}
		}
		out = append(out, categories[i])
	}
	return out
}

func toTreeResponse(n *catalog.CategoryNode, lang string, counts map[uuid.UUID]int64) CategoryResponse {
	resp := ToCategoryResponse(n.Category, lang)
	resp.ProductCount = counts[n.Category.ID]
	for _, child := range n.Children {
		resp.Children = append(resp.Children, toTreeResponse(child, lang, counts))
	}
	return resp
}
