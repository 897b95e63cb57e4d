package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCategoryService() (*CategoryService, *MockCategoryRepository, *recordingPublisher) {
	repo := new(MockCategoryRepository)
	events := &recordingPublisher{}
	return NewCategoryService(repo, events, zap.NewNop()), repo, events
}

func mustCategory(t *testing.T, storeID uuid.UUID, code string, parent *catalog.Category) *catalog.Category {
	t.Helper()
	var (
		c   *catalog.Category
		err error
	)
	if parent == nil {
		c, err = catalog.NewCategory(storeID, code)
	} else {
		c, err = catalog.NewChildCategory(storeID, code, parent)
	}
	require.NoError(t, err)
	require.NoError(t, c.SetDescription("en", strings.ToTitle(code), "", ""))
	c.ClearDomainEvents()
	return c
}

func TestCategoryService_Create_Root(t *testing.T) {
	service, repo, events := newTestCategoryService()
	ctx := context.Background()
	storeID := uuid.New()

	req := CreateCategoryRequest{
		Code:         "shoes",
		SortOrder:    2,
		Descriptions: []CategoryDescriptionInput{{Language: "en", Name: "Running Shoes"}},
	}
	repo.On("ExistsByCode", ctx, storeID, "shoes").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

	resp, err := service.Create(ctx, storeID, "en", req)

	require.NoError(t, err)
	assert.Equal(t, "shoes", resp.Code)
	assert.Equal(t, "Running Shoes", resp.Name)
	assert.Equal(t, "running-shoes", resp.SeUrl)
	assert.Equal(t, 0, resp.Depth)
	assert.True(t, resp.Visible)
	assert.Equal(t, []string{catalog.EventTypeCategoryCreated}, events.types())
	repo.AssertExpectations(t)
}

func TestCategoryService_Create_DuplicateCode(t *testing.T) {
	service, repo, _ := newTestCategoryService()
	ctx := context.Background()
	storeID := uuid.New()

	repo.On("ExistsByCode", ctx, storeID, "shoes").Return(true, nil)

	_, err := service.Create(ctx, storeID, "en", CreateCategoryRequest{
		Code:         "shoes",
		Descriptions: []CategoryDescriptionInput{{Language: "en", Name: "Shoes"}},
	})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCategoryService_Create_UnknownParent(t *testing.T) {
	service, repo, _ := newTestCategoryService()
	ctx := context.Background()
	storeID := uuid.New()
	parentID := uuid.New()

	repo.On("ExistsByCode", ctx, storeID, "boots").Return(false, nil)
	repo.On("FindByID", ctx, storeID, parentID).Return(nil, shared.ErrNotFound)

	_, err := service.Create(ctx, storeID, "en", CreateCategoryRequest{
		Code:         "boots",
		ParentID:     &parentID,
		Descriptions: []CategoryDescriptionInput{{Language: "en", Name: "Boots"}},
	})

	assert.Equal(t, "INVALID_PARENT", shared.ErrorCode(err))
}

func TestCategoryService_Update_MoveRewritesDescendants(t *testing.T) {
	service, repo, _ := newTestCategoryService()
	ctx := context.Background()
	storeID := uuid.New()

	target := mustCategory(t, storeID, "target", nil)
	moved := mustCategory(t, storeID, "moved", nil)
	child := mustCategory(t, storeID, "child", moved)
	oldPath := moved.Path

	repo.On("FindByID", ctx, storeID, moved.ID).Return(moved, nil)
	repo.On("FindByID", ctx, storeID, target.ID).Return(target, nil)
	repo.On("ListByLineage", ctx, storeID, oldPath).Return([]catalog.Category{*child}, nil)
	repo.On("Save", ctx, moved).Return(nil)
	repo.On("SaveAll", ctx, mock.MatchedBy(func(list []catalog.Category) bool {
		return len(list) == 1 &&
			list[0].Path == target.Path+"/"+moved.ID.String()+"/"+child.ID.String() &&
			list[0].Depth == 2
	})).Return(nil)

	resp, err := service.Update(ctx, storeID, moved.ID, "en", UpdateCategoryRequest{ParentID: &target.ID})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Depth)
	assert.Equal(t, &target.ID, resp.ParentID)
	repo.AssertExpectations(t)
}

func TestCategoryService_Update_MoveExceedingDepth(t *testing.T) {
	service, repo, _ := newTestCategoryService()
	ctx := context.Background()
	storeID := uuid.New()

	root := mustCategory(t, storeID, "root", nil)
	mid := mustCategory(t, storeID, "mid", root)
	deep := mustCategory(t, storeID, "deep", mid)

	moved := mustCategory(t, storeID, "moved", nil)
	child := mustCategory(t, storeID, "child", moved)
	grandchild := mustCategory(t, storeID, "grandchild", child)

	repo.On("FindByID", ctx, storeID, moved.ID).Return(moved, nil)
	repo.On("FindByID", ctx, storeID, deep.ID).Return(deep, nil)
	repo.On("ListByLineage", ctx, storeID, moved.Path).Return([]catalog.Category{*child, *grandchild}, nil)

	_, err := service.Update(ctx, storeID, moved.ID, "en", UpdateCategoryRequest{ParentID: &deep.ID})

	assert.Equal(t, "MAX_DEPTH_EXCEEDED", shared.ErrorCode(err))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestCategoryService_Update_DisplayOnly(t *testing.T) {
	service, repo, events := newTestCategoryService()
	ctx := context.Background()
	storeID := uuid.New()
	category := mustCategory(t, storeID, "hats", nil)
	hidden := false

	repo.On("FindByID", ctx, storeID, category.ID).Return(category, nil)
	repo.On("Save", ctx, category).Return(nil)

	resp, err := service.Update(ctx, storeID, category.ID, "en", UpdateCategoryRequest{Visible: &hidden})

	require.NoError(t, err)
	assert.False(t, resp.Visible)
	assert.Equal(t, []string{catalog.EventTypeCategoryUpdated}, events.types())
	repo.AssertNotCalled(t, "ListByLineage", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestCategoryService_Tree_SkipsHiddenSubtrees(t *testing.T) {
	service, repo, _ := newTestCategoryService()
	ctx := context.Background()
	storeID := uuid.New()

	shown := mustCategory(t, storeID, "shown", nil)
	hidden := mustCategory(t, storeID, "hidden", nil)
	hidden.Visible = false
	below := mustCategory(t, storeID, "below", hidden)
	leaf := mustCategory(t, storeID, "leaf", shown)

	all := []catalog.Category{*shown, *hidden, *below, *leaf}
	repo.On("ListByStore", ctx, storeID).Return(all, nil)
	repo.On("CountProductsByCategories", ctx, storeID, []uuid.UUID{shown.ID, leaf.ID}).
		Return(map[uuid.UUID]int64{shown.ID: 3, leaf.ID: 1}, nil)

	tree, err := service.Tree(ctx, storeID, "en", false)

	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "shown", tree[0].Code)
	assert.Equal(t, int64(3), tree[0].ProductCount)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "leaf", tree[0].Children[0].Code)
	assert.Equal(t, int64(1), tree[0].Children[0].ProductCount)
}

func TestCategoryService_Children_NilParentListsRoots(t *testing.T) {
	service, repo, _ := newTestCategoryService()
	ctx := context.Background()
	storeID := uuid.New()
	root := mustCategory(t, storeID, "root", nil)

	repo.On("ListByStoreAndParent", ctx, storeID, (*catalog.Category)(nil)).Return([]catalog.Category{*root}, nil)

	list, err := service.Children(ctx, storeID, nil, "en")

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, root.ID, list[0].ID)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCategoryService_Delete(t *testing.T) {
	t.Run("refuses when children exist", func(t *testing.T) {
		service, repo, _ := newTestCategoryService()
		ctx := context.Background()
		storeID := uuid.New()
		category := mustCategory(t, storeID, "parent", nil)

		repo.On("FindByID", ctx, storeID, category.ID).Return(category, nil)
		repo.On("HasChildren", ctx, category.ID).Return(true, nil)

		err := service.Delete(ctx, storeID, category.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Equal(t, "HAS_CHILDREN", shared.ErrorCode(err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removes a leaf", func(t *testing.T) {
		service, repo, events := newTestCategoryService()
		ctx := context.Background()
		storeID := uuid.New()
		category := mustCategory(t, storeID, "leaf", nil)

		repo.On("FindByID", ctx, storeID, category.ID).Return(category, nil)
		repo.On("HasChildren", ctx, category.ID).Return(false, nil)
		repo.On("Delete", ctx, storeID, category.ID).Return(nil)

		require.NoError(t, service.Delete(ctx, storeID, category.ID))
		assert.Equal(t, []string{catalog.EventTypeCategoryDeleted}, events.types())
		repo.AssertExpectations(t)
	})
}
