package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*catalog.Category, error) {
	args := m.Called(ctx, storeID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*catalog.Category, error) {
	args := m.Called(ctx, storeID, lang, seUrl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, storeID, ids)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByStoreAndParent(ctx context.Context, storeID uuid.UUID, parent *catalog.Category) ([]catalog.Category, error) {
	args := m.Called(ctx, storeID, parent)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByLineage(ctx context.Context, storeID uuid.UUID, path string) ([]catalog.Category, error) {
	args := m.Called(ctx, storeID, path)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountProductsByCategories(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, storeID, ids)
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, storeID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) SaveAll(ctx context.Context, categories []catalog.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySku(ctx context.Context, storeID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, storeID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*catalog.Product, error) {
	args := m.Called(ctx, storeID, lang, seUrl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, criteria catalog.ProductCriteria) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySku(ctx context.Context, storeID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, storeID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

// MockProductTypeRepository is a mock implementation of ProductTypeRepository
type MockProductTypeRepository struct {
	mock.Mock
}

func (m *MockProductTypeRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*catalog.ProductType, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductType), args.Error(1)
}

func (m *MockProductTypeRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*catalog.ProductType, error) {
	args := m.Called(ctx, storeID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductType), args.Error(1)
}

func (m *MockProductTypeRepository) List(ctx context.Context, storeID uuid.UUID) ([]catalog.ProductType, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]catalog.ProductType), args.Error(1)
}

func (m *MockProductTypeRepository) Save(ctx context.Context, productType *catalog.ProductType) error {
	args := m.Called(ctx, productType)
	return args.Error(0)
}

func (m *MockProductTypeRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

// MockAvailabilityRepository is a mock implementation of ProductAvailabilityRepository
type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductAvailability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductAvailability), args.Error(1)
}

func (m *MockAvailabilityRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductAvailability, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.ProductAvailability), args.Error(1)
}

func (m *MockAvailabilityRepository) FindByProductAndRegion(ctx context.Context, productID uuid.UUID, region string) (*catalog.ProductAvailability, error) {
	args := m.Called(ctx, productID, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductAvailability), args.Error(1)
}

func (m *MockAvailabilityRepository) ListByStoreAndRegion(ctx context.Context, storeID uuid.UUID, region string) ([]catalog.ProductAvailability, error) {
	args := m.Called(ctx, storeID, region)
	return args.Get(0).([]catalog.ProductAvailability), args.Error(1)
}

func (m *MockAvailabilityRepository) Save(ctx context.Context, availability *catalog.ProductAvailability) error {
	args := m.Called(ctx, availability)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductImageRepository is a mock implementation of ProductImageRepository
type MockProductImageRepository struct {
	mock.Mock
}

func (m *MockProductImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductImage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductImage), args.Error(1)
}

func (m *MockProductImageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductImage, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.ProductImage), args.Error(1)
}

func (m *MockProductImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockProductImageRepository) SaveAll(ctx context.Context, images []catalog.ProductImage) error {
	args := m.Called(ctx, images)
	return args.Error(0)
}

func (m *MockProductImageRepository) Delete(ctx context.Context, id uuid.UUID, remaining []catalog.ProductImage) error {
	args := m.Called(ctx, id, remaining)
	return args.Error(0)
}

type MockProductVariantImageRepository struct {
	mock.Mock
}

func (m *MockProductVariantImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductVariantImage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductVariantImage), args.Error(1)
}

func (m *MockProductVariantImageRepository) FindByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]catalog.ProductVariantImage, error) {
	args := m.Called(ctx, storeID, productID)
	return args.Get(0).([]catalog.ProductVariantImage), args.Error(1)
}

func (m *MockProductVariantImageRepository) Save(ctx context.Context, image *catalog.ProductVariantImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockProductVariantImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// memoryFileStore is an in-memory content.FileStore keyed by store/type/path/name
type memoryFileStore struct {
	mu      sync.Mutex
	files   map[string]content.InputContentFile
	folders map[string]bool
}

func newMemoryFileStore() *memoryFileStore {
	return &memoryFileStore{
		files:   make(map[string]content.InputContentFile),
		folders: make(map[string]bool),
	}
}

func fileKey(store string, t content.FileContentType, path, name string) string {
	return store + "|" + string(t) + "|" + path + "|" + name
}

func (s *memoryFileStore) AddFile(_ context.Context, storeCode string, file content.InputContentFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fileKey(storeCode, file.FileContentType, file.Path, file.FileName)] = file
	return nil
}

func (s *memoryFileStore) AddFiles(ctx context.Context, storeCode string, files []content.InputContentFile) error {
	for _, f := range files {
		if err := s.AddFile(ctx, storeCode, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryFileStore) GetFile(_ context.Context, storeCode string, fileType content.FileContentType, path, fileName string) (*content.OutputContentFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[fileKey(storeCode, fileType, path, fileName)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &content.OutputContentFile{
		FileName:        f.FileName,
		MimeType:        f.MimeType,
		FileContentType: f.FileContentType,
		Path:            f.Path,
		Size:            int64(len(f.Body)),
		Body:            f.Body,
	}, nil
}

func (s *memoryFileStore) GetFiles(context.Context, string, content.FileContentType) ([]content.OutputContentFile, error) {
	return nil, nil
}

func (s *memoryFileStore) GetFileNames(context.Context, string, content.FileContentType) ([]string, error) {
	return nil, nil
}

func (s *memoryFileStore) RemoveFile(_ context.Context, storeCode string, fileType content.FileContentType, path, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, fileKey(storeCode, fileType, path, fileName))
	return nil
}

func (s *memoryFileStore) RemoveFiles(context.Context, string) error { return nil }

func (s *memoryFileStore) AddFolder(_ context.Context, storeCode, folderName, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders[storeCode+"|"+path+"/"+folderName] = true
	return nil
}

func (s *memoryFileStore) RemoveFolder(context.Context, string, string, string) error { return nil }

func (s *memoryFileStore) ListFolders(context.Context, string, string) ([]string, error) {
	return nil, nil
}

func (s *memoryFileStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
