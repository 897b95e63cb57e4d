package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/reference"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

func newTestContext(method, target string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, body)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func testStore(code string) *merchant.MerchantStore {
	store, err := merchant.NewMerchantStore(code, code+" store", "shop@example.com")
	if err != nil {
		panic(err)
	}
	return store
}

// withStore simulates the store and locale middlewares
func withStore(c *gin.Context, store *merchant.MerchantStore) {
	c.Set(middleware.StoreKey, store)
	c.Set(middleware.StoreCodeKey, store.Code)
	c.Set(middleware.LanguageKey, "en")
}

// withAdmin simulates an authenticated administrator of storeCode
func withAdmin(c *gin.Context, storeCode string, groups ...string) *auth.Claims {
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.New().String(), ID: uuid.NewString()},
		Principal:        auth.PrincipalAdmin,
		StoreCode:        storeCode,
		Username:         "admin",
		Groups:           groups,
		TokenType:        auth.TokenTypeAccess,
	}
	c.Set(middleware.ClaimsKey, claims)
	return claims
}

// MockStoreRepository implements merchant.MerchantStoreRepository for testing
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*merchant.MerchantStore, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchant.MerchantStore), args.Error(1)
}

func (m *MockStoreRepository) FindByCode(ctx context.Context, code string) (*merchant.MerchantStore, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchant.MerchantStore), args.Error(1)
}

func (m *MockStoreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreRepository) List(ctx context.Context, criteria merchant.MerchantStoreCriteria) ([]merchant.MerchantStore, int64, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).([]merchant.MerchantStore), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoreRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]merchant.MerchantStore, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]merchant.MerchantStore), args.Error(1)
}

func (m *MockStoreRepository) Save(ctx context.Context, store *merchant.MerchantStore) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockLanguageRepository implements reference.LanguageRepository for testing
type MockLanguageRepository struct {
	mock.Mock
}

func (m *MockLanguageRepository) FindByCode(ctx context.Context, code string) (*reference.Language, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reference.Language), args.Error(1)
}

func (m *MockLanguageRepository) FindAll(ctx context.Context) ([]reference.Language, error) {
	args := m.Called(ctx)
	return args.Get(0).([]reference.Language), args.Error(1)
}

func (m *MockLanguageRepository) Save(ctx context.Context, language *reference.Language) error {
	return m.Called(ctx, language).Error(0)
}

// MockContentRepository implements content.ContentRepository for testing
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*content.Content, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Content), args.Error(1)
}

func (m *MockContentRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*content.Content, error) {
	args := m.Called(ctx, storeID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Content), args.Error(1)
}

func (m *MockContentRepository) FindByCodeAndLanguage(ctx context.Context, storeID uuid.UUID, code, lang string) (*content.Content, error) {
	args := m.Called(ctx, storeID, code, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Content), args.Error(1)
}

func (m *MockContentRepository) FindBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*content.Content, error) {
	args := m.Called(ctx, storeID, lang, seUrl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Content), args.Error(1)
}

func (m *MockContentRepository) ListByType(ctx context.Context, storeID uuid.UUID, types []content.ContentType, lang string) ([]content.Content, error) {
	args := m.Called(ctx, storeID, types, lang)
	return args.Get(0).([]content.Content), args.Error(1)
}

func (m *MockContentRepository) ListNameByType(ctx context.Context, storeID uuid.UUID, types []content.ContentType, lang string) ([]content.ContentName, error) {
	args := m.Called(ctx, storeID, types, lang)
	return args.Get(0).([]content.ContentName), args.Error(1)
}

func (m *MockContentRepository) FindByCriteria(ctx context.Context, criteria content.ContentCriteria) ([]content.Content, int64, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).([]content.Content), args.Get(1).(int64), args.Error(2)
}

func (m *MockContentRepository) ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, storeID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepository) Save(ctx context.Context, c *content.Content) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContentRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return m.Called(ctx, storeID, id).Error(0)
}

// MockFileStore implements content.FileStore for testing
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) AddFile(ctx context.Context, storeCode string, file content.InputContentFile) error {
	return m.Called(ctx, storeCode, file).Error(0)
}

func (m *MockFileStore) AddFiles(ctx context.Context, storeCode string, files []content.InputContentFile) error {
	return m.Called(ctx, storeCode, files).Error(0)
}

func (m *MockFileStore) GetFile(ctx context.Context, storeCode string, fileType content.FileContentType, path, fileName string) (*content.OutputContentFile, error) {
	args := m.Called(ctx, storeCode, fileType, path, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.OutputContentFile), args.Error(1)
}

func (m *MockFileStore) GetFiles(ctx context.Context, storeCode string, fileType content.FileContentType) ([]content.OutputContentFile, error) {
	args := m.Called(ctx, storeCode, fileType)
	return args.Get(0).([]content.OutputContentFile), args.Error(1)
}

func (m *MockFileStore) GetFileNames(ctx context.Context, storeCode string, fileType content.FileContentType) ([]string, error) {
	args := m.Called(ctx, storeCode, fileType)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFileStore) RemoveFile(ctx context.Context, storeCode string, fileType content.FileContentType, path, fileName string) error {
	return m.Called(ctx, storeCode, fileType, path, fileName).Error(0)
}

func (m *MockFileStore) RemoveFiles(ctx context.Context, storeCode string) error {
	return m.Called(ctx, storeCode).Error(0)
}

func (m *MockFileStore) AddFolder(ctx context.Context, storeCode, folderName, path string) error {
	return m.Called(ctx, storeCode, folderName, path).Error(0)
}

func (m *MockFileStore) RemoveFolder(ctx context.Context, storeCode, folderName, path string) error {
	return m.Called(ctx, storeCode, folderName, path).Error(0)
}

func (m *MockFileStore) ListFolders(ctx context.Context, storeCode, path string) ([]string, error) {
	args := m.Called(ctx, storeCode, path)
	return args.Get(0).([]string), args.Error(1)
}
