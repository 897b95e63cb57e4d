package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/user"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, criteria user.UserCriteria) ([]user.User, int64, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).([]user.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Save(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// stores resolves a fixed set of stores by id and code
type stores struct {
	merchant.MerchantStoreRepository
	byCode map[string]*merchant.MerchantStore
}

func (s stores) FindByID(_ context.Context, id uuid.UUID) (*merchant.MerchantStore, error) {
	for _, st := range s.byCode {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s stores) FindByCode(_ context.Context, code string) (*merchant.MerchantStore, error) {
	if st, ok := s.byCode[code]; ok {
		return st, nil
	}
	return nil, shared.ErrNotFound
}

type facadeFixture struct {
	facade *UserFacade
	repo   *MockUserRepository
	hasher *auth.PasswordHasher
	main   *merchant.MerchantStore
	branch *merchant.MerchantStore
}

func newFacadeFixture(t *testing.T) *facadeFixture {
	t.Helper()
	main, err := merchant.NewMerchantStore("DEFAULT", "Default", "d@example.com")
	require.NoError(t, err)
	branch, err := merchant.NewMerchantStore("branch", "Branch", "b@example.com")
	require.NoError(t, err)

	f := &facadeFixture{
		repo:   new(MockUserRepository),
		hasher: auth.NewPasswordHasher(bcrypt.MinCost),
		main:   main,
		branch: branch,
	}
	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-jwt-secret",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "salesmanager",
	})
	f.facade = NewUserFacade(f.repo,
		stores{byCode: map[string]*merchant.MerchantStore{"DEFAULT": main, "branch": branch}},
		f.hasher, jwt, auth.NewMemoryRevocationList(), zap.NewNop())
	return f
}

func (f *facadeFixture) user(t *testing.T, storeID uuid.UUID, name, password string, groups ...user.Group) *user.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	u, err := user.NewUser(storeID, name, name+"@example.com", hash, groups)
	require.NoError(t, err)
	return u
}

func TestUserFacade_Authenticate(t *testing.T) {
	f := newFacadeFixture(t)
	ctx := context.Background()
	admin := f.user(t, f.main.ID, "admin", "secret123", user.GroupAdmin, user.GroupAdminCatalogue)

	f.repo.On("FindByUsername", ctx, "admin").Return(admin, nil)
	f.repo.On("Save", ctx, admin).Return(nil)

	resp, err := f.facade.Authenticate(ctx, LoginRequest{Username: "admin", Password: "secret123"})

	require.NoError(t, err)
	assert.Equal(t, []string{"ADMIN", "ADMIN_CATALOGUE"}, resp.User.Groups)
	assert.NotNil(t, admin.LoginTime)

	_, err = f.facade.Authenticate(ctx, LoginRequest{Username: "admin", Password: "nope-nope"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestUserFacade_Refresh_IsSingleUse(t *testing.T) {
	f := newFacadeFixture(t)
	ctx := context.Background()
	admin := f.user(t, f.main.ID, "admin", "secret123", user.GroupAdmin)

	f.repo.On("FindByUsername", ctx, "admin").Return(admin, nil)
	f.repo.On("FindByID", ctx, admin.ID).Return(admin, nil)
	f.repo.On("Save", ctx, admin).Return(nil)

	login, err := f.facade.Authenticate(ctx, LoginRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := f.facade.Refresh(ctx, RefreshRequest{RefreshToken: login.Token.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token.AccessToken)

	_, err = f.facade.Refresh(ctx, RefreshRequest{RefreshToken: login.Token.RefreshToken})
	assert.Equal(t, "TOKEN_REVOKED", shared.ErrorCode(err))
}

func TestUserFacade_Create_Authorization(t *testing.T) {
	f := newFacadeFixture(t)
	ctx := context.Background()
	storeAdmin := f.user(t, f.main.ID, "storeadmin", "secret123", user.GroupAdmin)
	super := f.user(t, f.main.ID, "root", "secret123", user.GroupSuperAdmin)

	req := CreateUserRequest{
		Username:  "clerk",
		Email:     "clerk@example.com",
		Password:  "secret123",
		StoreCode: "branch",
		Groups:    []string{"ADMIN_ORDER"},
	}

	t.Run("other store is forbidden", func(t *testing.T) {
		_, err := f.facade.Create(ctx, storeAdmin, req)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("superadmin grant is forbidden", func(t *testing.T) {
		own := req
		own.StoreCode = ""
		own.Groups = []string{"SUPERADMIN"}
		_, err := f.facade.Create(ctx, storeAdmin, own)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("superadmin creates in any store", func(t *testing.T) {
		f.repo.On("ExistsByUsername", ctx, "clerk").Return(false, nil).Once()
		f.repo.On("Save", ctx, mock.AnythingOfType("*user.User")).Return(nil).Once()

		resp, err := f.facade.Create(ctx, super, req)

		require.NoError(t, err)
		assert.Equal(t, f.branch.ID, resp.StoreID)
		assert.Equal(t, []string{"ADMIN_ORDER"}, resp.Groups)
	})
}

func TestUserFacade_List_ScopesToStore(t *testing.T) {
	f := newFacadeFixture(t)
	ctx := context.Background()
	storeAdmin := f.user(t, f.branch.ID, "storeadmin", "secret123", user.GroupAdmin)

	f.repo.On("List", ctx, mock.MatchedBy(func(c user.UserCriteria) bool {
		return c.StoreID != nil && *c.StoreID == f.branch.ID
	})).Return([]user.User{*storeAdmin}, int64(1), nil)

	page, err := f.facade.List(ctx, storeAdmin, user.UserCriteria{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	f.repo.AssertExpectations(t)
}

func TestUserFacade_Delete_Self(t *testing.T) {
	f := newFacadeFixture(t)
	admin := f.user(t, f.main.ID, "admin", "secret123", user.GroupAdmin)

	err := f.facade.Delete(context.Background(), admin, admin.ID)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserFacade_EnsureSuperAdmin(t *testing.T) {
	f := newFacadeFixture(t)
	ctx := context.Background()
	cfg := config.AdminConfig{Username: "admin", Password: "password"}

	f.repo.On("ExistsByUsername", ctx, "admin").Return(false, nil).Once()
	f.repo.On("Save", ctx, mock.MatchedBy(func(u *user.User) bool {
		return u.IsSuperAdmin() && u.MerchantStoreID == f.main.ID && u.Email == "admin@localhost"
	})).Return(nil).Once()

	require.NoError(t, f.facade.EnsureSuperAdmin(ctx, cfg, f.main.ID))

	f.repo.On("ExistsByUsername", ctx, "admin").Return(true, nil).Once()
	require.NoError(t, f.facade.EnsureSuperAdmin(ctx, cfg, f.main.ID))

	f.repo.AssertExpectations(t)
}

func TestAuthorized(t *testing.T) {
	storeID := uuid.New()
	admin, err := user.NewUser(storeID, "admin", "a@example.com", "hash", []user.Group{user.GroupAdmin})
	require.NoError(t, err)

	assert.True(t, Authorized(admin, storeID))
	assert.False(t, Authorized(admin, uuid.New()))
	assert.False(t, Authorized(nil, storeID))

	admin.Active = false
	assert.False(t, Authorized(admin, storeID))
}
