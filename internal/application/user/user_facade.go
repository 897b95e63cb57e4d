package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/user"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// UserFacade handles back-office administrators: login, token refresh and account management
type UserFacade struct {
	userRepo    user.UserRepository
	storeRepo   merchant.MerchantStoreRepository
	hasher      *auth.PasswordHasher
	jwtService  *auth.JWTService
	revocations auth.RevocationList
	logger      *zap.Logger
	now         func() time.Time
}

// NewUserFacade creates a new user facade
func NewUserFacade(
	userRepo user.UserRepository,
	storeRepo merchant.MerchantStoreRepository,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	revocations auth.RevocationList,
	logger *zap.Logger,
) *UserFacade {
	return &UserFacade{
		userRepo:    userRepo,
		storeRepo:   storeRepo,
		hasher:      hasher,
		jwtService:  jwtService,
		revocations: revocations,
		logger:      logger,
		now:         time.Now,
	}
}

var errInvalidCredentials = shared.WrapDomainError("INVALID_CREDENTIALS", "Invalid username or password", shared.ErrUnauthorized)

// Authenticate checks username and password and returns a token pair
func (f *UserFacade) Authenticate(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	f.logger.Info("Login attempt", zap.String("username", req.Username))

	u, err := f.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			f.logger.Warn("User not found during login", zap.String("username", req.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !u.Active {
		f.logger.Warn("Login attempt for deactivated account", zap.String("username", req.Username))
		return nil, shared.WrapDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated", shared.ErrUnauthorized)
	}
	if !f.hasher.Matches(u.Password, req.Password) {
		f.logger.Warn("Invalid password attempt", zap.String("username", req.Username))
		return nil, errInvalidCredentials
	}

	store, err := f.storeRepo.FindByID(ctx, u.MerchantStoreID)
	if err != nil {
		return nil, err
	}
	pair, err := f.jwtService.GenerateTokenPair(tokenInput(u, store.Code))
	if err != nil {
		f.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens", err)
	}

	u.RecordLogin(f.now())
	if err := f.userRepo.Save(ctx, u); err != nil {
		// the login itself succeeded
		f.logger.Error("Failed to record login time", zap.Error(err))
	}
	f.logger.Info("User logged in successfully",
		zap.String("username", u.Username),
		zap.String("user_id", u.ID.String()))
	return &LoginResponse{Token: pair, User: ToUserResponse(u)}, nil
}

func tokenInput(u *user.User, storeCode string) auth.TokenInput {
	groups := make([]string, 0)
	for _, g := range u.GroupList() {
		groups = append(groups, string(g))
	}
	return auth.TokenInput{
		Principal: auth.PrincipalAdmin,
		SubjectID: u.ID,
		StoreID:   u.MerchantStoreID,
		StoreCode: storeCode,
		Username:  u.Username,
		Groups:    groups,
	}
}

// Refresh exchanges a refresh token for a new pair with the user's current groups
func (f *UserFacade) Refresh(ctx context.Context, req RefreshRequest) (*LoginResponse, error) {
	claims, err := f.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		f.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, refreshError(err)
	}
	if claims.Principal != auth.PrincipalAdmin {
		return nil, refreshError(auth.ErrInvalidClaims)
	}
	if revoked, err := f.revoked(ctx, claims); err != nil {
		return nil, err
	} else if revoked {
		return nil, refreshError(auth.ErrTokenRevoked)
	}

	id, _ := claims.SubjectID()
	u, err := f.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("USER_NOT_FOUND", "User not found", shared.ErrUnauthorized)
		}
		return nil, err
	}
	if !u.Active {
		return nil, shared.WrapDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated", shared.ErrUnauthorized)
	}

	in := tokenInput(u, claims.StoreCode)
	pair, _, err := f.jwtService.RefreshTokenPair(req.RefreshToken, in.Groups)
	if err != nil {
		return nil, refreshError(err)
	}
	// the old refresh token is single use
	if err := f.revocations.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		f.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
	}
	return &LoginResponse{Token: pair, User: ToUserResponse(u)}, nil
}

func (f *UserFacade) revoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	if revoked, err := f.revocations.IsRevoked(ctx, claims.ID); err != nil || revoked {
		return revoked, err
	}
	var issued time.Time
	if claims.IssuedAt != nil {
		issued = claims.IssuedAt.Time
	}
	return f.revocations.IsSubjectRevoked(ctx, claims.Subject, issued)
}

func refreshError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.WrapDomainError("TOKEN_EXPIRED", "Refresh token has expired", shared.ErrUnauthorized)
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.WrapDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again", shared.ErrUnauthorized)
	case errors.Is(err, auth.ErrTokenRevoked):
		return shared.WrapDomainError("TOKEN_REVOKED", "Refresh token has been revoked", shared.ErrUnauthorized)
	default:
		return shared.WrapDomainError("TOKEN_INVALID", "Invalid refresh token", shared.ErrUnauthorized)
	}
}

// Logout revokes the access token until it expires
func (f *UserFacade) Logout(ctx context.Context, claims *auth.Claims) error {
	return f.revocations.Revoke(ctx, claims.ID, claims.RemainingTTL())
}

// FindByUserName retrieves an administrator by login name
func (f *UserFacade) FindByUserName(ctx context.Context, username string) (*UserResponse, error) {
	u, err := f.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// GetByID retrieves an administrator the caller may see
func (f *UserFacade) GetByID(ctx context.Context, caller *user.User, id uuid.UUID) (*UserResponse, error) {
	u, err := f.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Authorized(caller, u.MerchantStoreID) {
		return nil, shared.ErrNotFound
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// Current loads the user a token was issued to
func (f *UserFacade) Current(ctx context.Context, claims *auth.Claims) (*user.User, error) {
	id, err := claims.SubjectID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	u, err := f.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// List returns a page of administrators. Only super administrators see every store.
func (f *UserFacade) List(ctx context.Context, caller *user.User, criteria user.UserCriteria) (shared.Paginated[UserResponse], error) {
	if !caller.IsSuperAdmin() {
		storeID := caller.MerchantStoreID
		criteria.StoreID = &storeID
	}
	list, total, err := f.userRepo.List(ctx, criteria)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	items := make([]UserResponse, 0, len(list))
	for i := range list {
		items = append(items, ToUserResponse(&list[i]))
	}
	return shared.NewPaginated(items, total, criteria.Page(), criteria.Limit()), nil
}

// Create adds an administrator to a store the caller administers
func (f *UserFacade) Create(ctx context.Context, caller *user.User, req CreateUserRequest) (*UserResponse, error) {
	storeID := caller.MerchantStoreID
	if req.StoreCode != "" {
		store, err := f.storeRepo.FindByCode(ctx, req.StoreCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_STORE", "Store not found: "+req.StoreCode)
			}
			return nil, err
		}
		storeID = store.ID
	}
	if !Authorized(caller, storeID) {
		return nil, shared.WrapDomainError("FORBIDDEN", "Cannot create users for this store", shared.ErrForbidden)
	}
	groups := make([]user.Group, 0, len(req.Groups))
	for _, g := range req.Groups {
		groups = append(groups, user.Group(g))
		if user.Group(strings.ToUpper(g)) == user.GroupSuperAdmin && !caller.IsSuperAdmin() {
			return nil, shared.WrapDomainError("FORBIDDEN", "Only super administrators can grant SUPERADMIN", shared.ErrForbidden)
		}
	}

	exists, err := f.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.WrapDomainError("ALREADY_EXISTS", "Username already exists", shared.ErrAlreadyExists)
	}
	hash, err := f.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u, err := user.NewUser(storeID, req.Username, req.Email, hash, groups)
	if err != nil {
		return nil, err
	}
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	if req.DefaultLanguage != "" {
		u.DefaultLanguage = strings.ToLower(req.DefaultLanguage)
	}
	if err := f.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}
	f.logger.Info("User created",
		zap.String("username", u.Username),
		zap.String("created_by", caller.Username))
	resp := ToUserResponse(u)
	return &resp, nil
}

// ChangePassword replaces the caller's password and revokes their older tokens
func (f *UserFacade) ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) error {
	u, err := f.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !f.hasher.Matches(u.Password, req.CurrentPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is not valid")
	}
	hash, err := f.hasher.Hash(req.Password)
	if err != nil {
		return err
	}
	u.ChangePassword(hash)
	if err := f.userRepo.Save(ctx, u); err != nil {
		return err
	}
	if err := f.revocations.RevokeSubject(ctx, u.ID.String(), f.jwtService.RefreshTokenExpiration()); err != nil {
		f.logger.Warn("Failed to revoke user tokens", zap.String("user_id", u.ID.String()), zap.Error(err))
	}
	return nil
}

// Delete removes an administrator. Users cannot delete themselves.
func (f *UserFacade) Delete(ctx context.Context, caller *user.User, id uuid.UUID) error {
	if caller.ID == id {
		return shared.WrapDomainError("INVALID_OPERATION", "Users cannot delete their own account", shared.ErrInvalidState)
	}
	u, err := f.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !Authorized(caller, u.MerchantStoreID) {
		return shared.ErrNotFound
	}
	if err := f.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := f.revocations.RevokeSubject(ctx, id.String(), f.jwtService.RefreshTokenExpiration()); err != nil {
		f.logger.Warn("Failed to revoke user tokens", zap.String("user_id", id.String()), zap.Error(err))
	}
	return nil
}

// Authorized reports whether u may administer the store
func Authorized(u *user.User, storeID uuid.UUID) bool {
	return u != nil && u.Active && u.CanManageStore(storeID)
}

// EnsureSuperAdmin creates the configured superadmin in the store when no
// user of that name exists yet
func (f *UserFacade) EnsureSuperAdmin(ctx context.Context, cfg config.AdminConfig, storeID uuid.UUID) error {
	if cfg.Username == "" || cfg.Password == "" {
		f.logger.Warn("No admin credentials configured, skipping superadmin bootstrap")
		return nil
	}
	exists, err := f.userRepo.ExistsByUsername(ctx, cfg.Username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	hash, err := f.hasher.Hash(cfg.Password)
	if err != nil {
		return err
	}
	mail := cfg.Email
	if mail == "" {
		mail = cfg.Username + "@localhost"
	}
	u, err := user.NewUser(storeID, cfg.Username, mail, hash, []user.Group{user.GroupSuperAdmin, user.GroupAdmin})
	if err != nil {
		return err
	}
	if err := f.userRepo.Save(ctx, u); err != nil {
		return err
	}
	f.logger.Info("Created superadmin", zap.String("username", u.Username))
	return nil
}
