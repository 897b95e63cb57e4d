package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/customer"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/infrastructure/token"
	"go.uber.org/zap"
)

// CustomerServiceConfig contains configuration for the customer service
type CustomerServiceConfig struct {
	ResetTokenTTL time.Duration
}

// DefaultCustomerServiceConfig returns default configuration
func DefaultCustomerServiceConfig() CustomerServiceConfig {
	return CustomerServiceConfig{ResetTokenTTL: 24 * time.Hour}
}

// CustomerService handles storefront accounts: registration, login and password recovery
type CustomerService struct {
	customerRepo customer.CustomerRepository
	hasher       *auth.PasswordHasher
	jwtService   *auth.JWTService
	tokenizer    *token.Tokenizer
	revocations  auth.RevocationList
	events       shared.EventPublisher
	config       CustomerServiceConfig
	logger       *zap.Logger
	now          func() time.Time
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo customer.CustomerRepository,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	tokenizer *token.Tokenizer,
	revocations auth.RevocationList,
	events shared.EventPublisher,
	config CustomerServiceConfig,
	logger *zap.Logger,
) *CustomerService {
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = DefaultCustomerServiceConfig().ResetTokenTTL
	}
	return &CustomerService{
		customerRepo: customerRepo,
		hasher:       hasher,
		jwtService:   jwtService,
		tokenizer:    tokenizer,
		revocations:  revocations,
		events:       events,
		config:       config,
		logger:       logger,
		now:          time.Now,
	}
}

// Register creates a customer in the store and logs them in
func (s *CustomerService) Register(ctx context.Context, store *merchant.MerchantStore, lang string, req RegisterRequest) (*AuthResponse, error) {
	email, err := customer.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	exists, err := s.customerRepo.ExistsByEmail(ctx, store.ID, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.WrapDomainError("ALREADY_EXISTS", "A customer with this email already exists", shared.ErrAlreadyExists)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	c, err := customer.NewCustomer(store.ID, email, hash, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	if req.DefaultLanguage == "" {
		req.DefaultLanguage = lang
	}
	if err := c.UpdateProfile(req.FirstName, req.LastName, req.Company, customer.Gender(strings.ToUpper(req.Gender)), req.DefaultLanguage); err != nil {
		return nil, err
	}
	if !req.Billing.IsEmpty() {
		if err := c.SetAddresses(req.Billing, req.Delivery); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Customer registered",
		zap.String("store", store.Code),
		zap.String("customer_id", c.ID.String()))
	return s.issue(store, c)
}

// Authenticate checks email and password and returns a token pair
func (s *CustomerService) Authenticate(ctx context.Context, store *merchant.MerchantStore, req LoginRequest) (*AuthResponse, error) {
	invalid := shared.WrapDomainError("INVALID_CREDENTIALS", "Invalid email or password", shared.ErrUnauthorized)

	c, err := s.customerRepo.FindByEmail(ctx, store.ID, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Customer not found during login", zap.String("store", store.Code))
			return nil, invalid
		}
		return nil, err
	}
	if !c.Active {
		return nil, shared.WrapDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated", shared.ErrUnauthorized)
	}
	if !s.hasher.Matches(c.Password, req.Password) {
		s.logger.Warn("Invalid customer password attempt", zap.String("customer_id", c.ID.String()))
		return nil, invalid
	}
	return s.issue(store, c)
}

func (s *CustomerService) issue(store *merchant.MerchantStore, c *customer.Customer) (*AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.TokenInput{
		Principal: auth.PrincipalCustomer,
		SubjectID: c.ID,
		StoreID:   store.ID,
		StoreCode: store.Code,
		Username:  c.Email,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens", err)
	}
	return &AuthResponse{Token: pair, Customer: ToCustomerResponse(c)}, nil
}

// ChangePassword replaces the password after checking the current one.
// Tokens issued before the change stop working.
func (s *CustomerService) ChangePassword(ctx context.Context, storeID, id uuid.UUID, req ChangePasswordRequest) error {
	c, err := s.customerRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return err
	}
	if !s.hasher.Matches(c.Password, req.CurrentPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is not valid")
	}
	return s.setPassword(ctx, c, req.Password)
}

// RequestPasswordReset mails a reset link when the email is known. Unknown
// emails succeed silently so the endpoint cannot be used to probe accounts.
func (s *CustomerService) RequestPasswordReset(ctx context.Context, store *merchant.MerchantStore, req PasswordResetRequest) error {
	c, err := s.customerRepo.FindByEmail(ctx, store.ID, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email", zap.String("store", store.Code))
			return nil
		}
		return err
	}

	tok, expires, err := s.tokenizer.BuildEmailToken(c.ID, store.Code, s.config.ResetTokenTTL)
	if err != nil {
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to build reset token", err)
	}
	c.StartPasswordReset(tok, expires)
	return s.save(ctx, c)
}

// ResetPassword sets a new password with a token from RequestPasswordReset.
// A token works once: the pending reset is cleared with the new password.
func (s *CustomerService) ResetPassword(ctx context.Context, store *merchant.MerchantStore, req ResetPasswordRequest) error {
	claims, err := s.tokenizer.ParseEmailToken(req.Token)
	if err != nil {
		return err
	}
	if claims.StoreCode != store.Code {
		return shared.WrapDomainError("INVALID_TOKEN", "Password reset token is not valid", shared.ErrInvalidInput)
	}
	c, err := s.customerRepo.FindByID(ctx, store.ID, claims.CustomerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.WrapDomainError("INVALID_TOKEN", "Password reset token is not valid", shared.ErrInvalidInput)
		}
		return err
	}
	if err := c.ValidateResetToken(req.Token, s.now()); err != nil {
		return err
	}
	return s.setPassword(ctx, c, req.Password)
}

func (s *CustomerService) setPassword(ctx context.Context, c *customer.Customer, plain string) error {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return err
	}
	c.ChangePassword(hash)
	if err := s.save(ctx, c); err != nil {
		return err
	}
	if err := s.revocations.RevokeSubject(ctx, c.ID.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
		s.logger.Warn("Failed to revoke customer tokens", zap.String("customer_id", c.ID.String()), zap.Error(err))
	}
	s.logger.Info("Customer password changed", zap.String("customer_id", c.ID.String()))
	return nil
}

// GetByID retrieves a customer
func (s *CustomerService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// List returns a page of customers
func (s *CustomerService) List(ctx context.Context, criteria customer.CustomerCriteria) (shared.Paginated[CustomerResponse], error) {
	list, total, err := s.customerRepo.List(ctx, criteria)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	items := make([]CustomerResponse, 0, len(list))
	for i := range list {
		items = append(items, ToCustomerResponse(&list[i]))
	}
	return shared.NewPaginated(items, total, criteria.Page(), criteria.Limit()), nil
}

// Update changes a customer profile
func (s *CustomerService) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateProfile(req.FirstName, req.LastName, req.Company, customer.Gender(strings.ToUpper(req.Gender)), req.DefaultLanguage); err != nil {
		return nil, err
	}
	c.DateOfBirth = req.DateOfBirth
	if req.Billing != nil {
		delivery := c.Delivery
		if req.Delivery != nil {
			delivery = *req.Delivery
		}
		if err := c.SetAddresses(*req.Billing, delivery); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			c.Active = true
		} else {
			c.Deactivate()
		}
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// EmailExists reports whether an email is registered in the store
func (s *CustomerService) EmailExists(ctx context.Context, storeID uuid.UUID, email string) (bool, error) {
	email, err := customer.NormalizeEmail(email)
	if err != nil {
		return false, err
	}
	return s.customerRepo.ExistsByEmail(ctx, storeID, email)
}

// Delete removes a customer and revokes their tokens
func (s *CustomerService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if err := s.customerRepo.Delete(ctx, storeID, id); err != nil {
		return err
	}
	if err := s.revocations.RevokeSubject(ctx, id.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
		s.logger.Warn("Failed to revoke customer tokens", zap.String("customer_id", id.String()), zap.Error(err))
	}
	return nil
}

// PurgeExpiredResetTokens clears reset tokens past their expiry
func (s *CustomerService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	n, err := s.customerRepo.ClearExpiredResetTokens(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Purged expired password reset tokens", zap.Int64("count", n))
	}
	return n, nil
}

func (s *CustomerService) save(ctx context.Context, c *customer.Customer) error {
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return err
	}
	events := c.GetDomainEvents()
	c.ClearDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish customer event", zap.Error(err))
	}
	return nil
}
