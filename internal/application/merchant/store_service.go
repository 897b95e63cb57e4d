package merchant

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/reference"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// StoreService manages merchant stores and the reference languages they use
type StoreService struct {
	storeRepo    merchant.MerchantStoreRepository
	languageRepo reference.LanguageRepository
	logger       *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(storeRepo merchant.MerchantStoreRepository, languageRepo reference.LanguageRepository, logger *zap.Logger) *StoreService {
	return &StoreService{
		storeRepo:    storeRepo,
		languageRepo: languageRepo,
		logger:       logger,
	}
}

// Create creates a merchant store
func (s *StoreService) Create(ctx context.Context, req CreateStoreRequest) (*StoreResponse, error) {
	exists, err := s.storeRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.WrapDomainError("ALREADY_EXISTS", "Store with this code already exists", shared.ErrAlreadyExists)
	}

	store, err := merchant.NewMerchantStore(req.Code, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	store.Phone = req.Phone
	store.DomainName = req.DomainName
	store.Retailer = req.Retailer
	if req.Currency != "" {
		store.Currency = strings.ToUpper(req.Currency)
	}
	if req.WeightUnit != "" {
		store.WeightUnit = req.WeightUnit
	}
	if req.SizeUnit != "" {
		store.SizeUnit = req.SizeUnit
	}
	if err := s.applyLanguages(ctx, store, req.DefaultLanguage, req.SupportedLanguages); err != nil {
		return nil, err
	}
	if err := applyAddress(store, req.Address); err != nil {
		return nil, err
	}
	if req.ParentCode != "" {
		parent, err := s.storeRepo.FindByCode(ctx, req.ParentCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent store not found")
			}
			return nil, err
		}
		if err := store.AttachTo(parent); err != nil {
			return nil, err
		}
	}

	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	s.logger.Info("Merchant store created", zap.String("store", store.Code))
	resp := ToStoreResponse(store)
	return &resp, nil
}

// Update changes a merchant store
func (s *StoreService) Update(ctx context.Context, code string, req UpdateStoreRequest) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := store.Update(req.Name, req.Email, req.Phone, req.DomainName, req.Currency); err != nil {
		return nil, err
	}
	if req.WeightUnit != "" {
		store.WeightUnit = req.WeightUnit
	}
	if req.SizeUnit != "" {
		store.SizeUnit = req.SizeUnit
	}
	if req.UseCache != nil {
		store.UseCache = *req.UseCache
	}
	if req.DefaultLanguage != "" || req.SupportedLanguages != nil {
		def := req.DefaultLanguage
		if def == "" {
			def = store.DefaultLanguage
		}
		if err := s.applyLanguages(ctx, store, def, req.SupportedLanguages); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if err := applyAddress(store, *req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// GetByCode retrieves a store by its code
func (s *StoreService) GetByCode(ctx context.Context, code string) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// Resolve returns the store entity for a code, used by request scoping
func (s *StoreService) Resolve(ctx context.Context, code string) (*merchant.MerchantStore, error) {
	if code == "" {
		code = merchant.DefaultStoreCode
	}
	return s.storeRepo.FindByCode(ctx, code)
}

// List returns a page of stores
func (s *StoreService) List(ctx context.Context, criteria merchant.MerchantStoreCriteria) (shared.Paginated[StoreResponse], error) {
	stores, total, err := s.storeRepo.List(ctx, criteria)
	if err != nil {
		return shared.Paginated[StoreResponse]{}, err
	}
	items := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		items = append(items, ToStoreResponse(&stores[i]))
	}
	return shared.NewPaginated(items, total, criteria.Page(), criteria.Limit()), nil
}

// Children lists the stores attached to a retailer
func (s *StoreService) Children(ctx context.Context, code string) ([]StoreResponse, error) {
	store, err := s.storeRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	children, err := s.storeRepo.FindChildren(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	out := make([]StoreResponse, 0, len(children))
	for i := range children {
		out = append(out, ToStoreResponse(&children[i]))
	}
	return out, nil
}

// CodeExists reports whether a store code is taken
func (s *StoreService) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.storeRepo.ExistsByCode(ctx, code)
}

// Delete removes a store. The default store and retailers with children are kept.
func (s *StoreService) Delete(ctx context.Context, code string) error {
	if code == merchant.DefaultStoreCode {
		return shared.WrapDomainError("DEFAULT_STORE", "The default store cannot be deleted", shared.ErrInvalidState)
	}
	store, err := s.storeRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	children, err := s.storeRepo.FindChildren(ctx, store.ID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return shared.WrapDomainError("HAS_CHILDREN", "Store has child stores and cannot be deleted", shared.ErrInvalidState)
	}
	if err := s.storeRepo.Delete(ctx, store.ID); err != nil {
		return err
	}
	s.logger.Info("Merchant store deleted", zap.String("store", code))
	return nil
}

// Languages lists the reference languages
func (s *StoreService) Languages(ctx context.Context) ([]LanguageResponse, error) {
	langs, err := s.languageRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LanguageResponse, 0, len(langs))
	for _, l := range langs {
		out = append(out, LanguageResponse{ID: l.ID, Code: l.Code})
	}
	return out, nil
}

// EnsureDefaults creates the reference languages and the DEFAULT store when
// they are missing. Used on databases that were not built by migrations.
func (s *StoreService) EnsureDefaults(ctx context.Context, defaultLang string, languages []string) (*merchant.MerchantStore, error) {
	for i, code := range append([]string{defaultLang}, languages...) {
		if _, err := s.languageRepo.FindByCode(ctx, code); err == nil {
			continue
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		lang, err := reference.NewLanguage(code, i)
		if err != nil {
			return nil, err
		}
		if err := s.languageRepo.Save(ctx, lang); err != nil {
			return nil, err
		}
	}

	store, err := s.storeRepo.FindByCode(ctx, merchant.DefaultStoreCode)
	if err == nil {
		return store, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	store, err = merchant.NewMerchantStore(merchant.DefaultStoreCode, "Default store", "admin@salesmanager.local")
	if err != nil {
		return nil, err
	}
	store.Retailer = true
	if err := store.SetLanguages(defaultLang, languages); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	s.logger.Info("Created default merchant store", zap.String("id", store.ID.String()))
	return store, nil
}

// applyLanguages sets the store languages after checking each is a known reference language
func (s *StoreService) applyLanguages(ctx context.Context, store *merchant.MerchantStore, def string, supported []string) error {
	if def == "" {
		def = store.DefaultLanguage
	}
	for _, code := range append([]string{def}, supported...) {
		if _, err := s.languageRepo.FindByCode(ctx, strings.ToLower(strings.TrimSpace(code))); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_LANGUAGE", "Unknown language: "+code)
			}
			return err
		}
	}
	return store.SetLanguages(def, supported)
}

func applyAddress(store *merchant.MerchantStore, addr valueobject.Address) error {
	if addr.IsEmpty() {
		return nil
	}
	addr.Country = strings.ToUpper(addr.Country)
	if err := addr.Validate(); err != nil {
		return shared.WrapDomainError("INVALID_ADDRESS", "Store address is invalid", err)
	}
	store.Address = addr
	store.Touch()
	return nil
}

// StoreID returns the id of a store code. Unknown codes map to ErrNotFound.
func (s *StoreService) StoreID(ctx context.Context, code string) (uuid.UUID, error) {
	store, err := s.Resolve(ctx, code)
	if err != nil {
		return uuid.Nil, err
	}
	return store.ID, nil
}
