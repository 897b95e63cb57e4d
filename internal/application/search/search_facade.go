package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	catalogapp "github.com/salesmanager/backend/internal/application/catalog"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/cache"
	"github.com/salesmanager/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	defaultAutocompleteCount = 10
	maxAutocompleteCount     = 50
)

// SearchResponse is a page of products matching a query
type SearchResponse struct {
	Query    string                       `json:"query"`
	Total    int64                        `json:"total"`
	Start    int                          `json:"start"`
	Count    int                          `json:"count"`
	Products []catalogapp.ProductResponse `json:"products"`
}

// SearchFacade answers product searches and keeps the autocomplete index current
type SearchFacade struct {
	productRepo catalog.ProductRepository
	storeRepo   merchant.MerchantStoreRepository
	index       cache.AutocompleteIndex
	metrics     *telemetry.ShopMetrics
	logger      *zap.Logger
}

// NewSearchFacade creates a new search facade
func NewSearchFacade(
	productRepo catalog.ProductRepository,
	storeRepo merchant.MerchantStoreRepository,
	index cache.AutocompleteIndex,
	metrics *telemetry.ShopMetrics,
	logger *zap.Logger,
) *SearchFacade {
	if metrics == nil {
		metrics = telemetry.NopShopMetrics()
	}
	return &SearchFacade{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		index:       index,
		metrics:     metrics,
		logger:      logger,
	}
}

// Search matches query against product names in lang, case-insensitively.
// Only available products are returned.
func (f *SearchFacade) Search(ctx context.Context, store *merchant.MerchantStore, lang, query string, start, count int) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, shared.WrapDomainError("INVALID_QUERY", "Search query cannot be empty", shared.ErrInvalidInput)
	}
	f.metrics.SearchQueried(ctx, store.Code, "search")

	criteria := catalog.ProductCriteria{
		Criteria: shared.Criteria{
			StartIndex: start,
			MaxCount:   count,
			Language:   lang,
		},
		StoreID:       store.ID,
		Name:          query,
		AvailableOnly: true,
	}
	list, total, err := f.productRepo.List(ctx, criteria)
	if err != nil {
		return nil, err
	}
	items := make([]catalogapp.ProductResponse, 0, len(list))
	for i := range list {
		items = append(items, catalogapp.ToProductResponse(&list[i], lang))
	}
	return &SearchResponse{
		Query:    query,
		Total:    total,
		Start:    criteria.Offset(),
		Count:    len(items),
		Products: items,
	}, nil
}

// Autocomplete suggests up to count product names starting with prefix
func (f *SearchFacade) Autocomplete(ctx context.Context, store *merchant.MerchantStore, lang, prefix string, count int) ([]string, error) {
	if count <= 0 {
		count = defaultAutocompleteCount
	}
	if count > maxAutocompleteCount {
		count = maxAutocompleteCount
	}
	f.metrics.SearchQueried(ctx, store.Code, "autocomplete")
	return f.index.Complete(ctx, store.Code, lang, prefix, count)
}

// IndexProduct replaces the indexed names of a product, one per language
func (f *SearchFacade) IndexProduct(ctx context.Context, storeCode string, productID uuid.UUID, names map[string]string) error {
	for lang, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if err := f.index.Add(ctx, storeCode, lang, cache.Entry{ProductID: productID.String(), Name: name}); err != nil {
			return err
		}
	}
	return nil
}

// RemoveProduct drops a product from the index of every given language
func (f *SearchFacade) RemoveProduct(ctx context.Context, storeCode string, productID uuid.UUID, langs []string) error {
	for _, lang := range langs {
		if err := f.index.Remove(ctx, storeCode, lang, productID.String()); err != nil {
			return err
		}
	}
	return nil
}

// Reindex rebuilds the autocomplete index of a store from its available products
func (f *SearchFacade) Reindex(ctx context.Context, store *merchant.MerchantStore) (int, error) {
	langs := store.Languages()
	if err := f.index.Reset(ctx, store.Code, langs...); err != nil {
		return 0, fmt.Errorf("reset index of %s: %w", store.Code, err)
	}
	products, err := f.productRepo.ListByStore(ctx, store.ID)
	if err != nil {
		return 0, err
	}

	byLang := make(map[string][]cache.Entry, len(langs))
	indexed := 0
	for i := range products {
		p := &products[i]
		if !p.Available {
			continue
		}
		indexed++
		for _, d := range p.Descriptions {
			byLang[d.Language] = append(byLang[d.Language], cache.Entry{ProductID: p.ID.String(), Name: d.Name})
		}
	}
	for lang, entries := range byLang {
		if err := f.index.Add(ctx, store.Code, lang, entries...); err != nil {
			return 0, err
		}
	}
	f.logger.Info("Search index rebuilt",
		zap.String("store", store.Code),
		zap.Int("products", indexed))
	return indexed, nil
}

// ReindexAll rebuilds the index of every store. A failing store does not stop the others.
func (f *SearchFacade) ReindexAll(ctx context.Context) error {
	criteria := merchant.MerchantStoreCriteria{Criteria: shared.Criteria{MaxCount: shared.MaxPageSize}}
	var failed []string
	for {
		stores, total, err := f.storeRepo.List(ctx, criteria)
		if err != nil {
			return err
		}
		for i := range stores {
			if _, err := f.Reindex(ctx, &stores[i]); err != nil {
				f.logger.Error("Search reindex failed", zap.String("store", stores[i].Code), zap.Error(err))
				failed = append(failed, stores[i].Code)
			}
		}
		criteria.StartIndex += len(stores)
		if len(stores) == 0 || int64(criteria.StartIndex) >= total {
			break
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("reindex failed for stores %s", strings.Join(failed, ", "))
	}
	return nil
}
