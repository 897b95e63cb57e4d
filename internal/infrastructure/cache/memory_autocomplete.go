package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryAutocompleteIndex is a single-process AutocompleteIndex.
// Each store/language keeps a sorted member slice like the Redis sorted set.
type MemoryAutocompleteIndex struct {
	mu      sync.RWMutex
	members map[string][]string
	owners  map[string]map[string]string
}

// NewMemoryAutocompleteIndex creates an empty index
func NewMemoryAutocompleteIndex() *MemoryAutocompleteIndex {
	return &MemoryAutocompleteIndex{
		members: make(map[string][]string),
		owners:  make(map[string]map[string]string),
	}
}

func memKey(store, lang string) string {
	return store + ":" + strings.ToLower(lang)
}

// Add indexes entries
func (x *MemoryAutocompleteIndex) Add(_ context.Context, storeCode, lang string, entries ...Entry) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	key := memKey(storeCode, lang)
	owners := x.owners[key]
	if owners == nil {
		owners = make(map[string]string)
		x.owners[key] = owners
	}
	for _, e := range entries {
		if old, ok := owners[e.ProductID]; ok {
			x.remove(key, old)
		}
		m := member(e)
		owners[e.ProductID] = m
		list := x.members[key]
		i := sort.SearchStrings(list, m)
		if i < len(list) && list[i] == m {
			continue
		}
		list = append(list, "")
		copy(list[i+1:], list[i:])
		list[i] = m
		x.members[key] = list
	}
	return nil
}

func (x *MemoryAutocompleteIndex) remove(key, m string) {
	list := x.members[key]
	i := sort.SearchStrings(list, m)
	if i < len(list) && list[i] == m {
		x.members[key] = append(list[:i], list[i+1:]...)
	}
}

// Remove drops the entry of a product
func (x *MemoryAutocompleteIndex) Remove(_ context.Context, storeCode, lang, productID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	key := memKey(storeCode, lang)
	if old, ok := x.owners[key][productID]; ok {
		x.remove(key, old)
		delete(x.owners[key], productID)
	}
	return nil
}

// Complete returns up to count distinct names starting with prefix
func (x *MemoryAutocompleteIndex) Complete(_ context.Context, storeCode, lang, prefix string, count int) ([]string, error) {
	if count <= 0 {
		count = 10
	}
	p := strings.ToLower(strings.TrimSpace(prefix))
	if p == "" {
		return []string{}, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	list := x.members[memKey(storeCode, lang)]
	var matched []string
	for i := sort.SearchStrings(list, p); i < len(list) && strings.HasPrefix(list[i], p); i++ {
		matched = append(matched, list[i])
	}
	return distinctNames(matched, count), nil
}

// Reset deletes the index of a store for the given languages
func (x *MemoryAutocompleteIndex) Reset(_ context.Context, storeCode string, langs ...string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, l := range langs {
		key := memKey(storeCode, l)
		delete(x.members, key)
		delete(x.owners, key)
	}
	return nil
}
