package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/takhirov/menukeeper/internal/logger"
	"github.com/takhirov/menukeeper/models"
)

// memoryBackend is the fallback persistence strategy used when the durable
// engine cannot be opened. State lives in maps guarded by a single RWMutex
// and, when a snapshot path is configured, survives restarts through a JSON
// file rewritten after every mutation. Contracts are identical to the SQLite
// backend; only durability guarantees differ.
type memoryBackend struct {
	path   string
	logger *logger.Logger

	mu         sync.RWMutex
	items      map[string]models.MenuItem
	reference  map[string]models.ReferenceData
	categories map[string]models.CategoryCacheEntry
}

type memoryPersistedState struct {
	Items      map[string]models.MenuItem           `json:"items"`
	Reference  map[string]models.ReferenceData      `json:"reference"`
	Categories map[string]models.CategoryCacheEntry `json:"categories"`
}

// newMemoryBackend constructs the fallback backend, loading a prior snapshot
// when one exists. A corrupt or unreadable snapshot is discarded rather than
// propagated: the fallback must never fail construction.
func newMemoryBackend(snapshotPath string, log *logger.Logger) backend {
	b := &memoryBackend{
		path:       snapshotPath,
		logger:     log,
		items:      make(map[string]models.MenuItem),
		reference:  make(map[string]models.ReferenceData),
		categories: make(map[string]models.CategoryCacheEntry),
	}
	if err := b.load(); err != nil {
		log.Warn().Err(err).Str("func", "newMemoryBackend").Msg("discarding unreadable fallback snapshot")
	}
	return b
}

func (b *memoryBackend) load() error {
	if b.path == "" {
		return nil
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read fallback snapshot: %w", err)
	}

	var st memoryPersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode fallback snapshot: %w", err)
	}

	if st.Items != nil {
		b.items = st.Items
	}
	if st.Reference != nil {
		b.reference = st.Reference
	}
	if st.Categories != nil {
		b.categories = st.Categories
	}

	return nil
}

// persist writes the full state snapshot. Callers hold at least a read lock.
func (b *memoryBackend) persist() error {
	if b.path == "" {
		return nil
	}

	dir := filepath.Dir(b.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create fallback snapshot dir: %w", err)
		}
	}

	state := memoryPersistedState{Items: b.items, Reference: b.reference, Categories: b.categories}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode fallback snapshot: %w", err)
	}

	if err = os.WriteFile(b.path, payload, 0o600); err != nil {
		return fmt.Errorf("write fallback snapshot: %w", err)
	}

	return nil
}

func (b *memoryBackend) SaveItem(_ context.Context, item models.MenuItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	item.Images = cloneImages(item.Images)
	b.items[item.LocalID] = item
	return b.persist()
}

func (b *memoryBackend) GetItem(_ context.Context, localID string) (models.MenuItem, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	item, ok := b.items[localID]
	if !ok {
		return models.MenuItem{}, ErrItemNotFound
	}
	item.Images = cloneImages(item.Images)
	return item, nil
}

func (b *memoryBackend) ListItems(_ context.Context, filter models.ListFilter) ([]models.MenuItem, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var items []models.MenuItem
	for _, item := range b.items {
		if !matchesFilter(item, filter) {
			continue
		}
		item.Images = cloneImages(item.Images)
		items = append(items, item)
	}

	// most recently updated first; localId (UUIDv7, time-ordered) breaks ties
	// deterministically with newer items first
	sort.Slice(items, func(i, j int) bool {
		if items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].LocalID > items[j].LocalID
		}
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	return items, nil
}

func (b *memoryBackend) RemoveItem(_ context.Context, localID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.items[localID]; !ok {
		return ErrItemNotFound
	}
	delete(b.items, localID)
	return b.persist()
}

func (b *memoryBackend) CountPending(_ context.Context) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, item := range b.items {
		if item.PendingSync {
			count++
		}
	}
	return count, nil
}

func (b *memoryBackend) InsertReferenceIfAbsent(_ context.Context, entry models.ReferenceData) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.reference[entry.ID()]; ok {
		return false, nil
	}
	b.reference[entry.ID()] = entry
	return true, b.persist()
}

func (b *memoryBackend) UpsertReference(_ context.Context, entries ...models.ReferenceData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, entry := range entries {
		b.reference[entry.ID()] = entry
	}
	return b.persist()
}

func (b *memoryBackend) ListReference(_ context.Context, refType string) ([]models.ReferenceData, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var entries []models.ReferenceData
	for _, entry := range b.reference {
		if entry.Type == refType {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	return entries, nil
}

func (b *memoryBackend) ReplaceCategories(_ context.Context, entries []models.CategoryCacheEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.categories = make(map[string]models.CategoryCacheEntry, len(entries))
	for _, entry := range entries {
		b.categories[entry.ID] = entry
	}
	return b.persist()
}

func (b *memoryBackend) ListCategories(_ context.Context) ([]models.CategoryCacheEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var entries []models.CategoryCacheEntry
	for _, entry := range b.categories {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

func (b *memoryBackend) Close() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.persist()
}

func matchesFilter(item models.MenuItem, filter models.ListFilter) bool {
	if item.Deleted && !filter.IncludeDeleted {
		return false
	}
	if filter.PendingSyncOnly && !item.PendingSync {
		return false
	}
	if filter.ByOwner != "" && item.OwnerID != filter.ByOwner {
		return false
	}
	if filter.ByCategory != "" && item.CategoryID != filter.ByCategory {
		return false
	}
	if filter.ByStatus != "" && item.Status != filter.ByStatus {
		return false
	}
	return true
}

func cloneImages(images []models.MenuItemImage) []models.MenuItemImage {
	if images == nil {
		return nil
	}
	out := make([]models.MenuItemImage, len(images))
	copy(out, images)
	return out
}
