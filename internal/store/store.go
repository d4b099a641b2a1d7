// Package store implements the local persistence layer for menu catalog
// state: a Store facade owning all sync-state transitions, backed by either
// the durable SQLite engine or an in-memory/JSON-file fallback selected once
// at initialization.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/takhirov/menukeeper/internal/config"
	"github.com/takhirov/menukeeper/internal/logger"
	"github.com/takhirov/menukeeper/internal/utils"
	"github.com/takhirov/menukeeper/models"
)

// openDurable opens the SQLite engine and runs migrations. A package-level
// hook so the degrade path can be scripted in tests.
var openDurable = func(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (backend, error) {
	db, err := NewConnectSQLite(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return newSQLiteBackend(db, log), nil
}

// Store is the single point of truth for on-device menu state. Construction
// schedules an asynchronous setup sequence; every operation awaits it through
// WaitReady. Initialization never fails: if the durable engine cannot be
// opened the store degrades to the fallback backend and keeps the exact same
// contracts, trading only durability across process restarts.
type Store struct {
	cfg  config.StorageConfig
	log  *logger.Logger
	uuid *utils.UUIDGenerator

	ready   chan struct{}
	backend backend
	durable bool

	// locks serializes read-modify-write sequences per localId so operations
	// on different items proceed concurrently.
	locks sync.Map
}

var _ RecordStore = (*Store)(nil)
var _ ReferenceStore = (*Store)(nil)

// New constructs the store and kicks off the setup sequence (backend
// selection, schema migration, reference bootstrap) in the background.
func New(cfg config.StorageConfig, log *logger.Logger) *Store {
	s := &Store{
		cfg:   cfg,
		log:   log,
		uuid:  utils.NewUUIDGenerator(),
		ready: make(chan struct{}),
	}
	go s.init(context.Background())
	return s
}

func (s *Store) init(ctx context.Context) {
	defer close(s.ready)

	be, err := openDurable(ctx, s.cfg, s.log)
	if err != nil {
		s.log.Warn().Err(err).
			Str("func", "Store.init").
			Msg("durable engine unavailable, degrading to fallback backend")
		be = newMemoryBackend(s.cfg.FallbackPath, s.log)
		s.durable = false
	} else {
		s.durable = true
	}
	s.backend = be

	if err = s.seedDefaults(ctx); err != nil {
		// seeding failure leaves taxonomies empty but the store usable
		s.log.Warn().Err(err).Str("func", "Store.init").Msg("reference bootstrap failed")
	}
}

// WaitReady implements RecordStore.
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Durable implements RecordStore. Blocks until initialization finished.
func (s *Store) Durable() bool {
	<-s.ready
	return s.durable
}

// Close flushes and closes the selected backend.
func (s *Store) Close() error {
	<-s.ready
	return s.backend.Close()
}

// Add implements RecordStore. The new item always starts in the new-unsynced
// state: no serverId, pendingSync set, syncAction derives to create.
func (s *Store) Add(ctx context.Context, fields models.NewMenuItem) (string, error) {
	if err := s.WaitReady(ctx); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	item := models.MenuItem{
		LocalID:     s.uuid.Generate(),
		OwnerID:     fields.OwnerID,
		CategoryID:  fields.CategoryID,
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		OfferPrice:  fields.OfferPrice,
		SpiceLevel:  fields.SpiceLevel,
		Dietary:     fields.Dietary,
		Status:      fields.Status,
		PendingSync: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.Status == "" {
		item.Status = models.DefaultStatus
	}
	item.Images = s.buildImages(item.LocalID, fields.Images)

	if err := s.backend.SaveItem(ctx, item); err != nil {
		return "", err
	}

	s.log.Debug().
		Str("func", "Store.Add").
		Str("local_id", item.LocalID).
		Str("name", item.Name).
		Msg("menu item created locally")

	return item.LocalID, nil
}

// Get implements RecordStore.
func (s *Store) Get(ctx context.Context, localID string) (models.MenuItem, error) {
	if err := s.WaitReady(ctx); err != nil {
		return models.MenuItem{}, err
	}
	return s.backend.GetItem(ctx, localID)
}

// List implements RecordStore.
func (s *Store) List(ctx context.Context, filter models.ListFilter) ([]models.MenuItem, error) {
	if err := s.WaitReady(ctx); err != nil {
		return nil, err
	}
	return s.backend.ListItems(ctx, filter)
}

// Update implements RecordStore. Only the supplied patch fields are merged
// into the existing row; the write always marks the item pending again.
func (s *Store) Update(ctx context.Context, localID string, patch models.MenuItemPatch) error {
	if err := s.WaitReady(ctx); err != nil {
		return err
	}

	unlock := s.lockItem(localID)
	defer unlock()

	item, err := s.backend.GetItem(ctx, localID)
	if err != nil {
		return err
	}
	if item.Deleted {
		return ErrItemDeleted
	}

	s.applyPatch(&item, patch)
	item.PendingSync = true
	item.UpdatedAt = s.nextUpdateTime(item.UpdatedAt)

	return s.backend.SaveItem(ctx, item)
}

// Delete implements RecordStore. A never-synced item never existed remotely,
// so it is purged synchronously together with its images; a synced item is
// soft-deleted and left for the orchestrator.
func (s *Store) Delete(ctx context.Context, localID string) error {
	if err := s.WaitReady(ctx); err != nil {
		return err
	}

	unlock := s.lockItem(localID)
	defer unlock()

	item, err := s.backend.GetItem(ctx, localID)
	if err != nil {
		return err
	}
	if item.Deleted {
		return nil
	}

	if item.ServerID == nil {
		s.log.Debug().
			Str("func", "Store.Delete").
			Str("local_id", localID).
			Msg("hard-deleting never-synced item")
		return s.backend.RemoveItem(ctx, localID)
	}

	item.Deleted = true
	item.PendingSync = true
	item.UpdatedAt = s.nextUpdateTime(item.UpdatedAt)

	return s.backend.SaveItem(ctx, item)
}

// MarkSynced implements RecordStore.
func (s *Store) MarkSynced(ctx context.Context, localID, serverID string) error {
	if err := s.WaitReady(ctx); err != nil {
		return err
	}

	unlock := s.lockItem(localID)
	defer unlock()

	item, err := s.backend.GetItem(ctx, localID)
	if err != nil {
		return err
	}

	if item.ServerID == nil && serverID != "" {
		item.ServerID = &serverID
	}
	item.PendingSync = false
	item.UpdatedAt = s.nextUpdateTime(item.UpdatedAt)

	return s.backend.SaveItem(ctx, item)
}

// Purge implements RecordStore. Idempotent: purging an already-gone item is
// not an error.
func (s *Store) Purge(ctx context.Context, localID string) error {
	if err := s.WaitReady(ctx); err != nil {
		return err
	}

	unlock := s.lockItem(localID)
	defer unlock()

	err := s.backend.RemoveItem(ctx, localID)
	if err == ErrItemNotFound {
		return nil
	}
	return err
}

// ListPending implements RecordStore.
func (s *Store) ListPending(ctx context.Context) ([]models.MenuItem, error) {
	return s.List(ctx, models.ListFilter{PendingSyncOnly: true, IncludeDeleted: true})
}

// PendingCount implements RecordStore.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	if err := s.WaitReady(ctx); err != nil {
		return 0, err
	}
	return s.backend.CountPending(ctx)
}

// ListReference implements ReferenceStore.
func (s *Store) ListReference(ctx context.Context, refType string) ([]models.ReferenceData, error) {
	if err := s.WaitReady(ctx); err != nil {
		return nil, err
	}
	return s.backend.ListReference(ctx, refType)
}

// GetReference implements ReferenceStore.
func (s *Store) GetReference(ctx context.Context, refType, key string) (models.ReferenceData, error) {
	entries, err := s.ListReference(ctx, refType)
	if err != nil {
		return models.ReferenceData{}, err
	}
	for _, entry := range entries {
		if entry.Key == key {
			return entry, nil
		}
	}
	return models.ReferenceData{}, ErrReferenceNotFound
}

// ReplaceCategories implements ReferenceStore. Entries without a refresh
// timestamp are stamped with the current time.
func (s *Store) ReplaceCategories(ctx context.Context, entries []models.CategoryCacheEntry) error {
	if err := s.WaitReady(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range entries {
		if entries[i].LastUpdated.IsZero() {
			entries[i].LastUpdated = now
		}
	}

	return s.backend.ReplaceCategories(ctx, entries)
}

// ListCategories implements ReferenceStore.
func (s *Store) ListCategories(ctx context.Context) ([]models.CategoryCacheEntry, error) {
	if err := s.WaitReady(ctx); err != nil {
		return nil, err
	}
	return s.backend.ListCategories(ctx)
}

func (s *Store) lockItem(localID string) func() {
	v, _ := s.locks.LoadOrStore(localID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// nextUpdateTime keeps updatedAt strictly increasing even when the clock
// resolution would repeat the previous timestamp.
func (s *Store) nextUpdateTime(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

func (s *Store) applyPatch(item *models.MenuItem, patch models.MenuItemPatch) {
	if patch.CategoryID != nil {
		item.CategoryID = *patch.CategoryID
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.OfferPrice != nil {
		item.OfferPrice = *patch.OfferPrice
	}
	if patch.SpiceLevel != nil {
		item.SpiceLevel = *patch.SpiceLevel
	}
	if patch.Dietary != nil {
		item.Dietary = *patch.Dietary
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.Images != nil {
		item.Images = s.buildImages(item.LocalID, patch.Images)
	}
}

func (s *Store) buildImages(localID string, images []models.NewMenuItemImage) []models.MenuItemImage {
	if len(images) == 0 {
		return nil
	}
	out := make([]models.MenuItemImage, 0, len(images))
	for i, img := range images {
		position := img.Position
		if position == 0 {
			position = i
		}
		out = append(out, models.MenuItemImage{
			ImageID:  s.uuid.Generate(),
			ItemID:   localID,
			Ref:      img.Ref,
			Position: position,
		})
	}
	return out
}
