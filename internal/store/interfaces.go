// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

package store

import (
	"context"

	"github.com/takhirov/menukeeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordStore is the single point of truth for on-device menu state. All
// operations implicitly wait for the one-time initialization to finish, so
// callers never observe a half-constructed store. Operations never fail due
// to absence of network.
type RecordStore interface {
	// WaitReady blocks until the asynchronous setup sequence (backend
	// selection, schema migration, reference bootstrap) has finished, or ctx
	// is done. Idempotent; safe to call from any goroutine.
	WaitReady(ctx context.Context) error

	// Add persists a brand-new item in the new-unsynced state and returns the
	// assigned localId.
	Add(ctx context.Context, fields models.NewMenuItem) (string, error)

	// Get returns the item with its images attached, or ErrItemNotFound.
	// Soft-deleted items are still returned with Deleted set.
	Get(ctx context.Context, localID string) (models.MenuItem, error)

	// List returns a snapshot of items matching the filter, ordered by most
	// recently updated first.
	List(ctx context.Context, filter models.ListFilter) ([]models.MenuItem, error)

	// Update merges the supplied patch into the existing row and marks the
	// item pending. Returns ErrItemNotFound for an unknown localId and
	// ErrItemDeleted for a soft-deleted one.
	Update(ctx context.Context, localID string, patch models.MenuItemPatch) error

	// Delete purges a never-synced item immediately (together with its
	// images) and soft-deletes a synced one so the orchestrator can replay
	// the delete remotely. Deleting an already-deleted item is a no-op.
	Delete(ctx context.Context, localID string) error

	// MarkSynced transitions an item to the clean state after the remote
	// origin confirmed a create or update: binds serverId if not already
	// bound and clears pendingSync. Used exclusively by the orchestrator.
	MarkSynced(ctx context.Context, localID, serverID string) error

	// Purge permanently removes an item and its images. Used by the
	// orchestrator after a confirmed remote delete.
	Purge(ctx context.Context, localID string) error

	// ListPending returns every item whose local state has diverged from the
	// last remote-acknowledged state, including soft-deleted ones.
	ListPending(ctx context.Context) ([]models.MenuItem, error)

	// PendingCount reports how many items ListPending would return.
	PendingCount(ctx context.Context) (int, error)

	// Durable reports whether the durable engine won backend selection.
	// Diagnostics only; both backends honor identical contracts.
	Durable() bool
}

// ReferenceStore serves the read-mostly taxonomy cache and the read-through
// category cache.
type ReferenceStore interface {
	ListReference(ctx context.Context, refType string) ([]models.ReferenceData, error)
	GetReference(ctx context.Context, refType, key string) (models.ReferenceData, error)
	ReplaceCategories(ctx context.Context, entries []models.CategoryCacheEntry) error
	ListCategories(ctx context.Context) ([]models.CategoryCacheEntry, error)
}

// backend is the persistence strategy beneath the Store facade. Two
// implementations exist: the SQLite engine and the in-memory/JSON-file
// fallback. Exactly one is selected at initialization and never swapped.
// Backends persist rows verbatim; all sync-state transitions live in the
// facade.
type backend interface {
	SaveItem(ctx context.Context, item models.MenuItem) error
	GetItem(ctx context.Context, localID string) (models.MenuItem, error)
	ListItems(ctx context.Context, filter models.ListFilter) ([]models.MenuItem, error)
	RemoveItem(ctx context.Context, localID string) error
	CountPending(ctx context.Context) (int, error)

	InsertReferenceIfAbsent(ctx context.Context, entry models.ReferenceData) (bool, error)
	UpsertReference(ctx context.Context, entries ...models.ReferenceData) error
	ListReference(ctx context.Context, refType string) ([]models.ReferenceData, error)
	ReplaceCategories(ctx context.Context, entries []models.CategoryCacheEntry) error
	ListCategories(ctx context.Context) ([]models.CategoryCacheEntry, error)

	Close() error
}
