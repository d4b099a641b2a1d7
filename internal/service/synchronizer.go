package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/takhirov/menukeeper/internal/adapter"
	"github.com/takhirov/menukeeper/internal/logger"
	"github.com/takhirov/menukeeper/internal/store"
	"github.com/takhirov/menukeeper/models"
)

// Synchronizer converges local pending state with the remote origin, one
// item at a time. The batch is deliberately not atomic: partial progress
// survives a failure mid-pass, and a failed item simply stays pending until
// the next trigger (at-least-once, last-write-wins from this device's
// perspective — concurrent edits from another device are overwritten).
type Synchronizer struct {
	store        store.RecordStore
	refs         store.ReferenceStore
	remote       adapter.RemoteMenuAPI
	sink         StatusSink
	connectivity Connectivity
	log          *logger.Logger

	// mu is the single-flight guard: only one pass may be in flight.
	mu sync.Mutex
}

var _ SyncService = (*Synchronizer)(nil)

func NewSynchronizer(
	recordStore store.RecordStore,
	refs store.ReferenceStore,
	remote adapter.RemoteMenuAPI,
	connectivity Connectivity,
	log *logger.Logger,
) *Synchronizer {
	return &Synchronizer{
		store:        recordStore,
		refs:         refs,
		remote:       remote,
		sink:         NopStatusSink{},
		connectivity: connectivity,
		log:          log,
	}
}

// SetStatusSink attaches the monitor (or any other listener) receiving
// lifecycle events. Must be called before the first pass.
func (s *Synchronizer) SetStatusSink(sink StatusSink) {
	if sink != nil {
		s.sink = sink
	}
}

// Synchronize implements SyncService.
func (s *Synchronizer) Synchronize(ctx context.Context) (models.SyncResult, error) {
	if !s.connectivity.Online() {
		s.log.Debug().Str("func", "Synchronizer.Synchronize").Msg("offline, skipping sync pass")
		return models.SyncResult{Skipped: true, Message: "skipped: offline"}, nil
	}

	if !s.mu.TryLock() {
		return models.SyncResult{AlreadyRunning: true, Message: "sync already in progress"}, nil
	}
	defer s.mu.Unlock()

	if !s.remote.SessionValid() {
		s.sink.ReportError("no active session")
		return models.SyncResult{Message: "no active session"}, ErrNoSession
	}

	if err := s.store.WaitReady(ctx); err != nil {
		s.sink.ReportError("local store unavailable")
		return models.SyncResult{}, fmt.Errorf("wait for store: %w", err)
	}

	s.sink.ReportStarted()

	pending, err := s.store.ListPending(ctx)
	if err != nil {
		s.sink.ReportError("failed to read pending items")
		return models.SyncResult{}, fmt.Errorf("list pending items: %w", err)
	}

	result := models.SyncResult{Attempted: len(pending)}
	for i, item := range pending {
		s.sink.ReportProgress(i+1, len(pending), item.Name)

		if err := s.syncOne(ctx, item); err != nil {
			s.log.Warn().Err(err).
				Str("func", "Synchronizer.Synchronize").
				Str("local_id", item.LocalID).
				Str("action", string(item.SyncAction())).
				Msg("item failed to sync, leaving pending for retry")
			result.Failed++
			result.Errors = append(result.Errors, models.SyncItemError{
				LocalID: item.LocalID,
				Name:    item.Name,
				Err:     err.Error(),
			})
			continue
		}
		result.Succeeded++
	}

	result.Message = summarize(result)
	s.sink.ReportCompleted(result.Message)
	s.sink.NotifyDataChanged()

	if result.Succeeded > 0 {
		s.refreshCategories(ctx, firstOwner(pending))
	}

	return result, nil
}

// syncOne reconciles a single item. Every failure, panics included, stays
// inside this boundary so one bad item cannot block the rest of the pass.
func (s *Synchronizer) syncOne(ctx context.Context, item models.MenuItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync item %s panicked: %v", item.LocalID, r)
		}
	}()

	switch {
	case item.Deleted && item.ServerID == nil:
		// never reached the origin; nothing to delete remotely
		return s.store.Purge(ctx, item.LocalID)

	case item.Deleted:
		if err := s.remote.DeleteItem(ctx, item.OwnerID, *item.ServerID); err != nil {
			return fmt.Errorf("remote delete: %w", err)
		}
		return s.store.Purge(ctx, item.LocalID)

	case item.ServerID == nil:
		serverID, err := s.remote.CreateItem(ctx, buildUpload(item))
		if err != nil {
			return fmt.Errorf("remote create: %w", err)
		}
		return s.store.MarkSynced(ctx, item.LocalID, serverID)

	default:
		if err := s.remote.UpdateItem(ctx, buildUpload(item)); err != nil {
			return fmt.Errorf("remote update: %w", err)
		}
		return s.store.MarkSynced(ctx, item.LocalID, "")
	}
}

// refreshCategories opportunistically refreshes the read-through category
// cache after a productive pass. Failure only costs cache freshness.
func (s *Synchronizer) refreshCategories(ctx context.Context, ownerID string) {
	entries, err := s.remote.FetchCategories(ctx, ownerID)
	if err != nil {
		s.log.Debug().Err(err).
			Str("func", "Synchronizer.refreshCategories").
			Msg("category cache refresh failed")
		return
	}
	if err = s.refs.ReplaceCategories(ctx, entries); err != nil {
		s.log.Warn().Err(err).
			Str("func", "Synchronizer.refreshCategories").
			Msg("failed to store refreshed categories")
	}
}

func summarize(result models.SyncResult) string {
	if result.Attempted == 0 {
		return "nothing to sync"
	}
	if result.Failed == 0 {
		return fmt.Sprintf("synced %d item(s)", result.Succeeded)
	}
	return fmt.Sprintf("synced %d item(s), %d failed and will be retried", result.Succeeded, result.Failed)
}

func firstOwner(items []models.MenuItem) string {
	for _, item := range items {
		if item.OwnerID != "" {
			return item.OwnerID
		}
	}
	return ""
}
