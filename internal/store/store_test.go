package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takhirov/menukeeper/internal/config"
	"github.com/takhirov/menukeeper/internal/logger"
	"github.com/takhirov/menukeeper/models"
)

// newFallbackStore scripts a durable-engine failure so the store degrades to
// the fallback backend. Every contract in this file must hold identically on
// either backend; running them against the fallback also covers the
// degrade path itself.
func newFallbackStore(t *testing.T, snapshotPath string) *Store {
	t.Helper()

	prev := openDurable
	openDurable = func(_ context.Context, _ config.StorageConfig, _ *logger.Logger) (backend, error) {
		return nil, errors.New("scripted durable engine failure")
	}
	t.Cleanup(func() { openDurable = prev })

	s := New(config.StorageConfig{FallbackPath: snapshotPath}, logger.Nop())
	require.NoError(t, s.WaitReady(context.Background()))
	require.False(t, s.Durable(), "store should report the fallback backend")
	return s
}

func mustAdd(t *testing.T, s *Store, fields models.NewMenuItem) string {
	t.Helper()
	id, err := s.Add(context.Background(), fields)
	require.NoError(t, err)
	return id
}

// assertSingleValidState checks invariant 1: exactly one of the four
// lifecycle states holds.
func assertSingleValidState(t *testing.T, item models.MenuItem) {
	t.Helper()

	states := map[string]bool{
		"new-unsynced":     item.ServerID == nil && item.PendingSync && !item.Deleted && item.SyncAction() == models.SyncActionCreate,
		"clean":            item.ServerID != nil && !item.PendingSync,
		"locally-modified": item.ServerID != nil && item.PendingSync && !item.Deleted && item.SyncAction() == models.SyncActionUpdate,
		"locally-deleted":  item.ServerID != nil && item.PendingSync && item.Deleted && item.SyncAction() == models.SyncActionDelete,
	}

	matched := 0
	for _, holds := range states {
		if holds {
			matched++
		}
	}
	assert.Equalf(t, 1, matched, "item %s must be in exactly one state, states: %+v", item.LocalID, states)
}

func TestStore_Add_StartsNewUnsynced(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	id := mustAdd(t, s, models.NewMenuItem{Name: "Soup", CategoryID: "C1", Price: "120"})
	require.NotEmpty(t, id)

	item, err := s.Get(ctx, id)
	require.NoError(t, err)

	assert.Nil(t, item.ServerID)
	assert.True(t, item.PendingSync)
	assert.False(t, item.Deleted)
	assert.Equal(t, models.SyncActionCreate, item.SyncAction())
	assert.False(t, item.CreatedAt.IsZero())
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)
	assertSingleValidState(t, item)

	pending, err := s.List(ctx, models.ListFilter{PendingSyncOnly: true})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].LocalID)
}

func TestStore_Get_UnknownID(t *testing.T) {
	s := newFallbackStore(t, "")

	_, err := s.Get(context.Background(), "no-such-id")
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestStore_Update_MergesPatchAndMarksPending(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	id := mustAdd(t, s, models.NewMenuItem{Name: "Dal", CategoryID: "C1", Price: "90", Dietary: "veg"})
	require.NoError(t, s.MarkSynced(ctx, id, "S1"))

	before, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.False(t, before.PendingSync)

	newPrice := "110"
	require.NoError(t, s.Update(ctx, id, models.MenuItemPatch{Price: &newPrice}))

	after, err := s.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "110", after.Price)
	assert.Equal(t, "Dal", after.Name, "unsupplied fields retain prior values")
	assert.Equal(t, "veg", after.Dietary)
	assert.True(t, after.PendingSync)
	assert.Equal(t, models.SyncActionUpdate, after.SyncAction())
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "updatedAt must strictly increase")
	assertSingleValidState(t, after)
}

func TestStore_Update_UnknownID(t *testing.T) {
	s := newFallbackStore(t, "")

	name := "x"
	err := s.Update(context.Background(), "missing", models.MenuItemPatch{Name: &name})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestStore_Update_DeletedItemRejected(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	id := mustAdd(t, s, models.NewMenuItem{Name: "Korma"})
	require.NoError(t, s.MarkSynced(ctx, id, "S1"))
	require.NoError(t, s.Delete(ctx, id))

	name := "renamed"
	err := s.Update(ctx, id, models.MenuItemPatch{Name: &name})
	require.ErrorIs(t, err, ErrItemDeleted)
}

func TestStore_Delete_NeverSyncedIsHardPurge(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	id := mustAdd(t, s, models.NewMenuItem{
		Name:   "Tikka",
		Images: []models.NewMenuItemImage{{Ref: "img/tikka-1.jpg"}, {Ref: "img/tikka-2.jpg"}},
	})

	require.NoError(t, s.Delete(ctx, id))

	_, err := s.Get(ctx, id)
	require.ErrorIs(t, err, ErrItemNotFound)

	all, err := s.List(ctx, models.ListFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Empty(t, all, "hard-deleted item must never be observed, even with IncludeDeleted")

	count, err := s.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_Delete_SyncedIsSoftDelete(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	id := mustAdd(t, s, models.NewMenuItem{Name: "Biryani"})
	require.NoError(t, s.MarkSynced(ctx, id, "S7"))
	require.NoError(t, s.Delete(ctx, id))

	item, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, item.Deleted)
	assert.True(t, item.PendingSync)
	assert.Equal(t, models.SyncActionDelete, item.SyncAction())
	assertSingleValidState(t, item)

	// hidden from the default listing, visible with IncludeDeleted
	live, err := s.List(ctx, models.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, live)

	withDeleted, err := s.List(ctx, models.ListFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, withDeleted, 1)
	assert.Equal(t, id, withDeleted[0].LocalID)

	// deleting again is a no-op
	require.NoError(t, s.Delete(ctx, id))
}

func TestStore_MarkSynced_TransitionsToClean(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	id := mustAdd(t, s, models.NewMenuItem{Name: "Soup", CategoryID: "C1", Price: "120"})
	require.NoError(t, s.MarkSynced(ctx, id, "S100"))

	item, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, item.ServerID)
	assert.Equal(t, "S100", *item.ServerID)
	assert.False(t, item.PendingSync)
	assert.Equal(t, models.SyncActionNone, item.SyncAction())
	assertSingleValidState(t, item)

	// serverId is bound once; a second confirmation must not rebind it
	require.NoError(t, s.MarkSynced(ctx, id, "S999"))
	item, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "S100", *item.ServerID)
}

func TestStore_List_FiltersAndOrdering(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	first := mustAdd(t, s, models.NewMenuItem{Name: "A", OwnerID: "o1", CategoryID: "c1", Status: "active"})
	second := mustAdd(t, s, models.NewMenuItem{Name: "B", OwnerID: "o1", CategoryID: "c2", Status: "inactive"})
	third := mustAdd(t, s, models.NewMenuItem{Name: "C", OwnerID: "o2", CategoryID: "c1", Status: "active"})

	byOwner, err := s.List(ctx, models.ListFilter{ByOwner: "o1"})
	require.NoError(t, err)
	assert.Len(t, byOwner, 2)

	byCategory, err := s.List(ctx, models.ListFilter{ByCategory: "c1"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byStatus, err := s.List(ctx, models.ListFilter{ByStatus: "inactive"})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, second, byStatus[0].LocalID)

	// most recently updated first: touch the oldest item
	name := "A2"
	require.NoError(t, s.Update(ctx, first, models.MenuItemPatch{Name: &name}))

	all, err := s.List(ctx, models.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first, all[0].LocalID)
	assert.Equal(t, third, all[1].LocalID)
	assert.Equal(t, second, all[2].LocalID)
}

func TestStore_PendingBookkeeping(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	a := mustAdd(t, s, models.NewMenuItem{Name: "A"})
	b := mustAdd(t, s, models.NewMenuItem{Name: "B"})

	count, err := s.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.MarkSynced(ctx, a, "S1"))
	count, err = s.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// a soft delete re-enters the pending set
	require.NoError(t, s.Delete(ctx, a))
	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	actions := map[string]models.SyncAction{}
	for _, item := range pending {
		actions[item.LocalID] = item.SyncAction()
	}
	assert.Equal(t, models.SyncActionDelete, actions[a])
	assert.Equal(t, models.SyncActionCreate, actions[b])
}

func TestStore_InvariantsHoldAcrossOperationSequence(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	id := mustAdd(t, s, models.NewMenuItem{Name: "Paneer", Price: "150"})

	check := func() {
		item, err := s.Get(ctx, id)
		require.NoError(t, err)
		assertSingleValidState(t, item)
	}

	check()
	require.NoError(t, s.MarkSynced(ctx, id, "S42"))
	check()

	price := "180"
	require.NoError(t, s.Update(ctx, id, models.MenuItemPatch{Price: &price}))
	check()

	require.NoError(t, s.MarkSynced(ctx, id, ""))
	check()

	require.NoError(t, s.Delete(ctx, id))
	check()

	require.NoError(t, s.Purge(ctx, id))
	_, err := s.Get(ctx, id)
	require.ErrorIs(t, err, ErrItemNotFound)

	// purge is idempotent
	require.NoError(t, s.Purge(ctx, id))
}

func TestStore_ImagesReplacedByPatch(t *testing.T) {
	s := newFallbackStore(t, "")
	ctx := context.Background()

	id := mustAdd(t, s, models.NewMenuItem{
		Name:   "Naan",
		Images: []models.NewMenuItemImage{{Ref: "img/naan-old.jpg"}},
	})

	require.NoError(t, s.Update(ctx, id, models.MenuItemPatch{
		Images: []models.NewMenuItemImage{{Ref: "img/naan-1.jpg"}, {Ref: "img/naan-2.jpg"}},
	}))

	item, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, item.Images, 2)
	assert.Equal(t, "img/naan-1.jpg", item.Images[0].Ref)
	assert.Equal(t, "img/naan-2.jpg", item.Images[1].Ref)
	for _, img := range item.Images {
		assert.Equal(t, id, img.ItemID)
		assert.NotEmpty(t, img.ImageID)
	}
}

func TestStore_FallbackSnapshotSurvivesRestart(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "fallback.json")
	ctx := context.Background()

	s1 := newFallbackStore(t, snapshot)
	id := mustAdd(t, s1, models.NewMenuItem{Name: "Kheer", Price: "60"})
	require.NoError(t, s1.Close())

	s2 := newFallbackStore(t, snapshot)
	item, err := s2.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Kheer", item.Name)
	assert.True(t, item.PendingSync)
}

func TestStore_WaitReady_ContextCancelled(t *testing.T) {
	s := newFallbackStore(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// already-ready store still honors a dead context consistently with a
	// pre-ready one only when the ready channel wins the select; both
	// outcomes are acceptable, so only the pre-ready case is asserted here.
	blocked := &Store{ready: make(chan struct{})}
	require.ErrorIs(t, blocked.WaitReady(ctx), context.Canceled)

	require.NoError(t, s.WaitReady(context.Background()))
}
