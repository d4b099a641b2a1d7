package menukeeper

import (
	"context"
	"fmt"
	"time"

	"github.com/takhirov/menukeeper/internal/adapter"
	"github.com/takhirov/menukeeper/internal/config"
	"github.com/takhirov/menukeeper/internal/logger"
	"github.com/takhirov/menukeeper/internal/monitor"
	"github.com/takhirov/menukeeper/internal/service"
	"github.com/takhirov/menukeeper/internal/store"
	"github.com/takhirov/menukeeper/models"
)

// Config carries the shell-supplied settings. Zero values defer to
// environment variables (MENUKEEPER_*) and library defaults; the remote base
// URL must come from one of the sources.
type Config struct {
	// RemoteBaseURL is the root URL of the remote origin API.
	RemoteBaseURL string
	// RequestTimeout bounds each individual remote call.
	RequestTimeout time.Duration
	// DBPath is the SQLite file path inside the app's data directory.
	DBPath string
	// FallbackPath is the JSON snapshot used when SQLite cannot be opened.
	FallbackPath string
	// PollInterval is the background catch-up sync interval. Negative
	// disables polling; zero defers to env/defaults.
	PollInterval time.Duration
	// StatusResetDelay is how long a terminal sync status stays visible.
	StatusResetDelay time.Duration
	// LogFilePath, when set, redirects log output to a file.
	LogFilePath string
}

// ConnectivityProvider is the platform reachability signal the shell injects.
// Subscribe must fire the callback on every online/offline transition and
// return an idempotent unsubscribe.
type ConnectivityProvider interface {
	Online() bool
	Subscribe(fn func(online bool)) (unsubscribe func())
}

// App is the composition root: it owns the store, the remote adapter, the
// sync orchestrator and the monitor, and is the only surface the application
// shell talks to.
type App struct {
	cfg     *config.StructuredConfig
	log     *logger.Logger
	store   *store.Store
	remote  adapter.RemoteMenuAPI
	sync    *service.Synchronizer
	monitor *monitor.Monitor
	polling bool
}

// NewApp assembles the library. The local store initializes in the
// background; the returned App is usable immediately and every operation
// waits for readiness internally.
func NewApp(shellCfg Config, provider ConnectivityProvider) (*App, error) {
	cfg, err := config.GetStructuredConfig(&config.StructuredConfig{
		Remote: config.RemoteConfig{
			BaseURL:        shellCfg.RemoteBaseURL,
			RequestTimeout: shellCfg.RequestTimeout,
		},
		Storage: config.StorageConfig{
			DBPath:       shellCfg.DBPath,
			FallbackPath: shellCfg.FallbackPath,
		},
		Sync: config.SyncConfig{
			PollInterval:     max(shellCfg.PollInterval, 0),
			StatusResetDelay: shellCfg.StatusResetDelay,
		},
		Log: config.LogConfig{
			FilePath: shellCfg.LogFilePath,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build config: %w", err)
	}

	log := logger.NewLogger("menukeeper")
	if cfg.Log.FilePath != "" {
		log = logger.NewFileLogger("menukeeper", cfg.Log.FilePath)
	}

	localStore := store.New(cfg.Storage, log)

	remote := adapter.NewHTTPMenuAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Remote.BaseURL,
		Timeout: cfg.Remote.RequestTimeout,
	}, log)

	synchronizer := service.NewSynchronizer(localStore, localStore, remote, provider, log)

	mon := monitor.NewMonitor(synchronizer, localStore, provider, cfg.Sync.StatusResetDelay, log)
	synchronizer.SetStatusSink(mon)

	app := &App{
		cfg:     cfg,
		log:     log,
		store:   localStore,
		remote:  remote,
		sync:    synchronizer,
		monitor: mon,
	}

	if shellCfg.PollInterval >= 0 && cfg.Sync.PollInterval > 0 {
		mon.StartPolling(context.Background(), cfg.Sync.PollInterval)
		app.polling = true
	}

	return app, nil
}

// Close stops background work and releases the local store.
func (a *App) Close() error {
	a.monitor.Close()
	return a.store.Close()
}

// SetToken stores the session bearer token used for remote calls.
func (a *App) SetToken(token string) { a.remote.SetToken(token) }

// SessionValid reports whether a usable session token is present.
func (a *App) SessionValid() bool { return a.remote.SessionValid() }

// AddItem creates a menu item locally and returns its localId. The item is
// queued for sync.
func (a *App) AddItem(ctx context.Context, fields models.NewMenuItem) (string, error) {
	localID, err := a.store.Add(ctx, fields)
	if err != nil {
		return "", err
	}
	a.monitor.RefreshPending(ctx)
	return localID, nil
}

// GetItem fetches one item by localId.
func (a *App) GetItem(ctx context.Context, localID string) (models.MenuItem, error) {
	return a.store.Get(ctx, localID)
}

// ListItems returns items matching the filter, newest first.
func (a *App) ListItems(ctx context.Context, filter models.ListFilter) ([]models.MenuItem, error) {
	return a.store.List(ctx, filter)
}

// UpdateItem merges the patch into an existing item and queues it for sync.
func (a *App) UpdateItem(ctx context.Context, localID string, patch models.MenuItemPatch) error {
	if err := a.store.Update(ctx, localID, patch); err != nil {
		return err
	}
	a.monitor.RefreshPending(ctx)
	return nil
}

// DeleteItem removes an item: immediately when it never reached the origin,
// otherwise as a tombstone resolved by the next sync pass.
func (a *App) DeleteItem(ctx context.Context, localID string) error {
	if err := a.store.Delete(ctx, localID); err != nil {
		return err
	}
	a.monitor.RefreshPending(ctx)
	return nil
}

// ListReference returns the seeded taxonomy entries of one type.
func (a *App) ListReference(ctx context.Context, refType string) ([]models.ReferenceData, error) {
	return a.store.ListReference(ctx, refType)
}

// ListCategories returns the cached remote category listing.
func (a *App) ListCategories(ctx context.Context) ([]models.CategoryCacheEntry, error) {
	return a.store.ListCategories(ctx)
}

// Synchronize runs one sync pass immediately. Offline and overlapping calls
// return a marker result, not an error.
func (a *App) Synchronize(ctx context.Context) (models.SyncResult, error) {
	return a.sync.Synchronize(ctx)
}

// SyncStatus returns the current sync-status snapshot.
func (a *App) SyncStatus() models.SyncStatus { return a.monitor.Status() }

// Online reports the cached reachability flag.
func (a *App) Online() bool { return a.monitor.Online() }

// PendingCount reports how many records await sync.
func (a *App) PendingCount() int { return a.monitor.PendingCount() }

// Durable reports whether the durable engine is backing the store; false
// means the fallback backend is in use.
func (a *App) Durable() bool { return a.store.Durable() }

// SubscribeStatus registers a listener for sync-status snapshots.
func (a *App) SubscribeStatus(fn func(models.SyncStatus)) (unsubscribe func()) {
	return a.monitor.Subscribe(fn)
}

// SubscribeDataChanged registers a listener fired when domain data may have
// changed.
func (a *App) SubscribeDataChanged(fn func()) (unsubscribe func()) {
	return a.monitor.SubscribeDataChanged(fn)
}
