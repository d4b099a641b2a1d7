// Package monitor tracks connectivity and sync status for the application
// shell. It is the bridge between the platform's reachability signal, the
// sync orchestrator and the UI: connectivity changes trigger catch-up passes,
// and orchestrator lifecycle events fan out to subscribed listeners.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/takhirov/menukeeper/internal/logger"
	"github.com/takhirov/menukeeper/internal/service"
	"github.com/takhirov/menukeeper/models"
)

// ConnectivityProvider is the platform reachability signal, injected by the
// application shell. Subscribe registers a callback fired on every
// online/offline transition and returns an idempotent unsubscribe.
type ConnectivityProvider interface {
	Online() bool
	Subscribe(fn func(online bool)) (unsubscribe func())
}

// PendingCounter is the slice of the local store the monitor needs for its
// pending-work badge.
type PendingCounter interface {
	PendingCount(ctx context.Context) (int, error)
}

const (
	defaultResetDelay   = 4 * time.Second
	defaultPollInterval = 5 * time.Minute
	refreshTimeout      = 3 * time.Second
)

// Monitor implements service.StatusSink. All state behind mu; subscriber
// callbacks are always invoked outside the lock.
type Monitor struct {
	syncService service.SyncService
	pending     PendingCounter
	provider    ConnectivityProvider
	log         *logger.Logger
	resetDelay  time.Duration

	// deliverMu serializes listener fan-out with unsubscribe: once an
	// unsubscribe returns, its listener is never invoked again. Always
	// acquired before mu.
	deliverMu sync.Mutex

	mu           sync.Mutex
	status       models.SyncStatus
	isOnline     bool
	pendingCount int
	nextSubID    int
	statusSubs   map[int]func(models.SyncStatus)
	dataSubs     map[int]func()
	resetTimer   *time.Timer

	unsubscribeProvider func()

	// poll job state, teacher-style start/stop
	jobMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ service.StatusSink = (*Monitor)(nil)

// NewMonitor wires the monitor to the reachability provider and primes the
// cached online flag and pending count. resetDelay controls how long a
// completed/error status stays visible before reverting to idle; zero or
// negative selects the default.
func NewMonitor(
	syncService service.SyncService,
	pending PendingCounter,
	provider ConnectivityProvider,
	resetDelay time.Duration,
	log *logger.Logger,
) *Monitor {
	if resetDelay <= 0 {
		resetDelay = defaultResetDelay
	}

	m := &Monitor{
		syncService: syncService,
		pending:     pending,
		provider:    provider,
		log:         log,
		resetDelay:  resetDelay,
		status:      models.SyncStatus{State: models.SyncStateIdle},
		isOnline:    provider.Online(),
		statusSubs:  make(map[int]func(models.SyncStatus)),
		dataSubs:    make(map[int]func()),
	}
	m.unsubscribeProvider = provider.Subscribe(m.onConnectivityChange)
	m.RefreshPending(context.Background())
	return m
}

// Online reports the cached reachability flag.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isOnline
}

// PendingCount reports the cached number of records awaiting sync.
func (m *Monitor) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingCount
}

// Status returns the current sync-status snapshot.
func (m *Monitor) Status() models.SyncStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Subscribe registers a listener for status snapshots. The returned
// unsubscribe is idempotent and blocks until any in-flight delivery has
// finished; after it returns the listener is never invoked again. Do not
// call unsubscribe from inside the listener.
func (m *Monitor) Subscribe(fn func(models.SyncStatus)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	m.statusSubs[id] = fn

	return func() {
		m.deliverMu.Lock()
		defer m.deliverMu.Unlock()
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.statusSubs, id)
	}
}

// SubscribeDataChanged registers a listener fired whenever domain data may
// have changed (a sync pass finished). Same unsubscribe contract as
// Subscribe.
func (m *Monitor) SubscribeDataChanged(fn func()) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	m.dataSubs[id] = fn

	return func() {
		m.deliverMu.Lock()
		defer m.deliverMu.Unlock()
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.dataSubs, id)
	}
}

// RefreshPending re-reads the pending count from the store.
func (m *Monitor) RefreshPending(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	count, err := m.pending.PendingCount(ctx)
	if err != nil {
		m.log.Debug().Err(err).Str("func", "Monitor.RefreshPending").Msg("pending count unavailable")
		return
	}

	m.mu.Lock()
	m.pendingCount = count
	m.mu.Unlock()
}

// ReportStarted implements service.StatusSink.
func (m *Monitor) ReportStarted() {
	m.setStatus(models.SyncStatus{State: models.SyncStateStarted})
}

// ReportProgress implements service.StatusSink.
func (m *Monitor) ReportProgress(current, total int, itemLabel string) {
	m.setStatus(models.SyncStatus{
		State:       models.SyncStateProcessing,
		Current:     current,
		Total:       total,
		CurrentItem: itemLabel,
	})
}

// ReportCompleted implements service.StatusSink.
func (m *Monitor) ReportCompleted(message string) {
	m.setStatus(models.SyncStatus{State: models.SyncStateCompleted, Message: message})
	m.scheduleIdleReset()
}

// ReportError implements service.StatusSink.
func (m *Monitor) ReportError(message string) {
	m.setStatus(models.SyncStatus{State: models.SyncStateError, Message: message})
	m.scheduleIdleReset()
}

// NotifyDataChanged implements service.StatusSink. It refreshes the pending
// count and fans out to data-changed listeners.
func (m *Monitor) NotifyDataChanged() {
	m.RefreshPending(context.Background())

	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()

	m.mu.Lock()
	listeners := make([]func(), 0, len(m.dataSubs))
	for _, fn := range m.dataSubs {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// StartPolling launches a background catch-up loop triggering a sync pass
// every interval. Zero or negative interval selects the default. A running
// loop is restarted.
func (m *Monitor) StartPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	m.StopPolling()

	m.jobMu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.jobMu.Unlock()

	go func() {
		defer m.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if _, err := m.syncService.Synchronize(jobCtx); err != nil {
					m.log.Debug().Err(err).Str("func", "Monitor.StartPolling").Msg("scheduled sync pass failed")
				}
			}
		}
	}()
}

// StopPolling cancels the catch-up loop and blocks until it has exited. Safe
// to call when no loop is running.
func (m *Monitor) StopPolling() {
	m.jobMu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.jobMu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// Close detaches from the reachability provider and stops background work.
func (m *Monitor) Close() {
	m.StopPolling()

	m.mu.Lock()
	if m.resetTimer != nil {
		m.resetTimer.Stop()
		m.resetTimer = nil
	}
	unsub := m.unsubscribeProvider
	m.unsubscribeProvider = nil
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (m *Monitor) onConnectivityChange(online bool) {
	m.mu.Lock()
	wasOnline := m.isOnline
	m.isOnline = online
	pending := m.pendingCount
	m.mu.Unlock()

	m.log.Info().
		Str("func", "Monitor.onConnectivityChange").
		Bool("online", online).
		Int("pending", pending).
		Msg("connectivity changed")

	if online && !wasOnline && pending > 0 {
		go func() {
			if _, err := m.syncService.Synchronize(context.Background()); err != nil {
				m.log.Warn().Err(err).
					Str("func", "Monitor.onConnectivityChange").
					Msg("reconnect sync pass failed")
			}
		}()
	}
}

func (m *Monitor) setStatus(status models.SyncStatus) {
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()

	m.mu.Lock()
	if m.resetTimer != nil {
		m.resetTimer.Stop()
		m.resetTimer = nil
	}
	m.status = status
	listeners := make([]func(models.SyncStatus), 0, len(m.statusSubs))
	for _, fn := range m.statusSubs {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(status)
	}
}

// scheduleIdleReset reverts a terminal status to idle after the display
// window, unless a newer status has replaced it in the meantime.
func (m *Monitor) scheduleIdleReset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resetTimer != nil {
		m.resetTimer.Stop()
	}
	m.resetTimer = time.AfterFunc(m.resetDelay, func() {
		m.deliverMu.Lock()
		defer m.deliverMu.Unlock()

		m.mu.Lock()
		if m.status.State != models.SyncStateCompleted && m.status.State != models.SyncStateError {
			m.mu.Unlock()
			return
		}
		m.status = models.SyncStatus{State: models.SyncStateIdle}
		status := m.status
		listeners := make([]func(models.SyncStatus), 0, len(m.statusSubs))
		for _, fn := range m.statusSubs {
			listeners = append(listeners, fn)
		}
		m.mu.Unlock()

		for _, fn := range listeners {
			fn(status)
		}
	})
}
