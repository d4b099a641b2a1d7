// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

package models

// SyncState is one phase of the monitor's sync-status state machine.
type SyncState string

const (
	SyncStateIdle       SyncState = "idle"
	SyncStateStarted    SyncState = "started"
	SyncStateProcessing SyncState = "processing"
	SyncStateCompleted  SyncState = "completed"
	SyncStateError      SyncState = "error"
)

// SyncStatus is the externally observable snapshot of sync progress.
// Current/Total/CurrentItem are populated only in the processing state.
type SyncStatus struct {
	State       SyncState `json:"state"`
	Message     string    `json:"message,omitempty"`
	Current     int       `json:"current,omitempty"`
	Total       int       `json:"total,omitempty"`
	CurrentItem string    `json:"current_item,omitempty"`
}

// SyncItemError records one per-item failure during a pass. The item stays
// pending and is retried on the next run.
type SyncItemError struct {
	LocalID string `json:"local_id"`
	Name    string `json:"name"`
	Err     string `json:"error"`
}

// SyncResult summarises one orchestrator pass. Skipped and AlreadyRunning
// mark passes that never touched a record; they are not errors.
type SyncResult struct {
	Skipped        bool            `json:"skipped,omitempty"`
	AlreadyRunning bool            `json:"already_running,omitempty"`
	Attempted      int             `json:"attempted"`
	Succeeded      int             `json:"succeeded"`
	Failed         int             `json:"failed"`
	Errors         []SyncItemError `json:"errors,omitempty"`
	Message        string          `json:"message,omitempty"`
}
