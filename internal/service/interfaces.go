// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

// Package service contains the sync orchestrator: the one component that
// converges local pending state with the remote origin.
package service

import (
	"context"

	"github.com/takhirov/menukeeper/models"
)

// SyncService is the orchestrator surface consumed by the monitor and the
// application facade.
type SyncService interface {
	// Synchronize walks every pending item once, reconciling each against
	// the remote origin with per-item failure isolation. Concurrent calls
	// collapse: the second caller gets SyncResult.AlreadyRunning without a
	// second pass starting.
	Synchronize(ctx context.Context) (models.SyncResult, error)
}

// StatusSink receives sync lifecycle events. The monitor implements it; a
// nop implementation is used when no monitor is attached.
type StatusSink interface {
	ReportStarted()
	ReportProgress(current, total int, itemLabel string)
	ReportCompleted(message string)
	ReportError(message string)

	// NotifyDataChanged signals that domain data may have changed so
	// dependent caches can refresh.
	NotifyDataChanged()
}

// Connectivity answers the on-demand "are we online" query.
type Connectivity interface {
	Online() bool
}

// NopStatusSink discards all events.
type NopStatusSink struct{}

func (NopStatusSink) ReportStarted()                    {}
func (NopStatusSink) ReportProgress(_, _ int, _ string) {}
func (NopStatusSink) ReportCompleted(string)            {}
func (NopStatusSink) ReportError(string)                {}
func (NopStatusSink) NotifyDataChanged()                {}
