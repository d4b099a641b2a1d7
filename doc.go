// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

// Package menukeeper is a local-first data layer for a mobile menu catalog
// application. All writes land in an on-device store first and are converged
// with the remote origin by a background sync orchestrator, so the app keeps
// working with no connectivity.
//
// The store prefers an embedded SQLite engine and degrades transparently to
// an in-memory backend (optionally snapshotted to a JSON file) when SQLite
// cannot be opened. Degradation costs durability across restarts, never
// functionality.
//
// The shell constructs one [App], injects its platform reachability signal
// through [ConnectivityProvider], and drives everything through the App
// surface. Sync runs automatically on reconnect and on a low-frequency poll;
// [App.Synchronize] triggers a pass on demand. Overlapping triggers collapse
// into a single pass.
package menukeeper
