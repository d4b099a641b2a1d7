// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

package store

import "errors"

// Sentinel errors returned by store operations. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrItemNotFound is returned when an operation references a localId that
	// does not exist in the store (or was hard-deleted).
	ErrItemNotFound = errors.New("menu item was not found")

	// ErrItemDeleted is returned when a caller tries to patch an item that is
	// soft-deleted and awaiting a remote delete. The row only exists so the
	// orchestrator can finish the delete; it is no longer editable.
	ErrItemDeleted = errors.New("menu item is deleted")

	// ErrReferenceNotFound is returned when a reference-data lookup matches no
	// entry.
	ErrReferenceNotFound = errors.New("reference data was not found")
)
