package models

// ListFilter narrows a store listing. Zero values impose no constraint, so
// the empty filter returns every live item. Results are always ordered by
// UpdatedAt descending.
type ListFilter struct {
	// ByOwner restricts to items belonging to one owner.
	ByOwner string
	// ByCategory restricts to one category reference.
	ByCategory string
	// ByStatus restricts to one lifecycle status (e.g. "active").
	ByStatus string
	// PendingSyncOnly selects only items whose local state has not yet been
	// confirmed by the remote origin.
	PendingSyncOnly bool
	// IncludeDeleted keeps soft-deleted rows in the result. Hard-deleted
	// items are gone and never reappear regardless of this flag.
	IncludeDeleted bool
}
