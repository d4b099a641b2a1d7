package models

import "time"

// Reference data types seeded by the bootstrap.
const (
	ReferenceTypeCategory   = "category"
	ReferenceTypeDietary    = "dietary"
	ReferenceTypeSpiceLevel = "spice_level"
)

// ReferenceData is one entry of a read-mostly taxonomy (categories, dietary
// flags, spice levels). The composite identity is (Type, Key); entries carry
// no sync metadata because they flow one way, origin to device.
type ReferenceData struct {
	Type        string    `json:"type"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	LastUpdated time.Time `json:"last_updated"`
}

// ID returns the storage identity for the entry.
func (r ReferenceData) ID() string {
	return r.Type + "|" + r.Key
}

// CategoryCacheEntry is one row of the read-through category cache,
// refreshed opportunistically from the remote origin.
type CategoryCacheEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}
