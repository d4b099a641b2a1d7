package store

import (
	"context"
	"fmt"
	"time"

	"github.com/takhirov/menukeeper/models"
)

// defaultReferenceEntries returns the taxonomy defaults seeded on first run:
// categories, dietary flags and spice levels. Values are display labels; keys
// are the stable identifiers items reference.
func defaultReferenceEntries(now time.Time) []models.ReferenceData {
	entries := []models.ReferenceData{
		{Type: models.ReferenceTypeCategory, Key: "starters", Value: "Starters"},
		{Type: models.ReferenceTypeCategory, Key: "main_course", Value: "Main Course"},
		{Type: models.ReferenceTypeCategory, Key: "breads", Value: "Breads"},
		{Type: models.ReferenceTypeCategory, Key: "desserts", Value: "Desserts"},
		{Type: models.ReferenceTypeCategory, Key: "beverages", Value: "Beverages"},

		{Type: models.ReferenceTypeDietary, Key: "veg", Value: "Vegetarian"},
		{Type: models.ReferenceTypeDietary, Key: "non_veg", Value: "Non-Vegetarian"},
		{Type: models.ReferenceTypeDietary, Key: "vegan", Value: "Vegan"},
		{Type: models.ReferenceTypeDietary, Key: "egg", Value: "Contains Egg"},

		{Type: models.ReferenceTypeSpiceLevel, Key: "mild", Value: "Mild"},
		{Type: models.ReferenceTypeSpiceLevel, Key: "medium", Value: "Medium"},
		{Type: models.ReferenceTypeSpiceLevel, Key: "spicy", Value: "Spicy"},
		{Type: models.ReferenceTypeSpiceLevel, Key: "extra_spicy", Value: "Extra Spicy"},
	}

	for i := range entries {
		entries[i].LastUpdated = now
	}
	return entries
}

// seedDefaults idempotently inserts the default taxonomies. Existing entries
// are never overwritten, so a future sync-down path can refine values without
// the bootstrap clobbering them on the next start.
func (s *Store) seedDefaults(ctx context.Context) error {
	seeded := 0
	for _, entry := range defaultReferenceEntries(time.Now().UTC()) {
		inserted, err := s.backend.InsertReferenceIfAbsent(ctx, entry)
		if err != nil {
			return fmt.Errorf("seed reference entry %s: %w", entry.ID(), err)
		}
		if inserted {
			seeded++
		}
	}

	if seeded > 0 {
		s.log.Info().
			Str("func", "Store.seedDefaults").
			Int("seeded", seeded).
			Msg("reference data bootstrap complete")
	}
	return nil
}
