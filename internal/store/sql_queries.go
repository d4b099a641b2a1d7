// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

package store

const (
	upsertMenuItem = `
		INSERT INTO menu_items (
			local_id,
			server_id,
			owner_id,
			category_id,
			name,
			description,
			price,
			offer_price,
			spice_level,
			dietary,
			status,
			pending_sync,
			sync_action,
			deleted,
			created_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (local_id) DO UPDATE SET
			server_id    = excluded.server_id,
			owner_id     = excluded.owner_id,
			category_id  = excluded.category_id,
			name         = excluded.name,
			description  = excluded.description,
			price        = excluded.price,
			offer_price  = excluded.offer_price,
			spice_level  = excluded.spice_level,
			dietary      = excluded.dietary,
			status       = excluded.status,
			pending_sync = excluded.pending_sync,
			sync_action  = excluded.sync_action,
			deleted      = excluded.deleted,
			updated_at   = excluded.updated_at;`

	getMenuItem = `
		SELECT
			local_id,
			server_id,
			owner_id,
			category_id,
			name,
			description,
			price,
			offer_price,
			spice_level,
			dietary,
			status,
			pending_sync,
			deleted,
			created_at,
			updated_at
		FROM menu_items
		WHERE local_id = ?;`

	deleteMenuItem = `
		DELETE FROM menu_items
		WHERE local_id = ?;`

	countPendingItems = `
		SELECT COUNT(*)
		FROM menu_items
		WHERE pending_sync = true;`

	deleteItemImages = `
		DELETE FROM menu_item_images
		WHERE item_id = ?;`

	insertItemImage = `
		INSERT INTO menu_item_images (image_id, item_id, ref, position)
		VALUES (?, ?, ?, ?);`

	getItemImages = `
		SELECT image_id, item_id, ref, position
		FROM menu_item_images
		WHERE item_id = ?
		ORDER BY position;`

	insertReferenceIfAbsent = `
		INSERT OR IGNORE INTO reference_data (id, type, key, value, last_updated)
		VALUES (?, ?, ?, ?, ?);`

	upsertReference = `
		INSERT INTO reference_data (id, type, key, value, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			value        = excluded.value,
			last_updated = excluded.last_updated;`

	getReferenceByType = `
		SELECT type, key, value, last_updated
		FROM reference_data
		WHERE type = ?
		ORDER BY key;`

	clearCategoryCache = `
		DELETE FROM category_cache;`

	insertCategoryCache = `
		INSERT INTO category_cache (id, name, status, last_updated)
		VALUES (?, ?, ?, ?);`

	getCategoryCache = `
		SELECT id, name, status, last_updated
		FROM category_cache
		ORDER BY name;`
)

// menuItemColumns is the column order shared by getMenuItem and the
// squirrel-built list query. Scan destinations must match.
var menuItemColumns = []string{
	"local_id",
	"server_id",
	"owner_id",
	"category_id",
	"name",
	"description",
	"price",
	"offer_price",
	"spice_level",
	"dietary",
	"status",
	"pending_sync",
	"deleted",
	"created_at",
	"updated_at",
}
