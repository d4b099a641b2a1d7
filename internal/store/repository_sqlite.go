package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/takhirov/menukeeper/internal/logger"
	"github.com/takhirov/menukeeper/models"
)

// sqliteBackend is the durable persistence strategy. Item rows and their
// image rows live in separate tables; SaveItem replaces the full image set
// inside one transaction so an item is never observed with a partial
// attachment list.
type sqliteBackend struct {
	*DB
	logger *logger.Logger
}

func newSQLiteBackend(db *DB, log *logger.Logger) backend {
	return &sqliteBackend{DB: db, logger: log}
}

func (b *sqliteBackend) SaveItem(ctx context.Context, item models.MenuItem) error {
	log := b.logger

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "sqliteBackend.SaveItem").Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, upsertMenuItem,
		item.LocalID,
		item.ServerID,
		item.OwnerID,
		item.CategoryID,
		item.Name,
		item.Description,
		item.Price,
		item.OfferPrice,
		item.SpiceLevel,
		item.Dietary,
		item.Status,
		item.PendingSync,
		string(item.SyncAction()),
		item.Deleted,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.SaveItem").
			Str("local_id", item.LocalID).
			Msg("failed to execute upsert for menu item")
		return fmt.Errorf("failed to save menu item (local_id=%s): %w", item.LocalID, err)
	}

	if _, err = tx.ExecContext(ctx, deleteItemImages, item.LocalID); err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.SaveItem").
			Str("local_id", item.LocalID).
			Msg("failed to clear image rows before replace")
		return fmt.Errorf("failed to replace images (local_id=%s): %w", item.LocalID, err)
	}
	for _, img := range item.Images {
		if _, err = tx.ExecContext(ctx, insertItemImage, img.ImageID, item.LocalID, img.Ref, img.Position); err != nil {
			log.Err(err).
				Str("func", "sqliteBackend.SaveItem").
				Str("local_id", item.LocalID).
				Str("image_id", img.ImageID).
				Msg("failed to insert image row")
			return fmt.Errorf("failed to save image (image_id=%s): %w", img.ImageID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "sqliteBackend.SaveItem").Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (b *sqliteBackend) GetItem(ctx context.Context, localID string) (models.MenuItem, error) {
	log := b.logger

	row := b.DB.QueryRowContext(ctx, getMenuItem, localID)
	item, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MenuItem{}, ErrItemNotFound
		}
		log.Err(err).
			Str("func", "sqliteBackend.GetItem").
			Str("local_id", localID).
			Msg("failed to scan menu item row")
		return models.MenuItem{}, fmt.Errorf("failed to scan menu item row: %w", err)
	}

	if item.Images, err = b.loadImages(ctx, localID); err != nil {
		return models.MenuItem{}, err
	}

	return item, nil
}

func (b *sqliteBackend) ListItems(ctx context.Context, filter models.ListFilter) ([]models.MenuItem, error) {
	log := b.logger

	qb := sq.Select(menuItemColumns...).
		From("menu_items").
		OrderBy("updated_at DESC", "local_id DESC")

	if !filter.IncludeDeleted {
		qb = qb.Where(sq.Eq{"deleted": false})
	}
	if filter.PendingSyncOnly {
		qb = qb.Where(sq.Eq{"pending_sync": true})
	}
	if filter.ByOwner != "" {
		qb = qb.Where(sq.Eq{"owner_id": filter.ByOwner})
	}
	if filter.ByCategory != "" {
		qb = qb.Where(sq.Eq{"category_id": filter.ByCategory})
	}
	if filter.ByStatus != "" {
		qb = qb.Where(sq.Eq{"status": filter.ByStatus})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		log.Err(err).Str("func", "sqliteBackend.ListItems").Msg("failed to build list query")
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "sqliteBackend.ListItems").Msg("failed to execute list query")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, scanErr := scanMenuItem(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "sqliteBackend.ListItems").Msg("failed to scan menu item row")
			return nil, fmt.Errorf("failed to scan menu item row: %w", scanErr)
		}
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "sqliteBackend.ListItems").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating menu item rows: %w", rowsErr)
	}

	for i := range items {
		if items[i].Images, err = b.loadImages(ctx, items[i].LocalID); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (b *sqliteBackend) RemoveItem(ctx context.Context, localID string) error {
	log := b.logger

	// image rows cascade via the FK
	result, err := b.DB.ExecContext(ctx, deleteMenuItem, localID)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteBackend.RemoveItem").
			Str("local_id", localID).
			Msg("failed to execute hard delete for menu item")
		return fmt.Errorf("failed to delete menu item (local_id=%s): %w", localID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (local_id=%s): %w", localID, err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (b *sqliteBackend) CountPending(ctx context.Context) (int, error) {
	var count int
	if err := b.DB.QueryRowContext(ctx, countPendingItems).Scan(&count); err != nil {
		b.logger.Err(err).Str("func", "sqliteBackend.CountPending").Msg("failed to count pending items")
		return 0, fmt.Errorf("failed to count pending items: %w", err)
	}
	return count, nil
}

func (b *sqliteBackend) InsertReferenceIfAbsent(ctx context.Context, entry models.ReferenceData) (bool, error) {
	result, err := b.DB.ExecContext(ctx, insertReferenceIfAbsent,
		entry.ID(), entry.Type, entry.Key, entry.Value, entry.LastUpdated)
	if err != nil {
		b.logger.Err(err).
			Str("func", "sqliteBackend.InsertReferenceIfAbsent").
			Str("id", entry.ID()).
			Msg("failed to seed reference entry")
		return false, fmt.Errorf("failed to seed reference entry (id=%s): %w", entry.ID(), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected (id=%s): %w", entry.ID(), err)
	}
	return affected > 0, nil
}

func (b *sqliteBackend) UpsertReference(ctx context.Context, entries ...models.ReferenceData) error {
	for _, entry := range entries {
		_, err := b.DB.ExecContext(ctx, upsertReference,
			entry.ID(), entry.Type, entry.Key, entry.Value, entry.LastUpdated)
		if err != nil {
			b.logger.Err(err).
				Str("func", "sqliteBackend.UpsertReference").
				Str("id", entry.ID()).
				Msg("failed to upsert reference entry")
			return fmt.Errorf("failed to upsert reference entry (id=%s): %w", entry.ID(), err)
		}
	}
	return nil
}

func (b *sqliteBackend) ListReference(ctx context.Context, refType string) ([]models.ReferenceData, error) {
	rows, err := b.DB.QueryContext(ctx, getReferenceByType, refType)
	if err != nil {
		b.logger.Err(err).Str("func", "sqliteBackend.ListReference").Msg("failed to query reference data")
		return nil, fmt.Errorf("failed to query reference data: %w", err)
	}
	defer rows.Close()

	var entries []models.ReferenceData
	for rows.Next() {
		var entry models.ReferenceData
		if err = rows.Scan(&entry.Type, &entry.Key, &entry.Value, &entry.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan reference data row: %w", err)
		}
		entries = append(entries, entry)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating reference data rows: %w", rowsErr)
	}

	return entries, nil
}

func (b *sqliteBackend) ReplaceCategories(ctx context.Context, entries []models.CategoryCacheEntry) error {
	log := b.logger

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "sqliteBackend.ReplaceCategories").Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, clearCategoryCache); err != nil {
		return fmt.Errorf("failed to clear category cache: %w", err)
	}
	for _, entry := range entries {
		if _, err = tx.ExecContext(ctx, insertCategoryCache, entry.ID, entry.Name, entry.Status, entry.LastUpdated); err != nil {
			return fmt.Errorf("failed to insert category cache entry (id=%s): %w", entry.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (b *sqliteBackend) ListCategories(ctx context.Context) ([]models.CategoryCacheEntry, error) {
	rows, err := b.DB.QueryContext(ctx, getCategoryCache)
	if err != nil {
		b.logger.Err(err).Str("func", "sqliteBackend.ListCategories").Msg("failed to query category cache")
		return nil, fmt.Errorf("failed to query category cache: %w", err)
	}
	defer rows.Close()

	var entries []models.CategoryCacheEntry
	for rows.Next() {
		var entry models.CategoryCacheEntry
		if err = rows.Scan(&entry.ID, &entry.Name, &entry.Status, &entry.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan category cache row: %w", err)
		}
		entries = append(entries, entry)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating category cache rows: %w", rowsErr)
	}

	return entries, nil
}

func (b *sqliteBackend) Close() error {
	return b.DB.DB.Close()
}

func (b *sqliteBackend) loadImages(ctx context.Context, localID string) ([]models.MenuItemImage, error) {
	rows, err := b.DB.QueryContext(ctx, getItemImages, localID)
	if err != nil {
		b.logger.Err(err).
			Str("func", "sqliteBackend.loadImages").
			Str("local_id", localID).
			Msg("failed to query image rows")
		return nil, fmt.Errorf("failed to query images (local_id=%s): %w", localID, err)
	}
	defer rows.Close()

	var images []models.MenuItemImage
	for rows.Next() {
		var img models.MenuItemImage
		if err = rows.Scan(&img.ImageID, &img.ItemID, &img.Ref, &img.Position); err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		images = append(images, img)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating image rows: %w", rowsErr)
	}

	return images, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenuItem(row rowScanner) (models.MenuItem, error) {
	var (
		item     models.MenuItem
		serverID sql.NullString
	)

	err := row.Scan(
		&item.LocalID,
		&serverID,
		&item.OwnerID,
		&item.CategoryID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.OfferPrice,
		&item.SpiceLevel,
		&item.Dietary,
		&item.Status,
		&item.PendingSync,
		&item.Deleted,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return models.MenuItem{}, err
	}

	if serverID.Valid {
		item.ServerID = &serverID.String
	}
	return item, nil
}
