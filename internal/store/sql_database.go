package store

import (
	"database/sql"

	"github.com/takhirov/menukeeper/internal/logger"
	"github.com/takhirov/menukeeper/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
