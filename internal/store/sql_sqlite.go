package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/takhirov/menukeeper/internal/config"
	"github.com/takhirov/menukeeper/internal/logger"
)

// NewConnectSQLite opens (creating if necessary) the local SQLite database
// file and verifies the connection with a ping. Foreign keys are switched on
// so image rows cascade with their owning item.
func NewConnectSQLite(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*DB, error) {
	dsn := cfg.DBPath
	opts := "?_foreign_keys=on"
	if dsn == "" {
		// every pooled connection must see the same in-memory database
		dsn = "file::memory:"
		opts += "&cache=shared"
	} else {
		if err := createLocalDBFileIfNotExists(dsn); err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
			return nil, fmt.Errorf("error creating database file: %w", err)
		}
		dsn = "file:" + dsn
	}

	conn, err := sql.Open("sqlite3", dsn+opts)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}
	if cfg.DBPath == "" {
		conn.SetMaxOpenConns(1)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		conn.Close()
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	return &DB{DB: conn, logger: log}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		if dir := filepath.Dir(dbFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("error creating DB directory: %w", err)
			}
		}
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}
