package catcache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS category_cache (
	merchant_key TEXT PRIMARY KEY,
	category     TEXT NOT NULL
);`

// SQLiteStore keeps the cache in a sqlite database. Writes are upserted
// immediately, so Flush is a no-op; the interface shape is shared with
// FileStore.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLiteStore opens (creating if needed) the cache database at path.
func NewSQLiteStore(path string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open category cache db %q: %w", path, err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create category_cache table: %w", err)
	}
	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool) {
	var category string
	err := s.db.QueryRow(
		"SELECT category FROM category_cache WHERE merchant_key = ?", key,
	).Scan(&category)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Category cache read failed")
		return "", false
	}
	return category, true
}

func (s *SQLiteStore) Put(key, category string) {
	_, err := s.db.Exec(
		"INSERT INTO category_cache (merchant_key, category) VALUES (?, ?) "+
			"ON CONFLICT(merchant_key) DO UPDATE SET category = excluded.category",
		key, category,
	)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Category cache write failed")
	}
}

func (s *SQLiteStore) Flush() error { return nil }

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
