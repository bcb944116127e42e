// Package store keeps a small on-disk cache of rendered Markdown so
// watch-mode rebuilds skip work for unchanged sources.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// maxEntries bounds the cache table; the oldest rows are evicted once
// the limit is crossed. A personal blog is a few hundred files.
const maxEntries = 4096

const schema = `
CREATE TABLE IF NOT EXISTS render_cache (
	hash        TEXT PRIMARY KEY,
	source_path TEXT NOT NULL,
	html        BLOB NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS render_cache_created ON render_cache(created_at);
`

// Cache is a content-addressed render cache backed by SQLite.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database, creating parent
// directories as needed.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get looks up rendered HTML by the source's content hash.
func (c *Cache) Get(body []byte) ([]byte, bool, error) {
	var html []byte
	err := c.db.QueryRow(
		`SELECT html FROM render_cache WHERE hash = ?`, hashOf(body),
	).Scan(&html)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return html, true, nil
}

// Put stores rendered HTML keyed by the source's content hash. The
// source path is recorded for debugging only.
func (c *Cache) Put(body []byte, sourcePath string, html []byte) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO render_cache (hash, source_path, html, created_at) VALUES (?, ?, ?, ?)`,
		hashOf(body), sourcePath, html, time.Now().Unix(),
	)
	if err != nil {
		return err
	}
	return c.evict()
}

// Len reports the number of cached entries.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM render_cache`).Scan(&n)
	return n, err
}

func (c *Cache) evict() error {
	_, err := c.db.Exec(`
		DELETE FROM render_cache WHERE hash IN (
			SELECT hash FROM render_cache
			ORDER BY created_at DESC
			LIMIT -1 OFFSET ?
		)`, maxEntries)
	return err
}

func hashOf(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
