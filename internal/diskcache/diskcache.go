// Package diskcache stores fetched image bytes on disk with a SQLite
// index used for LRU eviction and HTTP revalidation metadata.
package diskcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	dbutil "github.com/llehouerou/glance/internal/db"
)

const (
	appName     = "glance"
	indexFile   = "index.db"
	blobDirName = "blobs"

	// DefaultBudget is the default total byte budget for cached blobs.
	DefaultBudget int64 = 256 << 20 // 256 MiB
)

// Entry describes an indexed cache entry.
type Entry struct {
	Key          string
	Source       string
	ETag         string
	LastModified string
	Size         int64
}

// Cache is a byte-budgeted disk cache of fetched source bytes.
type Cache struct {
	mu     sync.Mutex
	dir    string
	db     *sql.DB
	budget int64
}

// Open creates or opens a disk cache rooted at dir. An empty dir selects
// the XDG cache directory. A budget <= 0 uses DefaultBudget.
func Open(dir string, budget int64) (*Cache, error) {
	if dir == "" {
		base, err := xdg.CacheFile(appName)
		if err != nil {
			return nil, err
		}
		dir = base
	}
	if budget <= 0 {
		budget = DefaultBudget
	}

	if err := os.MkdirAll(filepath.Join(dir, blobDirName), 0o755); err != nil {
		return nil, err
	}

	database, err := sql.Open("sqlite", filepath.Join(dir, indexFile))
	if err != nil {
		return nil, err
	}

	if err := initSchema(database); err != nil {
		database.Close()
		return nil, err
	}

	return &Cache{dir: dir, db: database, budget: budget}, nil
}

func initSchema(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			etag TEXT,
			last_modified TEXT,
			size INTEGER NOT NULL,
			last_access INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entries_last_access ON entries(last_access);
	`)
	return err
}

// Key returns the cache key for a source locator.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) blobPath(key string) string {
	return filepath.Join(c.dir, blobDirName, key)
}

// Get returns cached bytes and index metadata for a source, or nil when
// the source is not cached. A hit refreshes the entry's recency.
func (c *Cache) Get(source string) ([]byte, *Entry, error) {
	if c == nil {
		return nil, nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(source)

	var e Entry
	var etag, lastModified sql.NullString
	err := c.db.QueryRow(`
		SELECT key, source, etag, last_modified, size
		FROM entries WHERE key = ?
	`, key).Scan(&e.Key, &e.Source, &etag, &lastModified, &e.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	e.ETag = dbutil.NullStringValue(etag)
	e.LastModified = dbutil.NullStringValue(lastModified)

	data, err := os.ReadFile(c.blobPath(key))
	if err != nil {
		// Index row without a blob: drop the stale row.
		_, _ = c.db.Exec(`DELETE FROM entries WHERE key = ?`, key)
		return nil, nil, nil
	}

	_, _ = c.db.Exec(`UPDATE entries SET last_access = unixepoch() WHERE key = ?`, key)

	return data, &e, nil
}

// Put stores bytes for a source along with revalidation metadata,
// evicting least-recently-used entries over budget.
func (c *Cache) Put(source string, data []byte, etag, lastModified string) error {
	if c == nil || len(data) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(source)
	if err := os.WriteFile(c.blobPath(key), data, 0o600); err != nil {
		return err
	}

	return dbutil.WithTx(c.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO entries (key, source, etag, last_modified, size, last_access)
			VALUES (?, ?, ?, ?, ?, unixepoch())
			ON CONFLICT(key) DO UPDATE SET
				etag = excluded.etag,
				last_modified = excluded.last_modified,
				size = excluded.size,
				last_access = excluded.last_access
		`, key, source, etag, lastModified, int64(len(data)))
		if err != nil {
			return err
		}
		return c.evict(tx)
	})
}

// Touch refreshes the recency of a cached source after revalidation.
func (c *Cache) Touch(source string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.db.Exec(`UPDATE entries SET last_access = unixepoch() WHERE key = ?`, Key(source))
}

// evict removes least-recently-used entries until total size fits the
// budget. Runs within the caller's transaction.
func (c *Cache) evict(tx *sql.Tx) error {
	var total sql.NullInt64
	if err := tx.QueryRow(`SELECT SUM(size) FROM entries`).Scan(&total); err != nil {
		return err
	}
	used := dbutil.NullInt64Value(total)
	if used <= c.budget {
		return nil
	}

	rows, err := tx.Query(`SELECT key, size FROM entries ORDER BY last_access ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var victims []string
	for rows.Next() && used > c.budget {
		var key string
		var size int64
		if err := rows.Scan(&key, &size); err != nil {
			return err
		}
		victims = append(victims, key)
		used -= size
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, key := range victims {
		if _, err := tx.Exec(`DELETE FROM entries WHERE key = ?`, key); err != nil {
			return err
		}
		_ = os.Remove(c.blobPath(key))
	}
	return nil
}

// Usage returns total bytes currently indexed.
func (c *Cache) Usage() int64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var total sql.NullInt64
	if err := c.db.QueryRow(`SELECT SUM(size) FROM entries`).Scan(&total); err != nil {
		return 0
	}
	return dbutil.NullInt64Value(total)
}

// Clear removes every entry and blob.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(filepath.Join(c.dir, blobDirName))
	if err == nil {
		for _, entry := range entries {
			_ = os.Remove(filepath.Join(c.dir, blobDirName, entry.Name()))
		}
	}
	_, err = c.db.Exec(`DELETE FROM entries`)
	return err
}

// Close releases the index database.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}
