package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DefaultCacheTTL is how long a cached version lookup stays fresh.
const DefaultCacheTTL = 6 * time.Hour

const cacheSchema = `
CREATE TABLE IF NOT EXISTS version_cache (
	slug         TEXT NOT NULL,
	game_version TEXT NOT NULL,
	loader       TEXT NOT NULL,
	version_id   TEXT NOT NULL,
	version_num  TEXT NOT NULL,
	file_url     TEXT NOT NULL,
	filename     TEXT NOT NULL,
	fetched_at   INTEGER NOT NULL,
	PRIMARY KEY (slug, game_version, loader)
);
`

// CachedVersion is a resolved mod version stored locally.
type CachedVersion struct {
	Slug        string
	GameVersion string
	Loader      string
	VersionID   string
	VersionNum  string
	FileURL     string
	Filename    string
	FetchedAt   time.Time
}

// VersionCache stores resolved Modrinth versions with a freshness window.
type VersionCache struct {
	db  *Database
	ttl time.Duration
}

// NewVersionCache bootstraps the cache table and returns a cache handle.
func NewVersionCache(database *Database, ttl time.Duration) (*VersionCache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if _, err := database.Exec(cacheSchema); err != nil {
		return nil, fmt.Errorf("failed to create version_cache table: %w", err)
	}
	return &VersionCache{db: database, ttl: ttl}, nil
}

// Get returns the cached resolution for (slug, gameVersion, loader), or
// ok=false when the entry is missing or stale.
func (c *VersionCache) Get(slug, gameVersion, loader string) (CachedVersion, bool, error) {
	row := c.db.QueryRow(
		`SELECT version_id, version_num, file_url, filename, fetched_at
		 FROM version_cache WHERE slug = ? AND game_version = ? AND loader = ?`,
		slug, gameVersion, loader,
	)

	var v CachedVersion
	var fetchedAt int64
	err := row.Scan(&v.VersionID, &v.VersionNum, &v.FileURL, &v.Filename, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return CachedVersion{}, false, nil
	}
	if err != nil {
		return CachedVersion{}, false, fmt.Errorf("version cache lookup failed: %w", err)
	}

	v.Slug = slug
	v.GameVersion = gameVersion
	v.Loader = loader
	v.FetchedAt = time.Unix(fetchedAt, 0)

	if time.Since(v.FetchedAt) > c.ttl {
		return CachedVersion{}, false, nil
	}
	return v, true, nil
}

// Put inserts or refreshes a cache entry.
func (c *VersionCache) Put(v CachedVersion) error {
	fetchedAt := v.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	_, err := c.db.Exec(
		`INSERT INTO version_cache (slug, game_version, loader, version_id, version_num, file_url, filename, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (slug, game_version, loader) DO UPDATE SET
			version_id = excluded.version_id,
			version_num = excluded.version_num,
			file_url = excluded.file_url,
			filename = excluded.filename,
			fetched_at = excluded.fetched_at`,
		v.Slug, v.GameVersion, v.Loader, v.VersionID, v.VersionNum, v.FileURL, v.Filename, fetchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("version cache write failed: %w", err)
	}
	return nil
}

// Invalidate drops any entry for slug, across game versions and loaders.
func (c *VersionCache) Invalidate(slug string) error {
	if _, err := c.db.Exec(`DELETE FROM version_cache WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("version cache invalidation failed: %w", err)
	}
	return nil
}
