package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type Database struct {
	db *sql.DB
}

// storedTimeFormat keeps a fixed-width fraction so the stored text sorts
// in time order under ORDER BY. RFC3339Nano trims trailing zeros, which
// breaks lexicographic order inside a second (".1Z" sorts after ".11Z").
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// PinnedAlbumRecord is an album the user pinned for quick access. The
// name and artist are snapshots taken at pin time so the list renders
// without a catalog round trip.
type PinnedAlbumRecord struct {
	AlbumID  uint64
	Name     string
	Artist   string
	PinnedAt time.Time
}

// BrowseRecord is one album detail view.
type BrowseRecord struct {
	ID       int64
	AlbumID  uint64
	Name     string
	Artist   string
	ViewedAt time.Time
}

// New opens (or creates) the sqlite database at dbPath and runs
// migrations. An empty path falls back to subwave.db in the working
// directory.
func New(dbPath string) (*Database, error) {
	if dbPath == "" {
		dbPath = "subwave.db"
	}

	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	d := &Database{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Infof("Database initialized at %s", dbPath)
	return d, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS pinned_albums (
			album_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			artist TEXT NOT NULL DEFAULT '',
			pinned_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pinned_albums_pinned_at ON pinned_albums(pinned_at DESC)`,
		`CREATE TABLE IF NOT EXISTS browse_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			album_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			artist TEXT NOT NULL DEFAULT '',
			viewed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_browse_history_viewed_at ON browse_history(viewed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_browse_history_album_id ON browse_history(album_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// Pin saves an album to the pinned list. Pinning an already-pinned album
// refreshes its snapshot and timestamp.
func (d *Database) Pin(albumID uint64, name, artist string) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO pinned_albums (album_id, name, artist, pinned_at) VALUES (?, ?, ?, ?)`,
		int64(albumID), name, artist, time.Now().UTC().Format(storedTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to pin album: %w", err)
	}
	return nil
}

// Unpin removes an album from the pinned list. Unpinning an album that
// was never pinned is not an error.
func (d *Database) Unpin(albumID uint64) error {
	_, err := d.db.Exec(`DELETE FROM pinned_albums WHERE album_id = ?`, int64(albumID))
	if err != nil {
		return fmt.Errorf("failed to unpin album: %w", err)
	}
	return nil
}

// IsPinned returns true if the album is currently pinned.
func (d *Database) IsPinned(albumID uint64) bool {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM pinned_albums WHERE album_id = ?`, int64(albumID),
	).Scan(&count)
	return err == nil && count > 0
}

// GetPins returns all pinned albums, newest pin first.
func (d *Database) GetPins() ([]PinnedAlbumRecord, error) {
	rows, err := d.db.Query(
		`SELECT album_id, name, artist, pinned_at FROM pinned_albums ORDER BY pinned_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pins: %w", err)
	}
	defer rows.Close()

	var records []PinnedAlbumRecord
	for rows.Next() {
		var r PinnedAlbumRecord
		var albumID int64
		var pinnedAt string
		if err := rows.Scan(&albumID, &r.Name, &r.Artist, &pinnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pin row: %w", err)
		}
		r.AlbumID = uint64(albumID)
		r.PinnedAt = parseStoredTime(pinnedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecordView inserts one browse history entry.
func (d *Database) RecordView(albumID uint64, name, artist string) error {
	_, err := d.db.Exec(
		`INSERT INTO browse_history (album_id, name, artist, viewed_at) VALUES (?, ?, ?, ?)`,
		int64(albumID), name, artist, time.Now().UTC().Format(storedTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

// GetRecentViews returns the most recent browse history entries.
func (d *Database) GetRecentViews(limit int) ([]BrowseRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := d.db.Query(
		`SELECT id, album_id, name, artist, viewed_at
		 FROM browse_history
		 ORDER BY viewed_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []BrowseRecord
	for rows.Next() {
		var r BrowseRecord
		var albumID int64
		var viewedAt string
		if err := rows.Scan(&r.ID, &albumID, &r.Name, &r.Artist, &viewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.AlbumID = uint64(albumID)
		r.ViewedAt = parseStoredTime(viewedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// parseStoredTime reads a timestamp written by this package. Parsing
// with RFC3339Nano accepts the fixed-width form alongside the trimmed
// fractions and fraction-less seconds earlier rows carry.
func parseStoredTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		log.Warnf("failed to parse stored timestamp '%s'", s)
		return time.Now()
	}
	return t
}
