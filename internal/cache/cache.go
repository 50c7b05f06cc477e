// Package cache stores resolved DOI metadata in a local SQLite database so
// repeated runs over the same library do not requery the catalog APIs.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/litsort/litsort/internal/reference"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite metadata cache.
type DB struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS metadata (
			doi TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors_json TEXT,
			pub_year TEXT,
			journal TEXT,
			volume TEXT,
			issue TEXT,
			pages TEXT,
			subjects_json TEXT,
			source TEXT NOT NULL,
			cached_at INTEGER NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the cached metadata for a DOI, or false when absent. Read
// errors are treated as misses so a corrupt cache only costs a requery.
func (d *DB) Get(doi string) (*reference.Metadata, bool) {
	var m reference.Metadata
	var authorsJSON, subjectsJSON sql.NullString

	err := d.db.QueryRow(`
		SELECT doi, title, authors_json, pub_year, journal, volume, issue, pages, subjects_json, source
		FROM metadata
		WHERE doi = ?
	`, doi).Scan(
		&m.DOI, &m.Title, &authorsJSON, &m.Year,
		&m.Journal, &m.Volume, &m.Issue, &m.Pages,
		&subjectsJSON, &m.Source,
	)
	if err != nil {
		return nil, false
	}

	if authorsJSON.Valid && authorsJSON.String != "" {
		if err := json.Unmarshal([]byte(authorsJSON.String), &m.Authors); err != nil {
			return nil, false
		}
	}
	if subjectsJSON.Valid && subjectsJSON.String != "" {
		if err := json.Unmarshal([]byte(subjectsJSON.String), &m.Subjects); err != nil {
			return nil, false
		}
	}

	return &m, true
}

// Put stores or replaces the metadata for its DOI.
func (d *DB) Put(m *reference.Metadata) error {
	authorsJSON, err := json.Marshal(m.Authors)
	if err != nil {
		return fmt.Errorf("marshaling authors for %s: %w", m.DOI, err)
	}
	subjectsJSON, err := json.Marshal(m.Subjects)
	if err != nil {
		return fmt.Errorf("marshaling subjects for %s: %w", m.DOI, err)
	}

	_, err = d.db.Exec(`
		INSERT OR REPLACE INTO metadata (
			doi, title, authors_json, pub_year, journal, volume, issue, pages, subjects_json, source, cached_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.DOI, m.Title, string(authorsJSON), m.Year,
		m.Journal, m.Volume, m.Issue, m.Pages,
		string(subjectsJSON), m.Source, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("caching metadata for %s: %w", m.DOI, err)
	}
	return nil
}

// Count returns the number of cached entries.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM metadata").Scan(&count)
	return count, err
}
