package prefs

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS prefs (
	key   TEXT NOT NULL,
	idx   INTEGER NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (key, idx)
);`

// SQLite is a Store backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. An empty path or
// ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path
	if dsn == "" || dsn == ":memory:" {
		dsn = ":memory:"
	} else {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("prefs: open sqlite: %w", err)
	}
	// A pooled second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prefs: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get implements Store.
func (s *SQLite) Get(key string) ([]string, error) {
	rows, err := s.db.Query(`SELECT value FROM prefs WHERE key = ? ORDER BY idx`, key)
	if err != nil {
		return nil, fmt.Errorf("prefs: query %q: %w", key, err)
	}
	defer rows.Close()

	var values []string
	found := false
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		found = true
		if v == emptyListMarker {
			continue
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return values, nil
}

// emptyListMarker keeps an empty list distinguishable from a missing key.
const emptyListMarker = "\x00"

// Put implements Store.
func (s *SQLite) Put(key string, values []string) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.Exec(`DELETE FROM prefs WHERE key = ?`, key); err != nil {
		return err
	}
	if len(values) == 0 {
		values = []string{emptyListMarker}
	}
	for i, v := range values {
		if _, err = tx.Exec(`INSERT INTO prefs (key, idx, value) VALUES (?, ?, ?)`, key, i, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete implements Store.
func (s *SQLite) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM prefs WHERE key = ?`, key)
	return err
}

// Keys implements Store.
func (s *SQLite) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT key FROM prefs WHERE substr(key, 1, ?) = ? ORDER BY key`, len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close implements Store.
func (s *SQLite) Close() error { return s.db.Close() }
