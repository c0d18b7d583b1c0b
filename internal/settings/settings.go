package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Storage keys. Everything lives under the exporter: namespace; the
// bare legacy key predates it and is migrated on open.
const (
	LegacyKeyFilenameFormat = "exporter-format"

	KeyLanguage         = "exporter:language"
	KeyFilenameFormat   = "exporter:filename_format"
	KeyTimestampEnabled = "exporter:enable_timestamp"
	KeyTimestamp24H     = "exporter:timestamp_24h"
	KeyMetaEnabled      = "exporter:enable_meta"
	KeyMetaList         = "exporter:meta_list"
)

// Getter is the read-only view handed to rendering code.
type Getter interface {
	Get(key string) (string, bool, error)
	GetBool(key string) (bool, error)
}

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init settings schema: %w", err)
	}

	s := &Store{db: db}
	s.migrateLegacyFormat()
	return s, nil
}

// migrateLegacyFormat moves the pre-namespace filename format key to
// its exporter: replacement, keeping any value already stored there.
func (s *Store) migrateLegacyFormat() {
	val, ok, err := s.Get(LegacyKeyFilenameFormat)
	if err != nil || !ok {
		return
	}
	if _, exists, _ := s.Get(KeyFilenameFormat); !exists {
		s.Set(KeyFilenameFormat, val)
	}
	s.Delete(LegacyKeyFilenameFormat)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(key string) (string, bool, error) {
	var val string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// GetBool reads a flag key. Missing keys are false.
func (s *Store) GetBool(key string) (bool, error) {
	val, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	return val == "true" || val == "1", nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// Values is an in-memory Getter for callers that have no store open.
type Values map[string]string

func (v Values) Get(key string) (string, bool, error) {
	val, ok := v[key]
	return val, ok, nil
}

func (v Values) GetBool(key string) (bool, error) {
	val, ok := v[key]
	return ok && (val == "true" || val == "1"), nil
}

// All returns every stored key/value pair ordered by key.
func (s *Store) All() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
