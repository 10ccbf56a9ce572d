// Package storage keeps a small local history of fetch cycles and export
// artifacts. Item data itself is never persisted; every refresh rebuilds
// the list from the backend.
package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"myitems/internal"
)

// MetaLastFetch marks when the backend was last queried successfully or
// not; fetch and runs surface it.
const MetaLastFetch = "last_fetch"

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS fetch_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  personnelId INTEGER NOT NULL,
  schoolCount INTEGER NOT NULL,
  dcpCount INTEGER NOT NULL,
  status TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS exports (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  kind TEXT NOT NULL,
  path TEXT NOT NULL,
  rowCount INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertFetchRun(personnelID int64, schoolCount, dcpCount int, status string) error {
	_, err := d.conn.Exec(`
INSERT INTO fetch_runs (personnelId, schoolCount, dcpCount, status)
VALUES (?, ?, ?, ?)
`, personnelID, schoolCount, dcpCount, status)
	return err
}

// RecordFetchRun inserts a run row and stamps the last_fetch marker.
func (d *DB) RecordFetchRun(personnelID int64, schoolCount, dcpCount int, status string) error {
	if err := d.InsertFetchRun(personnelID, schoolCount, dcpCount, status); err != nil {
		return err
	}
	return d.SetMetadata(MetaLastFetch, time.Now().UTC().Format(time.RFC3339))
}

func (d *DB) ListFetchRuns(limit int) ([]internal.FetchRunRow, error) {
	rows, err := d.conn.Query(`
SELECT id, personnelId, schoolCount, dcpCount, status, createdAt
FROM fetch_runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.FetchRunRow
	for rows.Next() {
		var row internal.FetchRunRow
		if err := rows.Scan(&row.ID, &row.PersonnelID, &row.SchoolCount, &row.DCPCount, &row.Status, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) InsertExport(kind, path string, rowCount int) error {
	_, err := d.conn.Exec(`
INSERT INTO exports (kind, path, rowCount) VALUES (?, ?, ?)
`, kind, path, rowCount)
	return err
}

func (d *DB) ListExports(limit int) ([]internal.ExportRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, kind, path, rowCount, createdAt
FROM exports ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ExportRecord
	for rows.Next() {
		var row internal.ExportRecord
		if err := rows.Scan(&row.ID, &row.Kind, &row.Path, &row.RowCount, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
