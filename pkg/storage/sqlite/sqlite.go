// Package sqlite provides a SQLite-backed store using database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/greenlog/pkg/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	content    TEXT NOT NULL,
	greentext  TEXT,
	name       TEXT NOT NULL DEFAULT 'Anonymous',
	sub        TEXT NOT NULL DEFAULT '',
	device_id  TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS memories (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	memory_text TEXT NOT NULL,
	entry_id    INTEGER REFERENCES entries(id) ON DELETE SET NULL,
	device_id   TEXT NOT NULL,
	created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_entries_device ON entries(device_id, created_at);
CREATE INDEX IF NOT EXISTS idx_memories_device ON memories(device_id, created_at);
`

// Store implements storage.Store backed by SQLite via the
// github.com/mattn/go-sqlite3 driver (registered as "sqlite3").
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at dbPath and ensures the
// schema exists. The dbPath can be a file path or ":memory:" for an
// in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each pool connection to ":memory:" would get its own database,
	// so pin the pool to a single connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// SQLite-specific pragmas
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// ListEntries returns all entries for a device, newest first.
func (s *Store) ListEntries(ctx context.Context, deviceID string) ([]storage.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, COALESCE(greentext, ''), name, sub, device_id, created_at
		 FROM entries WHERE device_id = ? ORDER BY created_at DESC, id DESC`, deviceID)
	if err != nil {
		return nil, storage.StorageError{Op: "list entries", Err: err}
	}
	defer rows.Close()

	entries := []storage.Entry{}
	for rows.Next() {
		var e storage.Entry
		if err := rows.Scan(&e.ID, &e.Content, &e.Greentext, &e.Name, &e.Sub, &e.DeviceID, &e.CreatedAt); err != nil {
			return nil, storage.StorageError{Op: "scan entry", Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.StorageError{Op: "list entries", Err: err}
	}

	return entries, nil
}

// GetEntry retrieves a single entry by id.
func (s *Store) GetEntry(ctx context.Context, id int64) (*storage.Entry, error) {
	var e storage.Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, COALESCE(greentext, ''), name, sub, device_id, created_at
		 FROM entries WHERE id = ?`, id).
		Scan(&e.ID, &e.Content, &e.Greentext, &e.Name, &e.Sub, &e.DeviceID, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, storage.StorageError{Op: "get entry", Err: err}
	}

	return &e, nil
}

// InsertEntry persists a new entry and returns its assigned id.
func (s *Store) InsertEntry(ctx context.Context, e storage.NewEntry) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (content, greentext, name, sub, device_id) VALUES (?, ?, ?, ?, ?)`,
		e.Content, e.Greentext, e.Name, e.Sub, e.DeviceID)
	if err != nil {
		return 0, storage.StorageError{Op: "insert entry", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storage.StorageError{Op: "insert entry", Err: err}
	}

	return id, nil
}

// DeleteEntry removes an entry by id and returns the affected row count.
func (s *Store) DeleteEntry(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return 0, storage.StorageError{Op: "delete entry", Err: err}
	}

	changes, err := res.RowsAffected()
	if err != nil {
		return 0, storage.StorageError{Op: "delete entry", Err: err}
	}

	return changes, nil
}

// ListMemories returns at most limit memories for a device, newest first.
func (s *Store) ListMemories(ctx context.Context, deviceID string, limit int) ([]storage.Memory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, memory_text, entry_id, device_id, created_at
		 FROM memories WHERE device_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		deviceID, limit)
	if err != nil {
		return nil, storage.StorageError{Op: "list memories", Err: err}
	}
	defer rows.Close()

	memories := []storage.Memory{}
	for rows.Next() {
		var m storage.Memory
		if err := rows.Scan(&m.ID, &m.MemoryText, &m.EntryID, &m.DeviceID, &m.CreatedAt); err != nil {
			return nil, storage.StorageError{Op: "scan memory", Err: err}
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.StorageError{Op: "list memories", Err: err}
	}

	return memories, nil
}

// ListAllMemories returns every memory joined with its source entry content.
func (s *Store) ListAllMemories(ctx context.Context) ([]storage.MemoryWithSource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.memory_text, m.entry_id, m.device_id, m.created_at, COALESCE(e.content, '')
		 FROM memories m
		 LEFT JOIN entries e ON m.entry_id = e.id
		 ORDER BY m.created_at DESC, m.id DESC`)
	if err != nil {
		return nil, storage.StorageError{Op: "list all memories", Err: err}
	}
	defer rows.Close()

	memories := []storage.MemoryWithSource{}
	for rows.Next() {
		var m storage.MemoryWithSource
		if err := rows.Scan(&m.ID, &m.MemoryText, &m.EntryID, &m.DeviceID, &m.CreatedAt, &m.SourceContent); err != nil {
			return nil, storage.StorageError{Op: "scan memory", Err: err}
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.StorageError{Op: "list all memories", Err: err}
	}

	return memories, nil
}

// InsertMemory persists a new memory and returns its assigned id.
func (s *Store) InsertMemory(ctx context.Context, m storage.NewMemory) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (memory_text, entry_id, device_id) VALUES (?, ?, ?)`,
		m.MemoryText, m.EntryID, m.DeviceID)
	if err != nil {
		return 0, storage.StorageError{Op: "insert memory", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storage.StorageError{Op: "insert memory", Err: err}
	}

	return id, nil
}

// ClearDevice removes all entries and memories belonging to a device.
// When a table ends up empty its AUTOINCREMENT counter is reset so ids
// start over from 1 after a full clear.
func (s *Store) ClearDevice(ctx context.Context, deviceID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE device_id = ?`, deviceID); err != nil {
		return storage.StorageError{Op: "clear memories", Err: err}
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE device_id = ?`, deviceID); err != nil {
		return storage.StorageError{Op: "clear entries", Err: err}
	}

	for _, table := range []string{"entries", "memories"} {
		if err := s.resetCounterIfEmpty(ctx, table); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) resetCounterIfEmpty(ctx context.Context, table string) error {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
		return storage.StorageError{Op: "count " + table, Err: err}
	}
	if count > 0 {
		return nil
	}

	// sqlite_sequence may not have a row yet if nothing was ever inserted.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = ?`, table); err != nil {
		return storage.StorageError{Op: "reset counter " + table, Err: err}
	}

	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)
