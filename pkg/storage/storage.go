// Package storage defines the persistence contract for diary entries and
// extracted memories.
//
// Every read and write for normal operation is scoped by a device identifier;
// the only exception is retrieval-by-id, which mirrors the HTTP surface.
// Implementations must not cache — each read reflects the latest committed
// write.
package storage

import (
	"context"
	"time"
)

// MemoryContextLimit is the number of most-recent memories loaded as
// generation context for a device.
const MemoryContextLimit = 6

// Entry is a persisted diary entry. Entries are immutable once created
// except for deletion.
type Entry struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Greentext string    `json:"greentext"`
	Name      string    `json:"name"`
	Sub       string    `json:"sub"`
	DeviceID  string    `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntry holds the fields of an entry to be inserted. The id and
// creation timestamp are assigned by the store.
type NewEntry struct {
	Content   string
	Greentext string
	Name      string
	Sub       string
	DeviceID  string
}

// Memory is a short fact extracted from a generated response. Memories are
// append-only; they are never updated, only bulk-deleted via ClearDevice.
type Memory struct {
	ID         int64     `json:"id"`
	MemoryText string    `json:"memory_text"`
	EntryID    *int64    `json:"entry_id,omitempty"`
	DeviceID   string    `json:"device_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewMemory holds the fields of a memory to be inserted.
type NewMemory struct {
	MemoryText string
	EntryID    *int64
	DeviceID   string
}

// MemoryWithSource is a memory joined with the content of its originating
// entry, if that entry still exists.
type MemoryWithSource struct {
	Memory
	SourceContent string `json:"source_content,omitempty"`
}

// Store defines the interface for persisting and retrieving entries and
// memories in a storage backend.
type Store interface {
	// ListEntries returns all entries for a device, newest first.
	ListEntries(ctx context.Context, deviceID string) ([]Entry, error)

	// GetEntry retrieves a single entry by id. Returns NotFoundError when
	// no entry exists with that id.
	GetEntry(ctx context.Context, id int64) (*Entry, error)

	// InsertEntry persists a new entry and returns its assigned id.
	InsertEntry(ctx context.Context, e NewEntry) (int64, error)

	// DeleteEntry removes an entry by id and returns the affected row count.
	DeleteEntry(ctx context.Context, id int64) (int64, error)

	// ListMemories returns at most limit memories for a device, newest
	// first. A negative limit returns all of the device's memories.
	ListMemories(ctx context.Context, deviceID string, limit int) ([]Memory, error)

	// ListAllMemories returns every memory joined with its source entry
	// content, newest first.
	ListAllMemories(ctx context.Context) ([]MemoryWithSource, error)

	// InsertMemory persists a new memory and returns its assigned id.
	InsertMemory(ctx context.Context, m NewMemory) (int64, error)

	// ClearDevice removes all entries and memories belonging to a device.
	// When the clear empties a table its id counter is reset, so a full
	// clear starts the entry ids over from 1.
	ClearDevice(ctx context.Context, deviceID string) error

	// Close closes the store and releases any resources.
	Close() error
}
