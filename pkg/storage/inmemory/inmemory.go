// Package inmemory provides an in-process implementation of storage.Store.
// It backs the default dev configuration and keeps handler and pipeline tests
// free of database fixtures.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/papercomputeco/greenlog/pkg/storage"
)

// Store implements storage.Store using in-memory slices.
type Store struct {
	// mu guards entries, memories, and the id counters
	mu sync.RWMutex

	entries  []storage.Entry
	memories []storage.Memory

	nextEntryID  int64
	nextMemoryID int64
}

// NewStore creates a new in-memory store with id counters starting at 1.
func NewStore() *Store {
	return &Store{
		nextEntryID:  1,
		nextMemoryID: 1,
	}
}

// ListEntries returns all entries for a device, newest first.
func (s *Store) ListEntries(_ context.Context, deviceID string) ([]storage.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.Entry{}
	for _, e := range s.entries {
		if e.DeviceID == deviceID {
			result = append(result, e)
		}
	}
	sortNewestFirst(result, func(e storage.Entry) (time.Time, int64) { return e.CreatedAt, e.ID })

	return result, nil
}

// GetEntry retrieves a single entry by id.
func (s *Store) GetEntry(_ context.Context, id int64) (*storage.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}

	return nil, storage.NotFoundError{ID: id}
}

// InsertEntry persists a new entry and returns its assigned id.
func (s *Store) InsertEntry(_ context.Context, e storage.NewEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextEntryID
	s.nextEntryID++

	s.entries = append(s.entries, storage.Entry{
		ID:        id,
		Content:   e.Content,
		Greentext: e.Greentext,
		Name:      e.Name,
		Sub:       e.Sub,
		DeviceID:  e.DeviceID,
		CreatedAt: time.Now().UTC(),
	})

	return id, nil
}

// DeleteEntry removes an entry by id and returns the affected row count.
func (s *Store) DeleteEntry(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return 1, nil
		}
	}

	return 0, nil
}

// ListMemories returns at most limit memories for a device, newest first.
func (s *Store) ListMemories(_ context.Context, deviceID string, limit int) ([]storage.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.Memory{}
	for _, m := range s.memories {
		if m.DeviceID == deviceID {
			result = append(result, m)
		}
	}
	sortNewestFirst(result, func(m storage.Memory) (time.Time, int64) { return m.CreatedAt, m.ID })

	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// ListAllMemories returns every memory joined with its source entry content.
func (s *Store) ListAllMemories(_ context.Context) ([]storage.MemoryWithSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.MemoryWithSource{}
	for _, m := range s.memories {
		joined := storage.MemoryWithSource{Memory: m}
		if m.EntryID != nil {
			for _, e := range s.entries {
				if e.ID == *m.EntryID {
					joined.SourceContent = e.Content
					break
				}
			}
		}
		result = append(result, joined)
	}
	sortNewestFirst(result, func(m storage.MemoryWithSource) (time.Time, int64) { return m.CreatedAt, m.ID })

	return result, nil
}

// InsertMemory persists a new memory and returns its assigned id.
func (s *Store) InsertMemory(_ context.Context, m storage.NewMemory) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextMemoryID
	s.nextMemoryID++

	s.memories = append(s.memories, storage.Memory{
		ID:         id,
		MemoryText: m.MemoryText,
		EntryID:    m.EntryID,
		DeviceID:   m.DeviceID,
		CreatedAt:  time.Now().UTC(),
	})

	return id, nil
}

// ClearDevice removes all entries and memories belonging to a device.
// Counters reset only when the clear leaves the table empty, matching the
// SQL drivers' sequence behavior.
func (s *Store) ClearDevice(_ context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.entries[:0]
	for _, e := range s.entries {
		if e.DeviceID != deviceID {
			entries = append(entries, e)
		}
	}
	s.entries = entries

	memories := s.memories[:0]
	for _, m := range s.memories {
		if m.DeviceID != deviceID {
			memories = append(memories, m)
		}
	}
	s.memories = memories

	if len(s.entries) == 0 {
		s.nextEntryID = 1
	}
	if len(s.memories) == 0 {
		s.nextMemoryID = 1
	}

	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// sortNewestFirst orders rows by creation time descending, breaking ties by
// id descending so same-instant inserts keep insertion order reversed.
func sortNewestFirst[T any](rows []T, key func(T) (time.Time, int64)) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, idi := key(rows[i])
		tj, idj := key(rows[j])
		if ti.Equal(tj) {
			return idi > idj
		}
		return ti.After(tj)
	})
}

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)
