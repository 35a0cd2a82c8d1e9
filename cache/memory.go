package cache

import (
	"sync"
)

// MemoryStore keeps entries in process memory
type MemoryStore struct {
	entries map[string]Entry
	mutex   sync.RWMutex
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Get returns a copy of the entry for key
func (s *MemoryStore) Get(key string) (Entry, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entry, found := s.entries[key]
	if !found {
		return Entry{}, false, nil
	}
	entry.Value = append([]byte(nil), entry.Value...)
	return entry, true, nil
}

// Put stores a copy of entry
func (s *MemoryStore) Put(entry Entry) error {
	entry.Value = append([]byte(nil), entry.Value...)

	s.mutex.Lock()
	s.entries[entry.Key] = entry
	s.mutex.Unlock()
	return nil
}

// Clear removes every entry
func (s *MemoryStore) Clear() error {
	s.mutex.Lock()
	s.entries = make(map[string]Entry)
	s.mutex.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included
func (s *MemoryStore) Len() (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.entries), nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
