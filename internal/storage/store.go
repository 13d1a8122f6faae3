package storage

import (
	"sync"

	"github.com/Pricstas/autonomi/internal/record"
)

// Store is the interface for node-local record storage.
type Store interface {
	// Get retrieves a record by key.
	Get(key record.Key) (record.Record, bool)
	// Put stores a record, replacing any previous value under its key.
	Put(rec record.Record)
	// Delete removes a key.
	Delete(key record.Key)
	// Len returns the number of stored records.
	Len() int
}

// InMemoryStore is a thread-safe in-memory implementation of Store.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string][]byte)}
}

// Get retrieves a record by key. The returned value is a copy.
func (s *InMemoryStore) Get(key record.Key) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[string(key)]
	if !ok {
		return record.Record{}, false
	}
	return record.Record{
		Key:   append(record.Key(nil), key...),
		Value: append([]byte(nil), value...),
	}, true
}

// Put stores a record. The value is copied so callers may reuse buffers.
func (s *InMemoryStore) Put(rec record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(rec.Key)] = append([]byte(nil), rec.Value...)
}

// Delete removes a key.
func (s *InMemoryStore) Delete(key record.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, string(key))
}

// Len returns the number of stored records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
