package credstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-process [Store]. It is the default backing store and
// the analogue of the mobile client's keychain wrapper.
//
// MemoryStore is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
//
// NewMemoryStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string, 3),
	}
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation or dependency calls fail.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation or dependency calls fail.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Remove describes the remove operation and its observable behavior.
//
// Remove may return an error when input validation or dependency calls fail.
func (s *MemoryStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Len reports the number of stored keys. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
