// Package auth holds the session persistence backends and token helpers used
// by the sign-in flow.
package auth

import (
	"context"
	"errors"
	"sync"
)

// Static errors for err113 compliance.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyKey        = errors.New("storage key is required")
)

// MemoryStore keeps sessions for the lifetime of the process.
type MemoryStore struct {
	mutex sync.RWMutex
	items map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]string{}}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return "", ErrSessionNotFound
	}

	return value, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.items[key] = value

	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.items, key)

	return nil
}
