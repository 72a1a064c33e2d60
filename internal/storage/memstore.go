package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemStore holds slots in memory. It is the fallback when no durable backend
// is available and the backend of choice in tests. Values are kept as JSON
// text so Get/Set behave exactly like the durable store.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (s *MemStore) Get(_ context.Context, key string, dest any) bool {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

func (s *MemStore) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: marshal %q: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = string(data)
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites a slot with unparsable text. Test helper.
func (s *MemStore) Corrupt(key string) {
	s.mu.Lock()
	s.values[key] = "{not json"
	s.mu.Unlock()
}
