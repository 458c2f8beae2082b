package store

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]map[string]string{}}
}

func (m *MemoryStore) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[scope][key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[scope] == nil {
		m.entries[scope] = map[string]string{}
	}
	m.entries[scope][key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries[scope], key)
	if len(m.entries[scope]) == 0 {
		delete(m.entries, scope)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) snapshot() map[string]map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]map[string]string, len(m.entries))
	for scope, kv := range m.entries {
		cp := make(map[string]string, len(kv))
		for k, v := range kv {
			cp[k] = v
		}
		out[scope] = cp
	}
	return out
}
