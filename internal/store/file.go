package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
)

type persistedState struct {
	Entries map[string]map[string]string `json:"entries"`
}

// FileStore keeps entries in memory and rewrites a JSON file after every
// change.
type FileStore struct {
	path  string
	mu    sync.Mutex
	inner *MemoryStore
}

func NewFileStore(path string) (*FileStore, error) {
	state, err := loadState(path)
	if err != nil {
		return nil, err
	}
	inner := NewMemoryStore()
	for scope, kv := range state.Entries {
		if len(kv) == 0 {
			continue
		}
		inner.entries[scope] = kv
	}
	return &FileStore{path: path, inner: inner}, nil
}

func (f *FileStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	return f.inner.Get(ctx, scope, key)
}

func (f *FileStore) Set(ctx context.Context, scope, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.inner.Set(ctx, scope, key, value); err != nil {
		return err
	}
	return saveState(f.path, persistedState{Entries: f.inner.snapshot()})
}

func (f *FileStore) Delete(ctx context.Context, scope, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.inner.Delete(ctx, scope, key); err != nil {
		return err
	}
	return saveState(f.path, persistedState{Entries: f.inner.snapshot()})
}

func (f *FileStore) Close() error { return nil }

func loadState(path string) (persistedState, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return persistedState{Entries: map[string]map[string]string{}}, nil
		}
		return persistedState{}, eris.Wrapf(err, "read %s", path)
	}
	var state persistedState
	if err := json.Unmarshal(blob, &state); err != nil {
		return persistedState{}, eris.Wrapf(err, "decode %s", path)
	}
	if state.Entries == nil {
		state.Entries = map[string]map[string]string{}
	}
	return state, nil
}

func saveState(path string, state persistedState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "create state dir")
	}
	blob, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode state")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return eris.Wrap(err, "write state")
	}
	return eris.Wrap(os.Rename(tmp, path), "replace state")
}
