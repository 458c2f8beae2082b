// Package store persists small per-client key/value entries, the server-side
// stand-in for browser local storage.
package store

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
)

type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverFile   Driver = "file"
	DriverMemory Driver = "memory"
)

var ErrUnknownDriver = eris.New("unknown storage driver")

// Store holds string values keyed by (scope, key). A scope is one client.
type Store interface {
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
	io.Closer
}

// Open builds the store for driver. path is ignored by the memory driver.
func Open(driver Driver, path string) (Store, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteStore(path)
	case DriverFile:
		return NewFileStore(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	}
	return nil, eris.Wrapf(ErrUnknownDriver, "driver %q", driver)
}

// Scoped binds a store to one scope.
type Scoped struct {
	store Store
	scope string
}

func NewScoped(s Store, scope string) *Scoped {
	return &Scoped{store: s, scope: scope}
}

func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.store.Get(ctx, s.scope, key)
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.scope, key, value)
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, s.scope, key)
}
