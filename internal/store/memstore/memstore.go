// Package memstore keeps objects in a map. It backs tests and in-process
// round trips.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/discochess/squeeze/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store holds private copies of every object written to it, so callers may
// reuse their buffers. Keys follow the same rules as bucket stores.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func New() *Store {
	return &Store{objects: make(map[string][]byte)}
}

func (s *Store) ReadObject(ctx context.Context, key string) ([]byte, error) {
	name, err := s.name(ctx, key)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return bytes.Clone(data), nil
}

func (s *Store) WriteObject(ctx context.Context, key string, data []byte) error {
	name, err := s.name(ctx, key)
	if err != nil {
		return err
	}
	cp := bytes.Clone(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = cp
	return nil
}

func (s *Store) name(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return store.ObjectName("", key)
}

// Delete removes key, reporting whether it existed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	delete(s.objects, key)
	return ok
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.objects))
}

func (s *Store) Close() error {
	return nil
}
