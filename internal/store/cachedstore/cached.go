package cachedstore

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/discochess/squeeze/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store wraps another Store with a read cache. Writes go through to the
// underlying store and refresh the cached copy.
//
// Concurrent misses on one key share a single underlying read, made with
// the context of the caller that started it.
type Store struct {
	underlying store.Store
	backend    Backend
	inflight   singleflight.Group
}

// New returns a Store caching reads from underlying in backend.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

func (s *Store) ReadObject(ctx context.Context, key string) ([]byte, error) {
	if data, ok := s.backend.Get(key); ok {
		return data, nil
	}

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		data, err := s.underlying.ReadObject(ctx, key)
		if err != nil {
			return nil, err
		}
		s.backend.Set(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// WriteObject writes through to the underlying store. A failed write drops
// the cached copy, since the object's contents are then unknown.
func (s *Store) WriteObject(ctx context.Context, key string, data []byte) error {
	if err := s.underlying.WriteObject(ctx, key, data); err != nil {
		s.backend.Delete(key)
		return err
	}
	s.backend.Set(key, data)
	return nil
}

func (s *Store) Close() error {
	return s.underlying.Close()
}

func (s *Store) Stats() Stats {
	return s.backend.Stats()
}
