// Package lru keeps the most recently used objects, bounded by count.
package lru

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/squeeze/internal/store/cachedstore/cachestrategy"
)

var _ cachestrategy.Strategy = (*Strategy)(nil)

// Strategy is an LRU cache of objects that also tracks how many bytes it holds.
type Strategy struct {
	// mu keeps the byte total consistent with the cache contents across
	// replace and evict.
	mu    sync.Mutex
	cache *lru.Cache[string, []byte]
	bytes int64
}

// New returns a Strategy holding at most capacity objects.
func New(capacity int) (*Strategy, error) {
	s := &Strategy{}
	c, err := lru.NewWithEvict(capacity, s.onEvict)
	if err != nil {
		return nil, fmt.Errorf("lru: %w", err)
	}
	s.cache = c
	return s, nil
}

// onEvict runs for evictions and removals, with mu held by the caller.
func (s *Strategy) onEvict(_ string, value []byte) {
	s.bytes -= int64(len(value))
}

// Get returns the object for key and marks it most recently used.
func (s *Strategy) Get(key string) ([]byte, bool) {
	return s.cache.Get(key)
}

func (s *Strategy) Add(key string, value []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.cache.Peek(key); ok {
		s.bytes -= int64(len(old))
	}
	s.bytes += int64(len(value))
	return s.cache.Add(key, value)
}

func (s *Strategy) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(key)
}

func (s *Strategy) Len() int {
	return s.cache.Len()
}

func (s *Strategy) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}
