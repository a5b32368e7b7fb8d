// Package cachedstore puts a read cache in front of a store.Store.
package cachedstore

// Backend holds cached objects for a Store.
type Backend interface {
	// Get returns a cached object, or false when it is not cached.
	Get(key string) ([]byte, bool)

	Set(key string, data []byte)

	// Delete drops key from the cache if present.
	Delete(key string)

	Stats() Stats
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64

	Size  int   // cached objects
	Bytes int64 // summed object length
}

// HitRate returns the share of reads served from cache, as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
