// Package cachestrategy defines how a cache decides which objects to keep.
package cachestrategy

// Strategy holds cached objects and evicts them when full.
// Implementations must be safe for concurrent use.
type Strategy interface {
	Get(key string) ([]byte, bool)

	// Add stores value under key and reports whether another entry was
	// evicted to make room. Replacing an existing key never evicts.
	Add(key string, value []byte) (evicted bool)

	Remove(key string)

	// Len returns the number of cached objects.
	Len() int

	// Bytes returns the summed length of every cached object.
	Bytes() int64
}
