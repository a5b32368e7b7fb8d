// Package store defines the storage backend interface for reading and
// writing whole objects.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an object does not exist in the store.
	ErrNotFound = errors.New("store: object not found")

	// ErrReadOnly is returned by WriteObject on stores that cannot be written.
	ErrReadOnly = errors.New("store: read-only store")

	// ErrInvalidKey is returned for keys that are empty or escape the store.
	ErrInvalidKey = errors.New("store: invalid key")
)

// Store defines the interface for storage backends.
// Keys are slash-separated; implementations map them to their own layout.
type Store interface {
	// ReadObject reads the full content of the object at key.
	ReadObject(ctx context.Context, key string) ([]byte, error)

	// WriteObject creates or replaces the object at key.
	WriteObject(ctx context.Context, key string, data []byte) error

	// Close releases any resources held by the store.
	Close() error
}

// NormalizePrefix returns prefix with surrounding slashes trimmed and a single
// trailing slash added, or "" for an empty prefix.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// ObjectName joins a normalized prefix and key into a bucket object name.
// A leading slash on key is ignored. Empty, "." and ".." segments are
// rejected with ErrInvalidKey.
func ObjectName(prefix, key string) (string, error) {
	rel := strings.TrimPrefix(key, "/")
	if rel == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for seg := range strings.SplitSeq(rel, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return prefix + rel, nil
}
