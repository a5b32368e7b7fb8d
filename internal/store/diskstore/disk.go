// Package diskstore implements a disk-based filesystem storage backend.
package diskstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/discochess/squeeze/internal/fileio"
	"github.com/discochess/squeeze/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a disk-based filesystem storage backend.
type Store struct {
	root      string
	chunkSize int
	perm      os.FileMode
}

// Option configures a Store.
type Option func(*Store)

// WithChunkSize sets the chunk size used for reads and writes.
func WithChunkSize(n int) Option {
	return func(s *Store) {
		s.chunkSize = n
	}
}

// WithPerm sets the permission bits of written files.
func WithPerm(perm os.FileMode) Option {
	return func(s *Store) {
		s.perm = perm
	}
}

// New creates a new disk store rooted at the given directory.
// The directory must exist.
func New(root string, opts ...Option) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	s := &Store{
		root:      root,
		chunkSize: fileio.DefaultChunkSize,
		perm:      0o644,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ReadObject reads the file at key.
func (s *Store) ReadObject(ctx context.Context, key string) ([]byte, error) {
	// Check for cancellation before starting I/O.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := fileio.ReadFile(path, s.chunkSize, nil)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
		}
		return nil, fmt.Errorf("reading object: %w", err)
	}
	return data, nil
}

// WriteObject atomically writes data to the file at key, creating parent
// directories as needed.
func (s *Store) WriteObject(ctx context.Context, key string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := fileio.WriteFileAtomic(path, data, s.perm); err != nil {
		return fmt.Errorf("writing object: %w", err)
	}
	return nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

// Root returns the directory the store is rooted at.
func (s *Store) Root() string {
	return s.root
}

// path returns the filesystem path for key. Keys may not leave the root.
func (s *Store) path(key string) (string, error) {
	if key == "" || !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("%w: %q", store.ErrInvalidKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}
