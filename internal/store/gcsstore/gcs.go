// Package gcsstore stores objects in a Google Cloud Storage bucket.
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/discochess/squeeze/internal/fileio"
	"github.com/discochess/squeeze/internal/store"
)

// ContentType is set on every uploaded object.
const ContentType = "application/octet-stream"

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var _ store.Store = (*Store)(nil)

// Store reads and writes objects under an optional prefix of one bucket.
// Uploads send a CRC32C checksum and are rejected by GCS if it does not
// match what arrived.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

type settings struct {
	prefix        string
	clientOptions []option.ClientOption
}

// Option configures a Store.
type Option func(*settings)

// WithPrefix places every key under prefix.
func WithPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = store.NormalizePrefix(prefix)
	}
}

// WithClientOptions passes options to the storage client, for example
// option.WithoutAuthentication() to read public buckets.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(s *settings) {
		s.clientOptions = append(s.clientOptions, opts...)
	}
}

// New returns a Store for bucketName, which must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Store, error) {
	var set settings
	for _, opt := range opts {
		opt(&set)
	}

	client, err := storage.NewClient(ctx, set.clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("gcsstore: creating client: %w", err)
	}
	return &Store{
		client: client,
		bucket: client.Bucket(bucketName),
		prefix: set.prefix,
	}, nil
}

func (s *Store) ReadObject(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := store.ObjectName(s.prefix, key)
	if err != nil {
		return nil, err
	}

	r, err := s.bucket.Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: gs://%s/%s", store.ErrNotFound, s.bucket.BucketName(), name)
		}
		return nil, fmt.Errorf("gcsstore: open %s: %w", name, err)
	}
	defer r.Close()

	data, err := fileio.ReadAll(r, fileio.DefaultChunkSize, nil)
	if err != nil {
		return nil, fmt.Errorf("gcsstore: read %s: %w", name, err)
	}
	return data, nil
}

// WriteObject uploads data to key. The object becomes visible only once the
// upload completes.
func (s *Store) WriteObject(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := store.ObjectName(s.prefix, key)
	if err != nil {
		return err
	}

	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = ContentType
	w.CRC32C = crc32.Checksum(data, castagnoli)
	w.SendCRC32C = true
	if err := fileio.WriteAll(w, data, fileio.DefaultChunkSize, nil); err != nil {
		w.Close()
		return fmt.Errorf("gcsstore: write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcsstore: finalize %s: %w", name, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
