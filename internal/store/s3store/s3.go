// Package s3store stores objects in an AWS S3 (or S3-compatible) bucket.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/discochess/squeeze/internal/fileio"
	"github.com/discochess/squeeze/internal/store"
)

// ContentType is set on every uploaded object.
const ContentType = "application/octet-stream"

var _ store.Store = (*Store)(nil)

// Store reads and writes objects under an optional prefix of one bucket.
// Uploads carry a CRC32C checksum that S3 verifies before accepting them.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

type settings struct {
	region   string
	endpoint string
	prefix   string
}

// Option configures a Store.
type Option func(*settings)

// WithPrefix places every key under prefix.
func WithPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = store.NormalizePrefix(prefix)
	}
}

// WithRegion overrides the region from the shared AWS configuration.
func WithRegion(region string) Option {
	return func(s *settings) {
		s.region = region
	}
}

// WithEndpoint points the client at an S3-compatible service such as MinIO.
// Path-style addressing is used.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) {
		s.endpoint = endpoint
	}
}

// New returns a Store for bucketName, which must already exist. Credentials
// come from the default AWS chain.
func New(ctx context.Context, bucketName string, opts ...Option) (*Store, error) {
	var set settings
	for _, opt := range opts {
		opt(&set)
	}

	var loadOpts []func(*config.LoadOptions) error
	if set.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(set.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3store: loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if set.endpoint != "" {
			o.BaseEndpoint = aws.String(set.endpoint)
			o.UsePathStyle = true
		}
	})
	return &Store{client: client, bucket: bucketName, prefix: set.prefix}, nil
}

func (s *Store) ReadObject(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := store.ObjectName(s.prefix, key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: s3://%s/%s", store.ErrNotFound, s.bucket, name)
		}
		return nil, fmt.Errorf("s3store: get %s: %w", name, err)
	}
	defer out.Body.Close()

	data, err := fileio.ReadAll(out.Body, fileio.DefaultChunkSize, nil)
	if err != nil {
		return nil, fmt.Errorf("s3store: read %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) WriteObject(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := store.ObjectName(s.prefix, key)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(s.bucket),
		Key:               aws.String(name),
		Body:              bytes.NewReader(data),
		ContentLength:     aws.Int64(int64(len(data))),
		ContentType:       aws.String(ContentType),
		ChecksumAlgorithm: types.ChecksumAlgorithmCrc32c,
	})
	if err != nil {
		return fmt.Errorf("s3store: put %s: %w", name, err)
	}
	return nil
}

// Close is a no-op; the S3 client holds no resources that need releasing.
func (s *Store) Close() error {
	return nil
}
