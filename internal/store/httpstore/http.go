// Package httpstore implements a read-only store over HTTP GET.
package httpstore

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/discochess/squeeze/internal/fileio"
	"github.com/discochess/squeeze/internal/progress"
	"github.com/discochess/squeeze/internal/store"
)

// DefaultResponseHeaderTimeout is the default timeout for receiving response headers.
const DefaultResponseHeaderTimeout = 30 * time.Second

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store reads objects relative to a base URL. Writes fail with
// store.ErrReadOnly.
type Store struct {
	client   *http.Client
	baseURL  string
	progress progress.Sink
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		s.client = client
	}
}

// WithTimeout sets the overall timeout of each request.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.client = &http.Client{
			Timeout: timeout,
		}
	}
}

// WithProgress reports download progress to sink. Responses without a
// Content-Length are not reported.
func WithProgress(sink progress.Sink) Option {
	return func(s *Store) {
		s.progress = sink
	}
}

// New creates a store for objects below baseURL. An empty key addresses
// baseURL itself.
func New(baseURL string, opts ...Option) *Store {
	s := &Store{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 0, // No overall timeout - we handle it per-request.
			Transport: &http.Transport{
				ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadObject downloads the object at key.
func (s *Store) ReadObject(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(key), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var rep *progress.Reporter
	if resp.ContentLength > 0 {
		rep = progress.NewReporter(s.progress, resp.ContentLength, progress.DefaultInterval)
	}
	data, err := fileio.ReadAll(resp.Body, 32*1024, rep)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	rep.Finish()
	return data, nil
}

// WriteObject always fails with store.ErrReadOnly.
func (s *Store) WriteObject(ctx context.Context, key string, data []byte) error {
	return fmt.Errorf("%w: cannot write %s over HTTP", store.ErrReadOnly, key)
}

// Close releases idle connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Store) url(key string) string {
	if key == "" {
		return s.baseURL
	}
	return strings.TrimSuffix(s.baseURL, "/") + "/" + strings.TrimPrefix(key, "/")
}
