package gcsstore

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/option"

	"github.com/discochess/squeeze/internal/store"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append(opts, WithClientOptions(option.WithoutAuthentication()))
	s, err := New(context.Background(), "squeeze-test", opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_AppliesOptions(t *testing.T) {
	s := newTestStore(t, WithPrefix("data/v1"))

	if s.prefix != "data/v1/" {
		t.Errorf("prefix = %q, want data/v1/", s.prefix)
	}
	if got := s.bucket.BucketName(); got != "squeeze-test" {
		t.Errorf("BucketName() = %q, want squeeze-test", got)
	}
}

func TestStore_RejectsInvalidKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.ReadObject(ctx, "objects/../../x"); !errors.Is(err, store.ErrInvalidKey) {
		t.Errorf("ReadObject() error = %v, want ErrInvalidKey", err)
	}
	if err := s.WriteObject(ctx, "/", []byte("x")); !errors.Is(err, store.ErrInvalidKey) {
		t.Errorf("WriteObject() error = %v, want ErrInvalidKey", err)
	}
}

func TestStore_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.ReadObject(ctx, "input.txt"); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadObject() error = %v, want context.Canceled", err)
	}
	if err := s.WriteObject(ctx, "input.txt.zst", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("WriteObject() error = %v, want context.Canceled", err)
	}
}
