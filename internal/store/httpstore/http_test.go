package httpstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/discochess/squeeze/internal/progress"
	"github.com/discochess/squeeze/internal/store"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/data.lzw", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("compressed bytes"))
	})
	mux.HandleFunc("/files/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStore_ReadObject(t *testing.T) {
	srv := newServer(t)

	var last int64
	s := New(srv.URL+"/files/", WithProgress(progress.SinkFunc(func(processed, total int64) {
		last = processed
	})))
	defer s.Close()

	got, err := s.ReadObject(context.Background(), "data.lzw")
	if err != nil {
		t.Fatalf("ReadObject() error = %v", err)
	}
	if string(got) != "compressed bytes" {
		t.Errorf("ReadObject() = %q, want %q", got, "compressed bytes")
	}
	if last != int64(len("compressed bytes")) {
		t.Errorf("last progress = %d, want %d", last, len("compressed bytes"))
	}
}

func TestStore_ReadObject_FullURL(t *testing.T) {
	srv := newServer(t)
	s := New(srv.URL+"/files/data.lzw", WithTimeout(5*time.Second))

	got, err := s.ReadObject(context.Background(), "")
	if err != nil {
		t.Fatalf("ReadObject() error = %v", err)
	}
	if string(got) != "compressed bytes" {
		t.Errorf("ReadObject() = %q", got)
	}
}

func TestStore_ReadObject_Errors(t *testing.T) {
	srv := newServer(t)
	s := New(srv.URL + "/files")
	ctx := context.Background()

	if _, err := s.ReadObject(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadObject(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.ReadObject(ctx, "broken"); err == nil {
		t.Error("ReadObject(broken) expected error, got nil")
	}
}

func TestStore_WriteObject_ReadOnly(t *testing.T) {
	s := New("http://example.invalid", WithHTTPClient(http.DefaultClient))
	if err := s.WriteObject(context.Background(), "x", nil); !errors.Is(err, store.ErrReadOnly) {
		t.Errorf("WriteObject() error = %v, want ErrReadOnly", err)
	}
}
