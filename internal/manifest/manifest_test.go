package manifest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/discochess/squeeze/internal/store"
	"github.com/discochess/squeeze/internal/store/memstore"
)

func TestWriteRead(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	m := &Manifest{
		Version:   Version,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Entries: []Entry{
			{Path: "a.txt", Object: "objects/a.txt.rle", Algorithm: "rle", OriginalSize: 10, CompressedSize: 14, Checksum: Checksum([]byte("0123456789"))},
			{Path: "dir/b.bin", Object: "objects/dir/b.bin.lzw", Algorithm: "lzw", OriginalSize: 100, CompressedSize: 40, Checksum: "abc"},
		},
	}
	if err := Write(ctx, st, m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(ctx, st)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !got.CreatedAt.Equal(m.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, m.CreatedAt)
	}
	if len(got.Entries) != 2 || got.Entries[1] != m.Entries[1] {
		t.Errorf("Entries = %+v, want %+v", got.Entries, m.Entries)
	}
	if got.TotalOriginal() != 110 {
		t.Errorf("TotalOriginal() = %d, want 110", got.TotalOriginal())
	}
	if got.TotalCompressed() != 54 {
		t.Errorf("TotalCompressed() = %d, want 54", got.TotalCompressed())
	}
}

func TestRead_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := Read(ctx, memstore.New()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Read() on empty store error = %v, want ErrNotFound", err)
	}

	st := memstore.New()
	st.WriteObject(ctx, Filename, []byte("{not json"))
	if _, err := Read(ctx, st); err == nil {
		t.Error("Read() of invalid JSON should fail")
	}

	st.WriteObject(ctx, Filename, []byte(`{"version": 99}`))
	if _, err := Read(ctx, st); err == nil {
		t.Error("Read() of unknown version should fail")
	}
}

func TestEntry_Matches(t *testing.T) {
	data := []byte("payload")
	e := Entry{OriginalSize: int64(len(data)), Checksum: Checksum(data)}

	if !e.Matches(data) {
		t.Error("Matches() = false for original data")
	}
	if e.Matches([]byte("paylOad")) {
		t.Error("Matches() = true for modified data")
	}
	if e.Matches([]byte("payload!")) {
		t.Error("Matches() = true for longer data")
	}
}
