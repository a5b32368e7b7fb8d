// Package manifest describes the contents of a pack: one entry per packed
// file with its algorithm, sizes and checksum.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/discochess/squeeze/internal/store"
)

// Filename is the key the manifest is stored under.
const Filename = "manifest.json"

// Version is the current manifest format version.
const Version = 1

// Manifest contains metadata about a pack.
type Manifest struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []Entry   `json:"entries"`
}

// Entry describes one packed file.
type Entry struct {
	// Path is the slash-separated path of the file relative to the packed root.
	Path string `json:"path"`

	// Object is the store key of the compressed data.
	Object string `json:"object"`

	Algorithm      string `json:"algorithm"`
	OriginalSize   int64  `json:"original_size"`
	CompressedSize int64  `json:"compressed_size"`

	// Checksum is the xxhash64 of the original data in hex.
	Checksum string `json:"checksum"`
}

// Checksum returns the hex xxhash64 of data.
func Checksum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Matches reports whether data has the entry's size and checksum.
func (e *Entry) Matches(data []byte) bool {
	return int64(len(data)) == e.OriginalSize && Checksum(data) == e.Checksum
}

// TotalOriginal returns the summed original size of all entries.
func (m *Manifest) TotalOriginal() int64 {
	var n int64
	for _, e := range m.Entries {
		n += e.OriginalSize
	}
	return n
}

// TotalCompressed returns the summed compressed size of all entries.
func (m *Manifest) TotalCompressed() int64 {
	var n int64
	for _, e := range m.Entries {
		n += e.CompressedSize
	}
	return n
}

// Write stores the manifest in st.
func Write(ctx context.Context, st store.Store, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := st.WriteObject(ctx, Filename, data); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Read loads the manifest from st.
func Read(ctx context.Context, st store.Store) (*Manifest, error) {
	data, err := st.ReadObject(ctx, Filename)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	return &m, nil
}
