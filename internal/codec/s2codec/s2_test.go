package s2codec

import (
	"bytes"
	"testing"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "s2" {
		t.Errorf("Extension() = %q, want %q", got, "s2")
	}
	if got := c.Name(); got != "s2" {
		t.Errorf("Name() = %q, want %q", got, "s2")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"text", []byte("Hello, World! This is test data for s2 compression.")},
		{"large", bytes.Repeat([]byte("ABCDEFGHIJ"), 10000)},
	}
	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := c.Compress(tt.data, nil)
			if err != nil {
				t.Fatalf("Compress() error = %v", err)
			}
			if len(tt.data) > 1000 && len(compressed) >= len(tt.data) {
				t.Errorf("Expected compression, got %d bytes from %d bytes", len(compressed), len(tt.data))
			}
			decompressed, err := c.Decompress(compressed, nil)
			if err != nil {
				t.Fatalf("Decompress() error = %v", err)
			}
			if !bytes.Equal(decompressed, tt.data) {
				t.Errorf("Round-trip failed: got %d bytes, want %d", len(decompressed), len(tt.data))
			}
		})
	}
}

func TestCodec_Decompress_InvalidData(t *testing.T) {
	if _, err := New().Decompress([]byte("not s2 data"), nil); err == nil {
		t.Error("Decompress() expected error for invalid s2 data, got nil")
	}
}
