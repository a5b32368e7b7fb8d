package noopcodec

import (
	"bytes"
	"testing"
)

func TestCodec_Copies(t *testing.T) {
	c := New()
	src := []byte("unchanged")

	enc, err := c.Compress(src, nil)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if !bytes.Equal(enc, src) {
		t.Errorf("Compress() = %q, want %q", enc, src)
	}
	enc[0] = 'X'
	if src[0] != 'u' {
		t.Error("Compress() returned a slice aliasing its input")
	}

	dec, err := c.Decompress([]byte("raw"), nil)
	if err != nil || string(dec) != "raw" {
		t.Errorf("Decompress() = %q, %v, want raw, nil", dec, err)
	}
	if c.Name() != "store" || c.Extension() != "raw" {
		t.Errorf("Name(), Extension() = %q, %q, want store, raw", c.Name(), c.Extension())
	}
}
