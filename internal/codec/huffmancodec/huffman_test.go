package huffmancodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"

	"github.com/discochess/squeeze/internal/progress"
)

func roundTrip(t *testing.T, data []byte) []byte {
	t.Helper()
	c := New()
	enc, err := c.Compress(data, nil)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	dec, err := c.Decompress(enc, nil)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(dec), len(data))
	}
	return enc
}

func TestCodec_Names(t *testing.T) {
	c := New()
	if c.Name() != "huffman" {
		t.Errorf("Name() = %q, want huffman", c.Name())
	}
	if c.Extension() != "huf" {
		t.Errorf("Extension() = %q, want huf", c.Extension())
	}
}

func TestCodec_Empty(t *testing.T) {
	enc := roundTrip(t, nil)
	if len(enc) != 0 {
		t.Errorf("Compress(empty) = %x, want empty", enc)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	full := make([]byte, 256)
	for i := range full {
		full[i] = byte(i)
	}
	rng := rand.New(rand.NewSource(11))
	random := make([]byte, 10000)
	rng.Read(random)

	tests := []struct {
		name string
		data []byte
	}{
		{"single byte", []byte{0x7F}},
		{"repetitive", []byte("AAAAABBBCC")},
		{"full alphabet", full},
		{"text", bytes.Repeat([]byte("to be or not to be "), 50)},
		{"random", random},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roundTrip(t, tt.data)
		})
	}
}

func TestCodec_ContainerLayout(t *testing.T) {
	enc := roundTrip(t, []byte("AAAAABBBCC"))
	want := []byte{
		0x00, 0x00, 0x00, 0x08, // tree length
		0x00, 0x01, 'A', 0x00, 0x01, 'C', 0x01, 'B', // tree
		0x01,       // padding
		0x07, 0xF4, // 00000 111111 1010 + 0
	}
	if !bytes.Equal(enc, want) {
		t.Errorf("Compress() = %x, want %x", enc, want)
	}
}

func TestCodec_FullAlphabetLeaves(t *testing.T) {
	full := make([]byte, 256)
	for i := range full {
		full[i] = byte(i)
	}
	enc := roundTrip(t, full)
	h, err := Inspect(enc)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if h.Leaves != 256 {
		t.Errorf("Leaves = %d, want 256", h.Leaves)
	}
	if h.PayloadBits != 256*8 {
		t.Errorf("PayloadBits = %d, want %d", h.PayloadBits, 256*8)
	}
}

func TestCodec_DegenerateAlphabet(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 10000)
	enc := roundTrip(t, data)

	// 4-byte header, 2-byte tree, padding byte, one bit per symbol.
	if want := 4 + 2 + 1 + 10000/8; len(enc) != want {
		t.Errorf("len(Compress()) = %d, want %d", len(enc), want)
	}
}

func TestCodec_Progress(t *testing.T) {
	data := bytes.Repeat([]byte("progress "), 100)
	var last int64
	rep := progress.NewReporter(progress.SinkFunc(func(processed, total int64) {
		last = processed
	}), int64(len(data)), 1)

	if _, err := New().Compress(data, rep); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if got := rep.Processed(); got != int64(len(data)) {
		t.Errorf("Processed() = %d, want %d", got, len(data))
	}
	if last != int64(len(data)) {
		t.Errorf("last progress = %d, want %d", last, len(data))
	}
}

func TestDecompress_InvalidTreeData(t *testing.T) {
	enc := roundTrip(t, []byte("hello"))
	treeLen := int(binary.BigEndian.Uint32(enc))

	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0x00, 0x00}},
		{"tree cut short", enc[:4+treeLen-1]},
		{"length beyond input", []byte("invalid data")},
		{"bad tree", []byte{0x00, 0x00, 0x00, 0x01, 0x05, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New().Decompress(tt.data, nil); !errors.Is(err, ErrInvalidTreeData) {
				t.Errorf("Decompress() error = %v, want ErrInvalidTreeData", err)
			}
		})
	}
}

func TestDecompress_CorruptStream(t *testing.T) {
	enc := roundTrip(t, []byte("AAAAABBBCC"))
	padIndex := 4 + 8

	with := func(mutate func(b []byte) []byte) []byte {
		b := append([]byte(nil), enc...)
		return mutate(b)
	}

	single, err := New().Compress([]byte("AAAAAAAAAA"), nil)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	single[len(single)-2] = 0x80

	tests := []struct {
		name string
		data []byte
	}{
		{"missing padding byte", enc[:padIndex]},
		{"padding out of range", with(func(b []byte) []byte { b[padIndex] = 8; return b })},
		{"padding without data", with(func(b []byte) []byte { b[padIndex] = 3; return b[:padIndex+1] })},
		{"unterminated code", with(func(b []byte) []byte {
			b[padIndex] = 7
			return append(b[:padIndex+1], 0x80)
		})},
		{"one bit in single-symbol stream", single},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New().Decompress(tt.data, nil); !errors.Is(err, ErrCorruptStream) {
				t.Errorf("Decompress() error = %v, want ErrCorruptStream", err)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	enc := roundTrip(t, []byte("AAAAABBBCC"))
	h, err := Inspect(enc)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	want := Header{TreeLen: 8, Leaves: 3, Padding: 1, PayloadBits: 15}
	if *h != want {
		t.Errorf("Inspect() = %+v, want %+v", *h, want)
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("AAAAABBBCC"))
	f.Add([]byte{0x00, 0xFF, 0x00})
	f.Fuzz(func(t *testing.T, data []byte) {
		c := New()
		enc, err := c.Compress(data, nil)
		if err != nil {
			t.Fatalf("Compress() error = %v", err)
		}
		dec, err := c.Decompress(enc, nil)
		if err != nil {
			t.Fatalf("Decompress() error = %v", err)
		}
		if !bytes.Equal(dec, data) {
			t.Fatalf("round trip mismatch for %x", data)
		}
	})
}
