//go:build e2e

package squeeze_test

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/discochess/squeeze"
	"github.com/discochess/squeeze/internal/manifest"
	"github.com/discochess/squeeze/internal/store/cachedstore"
	"github.com/discochess/squeeze/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/squeeze/internal/store/cachedstore/memory"
	"github.com/discochess/squeeze/internal/store/diskstore"
)

func TestE2E_PackWithCLI(t *testing.T) {
	tmpDir := t.TempDir()
	corpusDir := filepath.Join(tmpDir, "corpus")
	packDir := filepath.Join(tmpDir, "pack")

	// Step 1: Generate a corpus.
	corpus := writeCorpus(t, corpusDir)
	t.Logf("Generated %d files", len(corpus))

	// Step 2: Pack it with the CLI.
	start := time.Now()
	runCLI(t, "pack", corpusDir, "-o", packDir, "--workers", "4")
	t.Logf("Packed in %v", time.Since(start))

	// Step 3: Read every entry back through a cached disk store.
	base, err := diskstore.New(packDir)
	if err != nil {
		t.Fatalf("Error opening pack: %v", err)
	}
	lruStrategy, _ := lru.New(16)
	st := cachedstore.New(base, memory.New(lruStrategy, nil))
	defer st.Close()

	engine, err := squeeze.New()
	if err != nil {
		t.Fatalf("Error creating engine: %v", err)
	}
	defer engine.Close()

	ctx := context.Background()
	m, err := manifest.Read(ctx, st)
	if err != nil {
		t.Fatalf("Error reading manifest: %v", err)
	}
	if len(m.Entries) != len(corpus) {
		t.Fatalf("manifest has %d entries, want %d", len(m.Entries), len(corpus))
	}

	for _, e := range m.Entries {
		enc, err := st.ReadObject(ctx, e.Object)
		if err != nil {
			t.Fatalf("Error reading %s: %v", e.Object, err)
		}
		data, _, err := engine.Decompress(ctx, squeeze.Algorithm(e.Algorithm), enc)
		if err != nil {
			t.Fatalf("Error decoding %s: %v", e.Path, err)
		}
		if !bytes.Equal(data, corpus[e.Path]) {
			t.Errorf("%s differs after round trip", e.Path)
		}
		t.Logf("  %-12s %-8s %8d -> %8d", e.Path, e.Algorithm, e.OriginalSize, e.CompressedSize)
	}
	t.Logf("Total: %d -> %d bytes", m.TotalOriginal(), m.TotalCompressed())
}

func TestE2E_CompressEveryAlgorithm(t *testing.T) {
	tmpDir := t.TempDir()
	corpus := writeCorpus(t, tmpDir)
	in := filepath.Join(tmpDir, "text.txt")

	for _, algo := range []string{"rle", "huffman", "lzw", "zstd", "gzip", "s2", "store"} {
		out := filepath.Join(tmpDir, "out."+algo)
		restored := filepath.Join(tmpDir, "restored."+algo)
		runCLI(t, "compress", "-a", algo, in, out)
		runCLI(t, "decompress", "-a", algo, out, restored)

		got, err := os.ReadFile(restored)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		if !bytes.Equal(got, corpus["text.txt"]) {
			t.Errorf("%s: round trip differs", algo)
		}
	}
}

func runCLI(t *testing.T, args ...string) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "./cmd/squeeze", "--quiet"}, args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("squeeze %s: %v", strings.Join(args, " "), err)
	}
}

func writeCorpus(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))

	random := make([]byte, 256<<10)
	rng.Read(random)

	var text strings.Builder
	words := []string{"squeeze", "huffman", "lempel", "ziv", "welch", "run", "length", "code"}
	for text.Len() < 2<<20 {
		text.WriteString(words[rng.Intn(len(words))])
		text.WriteByte(' ')
	}

	corpus := map[string][]byte{
		"text.txt":       []byte(text.String()),
		"random.bin":     random,
		"runs/zeros.bin": make([]byte, 64<<10),
		"empty":          {},
	}
	for rel, data := range corpus {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return corpus
}
