// Package batch packs a directory tree into a store, one compressed object
// per file plus a manifest, and restores or verifies such packs.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/squeeze"
	"github.com/discochess/squeeze/internal/fileio"
	"github.com/discochess/squeeze/internal/manifest"
	"github.com/discochess/squeeze/internal/progress"
	"github.com/discochess/squeeze/internal/store"
	"github.com/discochess/squeeze/internal/store/diskstore"
)

// ObjectsDir is the key prefix of compressed objects in a pack.
const ObjectsDir = "objects"

// ErrChecksumMismatch indicates restored data differs from what was packed.
var ErrChecksumMismatch = errors.New("batch: checksum mismatch")

// Batch packs and restores directory trees using an Engine.
type Batch struct {
	engine    *squeeze.Engine
	algorithm squeeze.Algorithm
	workers   int
	progress  progress.Sink
	logger    *zap.Logger
}

// Option configures a Batch.
type Option func(*Batch)

// WithWorkers sets the number of files processed concurrently.
func WithWorkers(n int) Option {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithAlgorithm sets the algorithm used by Pack. The default, squeeze.Auto,
// lets the engine choose per file.
func WithAlgorithm(algo squeeze.Algorithm) Option {
	return func(b *Batch) { b.algorithm = algo }
}

// WithProgress sets a sink that receives the number of completed files.
func WithProgress(sink progress.Sink) Option {
	return func(b *Batch) { b.progress = sink }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Batch) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a Batch that compresses with engine.
func New(engine *squeeze.Engine, opts ...Option) *Batch {
	b := &Batch{
		engine:  engine,
		workers: runtime.GOMAXPROCS(0),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Pack compresses every regular file under srcDir into out and writes the
// manifest last. Entries are ordered by path.
func (b *Batch) Pack(ctx context.Context, srcDir string, out store.Store) (*manifest.Manifest, error) {
	startTime := time.Now()

	files, err := listFiles(srcDir)
	if err != nil {
		return nil, err
	}
	b.logger.Info("packing",
		zap.String("source", srcDir),
		zap.Int("files", len(files)),
		zap.Int("workers", b.workers),
	)

	entries := make([]manifest.Entry, len(files))
	done := b.counter(len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, rel := range files {
		g.Go(func() error {
			entry, err := b.packFile(gctx, srcDir, rel, out)
			if err != nil {
				return fmt.Errorf("packing %s: %w", rel, err)
			}
			entries[i] = *entry
			done()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &manifest.Manifest{
		Version:   manifest.Version,
		CreatedAt: time.Now().UTC(),
		Entries:   entries,
	}
	if err := manifest.Write(ctx, out, m); err != nil {
		return nil, err
	}

	b.logger.Info("pack complete",
		zap.Int("files", len(entries)),
		zap.Int64("originalBytes", m.TotalOriginal()),
		zap.Int64("compressedBytes", m.TotalCompressed()),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	return m, nil
}

func (b *Batch) packFile(ctx context.Context, srcDir, rel string, out store.Store) (*manifest.Entry, error) {
	data, err := fileio.ReadFile(filepath.Join(srcDir, filepath.FromSlash(rel)), fileio.DefaultChunkSize, nil)
	if err != nil {
		return nil, err
	}
	enc, st, err := b.engine.Compress(ctx, b.algorithm, data)
	if err != nil {
		return nil, err
	}
	ext, err := b.engine.Extension(st.Algorithm)
	if err != nil {
		return nil, err
	}
	object := path.Join(ObjectsDir, rel) + "." + ext
	if err := out.WriteObject(ctx, object, enc); err != nil {
		return nil, err
	}

	b.logger.Debug("packed file",
		zap.String("path", rel),
		zap.String("algorithm", string(st.Algorithm)),
		zap.Int64("originalBytes", st.OriginalSize),
		zap.Int64("compressedBytes", st.EncodedSize),
	)
	return &manifest.Entry{
		Path:           rel,
		Object:         object,
		Algorithm:      string(st.Algorithm),
		OriginalSize:   st.OriginalSize,
		CompressedSize: st.EncodedSize,
		Checksum:       manifest.Checksum(data),
	}, nil
}

// Unpack restores every file of the pack in src below outDir.
func (b *Batch) Unpack(ctx context.Context, src store.Store, outDir string) (*manifest.Manifest, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	dst, err := diskstore.New(outDir)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	return b.restore(ctx, src, func(ctx context.Context, e *manifest.Entry, data []byte) error {
		return dst.WriteObject(ctx, e.Path, data)
	})
}

// Verify decodes every entry of the pack in src and checks it against the
// manifest without writing anything.
func (b *Batch) Verify(ctx context.Context, src store.Store) (*manifest.Manifest, error) {
	return b.restore(ctx, src, nil)
}

type sinkFunc func(ctx context.Context, e *manifest.Entry, data []byte) error

func (b *Batch) restore(ctx context.Context, src store.Store, sink sinkFunc) (*manifest.Manifest, error) {
	m, err := manifest.Read(ctx, src)
	if err != nil {
		return nil, err
	}
	done := b.counter(len(m.Entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range m.Entries {
		e := &m.Entries[i]
		g.Go(func() error {
			data, err := b.restoreEntry(gctx, src, e)
			if err != nil {
				return fmt.Errorf("restoring %s: %w", e.Path, err)
			}
			if sink != nil {
				if err := sink(gctx, e, data); err != nil {
					return fmt.Errorf("restoring %s: %w", e.Path, err)
				}
			}
			done()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.logger.Info("restore complete",
		zap.Int("files", len(m.Entries)),
		zap.Int64("originalBytes", m.TotalOriginal()),
	)
	return m, nil
}

func (b *Batch) restoreEntry(ctx context.Context, src store.Store, e *manifest.Entry) ([]byte, error) {
	enc, err := src.ReadObject(ctx, e.Object)
	if err != nil {
		return nil, err
	}
	data, _, err := b.engine.Decompress(ctx, squeeze.Algorithm(e.Algorithm), enc)
	if err != nil {
		return nil, err
	}
	if !e.Matches(data) {
		return nil, fmt.Errorf("%w: got %d bytes with checksum %s, want %d bytes with checksum %s",
			ErrChecksumMismatch, len(data), manifest.Checksum(data), e.OriginalSize, e.Checksum)
	}
	return data, nil
}

// counter returns a func that records one completed file. Sink calls are
// serialized.
func (b *Batch) counter(total int) func() {
	if b.progress == nil {
		return func() {}
	}
	var (
		mu sync.Mutex
		n  int64
	)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		n++
		b.progress.OnProgress(n, int64(total))
	}
}

// listFiles returns the slash-separated paths of all regular files under
// root, sorted.
func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}
