// Package fileio reads and writes whole buffers in fixed-size chunks.
package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/discochess/squeeze/internal/progress"
)

// DefaultChunkSize is the chunk size used when none is given.
const DefaultChunkSize = 8 * 1024

// ErrChunkSize indicates a chunk size that is not positive.
var ErrChunkSize = errors.New("fileio: chunk size must be positive")

// ChunkReader reads sequential chunks from an io.Reader.
type ChunkReader struct {
	r   io.Reader
	eof bool
}

// NewChunkReader returns a ChunkReader reading from r.
func NewChunkReader(r io.Reader) *ChunkReader {
	return &ChunkReader{r: r}
}

// Read returns the next chunk of at most max bytes. Only the last chunk may
// be shorter than max. At the end of input it returns nil, io.EOF.
func (c *ChunkReader) Read(max int) ([]byte, error) {
	if max <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrChunkSize, max)
	}
	if c.eof {
		return nil, io.EOF
	}

	buf := make([]byte, max)
	n, err := io.ReadFull(c.r, buf)
	switch {
	case errors.Is(err, io.EOF):
		c.eof = true
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		c.eof = true
		return buf[:n], nil
	case err != nil:
		return nil, err
	}
	return buf, nil
}

// ReadAll reads r to the end in chunks of chunkSize, recording each chunk
// with rep.
func ReadAll(r io.Reader, chunkSize int, rep *progress.Reporter) ([]byte, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrChunkSize, chunkSize)
	}
	cr := NewChunkReader(r)
	var out []byte
	for {
		chunk, err := cr.Read(chunkSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		rep.Add(int64(len(chunk)))
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// WriteAll writes data to w in chunks of chunkSize.
func WriteAll(w io.Writer, data []byte, chunkSize int, rep *progress.Reporter) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: %d", ErrChunkSize, chunkSize)
	}
	for len(data) > 0 {
		n := min(chunkSize, len(data))
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		rep.Add(int64(n))
		data = data[n:]
	}
	return nil
}

// ReadFile reads the named file in chunks.
func ReadFile(path string, chunkSize int, rep *progress.Reporter) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAll(f, chunkSize, rep)
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so path is either left untouched or fully written.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = WriteAll(tmp, data, DefaultChunkSize, nil); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
