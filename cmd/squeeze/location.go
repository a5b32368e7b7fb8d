package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/discochess/squeeze/internal/fileio"
	"github.com/discochess/squeeze/internal/progress"
	"github.com/discochess/squeeze/internal/store"
	"github.com/discochess/squeeze/internal/store/diskstore"
	"github.com/discochess/squeeze/internal/store/gcsstore"
	"github.com/discochess/squeeze/internal/store/httpstore"
	"github.com/discochess/squeeze/internal/store/s3store"
)

// Location kinds.
const (
	kindLocal = "local"
	kindStdio = "stdio"
	kindS3    = "s3"
	kindGCS   = "gs"
	kindHTTP  = "http"
)

// location is a parsed CLI input or output argument.
type location struct {
	kind string

	// bucket and key are set for s3 and gs; key is the object key or prefix.
	bucket string
	key    string

	// raw is the argument as given; for local paths it is the file path and
	// for http the URL.
	raw string
}

func parseLocation(s string) location {
	switch {
	case s == "-":
		return location{kind: kindStdio, raw: s}
	case strings.HasPrefix(s, "s3://"):
		bucket, key, _ := strings.Cut(strings.TrimPrefix(s, "s3://"), "/")
		return location{kind: kindS3, bucket: bucket, key: key, raw: s}
	case strings.HasPrefix(s, "gs://"):
		bucket, key, _ := strings.Cut(strings.TrimPrefix(s, "gs://"), "/")
		return location{kind: kindGCS, bucket: bucket, key: key, raw: s}
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return location{kind: kindHTTP, raw: s}
	}
	return location{kind: kindLocal, raw: s}
}

// ext returns the extension of the location's final path element,
// including the dot.
func (l location) ext() string {
	switch l.kind {
	case kindS3, kindGCS:
		return path.Ext(l.key)
	case kindHTTP:
		p := l.raw
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
		return path.Ext(p)
	case kindLocal:
		return filepath.Ext(l.raw)
	}
	return ""
}

// object opens the store holding a single-object location and returns the
// key of the object within it.
func (l location) object(ctx context.Context, sink progress.Sink) (store.Store, string, error) {
	switch l.kind {
	case kindS3:
		if l.bucket == "" || l.key == "" {
			return nil, "", fmt.Errorf("invalid location %q: want s3://bucket/key", l.raw)
		}
		st, err := s3store.New(ctx, l.bucket)
		return st, l.key, err
	case kindGCS:
		if l.bucket == "" || l.key == "" {
			return nil, "", fmt.Errorf("invalid location %q: want gs://bucket/key", l.raw)
		}
		st, err := gcsstore.New(ctx, l.bucket, gcsOptions()...)
		return st, l.key, err
	case kindHTTP:
		return httpstore.New(l.raw, httpstore.WithProgress(sink)), "", nil
	case kindLocal:
		dir, name := filepath.Split(l.raw)
		if dir == "" {
			dir = "."
		}
		st, err := diskstore.New(dir)
		return st, name, err
	}
	return nil, "", fmt.Errorf("location %q is not an object", l.raw)
}

// dir opens a store rooted at a directory-like location. Local directories
// are created when create is set.
func (l location) dir(ctx context.Context, create bool) (store.Store, error) {
	switch l.kind {
	case kindS3:
		return s3store.New(ctx, l.bucket, s3store.WithPrefix(l.key))
	case kindGCS:
		return gcsstore.New(ctx, l.bucket, append(gcsOptions(), gcsstore.WithPrefix(l.key))...)
	case kindHTTP:
		return httpstore.New(l.raw), nil
	case kindLocal:
		if create {
			if err := os.MkdirAll(l.raw, 0o755); err != nil {
				return nil, fmt.Errorf("creating %s: %w", l.raw, err)
			}
		}
		return diskstore.New(l.raw)
	}
	return nil, fmt.Errorf("location %q is not a directory", l.raw)
}

// readLocation reads the whole input named by arg.
func readLocation(cmd *cobra.Command, arg string) ([]byte, error) {
	ctx := cmd.Context()
	loc := parseLocation(arg)
	if loc.kind == kindStdio {
		return fileio.ReadAll(cmd.InOrStdin(), fileio.DefaultChunkSize, nil)
	}

	var sink progress.Sink
	if !quiet {
		sink = progress.NewBar(cmd.ErrOrStderr(), "download")
	}
	st, key, err := loc.object(ctx, sink)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	data, err := st.ReadObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", arg, err)
	}
	return data, nil
}

// writeLocation writes data to the output named by arg. Local files are
// replaced atomically.
func writeLocation(cmd *cobra.Command, arg string, data []byte) error {
	ctx := cmd.Context()
	loc := parseLocation(arg)
	if loc.kind == kindStdio {
		return fileio.WriteAll(cmd.OutOrStdout(), data, fileio.DefaultChunkSize, nil)
	}

	st, key, err := loc.object(ctx, nil)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.WriteObject(ctx, key, data); err != nil {
		if errors.Is(err, store.ErrReadOnly) {
			return fmt.Errorf("cannot write to %s: %w", arg, err)
		}
		return fmt.Errorf("writing %s: %w", arg, err)
	}
	return nil
}

func gcsOptions() []gcsstore.Option {
	if anonymous {
		return []gcsstore.Option{gcsstore.WithClientOptions(option.WithoutAuthentication())}
	}
	return nil
}
