package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/apibody/input"
	"github.com/ardnew/apibody/log"
	"github.com/ardnew/apibody/schema"
)

// stdinSource is the special source name for reading from stdin.
const stdinSource = "-"

type (
	contextKey       struct{}
	schemaOptionsKey struct{}
	cacheKey         struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithSchemaOptions returns a new context.Context carrying the options every
// command parses and builds schemas with.
func WithSchemaOptions(ctx context.Context, opts ...schema.Option) context.Context {
	return context.WithValue(ctx, schemaOptionsKey{}, opts)
}

func schemaOptionsFrom(ctx context.Context) []schema.Option {
	opts, _ := ctx.Value(schemaOptionsKey{}).([]schema.Option)

	return opts
}

// WithCache returns a new context.Context carrying the cache commands parse
// schemas through.
func WithCache(ctx context.Context, cache *schema.Cache) context.Context {
	return context.WithValue(ctx, cacheKey{}, cache)
}

func cacheFrom(ctx context.Context) *schema.Cache {
	if c, ok := ctx.Value(cacheKey{}).(*schema.Cache); ok && c != nil {
		return c
	}

	return new(schema.Cache)
}

// inputOptions returns the options inputs are read and evaluated with.
func inputOptions() []input.Option {
	return []input.Option{input.WithLogger(log.Default())}
}

// loadSchema reads and parses the named schema file, or stdin for "-".
func loadSchema(ctx context.Context, name string) (*schema.Schema, error) {
	text, err := readSource(name)
	if err != nil {
		return nil, err
	}

	s, err := cacheFrom(ctx).Parse(ctx, text, schemaOptionsFrom(ctx)...)
	if err != nil {
		return nil, withSource(err, name)
	}

	log.DebugContext(ctx, "schema loaded",
		slog.String("source", sourceName(name)),
		slog.Int("params", len(s.Params())))

	return s, nil
}

// readSource returns the contents of the named file, or of stdin for "-".
func readSource(name string) (string, error) {
	var r io.Reader = os.Stdin

	if name != stdinSource {
		f, err := os.Open(name)
		if err != nil {
			return "", ErrReadSchema.Wrap(err).
				With(slog.String("source", name))
		}
		defer f.Close()

		r = f
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadSchema.Wrap(err).
			With(slog.String("source", sourceName(name)))
	}

	return string(data), nil
}

func sourceName(name string) string {
	if name == stdinSource {
		return "stdin"
	}

	return name
}

// withSource adds the source name to a schema error.
func withSource(err error, name string) error {
	var se *schema.Error
	if errors.As(err, &se) {
		return se.With(slog.String("source", sourceName(name)))
	}

	return err
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources returns names without entries that refer to a file already
// listed, comparing resolved device/inode pairs. All occurrences of "-" are
// collapsed into one. Names that cannot be resolved are kept so that reading
// them reports the error.
func uniqueSources(names []string) []string {
	var (
		out   = make([]string, 0, len(names))
		seen  = make(map[fileKey]struct{})
		stdin bool
	)

	for _, name := range names {
		if name == stdinSource {
			if !stdin {
				out = append(out, name)
			}

			stdin = true

			continue
		}

		key, ok := resolveFileKey(name)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, name)
	}

	return out
}

// resolveFileKey returns the device/inode pair of the file path refers to
// after resolving symlinks.
func resolveFileKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
