package input

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
)

// Stdin is the file name that reads from standard input.
const Stdin = "-"

// Values holds runtime inputs keyed by parameter key.
type Values map[string]any

// Read decodes a YAML or JSON document from r.
//
// The document must be a mapping. Nested mappings keep the order they were
// written in. An empty document yields empty Values.
func Read(ctx context.Context, r io.Reader, opts ...Option) (Values, error) {
	o := makeOptions(opts...)

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrRead.Wrap(err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return Values{}, nil
	}

	var doc any

	err = yaml.UnmarshalContext(ctx, data, &doc, yaml.UseOrderedMap())
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	var v Values

	switch t := doc.(type) {
	case nil:
		return Values{}, nil

	case yaml.MapSlice:
		v = make(Values, len(t))
		for _, item := range t {
			v[fmt.Sprint(item.Key)] = item.Value
		}

	case map[string]any:
		v = Values(t)

	default:
		return nil, ErrNotMapping.With(slog.String("type", fmt.Sprintf("%T", doc)))
	}

	o.logger.TraceContext(ctx, "read inputs", slog.Int("keys", len(v)))

	return v, nil
}

// ReadFile decodes the YAML or JSON document in the named file.
// The name [Stdin] reads from standard input.
func ReadFile(ctx context.Context, name string, opts ...Option) (Values, error) {
	if name == Stdin {
		v, err := Read(ctx, os.Stdin, opts...)
		if err != nil {
			return nil, withFile(err, "stdin")
		}

		return v, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("file", name))
	}
	defer f.Close()

	v, err := Read(ctx, f, opts...)
	if err != nil {
		return nil, withFile(err, name)
	}

	return v, nil
}

func withFile(err error, name string) error {
	if e, ok := err.(*Error); ok {
		return e.With(slog.String("file", name))
	}

	return err
}

// Merge copies every key of o into v, replacing existing keys.
func (v *Values) Merge(o Values) {
	if len(o) == 0 {
		return
	}

	if *v == nil {
		*v = make(Values, len(o))
	}

	maps.Copy(*v, o)
}

// Set evaluates an assignment of the form "key=expression" and stores the
// result under key.
//
// The expression is evaluated by expr-lang. Keys already present in v are
// visible as variables, and env(name) returns the value of a process
// environment variable.
func (v *Values) Set(ctx context.Context, assignment string, opts ...Option) error {
	o := makeOptions(opts...)

	key, source, err := splitAssignment(assignment)
	if err != nil {
		return err
	}

	env := make(map[string]any, len(*v)+1)
	maps.Copy(env, *v)
	env["env"] = envFunc(o.environ)

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return ErrExprCompile.Wrap(err).
			With(slog.String("key", key), slog.String("source", source))
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return ErrExprEval.Wrap(err).
			With(slog.String("key", key), slog.String("source", source))
	}

	o.logger.TraceContext(ctx, "set input",
		slog.String("key", key),
		slog.String("source", source),
		slog.String("type", fmt.Sprintf("%T", result)))

	v.store(key, result)

	return nil
}

// SetString stores the text after the first "=" of assignment verbatim.
func (v *Values) SetString(assignment string) error {
	key, value, err := splitAssignment(assignment)
	if err != nil {
		return err
	}

	v.store(key, value)

	return nil
}

// Keys returns the keys of v in sorted order.
func (v Values) Keys() []string {
	return slices.Sorted(maps.Keys(v))
}

func (v *Values) store(key string, value any) {
	if *v == nil {
		*v = make(Values)
	}

	(*v)[key] = value
}

func splitAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)

	if !ok || key == "" {
		return "", "", ErrAssignment.With(slog.String("assignment", s))
	}

	return key, value, nil
}

// envFunc returns the env() function visible to expressions.
func envFunc(environ []string) func(string) string {
	vars := make(map[string]string, len(environ))

	for _, entry := range environ {
		if k, val, ok := strings.Cut(entry, "="); ok {
			vars[k] = val
		}
	}

	return func(key string) string {
		return vars[key]
	}
}
