package schema

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/klauspost/readahead"
)

// Schema is a validated schema ready to be built against runtime inputs.
// A Schema is immutable and safe for concurrent use.
type Schema struct {
	params []Param // top-level declarations
	all    []Param // every declaration, parents before children
	opts   options
}

// Parse validates text and returns its top-level declarations.
//
// Every declaration is validated, including those nested in Map and List
// literals. Runtime inputs are not consulted.
func Parse(ctx context.Context, text string, opts ...Option) (*Schema, error) {
	o := makeOptions(opts...)

	body := strings.TrimSpace(text)
	if !enclosed(body, '{', '}') {
		return nil, ErrMalformedSchema.With(
			slog.String("reason", "missing outer braces"),
		)
	}

	body = body[1 : len(body)-1]

	o.logger.TraceContext(ctx, "parse schema",
		slog.Int("source_bytes", len(text)),
		slog.Int("max_depth", o.maxDepth))

	all, err := newWalker(ctx, o).extractAll(body)
	if err != nil {
		return nil, err
	}

	params, _, err := extractSegments(body)
	if err != nil {
		return nil, err
	}

	return &Schema{params: params, all: all, opts: o}, nil
}

// ParseReader reads all of r and parses it with [Parse].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Schema, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Parse(ctx, string(data), opts...)
}

// Compile parses text and builds it against inputs in one step.
func Compile(
	ctx context.Context,
	text string,
	inputs map[string]any,
	opts ...Option,
) (*Map, error) {
	s, err := Parse(ctx, text, opts...)
	if err != nil {
		return nil, err
	}

	return s.Build(ctx, inputs)
}

// Build resolves the schema against inputs and returns the request body.
//
// Dynamic parameters must have an entry in inputs. Default parameters use
// their entry if present and their literal otherwise. Input values are used
// verbatim, without coercion to the declared type.
//
// Options given here override those the schema was parsed with.
func (s *Schema) Build(
	ctx context.Context,
	inputs map[string]any,
	opts ...Option,
) (*Map, error) {
	o := s.opts
	for _, opt := range opts {
		opt(&o)
	}

	b := &builder{walker: newWalker(ctx, o), inputs: inputs}

	m, err := b.buildMap(s.params)
	if err != nil {
		o.logger.TraceContext(ctx, "build failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "build complete",
		slog.Int("keys", m.Len()),
		slog.Int("inputs", len(inputs)))

	return m, nil
}

// Params returns the top-level declarations in order.
func (s *Schema) Params() []Param { return slices.Clone(s.params) }

// Input describes a key the runtime inputs may supply.
type Input struct {
	Key      string
	Type     Type
	Mode     Mode  // ModeDynamic or ModeDefault
	Default  Value // ModeDefault only
	Required bool  // true for ModeDynamic
}

// Inputs returns every key the schema reads from runtime inputs, at any depth,
// in order of first declaration.
//
// Default Map and List parameters are always built from their literal and are
// not listed.
func (s *Schema) Inputs() []Input {
	var (
		out  []Input
		seen = make(map[string]int)
	)

	for _, p := range s.all {
		if p.Mode == ModeStatic || p.HasBody() {
			continue
		}

		in := Input{
			Key:      p.Key,
			Type:     p.Type,
			Mode:     p.Mode,
			Default:  p.Value,
			Required: p.Mode == ModeDynamic,
		}

		if i, ok := seen[p.Key]; ok {
			// Any dynamic declaration of a key makes it required.
			if in.Required && !out[i].Required {
				out[i] = in
			}

			continue
		}

		seen[p.Key] = len(out)
		out = append(out, in)
	}

	return out
}

// Children returns the declarations directly inside the Map or List literal
// of p. Declarations inside Maps nested in a List are included.
func (p Param) Children() ([]Param, error) {
	if !p.HasBody() {
		return nil, nil
	}

	params, _, err := extractSegments(p.Raw)

	return params, err
}
