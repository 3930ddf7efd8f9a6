package schema

import (
	"log/slog"

	"github.com/sahilm/fuzzy"
)

// builder resolves parameter descriptors against runtime inputs.
type builder struct {
	*walker

	inputs map[string]any
}

// buildBody builds the keyed mapping declared by the Map body text.
func (b *builder) buildBody(body string) (Value, error) {
	params, _, err := extractSegments(body)
	if err != nil {
		return Value{}, b.fail(err)
	}

	m, err := b.buildMap(params)
	if err != nil {
		return Value{}, err
	}

	return MapValue(m), nil
}

// buildMap resolves each parameter and assigns it to its key in declaration
// order. A repeated key keeps its first position and its last value.
func (b *builder) buildMap(params []Param) (*Map, error) {
	m := NewMap()

	for _, p := range params {
		v, err := b.resolve(p)
		if err != nil {
			return nil, err
		}

		m.Set(p.Key, v)
	}

	return m, nil
}

// resolve returns the value of a single parameter.
// Static and default Map and List parameters are built from their literal
// bodies. Everything else, including dynamic Map and List parameters, is a
// leaf.
func (b *builder) resolve(p Param) (Value, error) {
	if p.Mode == ModeDynamic {
		return b.leaf(p)
	}

	switch p.Type {
	case TypeString, TypeNumber, TypeBoolean:
		return b.leaf(p)

	case TypeMap:
		return b.nested(p, b.buildBody)

	case TypeList, TypeListString, TypeListNumber, TypeListBoolean:
		return b.nested(p, b.scanList)

	default:
		return Value{}, b.fail(ErrMalformedSchema.With(
			slog.String("key", p.Key),
			slog.String("reason", "unknown type"),
		))
	}
}

// nested builds the literal body of p one level deeper.
func (b *builder) nested(
	p Param,
	build func(string) (Value, error),
) (Value, error) {
	if err := b.enter(p.Key); err != nil {
		return Value{}, err
	}
	defer b.leave()

	b.opts.logger.TraceContext(b.ctx, "building body", slog.Any("param", p))

	return build(p.Raw)
}

// leaf applies the binding mode of p.
func (b *builder) leaf(p Param) (Value, error) {
	switch p.Mode {
	case ModeStatic:
		return p.Value, nil

	case ModeDynamic:
		x, ok := b.inputs[p.Key]
		if !ok {
			return Value{}, b.missing(p)
		}

		return b.input(p, x)

	case ModeDefault:
		if x, ok := b.inputs[p.Key]; ok {
			return b.input(p, x)
		}

		return p.Value, nil

	default:
		return Value{}, b.fail(ErrMalformedSchema.With(
			slog.String("key", p.Key),
			slog.String("reason", "unknown binding mode"),
		))
	}
}

// input converts the runtime value x supplied for p. The value is used
// verbatim, without coercion to the declared type.
func (b *builder) input(p Param, x any) (Value, error) {
	v, err := ValueOf(x)
	if err != nil {
		return Value{}, b.fail(WrapError(err).With(slog.String("key", p.Key)))
	}

	return v, nil
}

// missing reports that no runtime value was supplied for p, suggesting the
// closest supplied key if there is one.
func (b *builder) missing(p Param) error {
	attrs := []slog.Attr{
		slog.String("key", p.Key),
		slog.String("type", p.Type.String()),
	}

	if match := suggest(p.Key, sortedKeys(b.inputs)); match != "" {
		attrs = append(attrs, slog.String("suggest", match))
	}

	return b.fail(ErrMissingDynamicInput.With(attrs...))
}

// suggest returns the candidate that best fuzzy-matches key.
func suggest(key string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	matches := fuzzy.Find(key, candidates)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}
