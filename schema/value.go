package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	// KindNull is only produced when a runtime input supplies nil.
	KindNull Kind = iota

	// KindString represents text.
	KindString

	// KindNumber represents an integer or floating-point number.
	KindNumber

	// KindBoolean represents true or false.
	KindBoolean

	// KindList represents an ordered sequence of values.
	KindList

	// KindMap represents a keyed mapping of string to value.
	KindMap
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindBoolean:
		return "Boolean"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	default:
		return "Unknown"
	}
}

// Value is a node of the value tree produced by compilation.
//
// The zero Value is null.
type Value struct {
	kind    Kind
	str     string
	i       int64
	f       float64
	isFloat bool
	b       bool
	list    []Value
	m       *Map
}

// NullValue returns a null [Value].
func NullValue() Value { return Value{} }

// StringValue returns a [Value] for a string.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// IntValue returns a [Value] for an integer number.
func IntValue(i int64) Value { return Value{kind: KindNumber, i: i} }

// FloatValue returns a [Value] for a floating-point number.
func FloatValue(f float64) Value {
	return Value{kind: KindNumber, f: f, isFloat: true}
}

// BoolValue returns a [Value] for a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

// ListValue returns a [Value] for an ordered sequence.
func ListValue(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}

	return Value{kind: KindList, list: vs}
}

// MapValue returns a [Value] for a keyed mapping.
// A nil map is treated as empty.
func MapValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}

	return Value{kind: KindMap, m: m}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Text returns the string held by a [KindString] value.
func (v Value) Text() string { return v.str }

// Int returns the integer held by v and whether v is an integer number.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindNumber && !v.isFloat
}

// Float returns the number held by v as a float64.
func (v Value) Float() float64 {
	if v.isFloat {
		return v.f
	}

	return float64(v.i)
}

// IsFloat reports whether v is a floating-point number.
func (v Value) IsFloat() bool { return v.kind == KindNumber && v.isFloat }

// Bool returns the boolean held by a [KindBoolean] value.
func (v Value) Bool() bool { return v.b }

// List returns the elements held by a [KindList] value.
func (v Value) List() []Value { return v.list }

// Map returns the mapping held by a [KindMap] value.
func (v Value) Map() *Map { return v.m }

// Native converts v to plain Go values: nil, string, int64, float64, bool,
// []any and map[string]any.
func (v Value) Native() any {
	switch v.kind {
	case KindNull:
		return nil

	case KindString:
		return v.str

	case KindNumber:
		if v.isFloat {
			return v.f
		}

		return v.i

	case KindBoolean:
		return v.b

	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Native()
		}

		return out

	case KindMap:
		return v.m.Native()

	default:
		return nil
	}
}

// Equal reports whether v and o are structurally equal.
// Mapping key order is ignored. Integers never equal floats.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true

	case KindString:
		return v.str == o.str

	case KindNumber:
		if v.isFloat != o.isFloat {
			return false
		}

		if v.isFloat {
			return v.f == o.f
		}

		return v.i == o.i

	case KindBoolean:
		return v.b == o.b

	case KindList:
		return slices.EqualFunc(v.list, o.list, Value.Equal)

	case KindMap:
		return v.m.Equal(o.m)

	default:
		return false
	}
}

// String returns the compact JSON encoding of v.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%%!(%v)", err)
	}

	return string(b)
}

// MarshalJSON implements json.Marshaler.
// Floating-point numbers always carry a fraction or exponent so they decode
// back as floats.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)

	case KindNumber:
		if !v.isFloat {
			return strconv.AppendInt(nil, v.i, 10), nil
		}

		b, err := json.Marshal(v.f)
		if err != nil {
			return nil, err
		}

		if !bytes.ContainsAny(b, ".eE") {
			b = append(b, '.', '0')
		}

		return b, nil

	case KindBoolean:
		return strconv.AppendBool(nil, v.b), nil

	case KindList:
		var buf bytes.Buffer

		buf.WriteByte('[')

		for i, e := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}

			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}

			buf.Write(b)
		}

		buf.WriteByte(']')

		return buf.Bytes(), nil

	case KindMap:
		return v.m.MarshalJSON()

	default:
		return []byte("null"), nil
	}
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.yamlValue(), nil
}

func (v Value) yamlValue() any {
	switch v.kind {
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.yamlValue()
		}

		return out

	case KindMap:
		return v.m.yamlValue()

	default:
		return v.Native()
	}
}

// Map is a keyed mapping that remembers insertion order.
// Setting an existing key replaces its value in place.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap returns an empty [Map].
func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Set assigns v to key.
func (m *Map) Set(key string, v Value) {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}

	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.vals[key] = v
}

// Get returns the value assigned to key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}

	v, ok := m.vals[key]

	return v, ok
}

// Len returns the number of keys in m.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns the keys of m in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// All returns an iterator over the entries of m in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}

		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Native converts m to a map[string]any of plain Go values.
func (m *Map) Native() map[string]any {
	out := make(map[string]any, m.Len())
	for k, v := range m.All() {
		out[k] = v.Native()
	}

	return out
}

// Equal reports whether m and o hold equal values for the same keys.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}

	for k, v := range m.All() {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}

	return true
}

// String returns the compact JSON encoding of m.
func (m *Map) String() string { return MapValue(m).String() }

// MarshalJSON implements json.Marshaler, emitting keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		vb, err := m.vals[k].MarshalJSON()
		if err != nil {
			return nil, err
		}

		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler, emitting keys in insertion
// order.
func (m *Map) MarshalYAML() (any, error) {
	return m.yamlValue(), nil
}

func (m *Map) yamlValue() yaml.MapSlice {
	out := make(yaml.MapSlice, 0, m.Len())
	for k, v := range m.All() {
		out = append(out, yaml.MapItem{Key: k, Value: v.yamlValue()})
	}

	return out
}

// ValueOf converts a runtime-supplied Go value to a [Value] without coercing
// its type. Maps without an inherent order are emitted with sorted keys.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case *Map:
		if t == nil {
			return NullValue(), nil
		}

		return MapValue(t), nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int8:
		return IntValue(int64(t)), nil
	case int16:
		return IntValue(int64(t)), nil
	case int32:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case uint8:
		return IntValue(int64(t)), nil
	case uint16:
		return IntValue(int64(t)), nil
	case uint32:
		return IntValue(int64(t)), nil
	case uint:
		return uintValue(uint64(t), x)
	case uint64:
		return uintValue(t, x)
	case float32:
		return FloatValue(float64(t)), nil
	case float64:
		return FloatValue(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntValue(i), nil
		}

		f, err := t.Float64()
		if err != nil {
			return Value{}, invalidInput(x).Wrap(err)
		}

		return FloatValue(f), nil
	case yaml.MapSlice:
		m := NewMap()

		for _, item := range t {
			v, err := ValueOf(item.Value)
			if err != nil {
				return Value{}, err
			}

			m.Set(fmt.Sprint(item.Key), v)
		}

		return MapValue(m), nil
	case []any:
		return listOf(len(t), func(i int) any { return t[i] })
	case map[string]any:
		m := NewMap()

		for _, k := range sortedKeys(t) {
			v, err := ValueOf(t[k])
			if err != nil {
				return Value{}, err
			}

			m.Set(k, v)
		}

		return MapValue(m), nil
	}

	return reflectValueOf(x)
}

// reflectValueOf handles typed slices, maps keyed by strings and pointers.
func reflectValueOf(x any) (Value, error) {
	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return NullValue(), nil
		}

		return ValueOf(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return ListValue(), nil
		}

		return listOf(rv.Len(), func(i int) any { return rv.Index(i).Interface() })

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, invalidInput(x)
		}

		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())

		for it := rv.MapRange(); it.Next(); {
			k := it.Key().String()
			keys = append(keys, k)
			byKey[k] = it.Value()
		}

		slices.Sort(keys)

		m := NewMap()

		for _, k := range keys {
			v, err := ValueOf(byKey[k].Interface())
			if err != nil {
				return Value{}, err
			}

			m.Set(k, v)
		}

		return MapValue(m), nil

	case reflect.String:
		return StringValue(rv.String()), nil

	case reflect.Bool:
		return BoolValue(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return uintValue(rv.Uint(), x)

	case reflect.Float32, reflect.Float64:
		return FloatValue(rv.Float()), nil

	default:
		return Value{}, invalidInput(x)
	}
}

func listOf(n int, at func(int) any) (Value, error) {
	out := make([]Value, n)

	for i := range n {
		v, err := ValueOf(at(i))
		if err != nil {
			return Value{}, err
		}

		out[i] = v
	}

	return ListValue(out...), nil
}

func uintValue(u uint64, x any) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, invalidInput(x).
			With(slog.String("reason", "integer overflows int64"))
	}

	return IntValue(int64(u)), nil
}

func invalidInput(x any) *Error {
	return ErrInvalidInput.With(slog.String("type", fmt.Sprintf("%T", x)))
}

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
