package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestBuilder(inputs map[string]any, opts ...Option) *builder {
	return &builder{
		walker: newWalker(context.Background(), makeOptions(opts...)),
		inputs: inputs,
	}
}

// mapOf returns a Map value from alternating keys and values.
func mapOf(kv ...any) Value {
	m := NewMap()

	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1].(Value))
	}

	return MapValue(m)
}

func TestBuilder_Leaf(t *testing.T) {
	tests := []struct {
		name   string
		param  Param
		inputs map[string]any
		want   Value
	}{
		{
			name:   "static ignores inputs",
			param:  Param{Key: "k", Mode: ModeStatic, Type: TypeString, Value: StringValue("lit")},
			inputs: map[string]any{"k": "input"},
			want:   StringValue("lit"),
		},
		{
			name:   "dynamic echoes input",
			param:  Param{Key: "k", Mode: ModeDynamic, Type: TypeNumber},
			inputs: map[string]any{"k": 42},
			want:   IntValue(42),
		},
		{
			name:   "dynamic is not coerced",
			param:  Param{Key: "k", Mode: ModeDynamic, Type: TypeNumber},
			inputs: map[string]any{"k": "forty-two"},
			want:   StringValue("forty-two"),
		},
		{
			name:   "dynamic nil is null",
			param:  Param{Key: "k", Mode: ModeDynamic, Type: TypeString},
			inputs: map[string]any{"k": nil},
			want:   NullValue(),
		},
		{
			name:   "dynamic list",
			param:  Param{Key: "k", Mode: ModeDynamic, Type: TypeListString},
			inputs: map[string]any{"k": []string{"a", "b"}},
			want:   ListValue(StringValue("a"), StringValue("b")),
		},
		{
			name:   "dynamic map sorts keys",
			param:  Param{Key: "k", Mode: ModeDynamic, Type: TypeMap},
			inputs: map[string]any{"k": map[string]any{"z": 1, "a": true}},
			want:   mapOf("a", BoolValue(true), "z", IntValue(1)),
		},
		{
			name:  "default falls back to literal",
			param: Param{Key: "k", Mode: ModeDefault, Type: TypeNumber, Value: FloatValue(0.5)},
			want:  FloatValue(0.5),
		},
		{
			name:   "default uses input",
			param:  Param{Key: "k", Mode: ModeDefault, Type: TypeNumber, Value: FloatValue(0.5)},
			inputs: map[string]any{"k": 2},
			want:   IntValue(2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestBuilder(tt.inputs).resolve(tt.param)
			if err != nil {
				t.Fatalf("resolve error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("resolve mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuilder_DefaultBodyIgnoresInput(t *testing.T) {
	b := newTestBuilder(map[string]any{"m": "override", "l": "override"})

	m, err := b.buildMap([]Param{
		{Key: "m", Mode: ModeDefault, Type: TypeMap, Raw: `("a"=1)`},
		{Key: "l", Mode: ModeDefault, Type: TypeList, Raw: `1,2`},
	})
	if err != nil {
		t.Fatalf("buildMap error: %v", err)
	}

	want := mapOf(
		"m", mapOf("a", IntValue(1)),
		"l", ListValue(IntValue(1), IntValue(2)),
	)
	if diff := cmp.Diff(want, MapValue(m)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_MissingDynamicInput(t *testing.T) {
	b := newTestBuilder(map[string]any{"username": "ana", "zzz": 1})

	_, err := b.buildMap([]Param{
		{Key: "meta", Mode: ModeStatic, Type: TypeMap, Raw: `("usrname":String)`},
	})
	if !errors.Is(err, ErrMissingDynamicInput) {
		t.Fatalf("error = %v, want %v", err, ErrMissingDynamicInput)
	}

	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("error %T is not *Error", err)
	}

	for attr, want := range map[string]string{
		"key":     "usrname",
		"suggest": "username",
		"path":    "meta",
	} {
		got, ok := se.Attr(attr)
		if !ok {
			t.Errorf("missing attribute %q", attr)

			continue
		}

		if got.String() != want {
			t.Errorf("attribute %q = %q, want %q", attr, got.String(), want)
		}
	}
}

func TestBuilder_MissingWithoutSuggestion(t *testing.T) {
	_, err := newTestBuilder(nil).resolve(
		Param{Key: "name", Mode: ModeDynamic, Type: TypeString},
	)

	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not *Error", err)
	}

	if _, ok := se.Attr("suggest"); ok {
		t.Error("unexpected suggest attribute with no inputs")
	}
}

func TestBuilder_InvalidInput(t *testing.T) {
	_, err := newTestBuilder(map[string]any{"k": make(chan int)}).resolve(
		Param{Key: "k", Mode: ModeDynamic, Type: TypeString},
	)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidInput)
	}

	var se *Error
	if errors.As(err, &se) {
		if key, ok := se.Attr("key"); !ok || key.String() != "k" {
			t.Errorf("key attribute = %v, want %q", key, "k")
		}
	}
}

func TestBuilder_DuplicateKeys(t *testing.T) {
	m, err := newTestBuilder(nil).buildMap([]Param{
		{Key: "a", Mode: ModeStatic, Type: TypeNumber, Value: IntValue(1)},
		{Key: "b", Mode: ModeStatic, Type: TypeNumber, Value: IntValue(2)},
		{Key: "a", Mode: ModeStatic, Type: TypeNumber, Value: IntValue(3)},
	})
	if err != nil {
		t.Fatalf("buildMap error: %v", err)
	}

	if diff := cmp.Diff([]string{"a", "b"}, m.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	if v, _ := m.Get("a"); !v.Equal(IntValue(3)) {
		t.Errorf("a = %v, want 3", v)
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		key        string
		candidates []string
		want       string
	}{
		{"usrname", []string{"age", "username"}, "username"},
		{"nme", []string{"name", "zone"}, "name"},
		{"xyz", []string{"name"}, ""},
		{"name", nil, ""},
	}

	for _, tt := range tests {
		if got := suggest(tt.key, tt.candidates); got != tt.want {
			t.Errorf("suggest(%q, %v) = %q, want %q",
				tt.key, tt.candidates, got, tt.want)
		}
	}
}
