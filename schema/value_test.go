package schema

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

func TestValue_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", NullValue(), `null`},
		{"string", StringValue(`a"b`), `"a\"b"`},
		{"int", IntValue(-7), `-7`},
		{"float", FloatValue(1.25), `1.25`},
		{"whole float", FloatValue(3), `3.0`},
		{"large float", FloatValue(1e21), `1e+21`},
		{"bool", BoolValue(true), `true`},
		{"empty list", ListValue(), `[]`},
		{"list", ListValue(IntValue(1), StringValue("x")), `[1,"x"]`},
		{"empty map", MapValue(nil), `{}`},
		{"ordered map", mapOf("z", IntValue(1), "a", IntValue(2)), `{"z":1,"a":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal error: %v", err)
			}

			if string(got) != tt.want {
				t.Errorf("Marshal = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nulls", NullValue(), NullValue(), true},
		{"int and float", IntValue(1), FloatValue(1), false},
		{"strings", StringValue("a"), StringValue("a"), true},
		{"different kinds", StringValue("1"), IntValue(1), false},
		{"lists", ListValue(IntValue(1)), ListValue(IntValue(1)), true},
		{"list lengths", ListValue(IntValue(1)), ListValue(), false},
		{
			"map order ignored",
			mapOf("a", IntValue(1), "b", IntValue(2)),
			mapOf("b", IntValue(2), "a", IntValue(1)),
			true,
		},
		{
			"map values differ",
			mapOf("a", IntValue(1)),
			mapOf("a", IntValue(2)),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Native(t *testing.T) {
	v := mapOf(
		"s", StringValue("x"),
		"l", ListValue(IntValue(1), FloatValue(0.5), BoolValue(false), NullValue()),
	)

	want := map[string]any{
		"s": "x",
		"l": []any{int64(1), 0.5, false, nil},
	}
	if diff := cmp.Diff(want, v.Native()); diff != "" {
		t.Errorf("Native mismatch (-want +got):\n%s", diff)
	}
}

func TestValueOf(t *testing.T) {
	type label string

	n := 5

	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"nil", nil, NullValue()},
		{"value", StringValue("v"), StringValue("v")},
		{"int8", int8(-3), IntValue(-3)},
		{"uint", uint(3), IntValue(3)},
		{"float32", float32(0.5), FloatValue(0.5)},
		{"json integer", json.Number("12"), IntValue(12)},
		{"json float", json.Number("1.5"), FloatValue(1.5)},
		{"named string", label("x"), StringValue("x")},
		{"pointer", &n, IntValue(5)},
		{"nil pointer", (*int)(nil), NullValue()},
		{"typed slice", []int{1, 2}, ListValue(IntValue(1), IntValue(2))},
		{"array", [2]bool{true, false}, ListValue(BoolValue(true), BoolValue(false))},
		{"typed map", map[string]int{"b": 2, "a": 1}, mapOf("a", IntValue(1), "b", IntValue(2))},
		{
			"ordered yaml map",
			yaml.MapSlice{{Key: "z", Value: 1}, {Key: "a", Value: "x"}},
			mapOf("z", IntValue(1), "a", StringValue("x")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.input)
			if err != nil {
				t.Fatalf("ValueOf error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ValueOf mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValueOf_OrderedYAMLKeepsOrder(t *testing.T) {
	v, err := ValueOf(yaml.MapSlice{{Key: "z", Value: 1}, {Key: "a", Value: 2}})
	if err != nil {
		t.Fatalf("ValueOf error: %v", err)
	}

	if diff := cmp.Diff([]string{"z", "a"}, v.Map().Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestValueOf_Invalid(t *testing.T) {
	for _, input := range []any{
		make(chan int),
		func() {},
		map[int]string{1: "a"},
		uint64(math.MaxUint64),
		[]any{1, struct{}{}},
	} {
		if _, err := ValueOf(input); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ValueOf(%T) error = %v, want %v", input, err, ErrInvalidInput)
		}
	}
}

func TestMap_ZeroValue(t *testing.T) {
	var m Map

	m.Set("a", IntValue(1))
	m.Set("b", IntValue(2))
	m.Set("a", IntValue(3))

	if diff := cmp.Diff([]string{"a", "b"}, m.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	if got := m.String(); got != `{"a":3,"b":2}` {
		t.Errorf("String = %s", got)
	}
}

func TestMap_MarshalYAML(t *testing.T) {
	m := mapOf("z", IntValue(1), "a", ListValue(StringValue("x"))).Map()

	got, err := yaml.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	out := string(got)

	z, a := strings.Index(out, "z: 1"), strings.Index(out, "a:")
	if z < 0 || a < 0 || z > a {
		t.Errorf("Marshal = %q, want key z before key a", out)
	}

	if !strings.Contains(out, "- x") {
		t.Errorf("Marshal = %q, want list item x", out)
	}
}
