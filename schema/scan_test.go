package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScanList(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		inputs map[string]any
		want   Value
	}{
		{
			name: "empty",
			text: ``,
			want: ListValue(),
		},
		{
			name: "integers",
			text: `1,2,3`,
			want: ListValue(IntValue(1), IntValue(2), IntValue(3)),
		},
		{
			name: "strings",
			text: `"a","b c",""`,
			want: ListValue(StringValue("a"), StringValue("b c"), StringValue("")),
		},
		{
			name: "booleans ignore case",
			text: `true,FALSE,True`,
			want: ListValue(BoolValue(true), BoolValue(false), BoolValue(true)),
		},
		{
			name: "mixed scalars in source order",
			text: `1.5,"x",true,7`,
			want: ListValue(FloatValue(1.5), StringValue("x"), BoolValue(true), IntValue(7)),
		},
		{
			name: "bare words are dropped",
			text: `yes,1,null`,
			want: ListValue(IntValue(1)),
		},
		{
			name: "quoted numbers stay strings",
			text: `"1","true"`,
			want: ListValue(StringValue("1"), StringValue("true")),
		},
		{
			name: "dot only runs are ignored",
			text: `...,2`,
			want: ListValue(IntValue(2)),
		},
		{
			name: "nested lists",
			text: `[1,2],[],[["a"]]`,
			want: ListValue(
				ListValue(IntValue(1), IntValue(2)),
				ListValue(),
				ListValue(ListValue(StringValue("a"))),
			),
		},
		{
			name:   "maps",
			text:   `{("a"=1)},{("b":String)}`,
			inputs: map[string]any{"b": "B"},
			want: ListValue(
				mapOf("a", IntValue(1)),
				mapOf("b", StringValue("B")),
			),
		},
		{
			name: "map holding a list",
			text: `{("l"=[1,2])},3`,
			want: ListValue(
				mapOf("l", ListValue(IntValue(1), IntValue(2))),
				IntValue(3),
			),
		},
		{
			name: "list holding a map",
			text: `[{("a"="x")}]`,
			want: ListValue(ListValue(mapOf("a", StringValue("x")))),
		},
		{
			name: "parentheses in strings",
			text: `"x(y)","[z]"`,
			want: ListValue(StringValue("x(y)"), StringValue("[z]")),
		},
		{
			name: "declaration literals do not leak",
			text: `("a"=5)`,
			want: ListValue(IntValue(5)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestBuilder(tt.inputs).scanList(tt.text)
			if err != nil {
				t.Fatalf("scanList(%q) error: %v", tt.text, err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scanList(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

// Declarations written directly as list elements are placed after every
// positional element regardless of where they appear.
func TestScanList_DeclarationsTrail(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		inputs map[string]any
		want   Value
	}{
		{
			name: "between strings",
			text: `"a",("b"=1),"c"`,
			want: ListValue(StringValue("a"), StringValue("c"), IntValue(1)),
		},
		{
			name: "leading",
			text: `("x"="first"),2,3`,
			want: ListValue(IntValue(2), IntValue(3), StringValue("first")),
		},
		{
			name:   "several keep source order",
			text:   `("p":String),1,("q"=true),"s"`,
			inputs: map[string]any{"p": "P"},
			want: ListValue(
				IntValue(1),
				StringValue("s"),
				StringValue("P"),
				BoolValue(true),
			),
		},
		{
			name: "container declaration is built",
			text: `("m"={("x"=1)}),2`,
			want: ListValue(IntValue(2), mapOf("x", IntValue(1))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestBuilder(tt.inputs).scanList(tt.text)
			if err != nil {
				t.Fatalf("scanList(%q) error: %v", tt.text, err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scanList(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestScanList_Malformed(t *testing.T) {
	for _, text := range []string{
		`1.2.3`,
		`[1,2`,
		`1,2]`,
		`{("a"=1)`,
		`"open`,
		`(1)`,
		`("a"=nope)`,
	} {
		_, err := newTestBuilder(nil).scanList(text)
		if !errors.Is(err, ErrMalformedSchema) {
			t.Errorf("scanList(%q) error = %v, want %v",
				text, err, ErrMalformedSchema)
		}
	}
}

func TestScanList_MissingInput(t *testing.T) {
	_, err := newTestBuilder(nil).scanList(`{("id":Number)}`)
	if !errors.Is(err, ErrMissingDynamicInput) {
		t.Fatalf("error = %v, want %v", err, ErrMissingDynamicInput)
	}
}

func TestScanList_MaxDepth(t *testing.T) {
	_, err := newTestBuilder(nil, WithMaxDepth(2)).scanList(`[[[1]]]`)
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("error = %v, want %v", err, ErrMaxDepthExceeded)
	}

	got, err := newTestBuilder(nil, WithMaxDepth(2)).scanList(`[[1]]`)
	if err != nil {
		t.Fatalf("scanList error: %v", err)
	}

	want := ListValue(ListValue(ListValue(IntValue(1))))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScanNumbers_Offsets(t *testing.T) {
	toks, err := scanNumbers(`10,"3",2.5`)
	if err != nil {
		t.Fatalf("scanNumbers error: %v", err)
	}

	type span struct{ Start, End int }

	var got []span
	for _, tok := range toks {
		got = append(got, span{tok.start, tok.end})
	}

	want := []span{{0, 2}, {7, 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}
