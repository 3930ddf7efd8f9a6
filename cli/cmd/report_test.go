package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheck_Run(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.schema", `{("a":String),("b"=[1,{("c":Number)}])}`)
	bad := writeFile(t, dir, "bad.schema", `{("m"={("x"=nope)})}`)

	var out bytes.Buffer

	c := Check{Schemas: []string{good, good, bad}, out: &out}

	err := c.Run(context.Background())
	if !errors.Is(err, ErrCheck) {
		t.Fatalf("Run error = %v, want %v", err, ErrCheck)
	}

	var ce *Error
	if errors.As(err, &ce) {
		if n, ok := ce.Attr("failed"); !ok || n.Int64() != 1 {
			t.Errorf("failed attribute = %v, want 1", n)
		}
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("report has %d lines, want 2:\n%s", len(lines), out.String())
	}

	if !strings.Contains(lines[0], good) || !strings.Contains(lines[0], "(2 params, 2 inputs)") {
		t.Errorf("first line = %q", lines[0])
	}

	if !strings.Contains(lines[1], bad) || !strings.Contains(lines[1], "malformed schema") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestCheck_Quiet(t *testing.T) {
	good := writeFile(t, t.TempDir(), "good.schema", `{}`)

	var out bytes.Buffer

	c := Check{Schemas: []string{good}, Quiet: true, out: &out}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("quiet output = %q, want empty", out.String())
	}
}

func TestDescribe_Run(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.schema",
		`{("model"="m1"),("meta"={("user":String),("n":Number=2)}),("tags":List[String]=["a"])}`)

	var out bytes.Buffer

	d := Describe{Schema: path, out: &out}
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	got := out.String()

	for _, want := range []string{
		path,
		`"model" static String = "m1"`,
		`"meta" static Map`,
		`"user" dynamic String`,
		`"n" default Number = 2`,
		`"tags" default List[String] = ["a"]`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}

	// Nested declarations are indented below their parent.
	if strings.Index(got, `"user"`) < strings.Index(got, `"meta"`) {
		t.Errorf("child listed before parent:\n%s", got)
	}
}

func TestInputs_Run(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.schema",
		`{("s"="x"),("user":String),("limit":Number=10),("m"={("user":String)})}`)

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer

		c := Inputs{Schema: path, Format: "json", out: &out}
		if err := c.Run(context.Background()); err != nil {
			t.Fatalf("Run error: %v", err)
		}

		var got []map[string]any
		if err := json.Unmarshal(out.Bytes(), &got); err != nil {
			t.Fatalf("Unmarshal error: %v\n%s", err, out.String())
		}

		want := []map[string]any{
			{"key": "user", "type": "String", "required": true},
			{"key": "limit", "type": "Number", "required": false, "default": float64(10)},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("inputs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer

		c := Inputs{Schema: path, Format: "table", out: &out}
		if err := c.Run(context.Background()); err != nil {
			t.Fatalf("Run error: %v", err)
		}

		got := out.String()
		for _, want := range []string{"KEY", "DEFAULT", "user", "limit", "Number", "10"} {
			if !strings.Contains(got, want) {
				t.Errorf("table does not contain %q:\n%s", want, got)
			}
		}
	})
}
