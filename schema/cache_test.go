package schema

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestCache_Parse(t *testing.T) {
	var c Cache

	const text = `{("a":String="x")}`

	first, err := c.Parse(context.Background(), text)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	second, err := c.Parse(context.Background(), text)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if first != second {
		t.Error("second Parse did not return the cached schema")
	}

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	// A different depth limit is a different entry.
	third, err := c.Parse(context.Background(), text, WithMaxDepth(3))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if third == first {
		t.Error("Parse with different options returned the same schema")
	}

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
}

func TestCache_Error(t *testing.T) {
	var c Cache

	for range 2 {
		if _, err := c.Parse(context.Background(), `{("a"=bad)}`); !errors.Is(err, ErrMalformedSchema) {
			t.Fatalf("Parse error = %v, want %v", err, ErrMalformedSchema)
		}
	}

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCache_Compile(t *testing.T) {
	var c Cache

	const text = `{("greeting":String="hello"),("name":String)}`

	tests := []struct {
		inputs map[string]any
		want   string
	}{
		{map[string]any{"name": "a"}, `{"greeting":"hello","name":"a"}`},
		{map[string]any{"name": "b", "greeting": "hi"}, `{"greeting":"hi","name":"b"}`},
	}

	for _, tt := range tests {
		m, err := c.Compile(context.Background(), text, tt.inputs)
		if err != nil {
			t.Fatalf("Compile error: %v", err)
		}

		if m.String() != tt.want {
			t.Errorf("Compile = %s, want %s", m, tt.want)
		}
	}

	if _, err := c.Compile(context.Background(), text, nil); !errors.Is(err, ErrMissingDynamicInput) {
		t.Errorf("Compile error = %v, want %v", err, ErrMissingDynamicInput)
	}
}

func TestCache_Concurrent(t *testing.T) {
	var (
		c  Cache
		wg sync.WaitGroup
	)

	const text = `{("l"=[1,2,3]),("n":Number)}`

	results := make([]*Schema, 32)

	for i := range results {
		wg.Go(func() {
			s, err := c.Parse(context.Background(), text)
			if err != nil {
				t.Errorf("Parse error: %v", err)

				return
			}

			results[i] = s
		})
	}

	wg.Wait()

	for i, s := range results {
		if s != results[0] {
			t.Errorf("results[%d] differs from results[0]", i)
		}
	}
}
