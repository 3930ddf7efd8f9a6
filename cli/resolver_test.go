package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

type resolverCLI struct {
	MaxDepth int      `default:"100"`
	Names    []string `sep:","`
	Log      struct {
		Level  string `default:"info"`
		Pretty bool   `default:"true" negatable:""`
	} `embed:"" prefix:"log-"`
}

func parseWithConfig(t *testing.T, content string, args ...string) resolverCLI {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli resolverCLI

	parser, err := kong.New(&cli,
		kong.Configuration(resolve(context.Background()), path),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	return cli
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		depth   int
		level   string
		pretty  bool
		names   []string
	}{
		{
			name:   "empty",
			depth:  100,
			level:  "info",
			pretty: true,
		},
		{
			name:    "flat",
			content: "max-depth: 8\nlog-level: debug\n",
			depth:   8,
			level:   "debug",
			pretty:  true,
		},
		{
			name:    "nested",
			content: "log:\n  level: warn\n  pretty: false\n",
			depth:   100,
			level:   "warn",
			pretty:  false,
		},
		{
			name:    "underscore",
			content: "max_depth: 3\n",
			depth:   3,
			level:   "info",
			pretty:  true,
		},
		{
			name:    "list",
			content: "names: [a, 2]\n",
			depth:   100,
			level:   "info",
			pretty:  true,
			names:   []string{"a", "2"},
		},
		{
			name:    "flags_override",
			content: "max-depth: 8\nlog:\n  level: debug\n",
			args:    []string{"--max-depth=9", "--log-level=error"},
			depth:   9,
			level:   "error",
			pretty:  true,
		},
		{
			name:    "malformed",
			content: "max-depth: [\n",
			depth:   100,
			level:   "info",
			pretty:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := parseWithConfig(t, tt.content, tt.args...)

			if cli.MaxDepth != tt.depth {
				t.Errorf("MaxDepth = %d, want %d", cli.MaxDepth, tt.depth)
			}

			if cli.Log.Level != tt.level {
				t.Errorf("Log.Level = %q, want %q", cli.Log.Level, tt.level)
			}

			if cli.Log.Pretty != tt.pretty {
				t.Errorf("Log.Pretty = %v, want %v", cli.Log.Pretty, tt.pretty)
			}

			if diff := cmp.Diff(tt.names, cli.Names); diff != "" {
				t.Errorf("Names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfig_Flatten(t *testing.T) {
	var doc yaml.MapSlice

	src := strings.Join([]string{
		"a: 1",
		"b:",
		"  c: 2.5",
		"  d:",
		"    e: text",
		"f: [1, x]",
		"g: true",
	}, "\n")

	if err := yaml.UnmarshalWithOptions([]byte(src), &doc, yaml.UseOrderedMap()); err != nil {
		t.Fatal(err)
	}

	cfg := make(config)
	cfg.flatten("", doc)

	want := config{
		"a":     "1",
		"b-c":   "2.5",
		"b-d-e": "text",
		"f":     []any{"1", "x"},
		"g":     true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("flatten mismatch (-want +got):\n%s", diff)
	}
}
