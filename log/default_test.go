package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"InfoContext", func(msg string, attrs ...slog.Attr) {
			InfoContext(context.Background(), msg, attrs...)
		}, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			for _, want := range []string{
				`"msg":"message"`,
				`"level":"` + tt.level + `"`,
				`"key":"value"`,
			} {
				if !strings.Contains(out, want) {
					t.Errorf("output %s does not contain %s", out, want)
				}
			}
		})
	}
}

func TestConfig_ReplacesDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	Config(WithLevel(LevelError), WithFormat(FormatJSON))

	if got := Default().Level(); got != LevelError {
		t.Errorf("Level = %v, want %v", got, LevelError)
	}

	if got := Default().Format(); got != FormatJSON {
		t.Errorf("Format = %v, want %v", got, FormatJSON)
	}
}

func TestConfig_Accumulates(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	Config(WithLevel(LevelWarn))
	Config(WithPretty(false))

	if got := Default().Level(); got != LevelWarn {
		t.Errorf("Level = %v, want %v", got, LevelWarn)
	}
}
