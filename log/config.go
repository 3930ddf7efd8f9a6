package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// DefaultTimeLayout is the timestamp layout of a new [Logger].
const DefaultTimeLayout = time.RFC3339

// DefaultCaller is whether a new [Logger] reports the source of each message.
const DefaultCaller = false

// DefaultPretty is whether a new [Logger] styles text output.
const DefaultPretty = true

// config holds the settings a [Logger] was created with.
// It is copied by value; options return a modified copy.
type config struct {
	output     io.Writer
	timeLayout string // empty disables timestamps
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// Option modifies the configuration of a [Logger].
type Option func(config) config

func makeConfig(w io.Writer, opts ...Option) config {
	return config{
		timeLayout: DefaultTimeLayout,
		level:      DefaultLevel,
		format:     DefaultFormat,
		caller:     DefaultCaller,
		pretty:     DefaultPretty,
	}.apply(append([]Option{WithOutput(w)}, opts...)...)
}

func (c config) apply(opts ...Option) config {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// handler returns a new handler writing records as configured.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)

	case c.pretty:
		return newPrettyHandler(c.output, opts)

	default:
		return slog.NewTextHandler(c.output, opts)
	}
}

// replaceAttr formats timestamps with the configured layout and names the
// trace level.
func (c config) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		if c.timeLayout == "" {
			return slog.Attr{}
		}

		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(c.timeLayout))
		}

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

// WithOutput sets the writer log records are written to.
// A nil writer discards all records.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w

		return c
	}
}

// WithLevel sets the minimum level of records written.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout sets the timestamp layout.
//
// The layout may name a constant of package [time], ignoring case and
// punctuation (e.g. "RFC3339", "rfc-3339-nano" or "kitchen"); any other text
// is used as a [time.Time.Format] layout verbatim. An empty layout or "none"
// omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.timeLayout = resolveTimeLayout(layout)

		return c
	}
}

// WithCaller sets whether records include the source location of the call.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty sets whether text records are styled for a terminal.
// Styling is dropped automatically when the output is not a terminal.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

var namedTimeLayout = map[string]string{
	"ansic":       time.ANSIC,
	"datetime":    time.DateTime,
	"kitchen":     time.Kitchen,
	"none":        "",
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rubydate":    time.RubyDate,
	"stamp":       time.Stamp,
	"stampmicro":  time.StampMicro,
	"stampmilli":  time.StampMilli,
	"stampnano":   time.StampNano,
	"timeonly":    time.TimeOnly,
	"unixdate":    time.UnixDate,
}

func resolveTimeLayout(layout string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, strings.ToLower(layout))

	if name == "" {
		return ""
	}

	if std, ok := namedTimeLayout[name]; ok {
		return std
	}

	return layout
}
