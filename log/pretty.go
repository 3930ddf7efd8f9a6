package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// styles holds the lipgloss styles of the pretty text handler.
type styles struct {
	key    lipgloss.Style
	str    lipgloss.Style
	num    lipgloss.Style
	yes    lipgloss.Style
	no     lipgloss.Style
	time   lipgloss.Style
	msg    lipgloss.Style
	levels map[slog.Level]lipgloss.Style
}

func makeStyles(r *lipgloss.Renderer) styles {
	level := func(color string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}

	return styles{
		key:  r.NewStyle().Foreground(lipgloss.Color("8")),
		str:  r.NewStyle().Foreground(lipgloss.Color("6")),
		num:  r.NewStyle().Foreground(lipgloss.Color("3")),
		yes:  r.NewStyle().Foreground(lipgloss.Color("2")),
		no:   r.NewStyle().Foreground(lipgloss.Color("1")),
		time: r.NewStyle().Faint(true),
		msg:  r.NewStyle().Bold(true),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): level("4"),
			slog.LevelDebug:        level("5"),
			slog.LevelInfo:         level("2"),
			slog.LevelWarn:         level("3"),
			slog.LevelError:        level("1"),
		},
	}
}

// levelStyle returns the style of the nearest named level at or below l.
func (s styles) levelStyle(l slog.Level) lipgloss.Style {
	for i := len(levels) - 1; i >= 0; i-- {
		if named := slog.Level(levels[i]); l >= named {
			return s.levels[named]
		}
	}

	return s.levels[slog.Level(LevelTrace)]
}

// prettyHandler writes one styled line of text per record.
// Colors are only emitted when the output is a color-capable terminal.
type prettyHandler struct {
	opts   slog.HandlerOptions
	styles styles
	mu     *sync.Mutex
	w      io.Writer
	prefix string   // preformatted attributes from WithAttrs
	groups []string // open groups from WithGroup
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		styles: makeStyles(lipgloss.NewRenderer(w)),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		if a := h.replace(nil, slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			buf.WriteString(h.styles.time.Render(a.Value.String()))
			buf.WriteByte(' ')
		}
	}

	level := strings.ToUpper(Level(r.Level).String())
	if a := h.replace(nil, slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		level = a.Value.String()
	}

	buf.WriteString(h.styles.levelStyle(r.Level).Render(fmt.Sprintf("%-5s", level)))
	buf.WriteByte(' ')

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			loc := filepath.Base(src.File) + ":" + strconv.Itoa(src.Line)
			buf.WriteString(h.styles.time.Render(loc))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.styles.msg.Render(r.Message))
	buf.WriteString(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.groups, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var buf bytes.Buffer

	for _, a := range attrs {
		h.writeAttr(&buf, h.groups, a)
	}

	c := *h
	c.prefix += buf.String()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyHandler) replace(groups []string, a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(groups, a)
}

// writeAttr writes a as " key=value", flattening groups into dotted keys.
func (h *prettyHandler) writeAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return
		}

		if a.Key != "" {
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, ga := range attrs {
			h.writeAttr(buf, groups, ga)
		}

		return
	}

	if a = h.replace(groups, a); a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	buf.WriteByte(' ')
	buf.WriteString(h.styles.key.Render(key + "="))
	buf.WriteString(h.value(a.Value))
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			s = strconv.Quote(s)
		}

		return h.styles.str.Render(s)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return h.styles.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.styles.yes.Render("true")
		}

		return h.styles.no.Render("false")

	case slog.KindTime:
		return h.styles.time.Render(v.Time().Format(DefaultTimeLayout))

	default:
		if err, ok := v.Any().(error); ok {
			return h.styles.no.Render(strconv.Quote(err.Error()))
		}

		return h.styles.str.Render(v.String())
	}
}
