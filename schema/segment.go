package schema

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
)

// walker tracks nesting while descending into Map and List bodies.
type walker struct {
	ctx   context.Context
	opts  options
	depth int
	chain []string
}

func newWalker(ctx context.Context, opts options) *walker {
	return &walker{ctx: ctx, opts: opts}
}

// enter descends into the body of the parameter named key.
// Every successful call must be paired with a call to leave.
func (w *walker) enter(key string) error {
	if w.opts.maxDepth > 0 && w.depth >= w.opts.maxDepth {
		return ErrMaxDepthExceeded.With(
			slog.Int("depth", w.depth),
			slog.Int("max_depth", w.opts.maxDepth),
			slog.String("chain", strings.Join(w.chain, " → ")),
		)
	}

	w.chain = append(w.chain, key)
	w.depth++

	return nil
}

func (w *walker) leave() {
	w.depth--
	w.chain = w.chain[:len(w.chain)-1]
}

// path returns the dotted chain of enclosing keys.
func (w *walker) path() string { return strings.Join(w.chain, ".") }

// fail attaches the current path to err.
func (w *walker) fail(err error) error {
	if len(w.chain) == 0 {
		return err
	}

	return WrapError(err).With(slog.String("path", w.path()))
}

// splitSegments returns the top-level parenthesized declarations in body, in
// order, each with its parentheses kept and all whitespace removed.
//
// Parentheses inside double-quoted text are ignored. Text outside of any
// declaration is skipped.
func splitSegments(body string) ([]string, error) {
	var (
		segs   []string
		depth  int
		quoted bool
		start  int
	)

	unbalanced := func(reason string, offset int) error {
		return ErrMalformedSchema.With(
			slog.String("reason", reason),
			slog.Int("offset", offset),
		)
	}

	for i := range len(body) {
		switch c := body[i]; {
		case c == '"':
			quoted = !quoted

		case quoted:

		case c == '(':
			if depth == 0 {
				start = i
			}

			depth++

		case c == ')':
			depth--

			if depth < 0 {
				return nil, unbalanced("unexpected ')'", i)
			}

			if depth == 0 {
				segs = append(segs, stripSpace(body[start:i+1]))
			}
		}
	}

	switch {
	case depth > 0:
		return nil, unbalanced("unterminated declaration", start)
	case quoted:
		return nil, unbalanced("unterminated quoted text", len(body))
	}

	return segs, nil
}

// extractSegments parses the declarations at this level of body only.
// It also returns the raw segments, parentheses included.
func extractSegments(body string) ([]Param, []string, error) {
	segs, err := splitSegments(body)
	if err != nil {
		return nil, nil, err
	}

	params := make([]Param, 0, len(segs))

	for _, seg := range segs {
		p, err := parseParam(seg[1 : len(seg)-1])
		if err != nil {
			return nil, nil, err
		}

		params = append(params, p)
	}

	return params, segs, nil
}

// extractAll parses the declarations of body and, transitively, those of every
// Map and List body it carries. Parents precede their nested declarations.
func (w *walker) extractAll(body string) ([]Param, error) {
	params, _, err := extractSegments(body)
	if err != nil {
		return nil, w.fail(err)
	}

	w.opts.logger.TraceContext(w.ctx, "segments extracted",
		slog.String("path", w.path()),
		slog.Int("count", len(params)))

	all := make([]Param, 0, len(params))

	for _, p := range params {
		all = append(all, p)

		if !p.HasBody() {
			continue
		}

		if err := w.enter(p.Key); err != nil {
			return nil, err
		}

		if p.Type.IsList() {
			if err := checkList(p.Raw); err != nil {
				err = w.fail(err)
				w.leave()

				return nil, err
			}
		}

		nested, err := w.extractAll(p.Raw)

		w.leave()

		if err != nil {
			return nil, err
		}

		all = append(all, nested...)
	}

	return all, nil
}

// stripSpace removes all whitespace from s, including inside quoted text.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)
}
