package schema

import (
	"cmp"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// token is one element recovered from the text of a List literal.
type token struct {
	start, end int // byte offsets into the scanned text, end exclusive
	kind       Kind
	value      Value  // scalar kinds only
	raw        string // KindList and KindMap only, delimiters included
}

// nest tracks quoting and delimiter depth while scanning List text.
// Each recognizer owns its own nest.
type nest struct {
	quoted  bool
	bracket int
	brace   int
	paren   int
}

// step advances the nesting state past r.
func (n *nest) step(r rune) {
	if r == '"' {
		n.quoted = !n.quoted

		return
	}

	if n.quoted {
		return
	}

	switch r {
	case '[':
		n.bracket++
	case ']':
		n.bracket--
	case '{':
		n.brace++
	case '}':
		n.brace--
	case '(':
		n.paren++
	case ')':
		n.paren--
	}
}

// free reports whether the scanner is outside quotes and all nesting.
func (n nest) free() bool {
	return !n.quoted && n.bracket == 0 && n.brace == 0 && n.paren == 0
}

// checkNesting rejects List text with unbalanced quotes or delimiters.
func checkNesting(text string) error {
	var n nest

	for i, r := range text {
		n.step(r)

		if n.bracket < 0 || n.brace < 0 || n.paren < 0 {
			return ErrMalformedSchema.With(
				slog.String("reason", "unbalanced list literal"),
				slog.Int("offset", i),
			)
		}
	}

	if !n.free() {
		return ErrMalformedSchema.With(
			slog.String("reason", "unterminated list literal"),
			slog.Int("offset", len(text)),
		)
	}

	return nil
}

// checkList rejects List text that cannot be scanned, without resolving it.
func checkList(text string) error {
	if err := checkNesting(text); err != nil {
		return err
	}

	_, err := scanNumbers(text)

	return err
}

// scanStrings recognizes quoted spans outside any nesting.
func scanStrings(text string) []token {
	var (
		toks  []token
		n     nest
		start int
	)

	for i, r := range text {
		if r == '"' && n.bracket == 0 && n.brace == 0 && n.paren == 0 {
			if !n.quoted {
				start = i
			} else {
				toks = append(toks, token{
					start: start,
					end:   i + 1,
					kind:  KindString,
					value: StringValue(text[start+1 : i]),
				})
			}
		}

		n.step(r)
	}

	return toks
}

// scanNumbers recognizes maximal runs of digits and '.' outside quotes and
// nesting. A run ends at the first other character or at the end of text.
func scanNumbers(text string) ([]token, error) {
	var (
		toks  []token
		n     nest
		start = -1
	)

	flush := func(end int) error {
		run := text[start:end]
		start = -1

		if strings.Trim(run, ".") == "" {
			return nil
		}

		v, err := parseNumber(run)
		if err != nil {
			return ErrMalformedSchema.With(
				slog.String("reason", "invalid number "+strconv.Quote(run)),
				slog.Int("offset", end-len(run)),
			)
		}

		toks = append(toks, token{
			start: end - len(run),
			end:   end,
			kind:  KindNumber,
			value: v,
		})

		return nil
	}

	for i, r := range text {
		if n.free() && (r < utf8.RuneSelf && isDigit(byte(r)) || r == '.') {
			if start < 0 {
				start = i
			}

			continue
		}

		if start >= 0 {
			if err := flush(i); err != nil {
				return nil, err
			}
		}

		n.step(r)
	}

	if start >= 0 {
		if err := flush(len(text)); err != nil {
			return nil, err
		}
	}

	return toks, nil
}

// scanBooleans recognizes maximal runs of letters outside quotes and nesting
// that equal "true" or "false", ignoring case.
func scanBooleans(text string) []token {
	var (
		toks  []token
		n     nest
		start = -1
	)

	flush := func(end int) {
		run := text[start:end]
		start = -1

		if strings.EqualFold(run, "true") || strings.EqualFold(run, "false") {
			toks = append(toks, token{
				start: end - len(run),
				end:   end,
				kind:  KindBoolean,
				value: BoolValue(strings.EqualFold(run, "true")),
			})
		}
	}

	for i, r := range text {
		if n.free() && unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}

			continue
		}

		if start >= 0 {
			flush(i)
		}

		n.step(r)
	}

	if start >= 0 {
		flush(len(text))
	}

	return toks
}

// scanLists recognizes balanced bracket spans. Brackets inside a brace
// nesting belong to a Map and are not counted.
func scanLists(text string) []token {
	return scanSpans(text, KindList, '[', ']', func(n nest) int { return n.bracket })
}

// scanMaps recognizes balanced brace spans. Braces inside a bracket nesting
// belong to a List and are not counted.
func scanMaps(text string) []token {
	return scanSpans(text, KindMap, '{', '}', func(n nest) int { return n.brace })
}

// scanDecls recognizes parenthesized declarations written directly as List
// elements, outside of any nested List or Map.
func scanDecls(text string) []token {
	return scanSpans(text, KindNull, '(', ')', func(n nest) int { return n.paren })
}

// scanSpans recognizes balanced spans opened by lhs at the top level and
// closed when depth returns to zero.
func scanSpans(
	text string,
	kind Kind,
	lhs, rhs rune,
	depth func(nest) int,
) []token {
	var (
		toks  []token
		n     nest
		start = -1
	)

	for i, r := range text {
		before := n
		n.step(r)

		switch {
		case r == lhs && before.free():
			start = i

		case r == rhs && start >= 0 && !before.quoted && depth(n) == 0:
			toks = append(toks, token{
				start: start,
				end:   i + 1,
				kind:  kind,
				raw:   text[start : i+1],
			})
			start = -1
		}
	}

	return toks
}

// scanList resolves the elements of a List literal given its text without the
// outer brackets.
//
// Strings, numbers, booleans, nested Lists and nested Maps are ordered by
// their position in text. Declarations written directly as elements are
// resolved afterward and always trail the positional elements, in their own
// source order.
func (b *builder) scanList(text string) (Value, error) {
	if err := checkNesting(text); err != nil {
		return Value{}, b.fail(err)
	}

	nums, err := scanNumbers(text)
	if err != nil {
		return Value{}, b.fail(err)
	}

	toks := slices.Concat(
		scanStrings(text),
		nums,
		scanBooleans(text),
		scanLists(text),
		scanMaps(text),
	)

	slices.SortStableFunc(toks, func(a, b token) int {
		return cmp.Compare(a.start, b.start)
	})

	decls := scanDecls(text)

	b.opts.logger.TraceContext(b.ctx, "list scanned",
		slog.String("path", b.path()),
		slog.Int("tokens", len(toks)),
		slog.Int("declarations", len(decls)))

	out := make([]Value, 0, len(toks)+len(decls))

	for i, tok := range toks {
		v, err := b.resolveToken(i, tok)
		if err != nil {
			return Value{}, err
		}

		out = append(out, v)
	}

	for _, tok := range decls {
		p, err := parseParam(stripSpace(tok.raw[1 : len(tok.raw)-1]))
		if err != nil {
			return Value{}, b.fail(err)
		}

		v, err := b.resolve(p)
		if err != nil {
			return Value{}, err
		}

		out = append(out, v)
	}

	return ListValue(out...), nil
}

// resolveToken returns the value of the element at index i.
func (b *builder) resolveToken(i int, tok token) (Value, error) {
	switch tok.kind {
	case KindList, KindMap:
		if err := b.enter("[" + strconv.Itoa(i) + "]"); err != nil {
			return Value{}, err
		}
		defer b.leave()

		body := tok.raw[1 : len(tok.raw)-1]

		if tok.kind == KindList {
			return b.scanList(body)
		}

		return b.buildBody(body)

	default:
		return tok.value, nil
	}
}
