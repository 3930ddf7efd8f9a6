package schema

import (
	"log/slog"
	"strconv"
	"strings"
)

// Mode determines when a parameter's value is bound.
type Mode int

const (
	// ModeStatic parameters carry a literal fixed at compile time.
	ModeStatic Mode = iota

	// ModeDynamic parameters must be supplied by the runtime inputs.
	ModeDynamic

	// ModeDefault parameters carry a literal the runtime inputs may override.
	ModeDefault
)

// String returns a string representation of the binding mode.
func (m Mode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeDynamic:
		return "dynamic"
	case ModeDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Type is a declared (or, for static parameters, inferred) parameter type.
type Type int

const (
	TypeString Type = iota
	TypeNumber
	TypeBoolean
	TypeList
	TypeMap
	TypeListString
	TypeListNumber
	TypeListBoolean
)

// typeToken maps each type to its token in schema text.
var typeToken = [...]string{
	TypeString:      "String",
	TypeNumber:      "Number",
	TypeBoolean:     "Boolean",
	TypeList:        "List",
	TypeMap:         "Map",
	TypeListString:  "List[String]",
	TypeListNumber:  "List[Number]",
	TypeListBoolean: "List[Boolean]",
}

// String returns the type token as written in schema text.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeToken) {
		return "Unknown"
	}

	return typeToken[t]
}

// IsList reports whether t is List or one of the List[T] forms.
func (t Type) IsList() bool {
	switch t {
	case TypeList, TypeListString, TypeListNumber, TypeListBoolean:
		return true
	default:
		return false
	}
}

// parseType returns the type named by token, which must match exactly.
func parseType(token string) (Type, bool) {
	for t, s := range typeToken {
		if s == token {
			return Type(t), true
		}
	}

	return 0, false
}

// Param is a parsed parameter declaration.
//
// Scalar literals of static and default parameters are held in Value.
// List and Map literals are held unparsed in Raw, without their outer
// brackets or braces, and resolved lazily when the body is built.
type Param struct {
	Key   string
	Mode  Mode
	Type  Type
	Value Value
	Raw   string
}

// HasBody reports whether p carries a List or Map literal in Raw.
func (p Param) HasBody() bool {
	return p.Mode != ModeDynamic && (p.Type == TypeMap || p.Type.IsList())
}

// LogValue implements slog.LogValuer.
func (p Param) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("key", p.Key),
		slog.String("mode", p.Mode.String()),
		slog.String("type", p.Type.String()),
	}

	if p.HasBody() {
		attrs = append(attrs, slog.String("raw", p.Raw))
	} else if p.Mode != ModeDynamic {
		attrs = append(attrs, slog.String("value", p.Value.String()))
	}

	return slog.GroupValue(attrs...)
}

// parseParam parses one declaration with its parentheses and all whitespace
// already removed, e.g. `"age":Number=18`.
func parseParam(decl string) (Param, error) {
	invalid := func(reason string) (Param, error) {
		return Param{}, ErrMalformedSchema.With(
			slog.String("declaration", decl),
			slog.String("reason", reason),
		)
	}

	if len(decl) < 2 || decl[0] != '"' {
		return invalid("declaration must begin with a quoted key")
	}

	// A digit immediately after the opening quote is rejected.
	if isDigit(decl[1]) {
		return Param{}, ErrInvalidKey.With(
			slog.String("declaration", decl),
			slog.String("reason", "key begins with a digit"),
		)
	}

	end := strings.IndexByte(decl[1:], '"')
	if end < 0 {
		return invalid("unterminated key")
	}

	key, rest := decl[1:end+1], decl[end+2:]
	if key == "" {
		return invalid("empty key")
	}

	if rest == "" {
		return invalid("expected '=' or ':' after key")
	}

	switch rest[0] {
	case '=':
		return parseStatic(key, rest[1:], invalid)

	case ':':
		rest = rest[1:]

		if t, ok := parseType(rest); ok {
			return Param{Key: key, Mode: ModeDynamic, Type: t}, nil
		}

		token, lit, ok := strings.Cut(rest, "=")
		if !ok {
			return invalid("unrecognized type " + strconv.Quote(rest))
		}

		t, ok := parseType(token)
		if !ok {
			return invalid("unrecognized type " + strconv.Quote(token))
		}

		return parseDefault(key, t, lit, invalid)

	default:
		return invalid("expected '=' or ':' after key")
	}
}

func parseStatic(
	key, lit string,
	invalid func(string) (Param, error),
) (Param, error) {
	p := Param{Key: key, Mode: ModeStatic}

	switch {
	case enclosed(lit, '"', '"'):
		p.Type = TypeString
		p.Value = StringValue(lit[1 : len(lit)-1])

	case enclosed(lit, '{', '}'):
		p.Type = TypeMap
		p.Raw = lit[1 : len(lit)-1]

	case enclosed(lit, '[', ']'):
		p.Type = TypeList
		p.Raw = lit[1 : len(lit)-1]

	case lit == "true" || lit == "false":
		p.Type = TypeBoolean
		p.Value = BoolValue(lit == "true")

	case isNumberLiteral(lit):
		v, err := parseNumber(lit)
		if err != nil {
			return invalid("invalid number " + strconv.Quote(lit))
		}

		p.Type = TypeNumber
		p.Value = v

	default:
		return invalid("unrecognized literal " + strconv.Quote(lit))
	}

	return p, nil
}

func parseDefault(
	key string,
	t Type,
	lit string,
	invalid func(string) (Param, error),
) (Param, error) {
	p := Param{Key: key, Mode: ModeDefault, Type: t}

	if enclosed(lit, '"', '"') || enclosed(lit, '[', ']') ||
		enclosed(lit, '{', '}') {
		lit = lit[1 : len(lit)-1]
	}

	switch {
	case t == TypeMap || t.IsList():
		p.Raw = lit

	case t == TypeString:
		p.Value = StringValue(lit)

	case t == TypeNumber:
		v, err := parseNumber(lit)
		if err != nil {
			return invalid("invalid default number " + strconv.Quote(lit))
		}

		p.Value = v

	case t == TypeBoolean:
		p.Value = BoolValue(strings.EqualFold(lit, "true"))
	}

	return p, nil
}

// parseNumber returns an integer unless s contains a decimal point.
func parseNumber(s string) (Value, error) {
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, err
		}

		return FloatValue(f), nil
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}, err
	}

	return IntValue(i), nil
}

// isNumberLiteral reports whether s is ASCII digits with at most one '.'.
func isNumberLiteral(s string) bool {
	digits, dots := 0, 0

	for i := range len(s) {
		switch {
		case isDigit(s[i]):
			digits++
		case s[i] == '.':
			dots++
		default:
			return false
		}
	}

	return digits > 0 && dots <= 1
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// enclosed reports whether s is at least two bytes long and wrapped by lhs
// and rhs.
func enclosed(s string, lhs, rhs byte) bool {
	return len(s) >= 2 && s[0] == lhs && s[len(s)-1] == rhs
}
