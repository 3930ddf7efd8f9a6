// Package schema compiles a small textual schema language describing the
// shape of a structured request body.
//
// A schema declares typed fields and how each is bound. [Compile] parses the
// schema and, given runtime inputs, builds the body as an ordered [Map] ready
// for serialization.
//
// # Grammar
//
// Informal EBNF. Whitespace outside and inside declarations is ignored.
//
//	Schema      → '{' Declaration (',' Declaration)* '}'
//	Declaration → '(' Key '=' Literal ')'               static
//	            | '(' Key ':' Type ')'                  dynamic
//	            | '(' Key ':' Type '=' Literal ')'      default
//	Key         → '"' <text not starting with a digit> '"'
//	Type        → 'String' | 'Number' | 'Boolean' | 'List' | 'Map'
//	            | 'List[String]' | 'List[Number]' | 'List[Boolean]'
//	Literal     → '"' <text> '"' | Number | 'true' | 'false'
//	            | '[' <list text> ']' | '{' Declaration* '}'
//	Number      → digits with at most one '.'
//
// # Binding Modes
//
// A static declaration carries a literal fixed at compile time; its type is
// inferred from the literal. A dynamic declaration names a key that must be
// present in the runtime inputs. A default declaration carries a literal that
// a runtime input of the same key replaces.
//
// Runtime inputs are a single flat map consulted by key at every nesting
// depth. Their values are used verbatim, without coercion to the declared
// type.
//
// # Example
//
//	{
//	  ("model"="gpt"),
//	  ("prompt":String),
//	  ("temperature":Number=0.7),
//	  ("stop"=["END", "STOP"]),
//	  ("meta"={("source"="cli"), ("user":String)})
//	}
//
// # List Literals
//
// List elements may be quoted strings, numbers, booleans, nested Lists and
// Maps. Elements keep their position in the literal. A declaration written
// directly as an element, as in ["a", ("b"=1), "c"], is resolved like any
// other declaration but is always placed after the positional elements:
// the example builds ["a", "c", 1].
//
// # Errors
//
// Errors are returned as [*Error] values matching one of the sentinels with
// [errors.Is]: [ErrMalformedSchema] (and the more specific [ErrInvalidKey]),
// [ErrMissingDynamicInput], [ErrInvalidInput], [ErrMaxDepthExceeded] and
// [ErrReadInput]. Each carries structured attributes for [log/slog].
package schema
