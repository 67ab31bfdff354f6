package fault

import (
	"fmt"
	"strings"
)

// Kind classifies every failure raised by the lexer and the value model.
// A Kind is itself an error so callers can match with errors.Is.
type Kind uint8

const (
	// Lexical
	UnknownTokenStart Kind = iota + 1
	BadTrailingChar
	MalformedNumeral
	BadFrakturSuffix
	UnterminatedEscape
	UnterminatedText
	InvalidHexDigit
	InvalidHexEscape
	UnknownEscape
	MacroUnsupported
	NestingTooDeep

	// Runtime
	ArgumentCount
	UnknownAttribute
	Unsupported
	IndexOutOfBounds
	MissingKey
	Arithmetic
)

var kindNames = [...]string{
	UnknownTokenStart:  "unknown token start",
	BadTrailingChar:    "bad trailing character",
	MalformedNumeral:   "malformed numeral",
	BadFrakturSuffix:   "bad fraktur suffix",
	UnterminatedEscape: "unterminated escape sequence",
	UnterminatedText:   "unterminated text literal",
	InvalidHexDigit:    "invalid hex digit",
	InvalidHexEscape:   "invalid hex escape",
	UnknownEscape:      "unknown escape character",
	MacroUnsupported:   "macro unsupported",
	NestingTooDeep:     "nesting too deep",
	ArgumentCount:      "argument count mismatch",
	UnknownAttribute:   "unknown attribute",
	Unsupported:        "unsupported operation",
	IndexOutOfBounds:   "index out of bounds",
	MissingKey:         "missing key",
	Arithmetic:         "arithmetic error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("fault(%d)", uint8(k))
}

func (k Kind) Error() string { return k.String() }

// IsLexical reports whether the kind is raised while tokenizing.
func (k Kind) IsLexical() bool {
	return k >= UnknownTokenStart && k <= NestingTooDeep
}

// Position is a 1-based line and column in the source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is the single error type shared by the lexer and the value model.
// Only the fields relevant to Kind are populated.
type Error struct {
	Kind     Kind
	Pos      Position
	Rune     rune
	Given    int
	Expected int
	Name     string
	Detail   string
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Pos.IsValid() {
		sb.WriteString(e.Pos.String())
		sb.WriteString(": ")
	}
	sb.WriteString(e.message())
	return sb.String()
}

func (e *Error) message() string {
	switch e.Kind {
	case UnknownTokenStart, BadTrailingChar, BadFrakturSuffix, InvalidHexDigit, UnknownEscape:
		return fmt.Sprintf("%s %q", e.Kind, e.Rune)
	case ArgumentCount:
		return fmt.Sprintf("%s: given %d, expected %d", e.Kind, e.Given, e.Expected)
	case UnknownAttribute:
		return fmt.Sprintf("%s %q", e.Kind, e.Name)
	case Unsupported:
		return fmt.Sprintf("%s %s for %s", e.Kind, e.Name, e.Detail)
	}
	if e.Detail != "" {
		return e.Kind.String() + ": " + e.Detail
	}
	return e.Kind.String()
}

// Unwrap exposes the kind so errors.Is(err, fault.ArgumentCount) works.
func (e *Error) Unwrap() error { return e.Kind }

// At attaches a source position and returns the receiver.
func (e *Error) At(pos Position) *Error {
	e.Pos = pos
	return e
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// WithRune builds an error about a single offending character.
func WithRune(kind Kind, r rune) *Error {
	return &Error{Kind: kind, Rune: r}
}

func ArgCount(given, expected int) *Error {
	return &Error{Kind: ArgumentCount, Given: given, Expected: expected}
}

func UnknownAttr(name string) *Error {
	return &Error{Kind: UnknownAttribute, Name: name}
}

// NotImplemented reports an operation that is not defined for the given
// operand type names.
func NotImplemented(op string, operands ...string) *Error {
	return &Error{Kind: Unsupported, Name: op, Detail: strings.Join(operands, " and ")}
}
