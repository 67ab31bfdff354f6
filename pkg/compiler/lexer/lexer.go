// Package lexer turns source text into tokens. Numerals may be written
// in arabic digits or roman glyphs, and double-quoted text may embed
// expressions with \( ... ).
package lexer

import (
	"errors"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agenthands/squire/pkg/core/fault"
	"github.com/agenthands/squire/pkg/core/value"
)

var (
	ErrDoubleUndo    = errors.New("lexer: undo called twice without a Next in between")
	ErrNothingToUndo = errors.New("lexer: no token to undo")
)

// DefaultMaxDepth bounds how deeply interpolations may nest.
const DefaultMaxDepth = 64

// FrakturMode selects what a fraktur literal turns into.
type FrakturMode uint8

const (
	FrakturVerbatim FrakturMode = iota // keep the fraktur letters
	FrakturASCII                       // transliterate to plain letters
)

type Option func(*Lexer)

func WithMacros(m MacroExpander) Option {
	return func(l *Lexer) { l.macros = m }
}

func WithFraktur(mode FrakturMode) Option {
	return func(l *Lexer) { l.fraktur = mode }
}

func WithMaxDepth(n int) Option {
	return func(l *Lexer) { l.maxDepth = n }
}

// Lexer produces tokens from a Stream. It keeps the last token so that
// one token of lookahead can be handed back with Undo.
type Lexer struct {
	s        *Stream
	macros   MacroExpander
	fraktur  FrakturMode
	maxDepth int
	depth    int

	queue   []Token // expanded macro output not yet emitted
	last    Token
	hasLast bool
	undone  bool
}

func New(s *Stream, opts ...Option) *Lexer {
	l := &Lexer{s: s, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func NewString(src string, opts ...Option) *Lexer {
	return New(NewStringStream(src), opts...)
}

// Next returns the next token, or a KindEOF token once the source is
// exhausted. After an error the lexer makes no attempt to resynchronize.
func (l *Lexer) Next() (Token, error) {
	if l.undone {
		l.undone = false
		return l.last, nil
	}

	tok, err := l.nextToken()
	if err != nil {
		l.hasLast = false
		return Token{}, err
	}
	l.last, l.hasLast = tok, true
	return tok, nil
}

// Undo makes the following Next return the last token again. It may be
// called at most once between two calls to Next.
func (l *Lexer) Undo() error {
	if l.undone {
		return ErrDoubleUndo
	}
	if !l.hasLast {
		return ErrNothingToUndo
	}
	l.undone = true
	return nil
}

// Tokens yields every token up to, but not including, EOF. Iteration
// stops after the first error.
func (l *Lexer) Tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if tok.Kind == KindEOF || !yield(tok, nil) {
				return
			}
		}
	}
}

// All collects the remaining tokens.
func (l *Lexer) All() ([]Token, error) {
	var out []Token
	for tok, err := range l.Tokens() {
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
	return out, nil
}

func (l *Lexer) nextToken() (Token, error) {
	if len(l.queue) > 0 {
		tok := l.queue[0]
		l.queue = l.queue[1:]
		return tok, nil
	}

	l.s.StripWhitespaceAndComments()
	pos := l.s.Pos()
	tok, err := l.scan()
	if err != nil {
		return Token{}, err
	}
	if !tok.Pos.IsValid() {
		tok.Pos = pos
	}
	return tok, nil
}

func (l *Lexer) fail(err *fault.Error) error {
	return l.s.Error(err)
}

// eof reports err, unless the stream ran dry because its reader
// failed.
func (l *Lexer) eof(err *fault.Error) error {
	if rerr := l.s.Err(); rerr != nil {
		return rerr
	}
	return l.fail(err)
}

// stamp adds the current position to errors from the value package.
func (l *Lexer) stamp(err error) error {
	var fe *fault.Error
	if errors.As(err, &fe) {
		return l.fail(fe)
	}
	return err
}

func (l *Lexer) scan() (Token, error) {
	r, ok := l.s.Peek()
	if !ok {
		if err := l.s.Err(); err != nil {
			return Token{}, err
		}
		return Token{Kind: KindEOF}, nil
	}

	if kw, ok := l.keyword(); ok {
		return KeywordToken(kw), nil
	}
	if tok, ok, err := l.literal(r); ok || err != nil {
		return tok, err
	}
	if r == '@' {
		return l.macroInvocation()
	}
	if name, ok := l.identifier(); ok {
		return Identifier(name), nil
	}
	return l.punctuation()
}

func (l *Lexer) keyword() (Keyword, bool) {
	for kw := Keyword(0); kw < keywordCount; kw++ {
		if l.s.TakeIdentifier(keywordSpellings[kw]) {
			return kw, true
		}
	}
	return 0, false
}

func (l *Lexer) literal(r rune) (Token, bool, error) {
	var (
		v   value.Value
		ok  bool
		err error
	)

	switch {
	case value.IsRomanGlyph(r):
		if v, ok, err = l.roman(); ok || err != nil {
			return Literal(v), ok, err
		}
	case r >= '0' && r <= '9':
		v, err = l.arabic()
		return Literal(v), true, err
	case value.IsFraktur(r):
		v, err = l.frakturText()
		return Literal(v), true, err
	case r == '\'' || r == '"':
		tok, err := l.quoted()
		return tok, true, err
	}

	switch {
	case l.s.TakeIdentifier("yay"):
		return Literal(value.Yay), true, nil
	case l.s.TakeIdentifier("nay"):
		return Literal(value.Nay), true, nil
	case l.s.TakeIdentifier("ni"):
		return Literal(value.Ni), true, nil
	}
	return Token{}, false, nil
}

// roman reports false, leaving the stream untouched, when the run of
// glyphs is only the start of an identifier such as "Ivan".
func (l *Lexer) roman() (value.Value, bool, error) {
	run, _ := l.s.TakeWhile(func(r rune) bool { return value.IsRomanGlyph(r) || r == '_' })
	if next, ok := l.s.Peek(); ok && isAlnum(next) {
		l.s.PutBack(run)
		return value.Ni, false, nil
	}

	n, err := value.ParseRoman(run)
	if err != nil {
		return value.Ni, false, l.stamp(err)
	}
	return value.Numeral(n), true, nil
}

func (l *Lexer) arabic() (value.Value, error) {
	run, _ := l.s.TakeWhile(func(r rune) bool { return (r >= '0' && r <= '9') || r == '_' })
	if next, ok := l.s.Peek(); ok && isAlnum(next) {
		return value.Ni, l.fail(fault.WithRune(fault.BadTrailingChar, next))
	}

	n, err := value.ParseArabic(run)
	if err != nil {
		return value.Ni, l.stamp(err)
	}
	return value.Numeral(n), nil
}

func (l *Lexer) frakturText() (value.Value, error) {
	run, _ := l.s.TakeWhile(func(r rune) bool { return value.IsFraktur(r) || unicode.IsSpace(r) })
	text := strings.TrimRightFunc(run, unicode.IsSpace)
	l.s.PutBack(run[len(text):])

	if next, ok := l.s.Peek(); ok && isAlnum(next) {
		return value.Ni, l.fail(fault.WithRune(fault.BadFrakturSuffix, next))
	}
	if l.fraktur == FrakturASCII {
		text = value.TransliterateFraktur(text)
	}
	return value.Text(text), nil
}

func (l *Lexer) identifier() (string, bool) {
	r, ok := l.s.Peek()
	if !ok || !(unicode.IsLetter(r) || r == '_') {
		return "", false
	}
	return l.s.TakeWhile(isIdentRune)
}

func (l *Lexer) quoted() (Token, error) {
	quote, _ := l.s.Next()

	var (
		sb       strings.Builder
		segments []Segment
	)
	for {
		r, ok := l.s.Next()
		if !ok {
			return Token{}, l.eof(fault.New(fault.UnterminatedText, "missing closing %c", quote))
		}
		if r == quote {
			break
		}
		if r != '\\' {
			sb.WriteRune(r)
			continue
		}

		esc, ok := l.s.Next()
		if !ok {
			return Token{}, l.eof(fault.New(fault.UnterminatedEscape, "source ends after backslash"))
		}

		if quote == '\'' {
			if esc != '\\' && esc != '\'' {
				sb.WriteByte('\\')
			}
			sb.WriteRune(esc)
			continue
		}

		switch esc {
		case '\\', '"', '\'':
			sb.WriteRune(esc)
		case '\n':
			// line continuation
		case '\r':
			if !l.s.TakePrefix("\n") {
				return Token{}, l.fail(fault.WithRune(fault.UnknownEscape, esc))
			}
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'f':
			sb.WriteByte('\f')
		case '0':
			sb.WriteByte(0)
		case 'x':
			n, err := l.hex(2)
			if err != nil {
				return Token{}, err
			}
			sb.WriteRune(rune(n))
		case 'u':
			n, err := l.hex(4)
			if err != nil {
				return Token{}, err
			}
			if !utf8.ValidRune(rune(n)) {
				return Token{}, l.fail(fault.New(fault.InvalidHexEscape, "U+%04X is not a character", n))
			}
			sb.WriteRune(rune(n))
		case '(':
			inner, err := l.interpolation()
			if err != nil {
				return Token{}, err
			}
			segments = append(segments, Segment{Text: sb.String(), Tokens: inner})
			sb.Reset()
		default:
			return Token{}, l.fail(fault.WithRune(fault.UnknownEscape, esc))
		}
	}

	if len(segments) == 0 {
		return Literal(value.Text(sb.String())), nil
	}
	return Interpolation(segments, sb.String()), nil
}

// hex reads exactly n hex digits, most significant first.
func (l *Lexer) hex(n int) (int, error) {
	code := 0
	for range n {
		r, ok := l.s.Next()
		if !ok {
			return 0, l.eof(fault.New(fault.UnterminatedEscape, "source ends inside hex escape"))
		}
		d, ok := hexDigit(r)
		if !ok {
			return 0, l.fail(fault.WithRune(fault.InvalidHexDigit, r))
		}
		code = code<<4 | d
	}
	return code, nil
}

func hexDigit(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	}
	return 0, false
}

// interpolation collects the tokens of one \( ... ) escape, the opening
// paren already consumed, up to the matching close paren.
func (l *Lexer) interpolation() ([]Token, error) {
	if l.depth >= l.maxDepth {
		return nil, l.fail(fault.New(fault.NestingTooDeep, "interpolations nest deeper than %d", l.maxDepth))
	}
	l.depth++
	defer func() { l.depth-- }()

	var inner []Token
	nesting := 1
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}

		switch {
		case tok.Kind == KindEOF:
			return nil, l.eof(fault.New(fault.UnterminatedEscape, "source ends inside interpolation"))
		case tok.Kind == KindLeftParen && tok.Paren == Round:
			nesting++
		case tok.Kind == KindRightParen && tok.Paren == Round:
			nesting--
			if nesting == 0 {
				return inner, nil
			}
		}
		inner = append(inner, tok)
	}
}

func (l *Lexer) macroInvocation() (Token, error) {
	l.s.Next()
	l.s.StripWhitespaceAndComments()
	name, ok := l.identifier()
	if !ok {
		return Token{}, l.fail(fault.New(fault.MacroUnsupported, "expected a macro name after @"))
	}
	if l.macros == nil {
		return Token{}, l.fail(fault.New(fault.MacroUnsupported, "no expander for @%s", name))
	}

	toks, err := l.macros.Invoke(name, l.s)
	if err != nil {
		return Token{}, err
	}
	return l.expand(toks)
}

func (l *Lexer) macroVariable() (Token, error) {
	l.s.StripWhitespaceAndComments()
	name, ok := l.identifier()
	if !ok {
		return Token{}, l.fail(fault.New(fault.MacroUnsupported, "expected a variable name after $"))
	}
	if l.macros == nil {
		return Token{}, l.fail(fault.New(fault.MacroUnsupported, "no expander for $%s", name))
	}

	toks, err := l.macros.Variable(name)
	if err != nil {
		return Token{}, err
	}
	return l.expand(toks)
}

func (l *Lexer) expand(toks []Token) (Token, error) {
	l.queue = append(toks, l.queue...)
	return l.nextToken()
}

func (l *Lexer) punctuation() (Token, error) {
	r, _ := l.s.Next()
	switch r {
	case '$':
		return l.macroVariable()

	case '(':
		return LeftParen(Round), nil
	case '[':
		return LeftParen(Square), nil
	case '{':
		return LeftParen(Curly), nil
	case ')':
		return RightParen(Round), nil
	case ']':
		return RightParen(Square), nil
	case '}':
		return RightParen(Curly), nil

	case ';':
		return SymbolToken(Endline), nil
	case ',':
		return SymbolToken(Comma), nil
	case ':':
		return SymbolToken(Colon), nil
	case '.':
		return SymbolToken(Dot), nil
	case '=':
		return l.orEqual(EqualEqual, Equal), nil
	case '!':
		return l.orEqual(NotEqual, Exclamation), nil
	case '<':
		if l.s.TakePrefix("=>") {
			return SymbolToken(Compare), nil
		}
		return l.orEqual(LessThanOrEqual, LessThan), nil
	case '>':
		return l.orEqual(GreaterThanOrEqual, GreaterThan), nil
	case '+':
		return l.orEqual(PlusEqual, Plus), nil
	case '-':
		return l.orEqual(HyphenEqual, Hyphen), nil
	case '*':
		if l.s.TakePrefix("*") {
			return l.orEqual(AsteriskAsteriskEqual, AsteriskAsterisk), nil
		}
		return l.orEqual(AsteriskEqual, Asterisk), nil
	case '/':
		return l.orEqual(SolidusEqual, Solidus), nil
	case '%':
		return l.orEqual(PercentSignEqual, PercentSign), nil
	case '&':
		if l.s.TakePrefix("&") {
			return SymbolToken(AndAnd), nil
		}
	case '|':
		if l.s.TakePrefix("|") {
			return SymbolToken(OrOr), nil
		}
	}
	return Token{}, l.fail(fault.WithRune(fault.UnknownTokenStart, r))
}

func (l *Lexer) orEqual(with, without Symbol) Token {
	if l.s.TakePrefix("=") {
		return SymbolToken(with)
	}
	return SymbolToken(without)
}
