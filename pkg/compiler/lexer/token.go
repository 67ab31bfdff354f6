package lexer

import (
	"strings"

	"github.com/agenthands/squire/pkg/core/fault"
	"github.com/agenthands/squire/pkg/core/value"
)

// Kind represents the type of token identified by the lexer.
type Kind uint8

const (
	KindEOF Kind = iota
	KindKeyword
	KindSymbol
	KindLeftParen
	KindRightParen
	KindLiteral
	KindInterpolation // quoted text with \( ... ) segments
	KindIdentifier
)

var kindNames = [...]string{
	KindEOF:           "EOF",
	KindKeyword:       "keyword",
	KindSymbol:        "symbol",
	KindLeftParen:     "left paren",
	KindRightParen:    "right paren",
	KindLiteral:       "literal",
	KindInterpolation: "interpolation",
	KindIdentifier:    "identifier",
}

func (k Kind) String() string { return kindNames[k] }

type Keyword uint8

const (
	Form     Keyword = iota // class
	Change                  // method
	Matter                  // field
	Essence                 // class field
	Recall                  // class method
	Imitate                 // constructor
	Journey                 // function
	Renowned                // global
	Nigh                    // local
	If                      // if
	Alas                    // else
	Whence                  // come from
	Whilst                  // while
	Reward                  // return
	Attempt                 // try
	Retreat                 // catch
	Catapult                // throw
	Fork                    // switch
	Path                    // case
	Challenge               // assert

	keywordCount
)

// Keywords are matched in this order.
var keywordSpellings = [keywordCount]string{
	Form:      "form",
	Change:    "change",
	Matter:    "matter",
	Essence:   "essence",
	Recall:    "recall",
	Imitate:   "imitate",
	Journey:   "journey",
	Renowned:  "renowned",
	Nigh:      "nigh",
	If:        "if",
	Alas:      "alas",
	Whence:    "whence",
	Whilst:    "whilst",
	Reward:    "reward",
	Attempt:   "attempt",
	Retreat:   "retreat",
	Catapult:  "catapult",
	Fork:      "fork",
	Path:      "path",
	Challenge: "challenge",
}

func (k Keyword) String() string { return keywordSpellings[k] }

type Symbol uint8

const (
	Endline Symbol = iota
	Comma
	Colon
	Dot
	Equal

	EqualEqual
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	Compare

	Plus
	PlusEqual
	Hyphen
	HyphenEqual
	Asterisk
	AsteriskEqual
	AsteriskAsterisk
	AsteriskAsteriskEqual
	Solidus
	SolidusEqual
	PercentSign
	PercentSignEqual

	Exclamation
	AndAnd
	OrOr
)

var symbolSpellings = [...]string{
	Endline: ";", Comma: ",", Colon: ":", Dot: ".", Equal: "=",
	EqualEqual: "==", NotEqual: "!=",
	LessThan: "<", LessThanOrEqual: "<=", GreaterThan: ">", GreaterThanOrEqual: ">=",
	Compare: "<=>",
	Plus: "+", PlusEqual: "+=", Hyphen: "-", HyphenEqual: "-=",
	Asterisk: "*", AsteriskEqual: "*=", AsteriskAsterisk: "**", AsteriskAsteriskEqual: "**=",
	Solidus: "/", SolidusEqual: "/=", PercentSign: "%", PercentSignEqual: "%=",
	Exclamation: "!", AndAnd: "&&", OrOr: "||",
}

func (s Symbol) String() string { return symbolSpellings[s] }

type ParenKind uint8

const (
	Round ParenKind = iota
	Square
	Curly
)

var parenSpellings = [...][2]string{
	Round:  {"(", ")"},
	Square: {"[", "]"},
	Curly:  {"{", "}"},
}

// Segment is the literal text in front of one interpolation together
// with the tokens of the interpolated expression.
type Segment struct {
	Text   string
	Tokens []Token
}

// Token is one lexical unit. Only the fields relevant to Kind are set.
// Pos is where the token starts and takes no part in Equal.
type Token struct {
	Kind    Kind
	Keyword Keyword
	Symbol  Symbol
	Paren   ParenKind

	Value    value.Value // KindLiteral
	Segments []Segment   // KindInterpolation
	Tail     string      // KindInterpolation: text after the last segment
	Name     string      // KindIdentifier

	Pos fault.Position
}

func KeywordToken(k Keyword) Token { return Token{Kind: KindKeyword, Keyword: k} }
func SymbolToken(s Symbol) Token { return Token{Kind: KindSymbol, Symbol: s} }
func LeftParen(p ParenKind) Token { return Token{Kind: KindLeftParen, Paren: p} }
func RightParen(p ParenKind) Token { return Token{Kind: KindRightParen, Paren: p} }
func Literal(v value.Value) Token { return Token{Kind: KindLiteral, Value: v} }
func Identifier(name string) Token { return Token{Kind: KindIdentifier, Name: name} }
func Interpolation(segs []Segment, tail string) Token {
	return Token{Kind: KindInterpolation, Segments: segs, Tail: tail}
}

// IsLiteral reports whether the token carries a value, interpolated or not.
func (t Token) IsLiteral() bool {
	return t.Kind == KindLiteral || t.Kind == KindInterpolation
}

// Equal compares tokens structurally.
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindKeyword:
		return t.Keyword == o.Keyword
	case KindSymbol:
		return t.Symbol == o.Symbol
	case KindLeftParen, KindRightParen:
		return t.Paren == o.Paren
	case KindLiteral:
		return t.Value.Type == o.Value.Type && t.Value.IsEqual(o.Value)
	case KindInterpolation:
		if t.Tail != o.Tail || len(t.Segments) != len(o.Segments) {
			return false
		}
		for i, seg := range t.Segments {
			if seg.Text != o.Segments[i].Text || !equalTokens(seg.Tokens, o.Segments[i].Tokens) {
				return false
			}
		}
		return true
	case KindIdentifier:
		return t.Name == o.Name
	}
	return true
}

func equalTokens(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (t Token) String() string {
	switch t.Kind {
	case KindKeyword:
		return t.Keyword.String()
	case KindSymbol:
		return t.Symbol.String()
	case KindLeftParen:
		return parenSpellings[t.Paren][0]
	case KindRightParen:
		return parenSpellings[t.Paren][1]
	case KindLiteral:
		return t.Value.String()
	case KindIdentifier:
		return t.Name
	case KindInterpolation:
		var sb strings.Builder
		sb.WriteByte('"')
		for _, seg := range t.Segments {
			sb.WriteString(quoteBody(seg.Text))
			sb.WriteString(`\(`)
			for i, tok := range seg.Tokens {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(tok.String())
			}
			sb.WriteByte(')')
		}
		sb.WriteString(quoteBody(t.Tail))
		sb.WriteByte('"')
		return sb.String()
	}
	return t.Kind.String()
}

func quoteBody(s string) string {
	q := value.Quote(s)
	return q[1 : len(q)-1]
}
