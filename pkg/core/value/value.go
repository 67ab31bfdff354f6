package value

import (
	"strings"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeNull Type = iota
	TypeBoolean
	TypeNumeral
	TypeText
	TypeBook
	TypeCodex
	TypeJourney
)

var typeNames = [...]string{
	TypeNull:    "Null",
	TypeBoolean: "Boolean",
	TypeNumeral: "Numeral",
	TypeText:    "Text",
	TypeBook:    "Book",
	TypeCodex:   "Codex",
	TypeJourney: "Journey",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Value is a tagged union.
// Booleans and numerals live in Data; text, books, codices and journeys
// live in Opaque. The zero Value is ni.
type Value struct {
	Type   Type
	Data   uint64
	Opaque any
}

// Ni is the null value.
var Ni = Value{}

var (
	Yay = Value{Type: TypeBoolean, Data: 1}
	Nay = Value{Type: TypeBoolean, Data: 0}
)

func Veracity(b bool) Value {
	if b {
		return Yay
	}
	return Nay
}

func Numeral(n int64) Value {
	return Value{Type: TypeNumeral, Data: uint64(n)}
}

func Text(s string) Value {
	return Value{Type: TypeText, Opaque: s}
}

func FromBook(b *Book) Value {
	return Value{Type: TypeBook, Opaque: b}
}

func FromCodex(c *Codex) Value {
	return Value{Type: TypeCodex, Opaque: c}
}

func FromJourney(j *Journey) Value {
	return Value{Type: TypeJourney, Opaque: j}
}

func (v Value) IsNi() bool { return v.Type == TypeNull }

// Int returns the value as int64.
func (v Value) Int() int64 {
	return int64(v.Data)
}

// Bool returns the boolean payload; it does not convert other variants.
func (v Value) Bool() bool {
	return v.Type == TypeBoolean && v.Data != 0
}

// Str returns the text payload, or "" for non-text values.
func (v Value) Str() string {
	s, _ := v.Opaque.(string)
	return s
}

func (v Value) Book() *Book {
	b, _ := v.Opaque.(*Book)
	return b
}

func (v Value) Codex() *Codex {
	c, _ := v.Opaque.(*Codex)
	return c
}

func (v Value) Journey() *Journey {
	j, _ := v.Opaque.(*Journey)
	return j
}

// String returns the dump representation of the value.
func (v Value) String() string {
	var sb strings.Builder
	v.Dump(&sb)
	return sb.String()
}
