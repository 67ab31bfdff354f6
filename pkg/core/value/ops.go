package value

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/agenthands/squire/pkg/core/fault"
)

// Dump appends a debug representation of v. Text is quoted so that a
// dumped text or numeral lexes back to an equal value.
func (v Value) Dump(sb *strings.Builder) {
	v.dump(sb, 0)
}

func (v Value) dump(sb *strings.Builder, depth int) {
	if depth > maxDepth {
		sb.WriteString("...")
		return
	}

	switch v.Type {
	case TypeNull:
		sb.WriteString("ni")
	case TypeBoolean:
		if v.Data != 0 {
			sb.WriteString("yay")
		} else {
			sb.WriteString("nay")
		}
	case TypeNumeral:
		sb.WriteString(strconv.FormatInt(v.Int(), 10))
	case TypeText:
		sb.WriteString(Quote(v.Str()))
	case TypeBook:
		sb.WriteByte('[')
		for i, p := range v.Book().pages {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.dump(sb, depth+1)
		}
		sb.WriteByte(']')
	case TypeCodex:
		sb.WriteByte('{')
		for i, e := range v.Codex().entries() {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.Key.dump(sb, depth+1)
			sb.WriteString(": ")
			e.Value.dump(sb, depth+1)
		}
		sb.WriteByte('}')
	case TypeJourney:
		sb.WriteString(v.Journey().String())
	default:
		sb.WriteString("<unknown>")
	}
}

// ConvertTo coerces v to the variant named by t. Boolean, Text, Book
// (sequence) and Numeral are the supported targets.
func (v Value) ConvertTo(t Type) (Value, error) {
	switch t {
	case TypeBoolean:
		return Veracity(v.truthy()), nil
	case TypeText:
		return v.toText()
	case TypeBook:
		return v.toBook()
	case TypeNumeral:
		return v.toNumeral()
	}
	return Ni, fault.NotImplemented("convert to "+t.String(), v.Type.String())
}

func (v Value) truthy() bool {
	switch v.Type {
	case TypeNull:
		return false
	case TypeBoolean:
		return v.Data != 0
	case TypeNumeral:
		return v.Int() != 0
	case TypeText:
		return v.Str() != ""
	case TypeBook:
		return v.Book().Len() != 0
	case TypeCodex:
		return v.Codex().Len() != 0
	}
	return true
}

func (v Value) toText() (Value, error) {
	switch v.Type {
	case TypeText:
		return v, nil
	case TypeNull, TypeBoolean, TypeNumeral, TypeJourney:
		return Text(v.String()), nil
	}

	var sb strings.Builder
	v.writeText(&sb, 0)
	return Text(sb.String()), nil
}

// writeText renders containers with the text form of their elements,
// unlike Dump which quotes nested text.
func (v Value) writeText(sb *strings.Builder, depth int) {
	if depth > maxDepth {
		sb.WriteString("...")
		return
	}

	switch v.Type {
	case TypeText:
		sb.WriteString(v.Str())
	case TypeBook:
		sb.WriteByte('[')
		for i, p := range v.Book().pages {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.writeText(sb, depth+1)
		}
		sb.WriteByte(']')
	case TypeCodex:
		sb.WriteByte('{')
		for i, e := range v.Codex().entries() {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.Key.writeText(sb, depth+1)
			sb.WriteString(": ")
			e.Value.writeText(sb, depth+1)
		}
		sb.WriteByte('}')
	default:
		v.dump(sb, depth)
	}
}

func (v Value) toBook() (Value, error) {
	switch v.Type {
	case TypeNull:
		return FromBook(NewBook()), nil
	case TypeBook:
		return v, nil
	case TypeText:
		var pages []Value
		for _, r := range v.Str() {
			pages = append(pages, Text(string(r)))
		}
		return FromBook(NewBook(pages...)), nil
	case TypeCodex:
		entries := v.Codex().Entries()
		pages := make([]Value, len(entries))
		for i, e := range entries {
			pages[i] = FromBook(NewBook(e.Key, e.Value))
		}
		return FromBook(NewBook(pages...)), nil
	}
	return Ni, fault.NotImplemented("convert to Book", v.Type.String())
}

func (v Value) toNumeral() (Value, error) {
	switch v.Type {
	case TypeNull:
		return Numeral(0), nil
	case TypeBoolean:
		return Numeral(int64(v.Data)), nil
	case TypeNumeral:
		return v, nil
	case TypeText:
		s := strings.TrimSpace(v.Str())
		if s != "" && s[0] >= '0' && s[0] <= '9' {
			n, err := ParseArabic(s)
			return Numeral(n), err
		}
		n, err := ParseRoman(s)
		return Numeral(n), err
	}
	return Ni, fault.NotImplemented("convert to Numeral", v.Type.String())
}

func unsupported(op string, lhs, rhs Value) error {
	return fault.NotImplemented(op, lhs.Type.String(), rhs.Type.String())
}

// Add implements `+`. Codex addition is a right-biased union and accepts
// either another codex or a book of [key, value] books.
func (v Value) Add(rhs Value) (Value, error) {
	switch v.Type {
	case TypeNumeral:
		if rhs.Type == TypeNumeral {
			return Numeral(v.Int() + rhs.Int()), nil
		}
	case TypeText:
		if rhs.Type == TypeText {
			return Text(v.Str() + rhs.Str()), nil
		}
	case TypeBook:
		if rhs.Type == TypeBook {
			lp, rp := v.Book().pages, rhs.Book().pages
			pages := make([]Value, 0, len(lp)+len(rp))
			pages = append(pages, lp...)
			pages = append(pages, rp...)
			return FromBook(NewBook(pages...)), nil
		}
	case TypeCodex:
		pairs, err := pairsOf(rhs)
		if err != nil {
			return Ni, err
		}
		return FromCodex(v.Codex().Union(pairs)), nil
	}
	return Ni, unsupported("+", v, rhs)
}

func pairsOf(v Value) ([]Entry, error) {
	switch v.Type {
	case TypeCodex:
		c := v.Codex()
		pairs := make([]Entry, 0, c.Len())
		for _, bucket := range c.buckets {
			pairs = append(pairs, bucket...)
		}
		return pairs, nil
	case TypeBook:
		pages := v.Book().pages
		pairs := make([]Entry, len(pages))
		for i, p := range pages {
			if p.Type != TypeBook || p.Book().Len() != 2 {
				return nil, fault.New(fault.Unsupported, "page %d is not a [key, value] pair", i+1)
			}
			kv := p.Book().pages
			pairs[i] = Entry{Key: kv[0], Value: kv[1]}
		}
		return pairs, nil
	}
	return nil, fault.NotImplemented("+", TypeCodex.String(), v.Type.String())
}

// Subtract implements `-`. Codex subtraction removes every key found in
// the rhs codex (its keys) or book (its pages).
func (v Value) Subtract(rhs Value) (Value, error) {
	switch v.Type {
	case TypeNumeral:
		if rhs.Type == TypeNumeral {
			return Numeral(v.Int() - rhs.Int()), nil
		}
	case TypeCodex:
		switch rhs.Type {
		case TypeCodex:
			entries := rhs.Codex().entries()
			keys := make([]Value, len(entries))
			for i, e := range entries {
				keys[i] = e.Key
			}
			return FromCodex(v.Codex().Difference(keys)), nil
		case TypeBook:
			return FromCodex(v.Codex().Difference(rhs.Book().pages)), nil
		}
	}
	return Ni, unsupported("-", v, rhs)
}

func (v Value) Multiply(rhs Value) (Value, error) {
	switch v.Type {
	case TypeNumeral:
		if rhs.Type == TypeNumeral {
			return Numeral(v.Int() * rhs.Int()), nil
		}
	case TypeText:
		if rhs.Type == TypeNumeral {
			n := rhs.Int()
			if n < 0 {
				return Ni, fault.New(fault.Arithmetic, "cannot repeat text %d times", n)
			}
			src := v.Str()
			if src == "" || n == 0 {
				return Text(""), nil
			}
			if err := checkRepeat(len(src), n); err != nil {
				return Ni, err
			}
			return Text(strings.Repeat(src, int(n))), nil
		}
	case TypeBook:
		if rhs.Type == TypeNumeral {
			n := rhs.Int()
			if n < 0 {
				return Ni, fault.New(fault.Arithmetic, "cannot repeat book %d times", n)
			}
			src := v.Book().pages
			if len(src) == 0 || n == 0 {
				return FromBook(NewBook()), nil
			}
			if err := checkRepeat(len(src), n); err != nil {
				return Ni, err
			}
			pages := make([]Value, 0, len(src)*int(n))
			for i := int64(0); i < n; i++ {
				pages = append(pages, src...)
			}
			return FromBook(NewBook(pages...)), nil
		}
	}
	return Ni, unsupported("*", v, rhs)
}

// checkRepeat rejects repetitions whose result would exceed MaxLength.
func checkRepeat(size int, n int64) error {
	if n > int64(MaxLength/size) {
		return fault.New(fault.Arithmetic, "repeat count %d too large", n)
	}
	return nil
}

func (v Value) Divide(rhs Value) (Value, error) {
	if v.Type != TypeNumeral || rhs.Type != TypeNumeral {
		return Ni, unsupported("/", v, rhs)
	}
	if rhs.Int() == 0 {
		return Ni, fault.New(fault.Arithmetic, "division by zero")
	}
	return Numeral(v.Int() / rhs.Int()), nil
}

func (v Value) Modulo(rhs Value) (Value, error) {
	if v.Type != TypeNumeral || rhs.Type != TypeNumeral {
		return Ni, unsupported("%", v, rhs)
	}
	if rhs.Int() == 0 {
		return Ni, fault.New(fault.Arithmetic, "modulo by zero")
	}
	return Numeral(v.Int() % rhs.Int()), nil
}

func (v Value) Power(rhs Value) (Value, error) {
	if v.Type != TypeNumeral || rhs.Type != TypeNumeral {
		return Ni, unsupported("**", v, rhs)
	}
	exp := rhs.Int()
	if exp < 0 {
		return Ni, fault.New(fault.Arithmetic, "negative exponent %d", exp)
	}

	base, result := v.Int(), int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return Numeral(result), nil
}

// IsEqual never fails: values of different variants are simply unequal.
func (v Value) IsEqual(rhs Value) bool {
	return v.equal(rhs, 0)
}

func (v Value) equal(rhs Value, depth int) bool {
	if v.Type != rhs.Type {
		return false
	}
	if depth > maxDepth {
		return true
	}

	switch v.Type {
	case TypeNull:
		return true
	case TypeBoolean, TypeNumeral:
		return v.Data == rhs.Data
	case TypeText:
		return v.Str() == rhs.Str()
	case TypeBook:
		lp, rp := v.Book().pages, rhs.Book().pages
		if len(lp) != len(rp) {
			return false
		}
		for i := range lp {
			if !lp[i].equal(rp[i], depth+1) {
				return false
			}
		}
		return true
	case TypeCodex:
		lc, rc := v.Codex(), rhs.Codex()
		if lc == rc {
			return true
		}
		if lc.Len() != rc.Len() {
			return false
		}
		for _, bucket := range lc.buckets {
			for _, e := range bucket {
				other, ok := rc.Get(e.Key)
				if !ok || !e.Value.equal(other, depth+1) {
					return false
				}
			}
		}
		return true
	case TypeJourney:
		return v.Journey() == rhs.Journey()
	}
	return false
}

// Compare orders v against rhs. ok is false when the pair has no
// ordering: mismatched variants, or codices and journeys that are not
// equal.
func (v Value) Compare(rhs Value) (int, bool) {
	if v.Type != rhs.Type {
		return 0, false
	}

	switch v.Type {
	case TypeNull, TypeBoolean, TypeNumeral, TypeText:
		return order(v, rhs, 0), true
	case TypeBook:
		lp, rp := v.Book().pages, rhs.Book().pages
		for i := 0; i < len(lp) && i < len(rp); i++ {
			c, ok := lp[i].Compare(rp[i])
			if !ok {
				return 0, false
			}
			if c != 0 {
				return c, true
			}
		}
		return cmp.Compare(len(lp), len(rp)), true
	}

	if v.IsEqual(rhs) {
		return 0, true
	}
	return 0, false
}

// GetIndex reads a page of a book, a character of a text, or the value
// stored under key in a codex.
func (v Value) GetIndex(key Value) (Value, error) {
	switch v.Type {
	case TypeBook:
		if key.Type != TypeNumeral {
			return Ni, unsupported("index", v, key)
		}
		return v.Book().Get(key.Int())
	case TypeText:
		if key.Type != TypeNumeral {
			return Ni, unsupported("index", v, key)
		}
		chars := []rune(v.Str())
		page, err := offset(key.Int(), len(chars))
		if err != nil {
			return Ni, err
		}
		if page >= len(chars) {
			return Ni, fault.New(fault.IndexOutOfBounds, "index %d past the end of text (%d)", key.Int(), len(chars))
		}
		return Text(string(chars[page])), nil
	case TypeCodex:
		val, ok := v.Codex().Get(key)
		if !ok {
			return Ni, fault.New(fault.MissingKey, "%s", key.String())
		}
		return val, nil
	}
	return Ni, unsupported("index", v, key)
}

// SetIndex stores val in place. Every holder of the book or codex
// observes the change.
func (v Value) SetIndex(key, val Value) error {
	switch v.Type {
	case TypeBook:
		if key.Type != TypeNumeral {
			return unsupported("index assign", v, key)
		}
		return v.Book().Set(key.Int(), val)
	case TypeCodex:
		v.Codex().Insert(key, val)
		return nil
	}
	return unsupported("index assign", v, key)
}

func (v Value) GetAttr(name string) (Value, error) {
	switch v.Type {
	case TypeText:
		if name == "len" {
			return Numeral(int64(len([]rune(v.Str())))), nil
		}
	case TypeBook:
		if name == "len" {
			return Numeral(int64(v.Book().Len())), nil
		}
	case TypeCodex:
		c := v.Codex()
		switch name {
		case "len":
			return Numeral(int64(c.Len())), nil
		case "keys", "values":
			entries := c.Entries()
			pages := make([]Value, len(entries))
			for i, e := range entries {
				if name == "keys" {
					pages[i] = e.Key
				} else {
					pages[i] = e.Value
				}
			}
			return FromBook(NewBook(pages...)), nil
		}
	case TypeJourney:
		return v.Journey().attr(name)
	}
	return Ni, fault.UnknownAttr(name)
}

// Call invokes a journey; every other variant rejects it.
func (v Value) Call(rt Runtime, args []Value) (Value, error) {
	if v.Type == TypeJourney {
		return v.Journey().Call(rt, args)
	}
	return Ni, fault.NotImplemented("call", v.Type.String())
}
