package value

import (
	"fmt"
	"strings"
)

var frakturUpper = [26]rune{
	'𝔄', '𝔅', 'ℭ', '𝔇', '𝔈', '𝔉', '𝔊',
	'ℌ', 'ℑ', '𝔍', '𝔎', '𝔏', '𝔐', '𝔑',
	'𝔒', '𝔓', '𝔔', 'ℜ', '𝔖', '𝔗', '𝔘',
	'𝔙', '𝔚', '𝔛', '𝔜', 'ℨ',
}

var frakturLower = [26]rune{
	'𝔞', '𝔟', '𝔠', '𝔡', '𝔢', '𝔣', '𝔤',
	'𝔥', '𝔦', '𝔧', '𝔨', '𝔩', '𝔪', '𝔫',
	'𝔬', '𝔭', '𝔮', '𝔯', '𝔰', '𝔱', '𝔲',
	'𝔳', '𝔴', '𝔵', '𝔶', '𝔷',
}

func IsFraktur(r rune) bool {
	_, ok := FromFraktur(r)
	return ok
}

// ToFraktur maps an ASCII letter to its fraktur form.
func ToFraktur(r rune) (rune, bool) {
	switch {
	case r >= 'A' && r <= 'Z':
		return frakturUpper[r-'A'], true
	case r >= 'a' && r <= 'z':
		return frakturLower[r-'a'], true
	}
	return 0, false
}

// FromFraktur maps a fraktur letter back to ASCII.
func FromFraktur(r rune) (rune, bool) {
	for i, f := range frakturUpper {
		if f == r {
			return 'A' + rune(i), true
		}
	}
	for i, f := range frakturLower {
		if f == r {
			return 'a' + rune(i), true
		}
	}
	return 0, false
}

// TransliterateFraktur replaces every fraktur letter in s with ASCII and
// leaves everything else alone.
func TransliterateFraktur(s string) string {
	return strings.Map(func(r rune) rune {
		if a, ok := FromFraktur(r); ok {
			return a
		}
		return r
	}, s)
}

// Quote renders s as a double-quoted literal the lexer reads back as s.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\x%02x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
