package value

import (
	"strconv"
	"strings"

	"github.com/agenthands/squire/pkg/core/fault"
)

// romanGlyphs maps every glyph accepted in a roman numeral to its
// ASCII spelling. The Unicode number forms that stand for several
// letters expand to all of them.
var romanGlyphs = map[rune]string{
	'I': "I", 'V': "V", 'X': "X", 'L': "L", 'C': "C", 'D': "D", 'M': "M",
	'i': "I", 'v': "V", 'x': "X", 'l': "L", 'c': "C", 'd': "D", 'm': "M",

	'Ⅰ': "I", 'Ⅱ': "II", 'Ⅲ': "III", 'Ⅳ': "IV", 'Ⅴ': "V", 'Ⅵ': "VI",
	'Ⅶ': "VII", 'Ⅷ': "VIII", 'Ⅸ': "IX", 'Ⅹ': "X", 'Ⅺ': "XI", 'Ⅻ': "XII",
	'Ⅼ': "L", 'Ⅽ': "C", 'Ⅾ': "D", 'Ⅿ': "M",

	'ⅰ': "I", 'ⅱ': "II", 'ⅲ': "III", 'ⅳ': "IV", 'ⅴ': "V", 'ⅵ': "VI",
	'ⅶ': "VII", 'ⅷ': "VIII", 'ⅸ': "IX", 'ⅹ': "X", 'ⅺ': "XI", 'ⅻ': "XII",
	'ⅼ': "L", 'ⅽ': "C", 'ⅾ': "D", 'ⅿ': "M",

	'ↀ': "M",
	'ↁ': strings.Repeat("M", 5),
	'ↂ': strings.Repeat("M", 10),
	'ↅ': "VI",
	'ↆ': "L",
	'ↇ': strings.Repeat("M", 50),
	'ↈ': strings.Repeat("M", 100),
}

var romanDigits = map[byte]int64{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// IsRomanGlyph reports whether r may appear in a roman numeral.
func IsRomanGlyph(r rune) bool {
	_, ok := romanGlyphs[r]
	return ok
}

// ParseRoman parses a run of roman glyphs and underscores. Only the
// canonical spelling of a number is accepted, so "XIV" parses while
// "IIV" and "VX" do not.
func ParseRoman(run string) (int64, error) {
	var sb strings.Builder
	for _, r := range run {
		if r == '_' {
			continue
		}
		exp, ok := romanGlyphs[r]
		if !ok {
			return 0, fault.New(fault.MalformedNumeral, "%q is not a roman numeral", run)
		}
		sb.WriteString(exp)
	}

	expanded := sb.String()
	if expanded == "" {
		return 0, fault.New(fault.MalformedNumeral, "%q has no digits", run)
	}

	var total int64
	for i := 0; i < len(expanded); i++ {
		d := romanDigits[expanded[i]]
		if i+1 < len(expanded) && d < romanDigits[expanded[i+1]] {
			total -= d
		} else {
			total += d
		}
	}

	if total <= 0 || FormatRoman(total) != expanded {
		return 0, fault.New(fault.MalformedNumeral, "%q is not a canonical roman numeral", run)
	}
	return total, nil
}

var romanSteps = []struct {
	value   int64
	numeral string
}{
	{900, "CM"}, {500, "D"}, {400, "CD"}, {100, "C"},
	{90, "XC"}, {50, "L"}, {40, "XL"}, {10, "X"},
	{9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// FormatRoman spells n in canonical upper-case roman numerals. Thousands
// are written as repeated M. Non-positive numbers have no spelling.
func FormatRoman(n int64) string {
	if n <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("M", int(n/1000)))
	n %= 1000
	for _, step := range romanSteps {
		for n >= step.value {
			sb.WriteString(step.numeral)
			n -= step.value
		}
	}
	return sb.String()
}

// ParseArabic parses a run of ASCII digits and underscores.
func ParseArabic(run string) (int64, error) {
	digits := strings.ReplaceAll(run, "_", "")
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fault.New(fault.MalformedNumeral, "%q does not fit a numeral", run)
	}
	return n, nil
}
