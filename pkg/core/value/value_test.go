package value_test

import (
	"errors"
	"testing"

	"github.com/agenthands/squire/pkg/core/fault"
	"github.com/agenthands/squire/pkg/core/value"
)

func TestValueCreation(t *testing.T) {
	n := value.Numeral(42)
	if n.Type != value.TypeNumeral {
		t.Errorf("expected TypeNumeral, got %v", n.Type)
	}
	if n.Int() != 42 {
		t.Errorf("expected 42, got %v", n.Int())
	}

	if !value.Veracity(true).Bool() || value.Veracity(false).Bool() {
		t.Errorf("veracity round trip failed")
	}

	var zero value.Value
	if !zero.IsNi() {
		t.Errorf("expected the zero value to be ni")
	}

	neg := value.Numeral(-7)
	if neg.Int() != -7 {
		t.Errorf("expected -7, got %d", neg.Int())
	}
}

func TestDump(t *testing.T) {
	codex := value.CodexOf(
		value.Entry{Key: value.Text("b"), Value: value.Numeral(2)},
		value.Entry{Key: value.Text("a"), Value: value.Numeral(1)},
	)

	tests := []struct {
		name string
		v    value.Value
		want string
	}{
		{"Ni", value.Ni, "ni"},
		{"Yay", value.Yay, "yay"},
		{"Nay", value.Nay, "nay"},
		{"Numeral", value.Numeral(-12), "-12"},
		{"Text", value.Text("a\nb\"c\\"), `"a\nb\"c\\"`},
		{"Control", value.Text("\x01"), `"\x01"`},
		{"Book", value.FromBook(value.NewBook(value.Numeral(1), value.Text("x"))), `[1, "x"]`},
		{"EmptyCodex", value.FromCodex(value.NewCodex()), "{}"},
		{"Codex", value.FromCodex(codex), `{"a": 1, "b": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDumpStopsOnCycles(t *testing.T) {
	b := value.NewBook()
	self := value.FromBook(b)
	b.Append(self)

	if got := self.String(); len(got) == 0 {
		t.Errorf("expected a bounded dump of a cyclic book")
	}
}

func TestConvertTo(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		to   value.Type
		want value.Value
	}{
		{"NiFalse", value.Ni, value.TypeBoolean, value.Nay},
		{"ZeroFalse", value.Numeral(0), value.TypeBoolean, value.Nay},
		{"NumeralTrue", value.Numeral(3), value.TypeBoolean, value.Yay},
		{"EmptyTextFalse", value.Text(""), value.TypeBoolean, value.Nay},
		{"EmptyCodexFalse", value.FromCodex(value.NewCodex()), value.TypeBoolean, value.Nay},
		{"FullCodexTrue", value.FromCodex(value.CodexOf(value.Entry{Key: value.Ni, Value: value.Ni})), value.TypeBoolean, value.Yay},
		{"NumeralText", value.Numeral(14), value.TypeText, value.Text("14")},
		{"BoolText", value.Yay, value.TypeText, value.Text("yay")},
		{"TextText", value.Text("hi"), value.TypeText, value.Text("hi")},
		{"BookText", value.FromBook(value.NewBook(value.Text("a"), value.Numeral(1))), value.TypeText, value.Text("[a, 1]")},
		{"TextBook", value.Text("ab"), value.TypeBook, value.FromBook(value.NewBook(value.Text("a"), value.Text("b")))},
		{"NiBook", value.Ni, value.TypeBook, value.FromBook(value.NewBook())},
		{"ArabicText", value.Text("1_000"), value.TypeNumeral, value.Numeral(1000)},
		{"RomanText", value.Text("xiv"), value.TypeNumeral, value.Numeral(14)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.ConvertTo(tt.to)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.IsEqual(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestConvertToUnsupported(t *testing.T) {
	_, err := value.Numeral(1).ConvertTo(value.TypeBook)
	if !errors.Is(err, fault.Unsupported) {
		t.Errorf("expected unsupported error, got %v", err)
	}

	_, err = value.Numeral(1).ConvertTo(value.TypeJourney)
	if !errors.Is(err, fault.Unsupported) {
		t.Errorf("expected unsupported error, got %v", err)
	}
}

func TestCodexToSequence(t *testing.T) {
	c := value.CodexOf(
		value.Entry{Key: value.Numeral(2), Value: value.Text("two")},
		value.Entry{Key: value.Numeral(1), Value: value.Text("one")},
	)
	got, err := value.FromCodex(c).ConvertTo(value.TypeBook)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `[[1, "one"], [2, "two"]]`; got.String() != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b value.Value) (value.Value, error)
		a, b value.Value
		want value.Value
	}{
		{"Add", value.Value.Add, value.Numeral(2), value.Numeral(3), value.Numeral(5)},
		{"Sub", value.Value.Subtract, value.Numeral(2), value.Numeral(3), value.Numeral(-1)},
		{"Mul", value.Value.Multiply, value.Numeral(4), value.Numeral(3), value.Numeral(12)},
		{"Div", value.Value.Divide, value.Numeral(7), value.Numeral(2), value.Numeral(3)},
		{"Mod", value.Value.Modulo, value.Numeral(7), value.Numeral(2), value.Numeral(1)},
		{"Pow", value.Value.Power, value.Numeral(2), value.Numeral(10), value.Numeral(1024)},
		{"PowZero", value.Value.Power, value.Numeral(9), value.Numeral(0), value.Numeral(1)},
		{"Concat", value.Value.Add, value.Text("ab"), value.Text("cd"), value.Text("abcd")},
		{"Repeat", value.Value.Multiply, value.Text("ab"), value.Numeral(3), value.Text("ababab")},
		{"BookConcat", value.Value.Add,
			value.FromBook(value.NewBook(value.Numeral(1))),
			value.FromBook(value.NewBook(value.Numeral(2))),
			value.FromBook(value.NewBook(value.Numeral(1), value.Numeral(2)))},
		{"BookRepeat", value.Value.Multiply,
			value.FromBook(value.NewBook(value.Numeral(1))),
			value.Numeral(2),
			value.FromBook(value.NewBook(value.Numeral(1), value.Numeral(1)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.IsEqual(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b value.Value) (value.Value, error)
		a, b value.Value
		kind fault.Kind
	}{
		{"AddMismatch", value.Value.Add, value.Numeral(1), value.Text("1"), fault.Unsupported},
		{"AddBool", value.Value.Add, value.Yay, value.Yay, fault.Unsupported},
		{"SubText", value.Value.Subtract, value.Text("a"), value.Text("a"), fault.Unsupported},
		{"DivZero", value.Value.Divide, value.Numeral(1), value.Numeral(0), fault.Arithmetic},
		{"ModZero", value.Value.Modulo, value.Numeral(1), value.Numeral(0), fault.Arithmetic},
		{"NegPow", value.Value.Power, value.Numeral(2), value.Numeral(-1), fault.Arithmetic},
		{"NegRepeat", value.Value.Multiply, value.Text("a"), value.Numeral(-1), fault.Arithmetic},
		{"TextRepeatTooLarge", value.Value.Multiply, value.Text("ab"), value.Numeral(1 << 62), fault.Arithmetic},
		{"BookRepeatTooLarge", value.Value.Multiply, value.FromBook(value.NewBook(value.Numeral(1))), value.Numeral(1 << 62), fault.Arithmetic},
		{"BookRepeatPastLimit", value.Value.Multiply, value.FromBook(value.NewBook(value.Numeral(1), value.Numeral(2))), value.Numeral(value.MaxLength/2 + 1), fault.Arithmetic},
		{"CodexPlusNumeral", value.Value.Add, value.FromCodex(value.NewCodex()), value.Numeral(1), fault.Unsupported},
		{"CodexMinusText", value.Value.Subtract, value.FromCodex(value.NewCodex()), value.Text("a"), fault.Unsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op(tt.a, tt.b)
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestEquality(t *testing.T) {
	tests := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"NiNi", value.Ni, value.Ni, true},
		{"NumeralNumeral", value.Numeral(1), value.Numeral(1), true},
		{"NumeralDiffers", value.Numeral(1), value.Numeral(2), false},
		{"CrossVariant", value.Numeral(1), value.Text("1"), false},
		{"NiVsNay", value.Ni, value.Nay, false},
		{"Text", value.Text("a"), value.Text("a"), true},
		{"Books", value.FromBook(value.NewBook(value.Numeral(1))), value.FromBook(value.NewBook(value.Numeral(1))), true},
		{"BooksDiffer", value.FromBook(value.NewBook(value.Numeral(1))), value.FromBook(value.NewBook()), false},
		{"Codices",
			value.FromCodex(value.CodexOf(value.Entry{Key: value.Text("a"), Value: value.Numeral(1)})),
			value.FromCodex(value.CodexOf(value.Entry{Key: value.Text("a"), Value: value.Numeral(1)})),
			true},
		{"CodicesDiffer",
			value.FromCodex(value.CodexOf(value.Entry{Key: value.Text("a"), Value: value.Numeral(1)})),
			value.FromCodex(value.CodexOf(value.Entry{Key: value.Text("a"), Value: value.Numeral(2)})),
			false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IsEqual(tt.b); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if tt.want && value.Hash(tt.a) != value.Hash(tt.b) {
				t.Errorf("equal values must hash alike")
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		a, b   value.Value
		want   int
		wantOK bool
	}{
		{"Less", value.Numeral(1), value.Numeral(2), -1, true},
		{"Greater", value.Numeral(3), value.Numeral(2), 1, true},
		{"Same", value.Numeral(2), value.Numeral(2), 0, true},
		{"Text", value.Text("abc"), value.Text("abd"), -1, true},
		{"Bool", value.Nay, value.Yay, -1, true},
		{"BookPrefix", value.FromBook(value.NewBook(value.Numeral(1))), value.FromBook(value.NewBook(value.Numeral(1), value.Numeral(0))), -1, true},
		{"Mismatch", value.Numeral(1), value.Text("1"), 0, false},
		{"BookOfMismatch", value.FromBook(value.NewBook(value.Numeral(1))), value.FromBook(value.NewBook(value.Text("1"))), 0, false},
		{"CodexUnequal", value.FromCodex(value.CodexOf(value.Entry{Key: value.Ni, Value: value.Ni})), value.FromCodex(value.NewCodex()), 0, false},
		{"CodexEqual", value.FromCodex(value.NewCodex()), value.FromCodex(value.NewCodex()), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Compare(tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}

func TestIndexing(t *testing.T) {
	book := value.FromBook(value.NewBook(value.Text("a"), value.Text("b"), value.Text("c")))

	tests := []struct {
		name string
		v    value.Value
		key  value.Value
		want value.Value
	}{
		{"First", book, value.Numeral(1), value.Text("a")},
		{"Last", book, value.Numeral(3), value.Text("c")},
		{"Negative", book, value.Numeral(-1), value.Text("c")},
		{"TextChar", value.Text("héllo"), value.Numeral(2), value.Text("é")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.GetIndex(tt.key)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.IsEqual(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	errorCases := []struct {
		name string
		v    value.Value
		key  value.Value
		kind fault.Kind
	}{
		{"Zero", book, value.Numeral(0), fault.IndexOutOfBounds},
		{"PastEnd", book, value.Numeral(4), fault.IndexOutOfBounds},
		{"BeforeStart", book, value.Numeral(-4), fault.IndexOutOfBounds},
		{"WrongKeyType", book, value.Text("1"), fault.Unsupported},
		{"MissingKey", value.FromCodex(value.NewCodex()), value.Text("a"), fault.MissingKey},
		{"NotContainer", value.Numeral(1), value.Numeral(1), fault.Unsupported},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.v.GetIndex(tt.key)
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestSetIndexMutatesSharedContainer(t *testing.T) {
	b := value.NewBook(value.Numeral(1))
	holderA := value.FromBook(b)
	holderB := holderA

	if err := holderA.SetIndex(value.Numeral(3), value.Text("z")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `[1, ni, "z"]`; holderB.String() != want {
		t.Errorf("expected %s, got %s", want, holderB)
	}

	c := value.FromCodex(value.NewCodex())
	if err := c.SetIndex(value.Text("k"), value.Yay); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := c.GetIndex(value.Text("k"))
	if err != nil || !got.IsEqual(value.Yay) {
		t.Errorf("expected yay, got %v (%v)", got, err)
	}

	if err := value.Text("abc").SetIndex(value.Numeral(1), value.Text("z")); !errors.Is(err, fault.Unsupported) {
		t.Errorf("expected text to reject index assignment, got %v", err)
	}
}

func TestGetAttr(t *testing.T) {
	c := value.FromCodex(value.CodexOf(
		value.Entry{Key: value.Text("b"), Value: value.Numeral(2)},
		value.Entry{Key: value.Text("a"), Value: value.Numeral(1)},
	))

	keys, err := c.GetAttr("keys")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `["a", "b"]`; keys.String() != want {
		t.Errorf("expected %s, got %s", want, keys)
	}

	n, err := value.Text("héllo").GetAttr("len")
	if err != nil || n.Int() != 5 {
		t.Errorf("expected len 5, got %v (%v)", n, err)
	}

	_, err = value.Numeral(1).GetAttr("len")
	var fe *fault.Error
	if !errors.As(err, &fe) || fe.Kind != fault.UnknownAttribute || fe.Name != "len" {
		t.Errorf("expected unknown attribute naming len, got %v", err)
	}
}

func TestCallRejectsNonJourneys(t *testing.T) {
	for _, v := range []value.Value{value.Ni, value.Numeral(1), value.Text("f"), value.FromCodex(value.NewCodex())} {
		if _, err := v.Call(nil, nil); !errors.Is(err, fault.Unsupported) {
			t.Errorf("expected %v to reject call, got %v", v.Type, err)
		}
	}
}

func TestRepeatEmpty(t *testing.T) {
	tests := []struct {
		name string
		a    value.Value
		want string
	}{
		{"Text", value.Text(""), `""`},
		{"Book", value.FromBook(value.NewBook()), `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Multiply(value.Numeral(1 << 62))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSetIndexPaddingLimit(t *testing.T) {
	book := value.FromBook(value.NewBook(value.Numeral(1)))

	if err := book.SetIndex(value.Numeral(1<<62), value.Yay); !errors.Is(err, fault.IndexOutOfBounds) {
		t.Errorf("expected an out-of-bounds error, got %v", err)
	}
	if err := book.SetIndex(value.Numeral(value.MaxLength+1), value.Yay); !errors.Is(err, fault.IndexOutOfBounds) {
		t.Errorf("expected an out-of-bounds error at the limit, got %v", err)
	}
	if book.Book().Len() != 1 {
		t.Errorf("expected a rejected set to leave the book alone, got %d pages", book.Book().Len())
	}

	if err := book.SetIndex(value.Numeral(3), value.Yay); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `[1, ni, yay]`; book.String() != want {
		t.Errorf("expected %s, got %s", want, book)
	}
}
