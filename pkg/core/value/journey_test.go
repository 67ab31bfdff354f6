package value_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/agenthands/squire/pkg/core/fault"
	"github.com/agenthands/squire/pkg/core/value"
)

type countingRuntime struct {
	depth, max int
}

func (r *countingRuntime) Enter(*value.Journey) error {
	r.depth++
	if r.depth > r.max {
		r.max = r.depth
	}
	return nil
}

func (r *countingRuntime) Leave(*value.Journey) { r.depth-- }

func sum(rt value.Runtime, args value.Args) (value.Value, error) {
	a, _ := args.Get("a")
	b, _ := args.Get("b")
	return a.Add(b)
}

func TestJourneyArity(t *testing.T) {
	j := value.FromJourney(value.NewJourney("sum", false, []string{"a", "b"}, value.BodyFunc(sum)))

	for _, given := range []int{0, 1, 3} {
		args := make([]value.Value, given)
		for i := range args {
			args[i] = value.Numeral(int64(i))
		}
		_, err := j.Call(nil, args)

		var fe *fault.Error
		if !errors.As(err, &fe) || fe.Kind != fault.ArgumentCount {
			t.Fatalf("given %d: expected argument count error, got %v", given, err)
		}
		if fe.Given != given || fe.Expected != 2 {
			t.Errorf("expected given=%d expected=2, got given=%d expected=%d", given, fe.Given, fe.Expected)
		}
	}

	got, err := j.Call(nil, []value.Value{value.Numeral(2), value.Numeral(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Int() != 5 {
		t.Errorf("expected 5, got %v", got)
	}
}

func TestJourneyEntersRuntime(t *testing.T) {
	rt := &countingRuntime{}
	j := value.NewJourney("sum", false, []string{"a", "b"}, value.BodyFunc(sum))

	if _, err := j.Call(rt, []value.Value{value.Numeral(1), value.Numeral(1)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rt.max != 1 || rt.depth != 0 {
		t.Errorf("expected one balanced frame, got max=%d depth=%d", rt.max, rt.depth)
	}

	// An arity failure never reaches the runtime.
	if _, err := j.Call(rt, nil); err == nil {
		t.Fatalf("expected arity error")
	}
	if rt.max != 1 {
		t.Errorf("arity failure entered the runtime")
	}
}

func TestJourneyPropagatesBodyErrors(t *testing.T) {
	boom := errors.New("boom")
	j := value.NewJourney("fail", false, nil, value.BodyFunc(func(value.Runtime, value.Args) (value.Value, error) {
		return value.Ni, boom
	}))

	if _, err := j.Call(nil, nil); err != boom {
		t.Errorf("expected the body error unchanged, got %v", err)
	}
}

func TestJourneyIdentity(t *testing.T) {
	a := value.FromJourney(value.NewJourney("f", false, []string{"x"}, nil))
	b := value.FromJourney(value.NewJourney("f", false, []string{"x"}, nil))
	aliasA := a

	if !a.IsEqual(aliasA) {
		t.Errorf("a journey must equal itself")
	}
	if a.IsEqual(b) {
		t.Errorf("distinct journeys must not be equal even with identical fields")
	}
	if value.Hash(a) != value.Hash(b) {
		t.Errorf("journeys hash by name only")
	}

	c := value.NewCodex()
	c.Insert(a, value.Numeral(1))
	c.Insert(b, value.Numeral(2))
	if c.Len() != 2 {
		t.Errorf("same-named journeys must stay distinct keys, got %d entries", c.Len())
	}
}

func TestJourneyAttributes(t *testing.T) {
	j := value.FromJourney(value.NewJourney("greet", true, []string{"who", "how"}, nil))

	name, err := j.GetAttr("name")
	if err != nil || !name.IsEqual(value.Text("greet")) {
		t.Errorf("expected name greet, got %v (%v)", name, err)
	}

	args, err := j.GetAttr("args")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `["who", "how"]`; args.String() != want {
		t.Errorf("expected %s, got %s", want, args)
	}

	_, err = j.GetAttr("body")
	var fe *fault.Error
	if !errors.As(err, &fe) || fe.Kind != fault.UnknownAttribute || fe.Name != "body" {
		t.Errorf("expected unknown attribute body, got %v", err)
	}

	if !strings.HasPrefix(j.String(), "Journey(greet: 0x") {
		t.Errorf("unexpected dump %s", j)
	}
}

func TestJourneyParamsAreCopied(t *testing.T) {
	params := []string{"a"}
	j := value.NewJourney("f", false, params, nil)
	params[0] = "changed"

	if got := j.Params(); got[0] != "a" {
		t.Errorf("journey parameters changed with the caller's slice: %v", got)
	}
}
