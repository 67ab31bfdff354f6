package value

import (
	"fmt"
	"sync/atomic"

	"github.com/agenthands/squire/pkg/core/fault"
)

// Runtime is the execution context threaded through every call. It is
// held exclusively by one caller at a time; nothing here is safe for
// concurrent use.
type Runtime interface {
	Enter(j *Journey) error
	Leave(j *Journey)
}

// Args binds a journey's parameter names to the supplied arguments.
type Args struct {
	Params []string
	Values []Value
}

// Get looks an argument up by parameter name.
func (a Args) Get(name string) (Value, bool) {
	for i, p := range a.Params {
		if p == name {
			return a.Values[i], true
		}
	}
	return Ni, false
}

// Body is the executable part of a journey.
type Body interface {
	Run(rt Runtime, args Args) (Value, error)
}

// BodyFunc adapts a Go function to Body.
type BodyFunc func(rt Runtime, args Args) (Value, error)

func (f BodyFunc) Run(rt Runtime, args Args) (Value, error) { return f(rt, args) }

var journeySeq atomic.Uint64

// Journey is the closure variant. It is immutable after construction and
// shared by pointer; two journeys are equal only if they are the same
// allocation, even when every field matches.
type Journey struct {
	id       uint64
	name     string
	isMethod bool
	params   []string
	body     Body
}

func NewJourney(name string, isMethod bool, params []string, body Body) *Journey {
	return &Journey{
		id:       journeySeq.Add(1),
		name:     name,
		isMethod: isMethod,
		params:   append([]string(nil), params...),
		body:     body,
	}
}

func (j *Journey) Name() string   { return j.name }
func (j *Journey) IsMethod() bool { return j.isMethod }
func (j *Journey) Arity() int     { return len(j.params) }

// Params returns a copy of the parameter names.
func (j *Journey) Params() []string {
	return append([]string(nil), j.params...)
}

// Call binds args to the parameters and runs the body. The argument
// count must match exactly. Errors from the body are returned unchanged.
// rt may be nil when the body does not need a runtime.
func (j *Journey) Call(rt Runtime, args []Value) (Value, error) {
	if len(args) != len(j.params) {
		return Ni, fault.ArgCount(len(args), len(j.params))
	}
	if j.body == nil {
		return Ni, fault.New(fault.Unsupported, "journey %s has no body", j.name)
	}

	if rt != nil {
		if err := rt.Enter(j); err != nil {
			return Ni, err
		}
		defer rt.Leave(j)
	}

	bound := make([]Value, len(args))
	copy(bound, args)
	return j.body.Run(rt, Args{Params: j.params, Values: bound})
}

func (j *Journey) attr(name string) (Value, error) {
	switch name {
	case "name":
		return Text(j.name), nil
	case "args":
		pages := make([]Value, len(j.params))
		for i, p := range j.params {
			pages[i] = Text(p)
		}
		return FromBook(NewBook(pages...)), nil
	}
	return Ni, fault.UnknownAttr(name)
}

func (j *Journey) String() string {
	return fmt.Sprintf("Journey(%s: %p)", j.name, j)
}
