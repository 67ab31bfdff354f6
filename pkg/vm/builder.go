package vm

import (
	"fmt"

	"github.com/agenthands/squire/pkg/core/value"
)

// Builder assembles a Block. Parameters occupy the first locals; other
// locals are allocated on their first Store.
type Builder struct {
	instructions []uint32
	constants    []value.Value
	params       []string
	locals       map[string]int
	err          error
}

func NewBuilder(params ...string) *Builder {
	b := &Builder{
		params: params,
		locals: make(map[string]int),
	}
	for i, p := range params {
		b.locals[p] = i
	}
	return b
}

// Emit appends one instruction and returns its address.
func (b *Builder) Emit(op uint8, arg uint32) int {
	if arg > argMask && b.err == nil {
		b.err = fmt.Errorf("vm: argument %d of op 0x%02x does not fit in 24 bits", arg, op)
	}
	b.instructions = append(b.instructions, encode(op, arg))
	return len(b.instructions) - 1
}

// Here is the address of the next instruction.
func (b *Builder) Here() int { return len(b.instructions) }

// Patch points the jump at addr to target.
func (b *Builder) Patch(addr, target int) {
	op, _ := decode(b.instructions[addr])
	b.instructions[addr] = encode(op, uint32(target))
}

func (b *Builder) Const(v value.Value) *Builder {
	b.Emit(OP_PUSH_C, uint32(b.addConstant(v)))
	return b
}

func (b *Builder) Load(name string) *Builder {
	idx, ok := b.locals[name]
	if !ok && b.err == nil {
		b.err = fmt.Errorf("vm: undefined local %s", name)
	}
	b.Emit(OP_PUSH_L, uint32(idx))
	return b
}

func (b *Builder) Store(name string) *Builder {
	idx, ok := b.locals[name]
	if !ok {
		idx = len(b.locals)
		b.locals[name] = idx
	}
	b.Emit(OP_POP_L, uint32(idx))
	return b
}

// Op emits an instruction without an argument.
func (b *Builder) Op(op uint8) *Builder {
	b.Emit(op, 0)
	return b
}

func (b *Builder) Call(argc int) *Builder {
	b.Emit(OP_CALL, uint32(argc))
	return b
}

func (b *Builder) Attr(name string) *Builder {
	b.Emit(OP_ATTR, uint32(b.addConstant(value.Text(name))))
	return b
}

// addConstant reuses an existing slot for an equal scalar. Containers
// are mutable and always get a slot of their own.
func (b *Builder) addConstant(v value.Value) int {
	if v.Type <= value.TypeText {
		for i, c := range b.constants {
			if c.Type == v.Type && c.IsEqual(v) {
				return i
			}
		}
	}
	b.constants = append(b.constants, v)
	return len(b.constants) - 1
}

// Build finishes the block, appending a RET when the code does not
// already end in one.
func (b *Builder) Build() (*Block, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.locals) > MaxLocals {
		return nil, fmt.Errorf("vm: %d locals exceed the limit of %d", len(b.locals), MaxLocals)
	}
	if n := len(b.instructions); n == 0 || b.instructions[n-1]>>24 != uint32(OP_RET) {
		b.Emit(OP_RET, 0)
	}
	return &Block{
		Instructions: b.instructions,
		Constants:    b.constants,
		Locals:       len(b.locals),
	}, nil
}

// Journey builds the block and wraps it in a journey taking the
// builder's parameters.
func (b *Builder) Journey(name string) (*value.Journey, error) {
	block, err := b.Build()
	if err != nil {
		return nil, err
	}
	return value.NewJourney(name, false, b.params, block), nil
}
