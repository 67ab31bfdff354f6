package vm

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/agenthands/squire/pkg/core/fault"
	"github.com/agenthands/squire/pkg/core/value"
)

var (
	ErrStackOverflow  = errors.New("vm: stack overflow")
	ErrStackUnderflow = errors.New("vm: stack underflow")
	ErrGasExhausted   = errors.New("vm: gas exhausted")
)

const (
	StackDepth = 128
	MaxFrames  = 32
	MaxLocals  = 16
	DefaultGas = 1_000_000
)

// frame is the operand stack and locals of one running block.
// Fixed-size arrays keep the footprint of a call predictable.
type frame struct {
	stack  [StackDepth]value.Value
	sp     int
	locals [MaxLocals]value.Value
}

// push panics on overflow; run turns the panic into an error.
func (f *frame) push(v value.Value) {
	if f.sp >= StackDepth {
		panic(ErrStackOverflow)
	}
	f.stack[f.sp] = v
	f.sp++
}

func (f *frame) pop() value.Value {
	if f.sp <= 0 {
		panic(ErrStackUnderflow)
	}
	f.sp--
	v := f.stack[f.sp]
	f.stack[f.sp] = value.Value{}
	return v
}

// Machine is the execution context handed to every journey call. It
// bounds call depth and owns an instruction budget shared by all nested
// calls. A Machine must not be used from more than one goroutine.
type Machine struct {
	GasLimit  int
	MaxFrames int

	gas   int
	depth int
}

func NewMachine(gas, maxFrames int) *Machine {
	m := &Machine{GasLimit: gas, MaxFrames: maxFrames}
	m.Reset()
	return m
}

// Reset refills the gas budget and forgets any frames.
func (m *Machine) Reset() {
	m.gas = m.GasLimit
	m.depth = 0
}

func (m *Machine) GasLeft() int { return m.gas }
func (m *Machine) Depth() int   { return m.depth }

// Enter records a journey frame, failing once MaxFrames are active.
func (m *Machine) Enter(*value.Journey) error {
	if m.depth >= m.MaxFrames {
		return ErrStackOverflow
	}
	m.depth++
	return nil
}

func (m *Machine) Leave(*value.Journey) {
	if m.depth > 0 {
		m.depth--
	}
}

// Invoke calls callee with args inside this machine.
func (m *Machine) Invoke(callee value.Value, args ...value.Value) (value.Value, error) {
	return callee.Call(m, args)
}

// run executes b until RET, HALT, the end of the code, an error or gas
// exhaustion.
func (m *Machine) run(b *Block, f *frame) (result value.Value, err error) {
	// Convert internal stack panics to errors
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && (e == ErrStackOverflow || e == ErrStackUnderflow) {
				result, err = value.Ni, e
				return
			}
			// Bad local or constant indexes in hand-built code
			if _, ok := r.(runtime.Error); ok {
				result, err = value.Ni, fmt.Errorf("vm: malformed block: %v", r)
				return
			}
			panic(r)
		}
	}()

	code := b.Instructions
	ip := 0
	for ip < len(code) {
		if m.gas <= 0 {
			return value.Ni, ErrGasExhausted
		}
		m.gas--

		op, arg := decode(code[ip])
		switch op {
		case OP_HALT:
			return value.Ni, nil

		case OP_NOOP:

		case OP_PUSH_C:
			f.push(b.Constants[arg])

		case OP_PUSH_L:
			f.push(f.locals[arg])

		case OP_POP_L:
			f.locals[arg] = f.pop()

		case OP_DROP:
			f.pop()

		case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_POW:
			rhs := f.pop()
			lhs := f.pop()
			res, err := arithmetic(op, lhs, rhs)
			if err != nil {
				return value.Ni, err
			}
			f.push(res)

		case OP_EQ:
			rhs := f.pop()
			f.push(value.Veracity(f.pop().IsEqual(rhs)))

		case OP_NE:
			rhs := f.pop()
			f.push(value.Veracity(!f.pop().IsEqual(rhs)))

		case OP_LT, OP_GT, OP_LE, OP_GE:
			rhs := f.pop()
			lhs := f.pop()
			c, ok := lhs.Compare(rhs)
			if !ok {
				return value.Ni, fault.NotImplemented("compare", lhs.Type.String(), rhs.Type.String())
			}
			f.push(value.Veracity(relation(op, c)))

		case OP_JMP:
			ip = int(arg)
			continue

		case OP_JMP_FALSE:
			cond, _ := f.pop().ConvertTo(value.TypeBoolean)
			if !cond.Bool() {
				ip = int(arg)
				continue
			}

		case OP_CALL:
			args := make([]value.Value, arg)
			for i := int(arg) - 1; i >= 0; i-- {
				args[i] = f.pop()
			}
			callee := f.pop()
			res, err := callee.Call(m, args)
			if err != nil {
				return value.Ni, err
			}
			f.push(res)

		case OP_RET:
			if f.sp == 0 {
				return value.Ni, nil
			}
			return f.pop(), nil

		case OP_INDEX:
			key := f.pop()
			res, err := f.pop().GetIndex(key)
			if err != nil {
				return value.Ni, err
			}
			f.push(res)

		case OP_SET_INDEX:
			val := f.pop()
			key := f.pop()
			if err := f.pop().SetIndex(key, val); err != nil {
				return value.Ni, err
			}

		case OP_ATTR:
			res, err := f.pop().GetAttr(b.Constants[arg].Str())
			if err != nil {
				return value.Ni, err
			}
			f.push(res)

		default:
			return value.Ni, fmt.Errorf("vm: unknown opcode 0x%02x at %d", op, ip)
		}
		ip++
	}
	return value.Ni, nil
}

func arithmetic(op uint8, lhs, rhs value.Value) (value.Value, error) {
	switch op {
	case OP_ADD:
		return lhs.Add(rhs)
	case OP_SUB:
		return lhs.Subtract(rhs)
	case OP_MUL:
		return lhs.Multiply(rhs)
	case OP_DIV:
		return lhs.Divide(rhs)
	case OP_MOD:
		return lhs.Modulo(rhs)
	}
	return lhs.Power(rhs)
}

func relation(op uint8, c int) bool {
	switch op {
	case OP_LT:
		return c < 0
	case OP_GT:
		return c > 0
	case OP_LE:
		return c <= 0
	}
	return c >= 0
}
