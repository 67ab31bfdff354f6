package vm

import (
	"fmt"

	"github.com/agenthands/squire/pkg/core/value"
)

// Block is compiled code that serves as the body of a journey. Arguments
// are bound to the first locals in parameter order.
type Block struct {
	Instructions []uint32
	Constants    []value.Value
	Locals       int
}

// Run executes the block. Calls made by the block go through rt when it
// is a *Machine; otherwise a machine with default limits is used.
func (b *Block) Run(rt value.Runtime, args value.Args) (value.Value, error) {
	m, ok := rt.(*Machine)
	if !ok {
		m = NewMachine(DefaultGas, MaxFrames)
	}
	if len(args.Values) > MaxLocals {
		return value.Ni, fmt.Errorf("vm: %d arguments exceed %d locals", len(args.Values), MaxLocals)
	}

	f := &frame{}
	copy(f.locals[:], args.Values)
	return m.run(b, f)
}
