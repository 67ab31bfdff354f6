package vm

// Instructions are encoded as op<<24 | arg, leaving 24 bits of argument.
const (
	OP_HALT   uint8 = 0x00
	OP_NOOP   uint8 = 0x01
	OP_PUSH_C uint8 = 0x02 // arg: constant index
	OP_PUSH_L uint8 = 0x03 // arg: local index
	OP_POP_L  uint8 = 0x04 // arg: local index
	OP_DROP   uint8 = 0x05

	OP_ADD uint8 = 0x10
	OP_SUB uint8 = 0x11
	OP_MUL uint8 = 0x12
	OP_DIV uint8 = 0x13
	OP_MOD uint8 = 0x14
	OP_POW uint8 = 0x15

	OP_EQ uint8 = 0x18
	OP_NE uint8 = 0x19
	OP_LT uint8 = 0x1a
	OP_GT uint8 = 0x1b
	OP_LE uint8 = 0x1c
	OP_GE uint8 = 0x1d

	OP_JMP       uint8 = 0x20 // arg: target
	OP_JMP_FALSE uint8 = 0x21 // arg: target
	OP_CALL      uint8 = 0x22 // arg: argument count
	OP_RET       uint8 = 0x23

	OP_INDEX     uint8 = 0x30
	OP_SET_INDEX uint8 = 0x31
	OP_ATTR      uint8 = 0x32 // arg: constant index of the attribute name
)

const argMask = 0x00FFFFFF

func encode(op uint8, arg uint32) uint32 {
	return uint32(op)<<24 | arg&argMask
}

func decode(instr uint32) (uint8, uint32) {
	return uint8(instr >> 24), instr & argMask
}
