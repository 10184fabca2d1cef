package cpu

// AluOp is an ALU operation type.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_ADD = AluOp(0)  // add
	ALU_SUB = AluOp(1)  // sub
	ALU_MUL = AluOp(2)  // mul
	ALU_DIV = AluOp(3)  // div
	ALU_MOD = AluOp(4)  // mod
	ALU_INC = AluOp(5)  // inc
	ALU_DEC = AluOp(6)  // dec
	ALU_AND = AluOp(7)  // and
	ALU_OR  = AluOp(8)  // or
	ALU_XOR = AluOp(9)  // xor
	ALU_NOT = AluOp(10) // not
	ALU_SHL = AluOp(11) // shl
	ALU_SHR = AluOp(12) // shr
)

// Alu performs the requested ALU action, and returns the output value.
// All arithmetic wraps modulo 256.
func Alu(op AluOp, input byte, value byte) (output byte, err error) {
	switch op {
	case ALU_ADD:
		output = input + value
	case ALU_SUB:
		output = input - value
	case ALU_MUL:
		output = input * value
	case ALU_DIV:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		output = input / value
	case ALU_MOD:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		output = input % value
	case ALU_INC:
		output = input + 1
	case ALU_DEC:
		output = input - 1
	case ALU_AND:
		output = input & value
	case ALU_OR:
		output = input | value
	case ALU_XOR:
		output = input ^ value
	case ALU_NOT:
		output = ^input
	case ALU_SHL:
		output = input << value
	case ALU_SHR:
		output = input >> value
	default:
		err = ErrUnsupportedOperation
	}

	return
}

// Alu applies op to registers reg_a and reg_b, storing the result in reg_a.
func (cpu *Cpu) Alu(op AluOp, reg_a, reg_b int) (err error) {
	input, err := cpu.Register.Get(reg_a)
	if err != nil {
		return
	}

	value, err := cpu.Register.Get(reg_b)
	if err != nil {
		return
	}

	output, err := Alu(op, input, value)
	if err != nil {
		return
	}

	return cpu.Register.Set(reg_a, output)
}

// Compare sets the flags from the comparison of registers reg_a and reg_b.
func (cpu *Cpu) Compare(reg_a, reg_b int) (err error) {
	a, err := cpu.Register.Get(reg_a)
	if err != nil {
		return
	}

	b, err := cpu.Register.Get(reg_b)
	if err != nil {
		return
	}

	cpu.Flags = CompareFlags(a, b)

	return
}
