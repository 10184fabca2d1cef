package cpu

import (
	"fmt"
	"strings"
)

// Opcode is the first byte of an LS-8 instruction.
type Opcode byte

// LS-8 opcodes.
const (
	OP_NOP = Opcode(0b00000000)
	OP_HLT = Opcode(0b00000001)
	OP_RET = Opcode(0b00010001)

	OP_PUSH = Opcode(0b01000101)
	OP_POP  = Opcode(0b01000110)
	OP_PRN  = Opcode(0b01000111)
	OP_PRA  = Opcode(0b01001000)

	OP_CALL = Opcode(0b01010000)
	OP_JMP  = Opcode(0b01010100)
	OP_JEQ  = Opcode(0b01010101)
	OP_JNE  = Opcode(0b01010110)
	OP_JGT  = Opcode(0b01010111)
	OP_JLT  = Opcode(0b01011000)
	OP_JLE  = Opcode(0b01011001)
	OP_JGE  = Opcode(0b01011010)

	OP_INC = Opcode(0b01100101)
	OP_DEC = Opcode(0b01100110)
	OP_NOT = Opcode(0b01101001)

	OP_LDI = Opcode(0b10000010)
	OP_LD  = Opcode(0b10000011)
	OP_ST  = Opcode(0b10000100)

	OP_ADD = Opcode(0b10100000)
	OP_SUB = Opcode(0b10100001)
	OP_MUL = Opcode(0b10100010)
	OP_DIV = Opcode(0b10100011)
	OP_MOD = Opcode(0b10100100)
	OP_CMP = Opcode(0b10100111)
	OP_AND = Opcode(0b10101000)
	OP_OR  = Opcode(0b10101010)
	OP_XOR = Opcode(0b10101011)
	OP_SHL = Opcode(0b10101100)
	OP_SHR = Opcode(0b10101101)
)

var opcodeName = map[Opcode]string{
	OP_NOP:  "NOP",
	OP_HLT:  "HLT",
	OP_RET:  "RET",
	OP_PUSH: "PUSH",
	OP_POP:  "POP",
	OP_PRN:  "PRN",
	OP_PRA:  "PRA",
	OP_CALL: "CALL",
	OP_JMP:  "JMP",
	OP_JEQ:  "JEQ",
	OP_JNE:  "JNE",
	OP_JGT:  "JGT",
	OP_JLT:  "JLT",
	OP_JLE:  "JLE",
	OP_JGE:  "JGE",
	OP_INC:  "INC",
	OP_DEC:  "DEC",
	OP_NOT:  "NOT",
	OP_LDI:  "LDI",
	OP_LD:   "LD",
	OP_ST:   "ST",
	OP_ADD:  "ADD",
	OP_SUB:  "SUB",
	OP_MUL:  "MUL",
	OP_DIV:  "DIV",
	OP_MOD:  "MOD",
	OP_CMP:  "CMP",
	OP_AND:  "AND",
	OP_OR:   "OR",
	OP_XOR:  "XOR",
	OP_SHL:  "SHL",
	OP_SHR:  "SHR",
}

var opcodeByName = func() map[string]Opcode {
	names := make(map[string]Opcode, len(opcodeName))
	for op, name := range opcodeName {
		names[name] = op
	}
	return names
}()

// LookupOpcode returns the opcode for a mnemonic, ignoring case.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	op, ok = opcodeByName[strings.ToUpper(mnemonic)]
	return
}

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// IsAlu returns true if the opcode is flagged as an ALU operation.
func (op Opcode) IsAlu() bool {
	return (op>>5)&1 == 1
}

// SetsPc returns true if the instruction sets the PC itself.
func (op Opcode) SetsPc() bool {
	return (op>>4)&1 == 1
}

// Ident returns the operation identifier in the low nibble.
func (op Opcode) Ident() int {
	return int(op & 0xf)
}

// Width returns the size in bytes of the opcode and its operands.
func (op Opcode) Width() int {
	return 1 + op.Operands()
}

// Known returns true if the opcode is part of the instruction set.
func (op Opcode) Known() bool {
	_, ok := opcodeName[op]
	return ok
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	name, ok := opcodeName[op]
	if !ok {
		return fmt.Sprintf("op%08b", byte(op))
	}
	return name
}

// immediateOperand returns true if operand n is a literal byte rather
// than a register index.
func (op Opcode) immediateOperand(n int) bool {
	return op == OP_LDI && n == 1
}

// Format returns the assembly text of the opcode applied to its operands.
func (op Opcode) Format(a, b byte) string {
	var args []string
	for n, operand := range []byte{a, b}[:min(op.Operands(), 2)] {
		if op.immediateOperand(n) {
			args = append(args, fmt.Sprintf("%d", operand))
		} else {
			args = append(args, fmt.Sprintf("R%d", operand))
		}
	}

	if len(args) == 0 {
		return op.String()
	}

	return op.String() + " " + strings.Join(args, ",")
}
