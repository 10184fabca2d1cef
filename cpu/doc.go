// Package cpu implements the LS-8 microprocessor, its program loader, and
// a mnemonic assembler for the LS-8 instruction set.
//
// The CPU consists of a program counter (PC), 256 bytes of memory, eight
// 8-bit general-purpose registers (R0-R7, with R7 doubling as the stack
// pointer), an ALU, and an Equal/Greater/Less flags register set by CMP.
// The stack descends through main memory from 0xF4.
//
// Instructions are one opcode byte followed by zero, one, or two operand
// bytes. The opcode layout is AABCDDDD: AA is the operand count, B marks
// an ALU operation, C marks an instruction that sets the PC itself, and
// DDDD identifies the operation.
package cpu
