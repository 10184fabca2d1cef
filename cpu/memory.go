package cpu

import (
	"fmt"
)

const (
	MEMORY_SIZE    = 256  // Bytes of addressable memory.
	REGISTER_COUNT = 8    // General purpose registers.
	REG_SP         = 7    // Register used as the stack pointer.
	STACK_TOP      = 0xF4 // Initial stack pointer.
)

// Memory is the flat, byte addressable main memory.
type Memory [MEMORY_SIZE]byte

// Read returns the byte at addr.
func (mem *Memory) Read(addr int) (value byte, err error) {
	if addr < 0 || addr >= len(mem) {
		err = &ErrOutOfBounds{Space: "memory", Index: addr}
		return
	}

	value = mem[addr]
	return
}

// Write stores value at addr.
func (mem *Memory) Write(addr int, value byte) (err error) {
	if addr < 0 || addr >= len(mem) {
		err = &ErrOutOfBounds{Space: "memory", Index: addr}
		return
	}

	mem[addr] = value
	return
}

// Registers is the register bank.
type Registers [REGISTER_COUNT]byte

// Get returns the value of register reg.
func (regs *Registers) Get(reg int) (value byte, err error) {
	if reg < 0 || reg >= len(regs) {
		err = &ErrOutOfBounds{Space: "register", Index: reg}
		return
	}

	value = regs[reg]
	return
}

// Set sets register reg to value.
func (regs *Registers) Set(reg int, value byte) (err error) {
	if reg < 0 || reg >= len(regs) {
		err = &ErrOutOfBounds{Space: "register", Index: reg}
		return
	}

	regs[reg] = value
	return
}

// Flags is the comparison flags register. Only the low three bits are used.
type Flags byte

const (
	FLAG_EQUAL   = Flags(1 << 0)
	FLAG_GREATER = Flags(1 << 1)
	FLAG_LESS    = Flags(1 << 2)
)

// CompareFlags returns the flags for a comparison of a against b.
func CompareFlags(a, b byte) (flags Flags) {
	switch {
	case a == b:
		flags = FLAG_EQUAL
	case a > b:
		flags = FLAG_GREATER
	default:
		flags = FLAG_LESS
	}

	return
}

func (fl Flags) Equal() bool   { return fl&FLAG_EQUAL != 0 }
func (fl Flags) Greater() bool { return fl&FLAG_GREATER != 0 }
func (fl Flags) Less() bool    { return fl&FLAG_LESS != 0 }

// String returns the flags as "LGE", with '-' for clear bits.
func (fl Flags) String() string {
	bit := func(set bool, c byte) byte {
		if set {
			return c
		}
		return '-'
	}
	return fmt.Sprintf("%c%c%c", bit(fl.Less(), 'L'), bit(fl.Greater(), 'G'), bit(fl.Equal(), 'E'))
}
