package cpu

// Push decrements SP and stores value at the new top of stack.
//
// The stack may not grow into the loaded program image.
func (cpu *Cpu) Push(value byte) (err error) {
	sp := int(cpu.Register[REG_SP]) - 1
	if sp < 0 {
		err = &ErrOutOfBounds{Space: "memory", Index: sp}
		return
	}
	if sp < cpu.programEnd {
		err = ErrStackOverflow
		return
	}

	err = cpu.Memory.Write(sp, value)
	if err != nil {
		return
	}

	cpu.Register[REG_SP] = byte(sp)
	return
}

// Pop reads the top of stack and increments SP.
func (cpu *Cpu) Pop() (value byte, err error) {
	sp := int(cpu.Register[REG_SP])
	if sp+1 >= MEMORY_SIZE {
		err = &ErrOutOfBounds{Space: "memory", Index: sp + 1}
		return
	}

	value, err = cpu.Memory.Read(sp)
	if err != nil {
		return
	}

	cpu.Register[REG_SP] = byte(sp + 1)
	return
}

// Peek returns the top of stack without moving SP.
func (cpu *Cpu) Peek() (value byte, err error) {
	return cpu.Memory.Read(int(cpu.Register[REG_SP]))
}
