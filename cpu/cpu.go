package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// Device is the output device driven by PRN and PRA.
type Device io.Device

// UnknownPolicy selects how the CPU treats opcodes outside the instruction set.
type UnknownPolicy int

const (
	UNKNOWN_FAULT = UnknownPolicy(0) // Stop with ErrUnknownOpcode.
	UNKNOWN_SKIP  = UnknownPolicy(1) // Treat as a no-op of the decoded width.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":  fmt.Sprintf("%d", MEMORY_SIZE),
	"STACK_TOP":    fmt.Sprintf("0x%02x", STACK_TOP),
	"REG_SP":       fmt.Sprintf("%d", REG_SP),
	"FLAG_EQUAL":   fmt.Sprintf("%d", FLAG_EQUAL),
	"FLAG_GREATER": fmt.Sprintf("%d", FLAG_GREATER),
	"FLAG_LESS":    fmt.Sprintf("%d", FLAG_LESS),
}

// Flow is the control flow outcome of a single instruction.
type Flow struct {
	Pc   int  // Address of the next instruction.
	Halt bool // Set to stop execution.
}

// handler executes one instruction. pc is where execution would continue
// by default: the instruction's own address for opcodes that set the PC
// themselves, the following instruction otherwise.
type handler func(cpu *Cpu, pc int, a, b byte) (flow Flow, err error)

var instructions [256]handler

func init() {
	instructions[OP_NOP] = (*Cpu).nop
	instructions[OP_HLT] = (*Cpu).hlt
	instructions[OP_RET] = (*Cpu).ret
	instructions[OP_PUSH] = (*Cpu).push
	instructions[OP_POP] = (*Cpu).pop
	instructions[OP_PRN] = (*Cpu).prn
	instructions[OP_PRA] = (*Cpu).pra
	instructions[OP_CALL] = (*Cpu).call
	instructions[OP_JMP] = jumpIf(func(Flags) bool { return true })
	instructions[OP_JEQ] = jumpIf(Flags.Equal)
	instructions[OP_JNE] = jumpIf(func(fl Flags) bool { return !fl.Equal() })
	instructions[OP_JGT] = jumpIf(Flags.Greater)
	instructions[OP_JLT] = jumpIf(Flags.Less)
	instructions[OP_JLE] = jumpIf(func(fl Flags) bool { return fl.Less() || fl.Equal() })
	instructions[OP_JGE] = jumpIf(func(fl Flags) bool { return fl.Greater() || fl.Equal() })
	instructions[OP_LDI] = (*Cpu).ldi
	instructions[OP_LD] = (*Cpu).ld
	instructions[OP_ST] = (*Cpu).st
	instructions[OP_CMP] = (*Cpu).cmp

	for op, alu := range map[Opcode]AluOp{
		OP_ADD: ALU_ADD,
		OP_SUB: ALU_SUB,
		OP_MUL: ALU_MUL,
		OP_DIV: ALU_DIV,
		OP_MOD: ALU_MOD,
		OP_INC: ALU_INC,
		OP_DEC: ALU_DEC,
		OP_AND: ALU_AND,
		OP_OR:  ALU_OR,
		OP_XOR: ALU_XOR,
		OP_NOT: ALU_NOT,
		OP_SHL: ALU_SHL,
		OP_SHR: ALU_SHR,
	} {
		instructions[op] = aluOp(alu)
	}
}

// Cpu is the simulation context for an LS-8 processor.
type Cpu struct {
	Verbose bool          // Set to enable verbose logging.
	Unknown UnknownPolicy // Handling of opcodes outside the instruction set.
	Output  Device        // Device for PRN and PRA.

	Memory   Memory    // Main memory, shared with the stack.
	Register Registers // Register bank. R7 is the stack pointer.
	Pc       int       // Current program counter.
	Flags    Flags     // Flags set by CMP.
	Halted   bool      // Set by HLT.

	Steps int // Instructions executed since reset.

	programEnd int // First address past the loaded program image.
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory, registers and flags.
// - Sets SP to STACK_TOP and the PC to zero.
// - Zeros the step counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Register[REG_SP] = STACK_TOP
	cpu.Pc = 0
	cpu.Flags = 0
	cpu.Halted = false
	cpu.Steps = 0
	cpu.programEnd = 0
}

// Load resets the CPU and copies a program image into memory at address 0.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	cpu.Reset()
	copy(cpu.Memory[:], image)
	cpu.programEnd = len(image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("   pc: %02X\n", cpu.Pc)
	text += fmt.Sprintf("flags: %v\n", cpu.Flags)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("   r%d: %02X\n", n, val)
	}
	top, err := cpu.Peek()
	if err == nil && cpu.Register[REG_SP] < STACK_TOP {
		text += fmt.Sprintf("stack: %02X\n", top)
	} else {
		text += "stack: --\n"
	}

	return
}

// trace logs the instruction about to execute and the register bank.
func (cpu *Cpu) trace(op Opcode, a, b byte) {
	regs := ""
	for _, val := range cpu.Register {
		regs += fmt.Sprintf(" %02X", val)
	}
	log.Printf("cpu: %02X | %02X %02X %02X |%v | %v", cpu.Pc, byte(op), a, b, regs, op.Format(a, b))
}

// Tick executes a single instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		return ErrHalted
	}

	pc := cpu.Pc
	var op Opcode

	defer func() {
		if err != nil {
			err = &ErrFault{Pc: pc, Opcode: op, Err: err}
		}
	}()

	code, err := cpu.Memory.Read(pc)
	if err != nil {
		return
	}
	op = Opcode(code)

	execute := instructions[op]
	if execute == nil && cpu.Unknown == UNKNOWN_FAULT {
		err = ErrUnknownOpcode
		return
	}

	var operands [2]byte
	for n := range min(op.Operands(), len(operands)) {
		operands[n], err = cpu.Memory.Read(pc + 1 + n)
		if err != nil {
			return
		}
	}

	if cpu.Verbose {
		cpu.trace(op, operands[0], operands[1])
	}

	next_pc := pc
	if !op.SetsPc() {
		next_pc = pc + op.Width()
	}

	flow := Flow{Pc: next_pc}
	if execute != nil {
		flow, err = execute(cpu, next_pc, operands[0], operands[1])
		if err != nil {
			return
		}
	} else {
		// Skipped opcodes never set the PC, whatever their encoding says.
		flow.Pc = pc + op.Width()
		if cpu.Verbose {
			log.Printf("cpu: %02X: skipping unknown opcode %v", pc, op)
		}
	}

	cpu.Pc = flow.Pc
	cpu.Halted = flow.Halt
	cpu.Steps += 1

	return
}

// Run ticks the CPU until it halts or faults.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

func (cpu *Cpu) nop(pc int, a, b byte) (flow Flow, err error) {
	flow = Flow{Pc: pc}
	return
}

func (cpu *Cpu) hlt(pc int, a, b byte) (flow Flow, err error) {
	flow = Flow{Pc: pc, Halt: true}
	return
}

func (cpu *Cpu) ldi(pc int, a, b byte) (flow Flow, err error) {
	flow = Flow{Pc: pc}
	err = cpu.Register.Set(int(a), b)
	return
}

func (cpu *Cpu) ld(pc int, a, b byte) (flow Flow, err error) {
	flow = Flow{Pc: pc}
	addr, err := cpu.Register.Get(int(b))
	if err != nil {
		return
	}
	value, err := cpu.Memory.Read(int(addr))
	if err != nil {
		return
	}
	err = cpu.Register.Set(int(a), value)
	return
}

func (cpu *Cpu) st(pc int, a, b byte) (flow Flow, err error) {
	flow = Flow{Pc: pc}
	addr, err := cpu.Register.Get(int(a))
	if err != nil {
		return
	}
	value, err := cpu.Register.Get(int(b))
	if err != nil {
		return
	}
	err = cpu.Memory.Write(int(addr), value)
	return
}

func (cpu *Cpu) cmp(pc int, a, b byte) (flow Flow, err error) {
	flow = Flow{Pc: pc}
	err = cpu.Compare(int(a), int(b))
	return
}

func (cpu *Cpu) prn(pc int, a, b byte) (flow Flow, err error) {
	flow = Flow{Pc: pc}
	value, err := cpu.Register.Get(int(a))
	if err != nil {
		return
	}
	if cpu.Output == nil {
		err = ErrNoDevice
		return
	}
	err = cpu.Output.PrintNumber(value)
	return
}

func (cpu *Cpu) pra(pc int, a, b byte) (flow Flow, err error) {
	flow = Flow{Pc: pc}
	value, err := cpu.Register.Get(int(a))
	if err != nil {
		return
	}
	if cpu.Output == nil {
		err = ErrNoDevice
		return
	}
	err = cpu.Output.PrintChar(value)
	return
}

func (cpu *Cpu) push(pc int, a, b byte) (flow Flow, err error) {
	flow = Flow{Pc: pc}
	value, err := cpu.Register.Get(int(a))
	if err != nil {
		return
	}
	err = cpu.Push(value)
	return
}

func (cpu *Cpu) pop(pc int, a, b byte) (flow Flow, err error) {
	flow = Flow{Pc: pc}
	if int(a) >= REGISTER_COUNT {
		err = &ErrOutOfBounds{Space: "register", Index: int(a)}
		return
	}
	value, err := cpu.Pop()
	if err != nil {
		return
	}
	err = cpu.Register.Set(int(a), value)
	return
}

// call pushes the address following CALL and its operand, then jumps.
func (cpu *Cpu) call(pc int, a, b byte) (flow Flow, err error) {
	target, err := cpu.Register.Get(int(a))
	if err != nil {
		return
	}

	next_pc := pc + OP_CALL.Width()
	if next_pc >= MEMORY_SIZE {
		err = &ErrOutOfBounds{Space: "memory", Index: next_pc}
		return
	}

	err = cpu.Push(byte(next_pc))
	if err != nil {
		return
	}

	flow = Flow{Pc: int(target)}
	return
}

func (cpu *Cpu) ret(pc int, a, b byte) (flow Flow, err error) {
	target, err := cpu.Pop()
	if err != nil {
		return
	}

	flow = Flow{Pc: int(target)}
	return
}

// jumpIf builds a jump to the address in register a when taken(flags)
// holds. A jump not taken steps over the opcode and its register operand.
func jumpIf(taken func(flags Flags) bool) handler {
	return func(cpu *Cpu, pc int, a, b byte) (flow Flow, err error) {
		target, err := cpu.Register.Get(int(a))
		if err != nil {
			return
		}

		if taken(cpu.Flags) {
			flow = Flow{Pc: int(target)}
		} else {
			flow = Flow{Pc: pc + OP_JMP.Width()}
		}

		return
	}
}

// aluOp builds a handler for a register-to-register ALU operation.
func aluOp(op AluOp) handler {
	return func(cpu *Cpu, pc int, a, b byte) (flow Flow, err error) {
		flow = Flow{Pc: pc}
		err = cpu.Alu(op, int(a), int(b))
		return
	}
}
