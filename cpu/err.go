package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted               = errors.New(f("cpu halted"))
	ErrUnknownOpcode        = errors.New(f("unknown opcode"))
	ErrUnsupportedOperation = errors.New(f("unsupported alu operation"))
	ErrDivideByZero         = errors.New(f("divide by zero"))
	ErrStackOverflow        = errors.New(f("stack overflow into program"))
	ErrNoDevice             = errors.New(f("no output device"))

	// Loader errors
	ErrProgramTooLarge = errors.New(f("program too large"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrDataMissing        = errors.New(f(".db without values"))
	ErrOperandCount       = errors.New(f("wrong number of operands"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrValueRange         = errors.New(f("value out of byte range"))
)

// ErrOutOfBounds is returned when a memory address or register index is
// outside of its valid range.
type ErrOutOfBounds struct {
	Space string // "memory" or "register"
	Index int
}

func (err *ErrOutOfBounds) Error() string {
	return f("%v index %d out of bounds", err.Space, err.Index)
}

// ErrFault wraps an execution error with the PC and opcode that raised it.
type ErrFault struct {
	Pc     int
	Opcode Opcode
	Err    error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%02x opcode 0x%02x (%v): %v", err.Pc, byte(err.Opcode), err.Opcode.String(), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrLoad describes a malformed program line.
type ErrLoad struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrLoad) Error() string {
	return f("load: line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}

type ErrParseBinary string

func (err ErrParseBinary) Error() string {
	return f("'%v' is not an 8-bit binary literal", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
