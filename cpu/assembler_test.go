package cpu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, lines ...string) (prog *Program, err error) {
	asm := &Assembler{}
	prog, err = asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("R7", asm.Equate["SP"])
	assert.Equal(fmt.Sprintf("0x%02x", STACK_TOP), asm.Equate["STACK_TOP"])
	assert.Equal(fmt.Sprintf("%d", MEMORY_SIZE), asm.Equate["MEMORY_SIZE"])
}

func TestAssemblerPrograms(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		lines  []string
		binary []byte
	}){
		{"print8", []string{
			"LDI R0,8",
			"PRN R0",
			"HLT",
		}, []byte{0x82, 0, 8, 0x47, 0, 0x01}},
		{"mult", []string{
			"LDI R0, 8",
			"LDI R1, 9",
			"MUL R0, R1",
			"PRN R0",
			"HLT",
		}, []byte{0x82, 0, 8, 0x82, 1, 9, 0xa2, 0, 1, 0x47, 0, 0x01}},
		{"forward", []string{
			"        LDI R1, sub",
			"        CALL R1",
			"        HLT",
			"sub:    RET",
		}, []byte{0x82, 1, 6, 0x50, 1, 0x01, 0x11}},
		{"backward", []string{
			"top:",
			"        LDI R2, top",
			"        JMP R2",
		}, []byte{0x82, 2, 0, 0x54, 2}},
		{"lowercase", []string{
			"ldi r3, 0x10",
			"inc r3",
			"hlt",
		}, []byte{0x82, 3, 0x10, 0x65, 3, 0x01}},
		{"sp", []string{
			"PUSH SP",
			"POP R0",
		}, []byte{0x45, 7, 0x46, 0}},
		{"equate", []string{
			".equ COUNT 4",
			".equ TARGET R5",
			"LDI TARGET, $(COUNT * 2 + 1)",
		}, []byte{0x82, 5, 9}},
		{"data", []string{
			"LDI R0, -1",
			".db 1, 2, 0b11 ; trailing",
			"# only a comment",
			"",
			".db $(LINENO)",
		}, []byte{0x82, 0, 0xff, 1, 2, 3, 5}},
		{"defines", []string{
			"LDI R0, STACK_TOP",
			"LDI R1, FLAG_LESS",
		}, []byte{0x82, 0, STACK_TOP, 0x82, 1, 4}},
	}

	for _, entry := range table {
		prog, err := assemble(t, entry.lines...)
		if assert.NoError(err, entry.name) {
			assert.Equal(entry.binary, prog.Binary(), entry.name)
		}
	}
}

func TestAssemblerChars(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		".equ BANG 0x21",
		"LDI R0, 'h'",
		"LDI R1, '\\n'",
		".db 'h' 'i' BANG",
	)
	assert.NoError(err)
	assert.Equal([]byte{0x82, 0, 'h', 0x82, 1, '\n', 'h', 'i', '!'}, prog.Binary())
}

func TestAssemblerStatements(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"; header",
		"start:  LDI R0, 1 ; one",
		"        HLT",
	)
	assert.NoError(err)
	assert.Equal(2, len(prog.Statements))

	st := prog.Statements[0]
	assert.Equal(2, st.LineNo)
	assert.Equal(0, st.Addr)
	assert.Equal("start:  LDI R0, 1", st.Text)

	st = prog.Statements[1]
	assert.Equal(3, st.LineNo)
	assert.Equal(3, st.Addr)

	assert.Equal(3, prog.LineNo(3))
	assert.Equal(2, prog.LineNo(2))
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("START", "0x10")
	asm.Predefine("START", "0x20")
	asm.Predefine("OUT", "R4")

	prog, err := asm.Parse(strings.NewReader("LDI OUT, START\nLDI R0, $(START + 1)\n"))
	assert.NoError(err)
	assert.Equal([]byte{0x82, 4, 0x20, 0x82, 0, 0x21}, prog.Binary())

	// Predefines survive a second parse.
	prog, err = asm.Parse(strings.NewReader("LDI R0, START\n"))
	assert.NoError(err)
	assert.Equal([]byte{0x82, 0, 0x20}, prog.Binary())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		lines  []string
		lineno int
		err    error
	}){
		{[]string{"FOO R0"}, 1, ErrInstructionInvalid},
		{[]string{"NOP", "LDI R0"}, 2, ErrOperandCount},
		{[]string{"HLT R0"}, 1, ErrOperandCount},
		{[]string{"ADD R0, 5"}, 1, ErrRegisterInvalid},
		{[]string{"PRN R8"}, 1, ErrRegisterInvalid},
		{[]string{"LDI R0, 256"}, 1, ErrValueRange},
		{[]string{"LDI R0, -129"}, 1, ErrValueRange},
		{[]string{"a:", "a: NOP"}, 2, ErrLabelDuplicate},
		{[]string{"1bad: NOP"}, 1, ErrLabelInvalid},
		{[]string{".equ X"}, 1, ErrEquateSyntax},
		{[]string{".equ X 1", ".equ X 2"}, 2, ErrEquateDuplicate},
		{[]string{".db"}, 1, ErrDataMissing},
	}

	for _, entry := range table {
		name := strings.Join(entry.lines, "|")
		_, err := assemble(t, entry.lines...)
		assert.ErrorIs(err, entry.err, name)

		var syntax *ErrSyntax
		if assert.ErrorAs(err, &syntax, name) {
			assert.Equal(entry.lineno, syntax.LineNo, name)
		}
	}
}

func TestAssemblerLabelMissing(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"NOP",
		"LDI R0, nowhere",
		"HLT",
	)
	assert.Nil(prog)

	var missing ErrLabelMissing
	assert.ErrorAs(err, &missing)
	assert.Equal(ErrLabelMissing("nowhere"), missing)

	var syntax *ErrSyntax
	if assert.ErrorAs(err, &syntax) {
		assert.Equal(2, syntax.LineNo)
		assert.Equal("LDI R0, nowhere", syntax.Line)
	}
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(t, `LDI R0, $("text")`)
	var expr ErrParseExpression
	assert.ErrorAs(err, &expr)

	_, err = assemble(t, "LDI R0, $(1 +)")
	assert.Error(err)
}

func TestAssemblerTooLarge(t *testing.T) {
	assert := assert.New(t)

	lines := make([]string, 0, MEMORY_SIZE+1)
	for range MEMORY_SIZE {
		lines = append(lines, "NOP")
	}

	_, err := assemble(t, lines...)
	assert.NoError(err)

	lines = append(lines, "HLT")
	_, err = assemble(t, lines...)
	assert.ErrorIs(err, ErrProgramTooLarge)

	// A label past the last byte has no address to resolve to.
	_, err = assemble(t,
		"LDI R0, end",
		".db "+strings.Repeat("0 ", MEMORY_SIZE-3),
		"end:",
	)
	assert.ErrorIs(err, ErrProgramTooLarge)

	var syntax *ErrSyntax
	if assert.ErrorAs(err, &syntax) {
		assert.Equal(3, syntax.LineNo)
	}

	// The last byte may still carry a label.
	prog, err := assemble(t,
		"LDI R0, end",
		".db "+strings.Repeat("0 ", MEMORY_SIZE-4),
		"end: HLT",
	)
	if assert.NoError(err) {
		assert.Equal(byte(MEMORY_SIZE-1), prog.Binary()[2])
	}
}

func TestAssemblerCommentChars(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"LDI R0, '#' ; hash",
		"LDI R1, ';' # semicolon",
		".db ';' '#'",
	)
	if assert.NoError(err) {
		assert.Equal([]byte{0x82, 0, '#', 0x82, 1, ';', ';', '#'}, prog.Binary())
		assert.Equal("LDI R0, '#'", prog.Statements[0].Text)
	}

	assert.Equal("NOP ", stripComment("NOP ; ';'"))
	assert.Equal("x", stripComment("x#"))
	assert.Equal("'#' '\\'", stripComment("'#' '\\'"))
}
