package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Statement is one source line of a program and the bytes it produced.
type Statement struct {
	LineNo int    // Source line number.
	Addr   int    // Memory address of the first byte.
	Text   string // Source text or comment.
	Bytes  []byte // Generated bytes.
	Links  []Link // Bytes still waiting for a label address.
}

// Link is a reference from a statement byte to a label.
type Link struct {
	Index int
	Label string
}

type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug returns the statement that generated the byte at addr.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, st := range prog.Statements {
		if addr >= st.Addr && addr < st.Addr+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     addr - st.Addr,
			}
			break
		}
	}

	return
}

// LineNo returns the source line of the byte at addr, or 0 if unknown.
func (prog *Program) LineNo(addr int) int {
	dbg := prog.Debug(addr)
	if dbg.Statement == nil {
		return 0
	}
	return dbg.LineNo
}

// Bytes iterates over every program byte and its address.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(st.Addr+n, value) {
					return
				}
			}
		}
	}
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (image []byte) {
	for addr, value := range prog.Bytes() {
		for len(image) < addr {
			image = append(image, 0)
		}
		image = append(image, value)
	}

	return
}

// WriteTo writes the program in the loader's text format: one binary
// literal per line, with the statement text as a comment.
func (prog *Program) WriteTo(w io.Writer) (total int64, err error) {
	out := bufio.NewWriter(w)

	for _, st := range prog.Statements {
		for n, value := range st.Bytes {
			line := fmt.Sprintf("%08b", value)
			if n == 0 && len(st.Text) != 0 {
				line += " # " + st.Text
			}
			var count int
			count, err = fmt.Fprintln(out, line)
			total += int64(count)
			if err != nil {
				return
			}
		}
	}

	err = out.Flush()
	return
}

// parseBinary parses an 8-bit binary literal.
func parseBinary(text string) (value byte, err error) {
	if len(text) > 8 {
		err = ErrParseBinary(text)
		return
	}

	v64, err := strconv.ParseUint(text, 2, 8)
	if err != nil {
		err = ErrParseBinary(text)
		return
	}

	value = byte(v64)
	return
}

// Load parses the LS-8 program text format. Each line holds a single
// 8-bit binary literal, optionally followed by a '#' comment. Blank and
// comment-only lines are skipped. Bytes are placed from address 0.
func Load(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrLoad{LineNo: lineno, Line: line, Err: err}
			prog = nil
		}
	}()

	prog = &Program{}
	addr := 0

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		text, comment, _ := strings.Cut(line, "#")
		text = strings.TrimSpace(text)
		if len(text) == 0 {
			continue
		}

		var value byte
		value, err = parseBinary(text)
		if err != nil {
			return
		}

		if addr >= MEMORY_SIZE {
			err = ErrProgramTooLarge
			return
		}

		prog.Statements = append(prog.Statements, Statement{
			LineNo: lineno,
			Addr:   addr,
			Text:   strings.TrimSpace(comment),
			Bytes:  []byte{value},
		})
		addr += 1
	}

	err = scanner.Err()
	return
}
