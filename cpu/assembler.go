// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
	"SP":     fmt.Sprintf("R%d", REG_SP),
}

// Assembler is a two pass assembler for the LS-8 instruction set.
//
// Each line holds at most one instruction, written as a mnemonic followed
// by comma or space separated operands:
//
//	loop:   LDI R0, $(COUNT * 2)   ; comment
//	        PRA R1                 # comment
//	        .db 'h' 'i' 0x0a
//	        .equ COUNT 4
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of generated statements.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to memory addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the byte value of a numeric word. Negative values down
// to -128 are stored as two's complement.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < -128 || v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = byte(v64)
	return
}

// registerOf returns the register index named by a word.
func (asm *Assembler) registerOf(word string) (reg byte, err error) {
	word = strings.ToUpper(word)
	if len(word) != 2 || word[0] != 'R' || word[1] < '0' || word[1] >= '0'+REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	reg = word[1] - '0'
	return
}

// isLabel returns true if word could name a label.
func isLabel(word string) bool {
	if len(word) == 0 || unicode.IsDigit(rune(word[0])) {
		return false
	}
	for _, c := range word {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '.' {
			return false
		}
	}
	return true
}

// byteOf returns the value of an immediate word, or the label it refers to.
func (asm *Assembler) byteOf(word string) (value byte, label string, err error) {
	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if _, ok := err.(ErrParseNumber); ok && isLabel(word) {
		err = nil
		label = word
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, _err := strconv.ParseInt(str, 0, 64)
		if _err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// stripComment removes a trailing ';' or '#' comment. Comment markers
// inside character literals are kept.
func stripComment(text string) string {
	quoted := reCharacter.FindAllStringIndex(text, -1)
	for n, c := range text {
		if c != ';' && c != '#' {
			continue
		}
		inside := false
		for _, span := range quoted {
			if n > span[0] && n < span[1]-1 {
				inside = true
				break
			}
		}
		if !inside {
			return text[:n]
		}
	}
	return text
}

// parseLine expands a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(c rune) bool {
		return unicode.IsSpace(c) || c == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !isLabel(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		addr := asm.currentAddr()
		if addr >= MEMORY_SIZE {
			err = ErrProgramTooLarge
			return
		}

		asm.Label[label] = addr
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentAddr gets the address of the next generated byte.
func (asm *Assembler) currentAddr() int {
	if len(asm.Statement) == 0 {
		return 0
	}

	last := asm.Statement[len(asm.Statement)-1]

	return last.Addr + len(last.Bytes)
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int, text string) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	st := Statement{
		LineNo: lineno,
		Addr:   asm.currentAddr(),
		Text:   text,
	}

	// addByte appends an immediate or label reference.
	addByte := func(word string) (err error) {
		value, label, err := asm.byteOf(word)
		if err != nil {
			return
		}
		if len(label) != 0 {
			st.Links = append(st.Links, Link{Index: len(st.Bytes), Label: label})
		}
		st.Bytes = append(st.Bytes, value)
		return
	}

	if words[0] == ".db" {
		if len(words) < 2 {
			err = ErrDataMissing
			return
		}
		for _, word := range words[1:] {
			err = addByte(word)
			if err != nil {
				return
			}
		}
	} else {
		op, ok := LookupOpcode(words[0])
		if !ok {
			err = ErrInstructionInvalid
			return
		}

		args := words[1:]
		if len(args) != op.Operands() {
			err = ErrOperandCount
			return
		}

		st.Bytes = append(st.Bytes, byte(op))
		for n, word := range args {
			if op.immediateOperand(n) {
				err = addByte(word)
				if err != nil {
					return
				}
				continue
			}

			var reg byte
			reg, err = asm.registerOf(word)
			if err != nil {
				return
			}
			st.Bytes = append(st.Bytes, reg)
		}
	}

	if st.Addr+len(st.Bytes) > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	asm.Statement = append(asm.Statement, st)

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Statement = asm.Statement[:0]
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, _cpu_defines)
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno, line)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Statement {
		st := &asm.Statement[n]
		for _, link := range st.Links {
			addr, ok := asm.Label[link.Label]
			if !ok {
				lineno = st.LineNo
				line = st.Text
				err = ErrLabelMissing(link.Label)
				return
			}
			st.Bytes[link.Index] = byte(addr)
		}
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}
