package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

// Console is the LS-8 character output device. It wraps an io.Writer;
// with no Output attached, everything printed is discarded.
type Console struct {
	Output io.Writer
}

var _ Device = (*Console)(nil)

var _console_defines = map[string]string{
	"CHAR_NEWLINE": "0x0a",
	"CHAR_SPACE":   "0x20",
}

// Defines returns an iter of defines for the console.
func (con *Console) Defines() iter.Seq2[string, string] {
	return maps.All(_console_defines)
}

// PrintNumber writes the decimal value followed by a newline.
func (con *Console) PrintNumber(value byte) (err error) {
	if con.Output == nil {
		return
	}

	_, err = fmt.Fprintf(con.Output, "%d\n", value)
	return
}

// PrintChar writes value as a single raw byte.
func (con *Console) PrintChar(value byte) (err error) {
	if con.Output == nil {
		return
	}

	n, err := con.Output.Write([]byte{value})
	if err == nil && n != 1 {
		err = ErrShortWrite
	}
	return
}
