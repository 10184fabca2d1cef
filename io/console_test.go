package io

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	assert := assert.New(t)

	buff := &bytes.Buffer{}
	con := &Console{Output: buff}

	assert.NoError(con.PrintNumber(0))
	assert.NoError(con.PrintNumber(255))
	assert.NoError(con.PrintChar('h'))
	assert.NoError(con.PrintChar('i'))
	assert.NoError(con.PrintChar('\n'))

	assert.Equal("0\n255\nhi\n", buff.String())
}

func TestConsoleDiscard(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	assert.NoError(con.PrintNumber(8))
	assert.NoError(con.PrintChar('x'))
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return 0, nil
}

type failWriter struct{ err error }

func (fw failWriter) Write(p []byte) (int, error) {
	return 0, fw.err
}

func TestConsoleErrors(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Output: shortWriter{}}
	assert.ErrorIs(con.PrintChar('x'), ErrShortWrite)

	broken := errors.New("broken")
	con = &Console{Output: failWriter{err: broken}}
	assert.ErrorIs(con.PrintChar('x'), broken)
	assert.ErrorIs(con.PrintNumber(1), broken)
}

func TestConsoleDefines(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	defines := map[string]string{}
	for key, value := range con.Defines() {
		defines[key] = value
	}

	assert.Equal("0x0a", defines["CHAR_NEWLINE"])
	assert.Equal("0x20", defines["CHAR_SPACE"])
}
