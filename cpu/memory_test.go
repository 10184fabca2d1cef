package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	var mem Memory

	for _, addr := range []int{0, 1, 0x7f, 0xff} {
		value, err := mem.Read(addr)
		assert.NoError(err)
		assert.Equal(byte(0), value)

		err = mem.Write(addr, byte(addr^0x5a))
		assert.NoError(err)

		value, err = mem.Read(addr)
		assert.NoError(err)
		assert.Equal(byte(addr^0x5a), value)
	}
}

func TestMemory_OutOfBounds(t *testing.T) {
	assert := assert.New(t)

	var mem Memory

	for _, addr := range []int{-1, 256, 1000} {
		_, err := mem.Read(addr)
		var oob *ErrOutOfBounds
		assert.True(errors.As(err, &oob), "%d", addr)
		assert.Equal("memory", oob.Space)
		assert.Equal(addr, oob.Index)

		err = mem.Write(addr, 1)
		assert.True(errors.As(err, &oob), "%d", addr)
		assert.Equal(addr, oob.Index)
	}
}

func TestRegisters(t *testing.T) {
	assert := assert.New(t)

	var regs Registers

	for reg := range REGISTER_COUNT {
		err := regs.Set(reg, byte(reg+0x10))
		assert.NoError(err)
	}

	for reg := range REGISTER_COUNT {
		value, err := regs.Get(reg)
		assert.NoError(err)
		assert.Equal(byte(reg+0x10), value)
	}

	var oob *ErrOutOfBounds

	_, err := regs.Get(8)
	assert.True(errors.As(err, &oob))
	assert.Equal("register", oob.Space)
	assert.Equal(8, oob.Index)

	err = regs.Set(-1, 0)
	assert.True(errors.As(err, &oob))
	assert.Equal(-1, oob.Index)
}

func TestCompareFlags(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a, b  byte
		flags Flags
		str   string
	}){
		{0, 0, FLAG_EQUAL, "--E"},
		{0xff, 0xff, FLAG_EQUAL, "--E"},
		{2, 1, FLAG_GREATER, "-G-"},
		{0xff, 0, FLAG_GREATER, "-G-"},
		{1, 2, FLAG_LESS, "L--"},
		{0, 0x80, FLAG_LESS, "L--"},
	}

	for _, entry := range table {
		flags := CompareFlags(entry.a, entry.b)
		assert.Equal(entry.flags, flags, "%d ? %d", entry.a, entry.b)
		assert.Equal(entry.str, flags.String())
	}

	for n := range 256 {
		flags := CompareFlags(byte(n), byte(n))
		assert.True(flags.Equal())
		assert.False(flags.Greater())
		assert.False(flags.Less())
	}
}
