// Package io provides the output devices for the LS-8 emulator.
package io

// Device defines the interface for LS-8 output devices. Writes are
// synchronous and happen in program order.
type Device interface {
	// PrintNumber writes a byte as a decimal number on its own line.
	PrintNumber(value byte) error
	// PrintChar writes a byte as a character.
	PrintChar(value byte) error
}
