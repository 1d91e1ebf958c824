// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package l3gd20

// Op is bit 7 of the command byte.
type Op byte

// Burst is bit 6 of the command byte; Multi auto-increments the address
// pointer for the rest of the transaction.
type Burst byte

const (
	Read  Op = 0b1000_0000
	Write Op = 0b0000_0000

	Multi  Burst = 0b0100_0000
	Single Burst = 0b0000_0000

	// AddressMask keeps the 6 address bits of a command byte.
	AddressMask = 0b0011_1111
)

// Command builds the first byte of an SPI transaction. Addresses wider than 6
// bits are truncated so they can never touch the op or burst bits.
func Command(op Op, burst Burst, addr byte) byte {
	return byte(op&Read) | byte(burst&Multi) | addr&AddressMask
}

func readSingleCmd(addr byte) byte  { return Command(Read, Single, addr) }
func readMultiCmd(addr byte) byte   { return Command(Read, Multi, addr) }
func writeSingleCmd(addr byte) byte { return Command(Write, Single, addr) }
