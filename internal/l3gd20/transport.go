// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package l3gd20

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Conn is a full-duplex SPI connection. len(r) == len(w) for every call.
// periph's spi.Conn satisfies it.
type Conn interface {
	Tx(w, r []byte) error
}

// ChipSelect asserts the device select line for the length of one
// transaction. The returned release func must be called exactly once.
type ChipSelect interface {
	Select() (release func() error, err error)
}

// PinSelect drives an active-low chip-select GPIO, as used when the SPI port
// is opened without hardware CS.
type PinSelect struct {
	Pin gpio.PinOut
}

func (p PinSelect) Select() (func() error, error) {
	if err := p.Pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("l3gd20: assert CS %s: %w", p.Pin, err)
	}
	return func() error {
		if err := p.Pin.Out(gpio.High); err != nil {
			return fmt.Errorf("l3gd20: release CS %s: %w", p.Pin, err)
		}
		return nil
	}, nil
}

// NoSelect is used when the SPI controller toggles CS itself.
type NoSelect struct{}

func (NoSelect) Select() (func() error, error) {
	return func() error { return nil }, nil
}

// TransportError is returned when the bus transfer fails. Err is the error
// returned by the Conn, unchanged.
type TransportError struct {
	Op   string
	Addr byte
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("l3gd20: %s 0x%02X: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// transactor runs one chip-select scoped transfer per register operation.
type transactor struct {
	conn Conn
	cs   ChipSelect
}

// transfer sends cmd followed by payload (or zero padding of len(payload))
// and returns the reply with the echoed command byte dropped.
func (t *transactor) transfer(op string, cmd byte, payload []byte) (reply []byte, err error) {
	release, err := t.cs.Select()
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := release(); rerr != nil && err == nil {
			reply, err = nil, rerr
		}
	}()

	tx := make([]byte, 1+len(payload))
	tx[0] = cmd
	copy(tx[1:], payload)
	rx := make([]byte, len(tx))
	if err := t.conn.Tx(tx, rx); err != nil {
		return nil, &TransportError{Op: op, Addr: cmd & AddressMask, Err: err}
	}
	return rx[1:], nil
}

func (t *transactor) readRegister(addr byte) (byte, error) {
	rx, err := t.transfer("read", readSingleCmd(addr), make([]byte, 1))
	if err != nil {
		return 0, err
	}
	return rx[0], nil
}

func (t *transactor) writeRegister(addr, value byte) error {
	_, err := t.transfer("write", writeSingleCmd(addr), []byte{value})
	return err
}

// readBurst reads n consecutive registers in a single transaction; the device
// only auto-increments while CS stays asserted.
func (t *transactor) readBurst(addr byte, n int) ([]byte, error) {
	return t.transfer("burst read", readMultiCmd(addr), make([]byte, n))
}
