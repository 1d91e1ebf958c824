// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package l3gd20 is a SPI driver for the ST L3GD20 three-axis gyroscope.
//
// Every register operation is a single chip-select scoped transfer. Multi-byte
// reads use the auto-increment burst command so the axis bytes of one sample
// always come from the same transaction.
//
// A Dev is not safe for concurrent use.
package l3gd20

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// SPI settings for the device.
var (
	SpiFrequency = physic.MegaHertz * 1
	SpiMode      = spi.Mode3
	SpiBits      = 8
)

// Opts holds initialization options.
type Opts struct {
	// SkipReset leaves the device configuration untouched on New.
	SkipReset bool
}

var DefaultOpts = Opts{}

// Dev is a handle to one L3GD20.
type Dev struct {
	tx transactor
}

func (d *Dev) String() string {
	return "L3GD20"
}

// New returns a Dev talking over conn, selecting the chip with cs. Unless
// opts.SkipReset is set, the standard configuration is applied.
func New(conn Conn, cs ChipSelect, opts *Opts) (*Dev, error) {
	if cs == nil {
		cs = NoSelect{}
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{tx: transactor{conn: conn, cs: cs}}
	if !opts.SkipReset {
		if err := d.Reset(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ReadRegister reads one register.
func ReadRegister[R Register](d *Dev) (R, error) {
	var r R
	b, err := d.tx.readRegister(r.Address())
	if err != nil {
		return r, err
	}
	return R(b), nil
}

// WriteRegister writes one register.
func WriteRegister[R WritableRegister](d *Dev, r R) error {
	return d.tx.writeRegister(r.Address(), byte(r))
}

// ModifyRegister reads a register, applies f and writes the result back.
func ModifyRegister[R WritableRegister](d *Dev, f func(R) R) error {
	r, err := ReadRegister[R](d)
	if err != nil {
		return err
	}
	return WriteRegister(d, f(r))
}

// ReadBurst reads n consecutive registers starting at addr in one transaction.
func (d *Dev) ReadBurst(addr byte, n int) ([]byte, error) {
	return d.tx.readBurst(addr, n)
}

// ReadRaw reads one register by address.
func (d *Dev) ReadRaw(addr byte) (byte, error) {
	return d.tx.readRegister(addr)
}

// WriteRaw writes one register by address. No check is made that the register
// is writable.
func (d *Dev) WriteRaw(addr, value byte) error {
	return d.tx.writeRegister(addr, value)
}

// Identify reports whether WHO_AM_I holds the L3GD20 identifier.
func (d *Dev) Identify() (bool, error) {
	id, err := ReadRegister[WhoAmI](d)
	if err != nil {
		return false, err
	}
	if id.Ident() != DeviceID {
		log.Debugf("l3gd20: identification failed; got %08b", id.Ident())
		return false, nil
	}
	return true, nil
}

// Reset applies the standard configuration: powered up, all axes on, 95 Hz,
// narrowest bandwidth, ±250 dps, FIFO and high pass filter off.
func (d *Dev) Reset() error {
	steps := []func() error{
		func() error {
			return WriteRegister(d, ControlRegister1(0).
				WithPowerUp(true).
				WithXEnable(true).
				WithYEnable(true).
				WithZEnable(true).
				WithOutputDataRate(Hz95).
				WithBandwidth(Narrowest))
		},
		func() error {
			return WriteRegister(d, ControlRegister2(0).
				WithHighpassMode(NormalModeResetFilter).
				WithHighpassCutoff(0))
		},
		func() error {
			return WriteRegister(d, ControlRegister3(0))
		},
		func() error {
			return WriteRegister(d, ControlRegister4(0).
				WithBlockDataUpdate(false).
				WithBigEndian(false).
				WithFullScale(D250).
				WithSPI3Wire(false))
		},
		func() error {
			return WriteRegister(d, ControlRegister5(0).WithBoot(true))
		},
		func() error {
			return WriteRegister(d, ControlRegister5(0))
		},
	}
	for i, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("l3gd20: reset step %d: %w", i+1, err)
		}
	}
	return nil
}

// PowerUp switches to normal mode with all axes enabled.
func (d *Dev) PowerUp() error {
	return ModifyRegister(d, func(r ControlRegister1) ControlRegister1 {
		return r.WithPowerUp(true).WithXEnable(true).WithYEnable(true).WithZEnable(true)
	})
}

// SleepMode keeps the device powered with all axes disabled.
func (d *Dev) SleepMode() error {
	return ModifyRegister(d, func(r ControlRegister1) ControlRegister1 {
		return r.WithPowerUp(true).WithXEnable(false).WithYEnable(false).WithZEnable(false)
	})
}

// PowerDown powers the device down.
func (d *Dev) PowerDown() error {
	return ModifyRegister(d, func(r ControlRegister1) ControlRegister1 {
		return r.WithPowerUp(false)
	})
}

// EnableDataReady routes the data ready interrupt to the DRDY/INT2 pin.
func (d *Dev) EnableDataReady(enabled bool) error {
	return ModifyRegister(d, func(r ControlRegister3) ControlRegister3 {
		return r.WithDataReady(enabled)
	})
}

func (d *Dev) SetOutputDataRate(odr OutputDataRate) error {
	return ModifyRegister(d, func(r ControlRegister1) ControlRegister1 {
		return r.WithOutputDataRate(odr)
	})
}

func (d *Dev) SetBandwidth(bw Bandwidth) error {
	return ModifyRegister(d, func(r ControlRegister1) ControlRegister1 {
		return r.WithBandwidth(bw)
	})
}

func (d *Dev) SetFullScale(fs FullScale) error {
	return ModifyRegister(d, func(r ControlRegister4) ControlRegister4 {
		return r.WithFullScale(fs)
	})
}

// Characteristics reads the current configuration and temperature and derives
// the scale and noise figures. Call it again after changing the configuration.
func (d *Dev) Characteristics() (Characteristics, error) {
	temp, err := d.TempRaw()
	if err != nil {
		return Characteristics{}, err
	}
	reg1, err := ReadRegister[ControlRegister1](d)
	if err != nil {
		return Characteristics{}, err
	}
	reg4, err := ReadRegister[ControlRegister4](d)
	if err != nil {
		return Characteristics{}, err
	}
	return ComputeCharacteristics(reg4.FullScale(), reg1.OutputDataRate(), reg1.Bandwidth(), temp), nil
}

// TempRaw reads the raw temperature count.
func (d *Dev) TempRaw() (uint8, error) {
	r, err := ReadRegister[TemperatureRegister](d)
	if err != nil {
		return 0, err
	}
	return r.Temp(), nil
}

// XYZRaw reads the three axes in one burst: XL, XH, YL, YH, ZL, ZH.
func (d *Dev) XYZRaw() (I16x3, error) {
	b, err := d.tx.readBurst(RegOutXL, 6)
	if err != nil {
		return I16x3{}, err
	}
	return I16x3{
		X: Axis(b[0], b[1]),
		Y: Axis(b[2], b[3]),
		Z: Axis(b[4], b[5]),
	}, nil
}

// DataRaw reads temperature, status and the three axes in one burst and tags
// each axis with its freshness.
func (d *Dev) DataRaw() (SensorData, error) {
	b, err := d.tx.readBurst(RegOutTemp, 8)
	if err != nil {
		return SensorData{}, err
	}
	temp := TemperatureRegister(b[0])
	status := StatusRegister(b[1])
	return NewSensorData(
		temp.Temp(),
		Axis(b[2], b[3]),
		Axis(b[4], b[5]),
		Axis(b[6], b[7]),
		status,
	), nil
}
