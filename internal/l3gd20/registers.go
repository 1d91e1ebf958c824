// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package l3gd20

// Register addresses.
const (
	RegWhoAmI       = 0x0F
	RegCtrl1        = 0x20
	RegCtrl2        = 0x21
	RegCtrl3        = 0x22
	RegCtrl4        = 0x23
	RegCtrl5        = 0x24
	RegReference    = 0x25
	RegOutTemp      = 0x26
	RegStatus       = 0x27
	RegOutXL        = 0x28
	RegOutXH        = 0x29
	RegOutYL        = 0x2A
	RegOutYH        = 0x2B
	RegOutZL        = 0x2C
	RegOutZH        = 0x2D
	RegFIFOCtrl     = 0x2E
	RegFIFOSrc      = 0x2F
	RegInt1Cfg      = 0x30
	RegInt1Src      = 0x31
	RegInt1ThsXH    = 0x32
	RegInt1ThsXL    = 0x33
	RegInt1ThsYH    = 0x34
	RegInt1ThsYL    = 0x35
	RegInt1ThsZH    = 0x36
	RegInt1ThsZL    = 0x37
	RegInt1Duration = 0x38
)

// DeviceID is the expected WHO_AM_I value.
const DeviceID = 0xD4

// Register is a one-byte device register. The zero value carries the address.
type Register interface {
	~uint8
	Address() byte
}

// WritableRegister is a Register the driver is allowed to write.
type WritableRegister interface {
	Register
	writable()
}

// OutputDataRate selects the output data rate (CTRL_REG1 DR bits).
type OutputDataRate uint8

const (
	Hz95 OutputDataRate = iota
	Hz190
	Hz380
	Hz760
)

// Hz returns the nominal rate in hertz.
func (o OutputDataRate) Hz() int {
	return [...]int{95, 190, 380, 760}[o&0x03]
}

// Bandwidth selects the low pass cut-off (CTRL_REG1 BW bits).
type Bandwidth uint8

const (
	Narrowest Bandwidth = iota
	Narrow
	Medium
	Wide
)

func (b Bandwidth) String() string {
	return [...]string{"narrowest", "narrow", "medium", "wide"}[b&0x03]
}

// FullScale selects the measurement range (CTRL_REG4 FS bits).
// D2000Alt is the second encoding of the ±2000 dps range.
type FullScale uint8

const (
	D250 FullScale = iota
	D500
	D2000
	D2000Alt
)

// DPS returns the range in degrees/second.
func (f FullScale) DPS() uint16 {
	return [...]uint16{250, 500, 2000, 2000}[f&0x03]
}

// HighpassFilterMode is the CTRL_REG2 HPM field.
type HighpassFilterMode uint8

const (
	NormalModeResetFilter HighpassFilterMode = iota
	ReferenceSignal
	NormalMode
	AutoresetOnInterrupt
)

func bit(b byte, n uint) bool { return b&(1<<n) != 0 }

func setBit(b byte, n uint, on bool) byte {
	if on {
		return b | 1<<n
	}
	return b &^ (1 << n)
}

func setField(b byte, shift uint, mask byte, v byte) byte {
	return b&^(mask<<shift) | (v&mask)<<shift
}

// WhoAmI is the read-only identification register.
type WhoAmI uint8

func (WhoAmI) Address() byte { return RegWhoAmI }

// Ident returns the device identifier.
func (r WhoAmI) Ident() byte { return byte(r) }

// ControlRegister1 holds data rate, bandwidth, power and axis enables.
//
//	DR[7:6] BW[5:4] PD[3] Zen[2] Yen[1] Xen[0]
type ControlRegister1 uint8

func (ControlRegister1) Address() byte { return RegCtrl1 }
func (ControlRegister1) writable()     {}

func (r ControlRegister1) OutputDataRate() OutputDataRate { return OutputDataRate(r >> 6 & 0x03) }
func (r ControlRegister1) Bandwidth() Bandwidth           { return Bandwidth(r >> 4 & 0x03) }
func (r ControlRegister1) PowerUp() bool                  { return bit(byte(r), 3) }
func (r ControlRegister1) ZEnable() bool                  { return bit(byte(r), 2) }
func (r ControlRegister1) YEnable() bool                  { return bit(byte(r), 1) }
func (r ControlRegister1) XEnable() bool                  { return bit(byte(r), 0) }

func (r ControlRegister1) WithOutputDataRate(o OutputDataRate) ControlRegister1 {
	return ControlRegister1(setField(byte(r), 6, 0x03, byte(o)))
}

func (r ControlRegister1) WithBandwidth(b Bandwidth) ControlRegister1 {
	return ControlRegister1(setField(byte(r), 4, 0x03, byte(b)))
}

func (r ControlRegister1) WithPowerUp(on bool) ControlRegister1 {
	return ControlRegister1(setBit(byte(r), 3, on))
}

func (r ControlRegister1) WithZEnable(on bool) ControlRegister1 {
	return ControlRegister1(setBit(byte(r), 2, on))
}

func (r ControlRegister1) WithYEnable(on bool) ControlRegister1 {
	return ControlRegister1(setBit(byte(r), 1, on))
}

func (r ControlRegister1) WithXEnable(on bool) ControlRegister1 {
	return ControlRegister1(setBit(byte(r), 0, on))
}

// ControlRegister2 configures the high pass filter.
//
//	HPM[5:4] HPCF[3:0]
type ControlRegister2 uint8

func (ControlRegister2) Address() byte { return RegCtrl2 }
func (ControlRegister2) writable()     {}

func (r ControlRegister2) HighpassMode() HighpassFilterMode { return HighpassFilterMode(r >> 4 & 0x03) }
func (r ControlRegister2) HighpassCutoff() uint8            { return uint8(r & 0x0F) }

func (r ControlRegister2) WithHighpassMode(m HighpassFilterMode) ControlRegister2 {
	return ControlRegister2(setField(byte(r), 4, 0x03, byte(m)))
}

func (r ControlRegister2) WithHighpassCutoff(c uint8) ControlRegister2 {
	return ControlRegister2(setField(byte(r), 0, 0x0F, c))
}

// ControlRegister3 routes interrupts to INT1/DRDY pins.
//
//	I1_Int1[7] I1_Boot[6] H_Lactive[5] PP_OD[4] I2_DRDY[3] I2_WTM[2] I2_ORun[1] I2_Empty[0]
type ControlRegister3 uint8

func (ControlRegister3) Address() byte { return RegCtrl3 }
func (ControlRegister3) writable()     {}

func (r ControlRegister3) Int1() bool      { return bit(byte(r), 7) }
func (r ControlRegister3) Boot() bool      { return bit(byte(r), 6) }
func (r ControlRegister3) Int1Low() bool   { return bit(byte(r), 5) }
func (r ControlRegister3) OpenDrain() bool { return bit(byte(r), 4) }
func (r ControlRegister3) DataReady() bool { return bit(byte(r), 3) }
func (r ControlRegister3) Watermark() bool { return bit(byte(r), 2) }
func (r ControlRegister3) Overrun() bool   { return bit(byte(r), 1) }
func (r ControlRegister3) Empty() bool     { return bit(byte(r), 0) }

func (r ControlRegister3) WithInt1(on bool) ControlRegister3 {
	return ControlRegister3(setBit(byte(r), 7, on))
}

func (r ControlRegister3) WithBoot(on bool) ControlRegister3 {
	return ControlRegister3(setBit(byte(r), 6, on))
}

func (r ControlRegister3) WithInt1Low(on bool) ControlRegister3 {
	return ControlRegister3(setBit(byte(r), 5, on))
}

func (r ControlRegister3) WithOpenDrain(on bool) ControlRegister3 {
	return ControlRegister3(setBit(byte(r), 4, on))
}

func (r ControlRegister3) WithDataReady(on bool) ControlRegister3 {
	return ControlRegister3(setBit(byte(r), 3, on))
}

func (r ControlRegister3) WithWatermark(on bool) ControlRegister3 {
	return ControlRegister3(setBit(byte(r), 2, on))
}

func (r ControlRegister3) WithOverrun(on bool) ControlRegister3 {
	return ControlRegister3(setBit(byte(r), 1, on))
}

func (r ControlRegister3) WithEmpty(on bool) ControlRegister3 {
	return ControlRegister3(setBit(byte(r), 0, on))
}

// ControlRegister4 holds block data update, endianness, full scale and SPI mode.
//
//	BDU[7] BLE[6] FS[5:4] SIM[0]
type ControlRegister4 uint8

func (ControlRegister4) Address() byte { return RegCtrl4 }
func (ControlRegister4) writable()     {}

func (r ControlRegister4) BlockDataUpdate() bool { return bit(byte(r), 7) }
func (r ControlRegister4) BigEndian() bool       { return bit(byte(r), 6) }
func (r ControlRegister4) FullScale() FullScale  { return FullScale(r >> 4 & 0x03) }
func (r ControlRegister4) SPI3Wire() bool        { return bit(byte(r), 0) }

func (r ControlRegister4) WithBlockDataUpdate(on bool) ControlRegister4 {
	return ControlRegister4(setBit(byte(r), 7, on))
}

func (r ControlRegister4) WithBigEndian(on bool) ControlRegister4 {
	return ControlRegister4(setBit(byte(r), 6, on))
}

func (r ControlRegister4) WithFullScale(fs FullScale) ControlRegister4 {
	return ControlRegister4(setField(byte(r), 4, 0x03, byte(fs)))
}

func (r ControlRegister4) WithSPI3Wire(on bool) ControlRegister4 {
	return ControlRegister4(setBit(byte(r), 0, on))
}

// ControlRegister5 holds reboot, FIFO and filter path selection.
//
//	BOOT[7] FIFO_EN[6] HPen[4] INT1_Sel[3:2] Out_Sel[1:0]
type ControlRegister5 uint8

func (ControlRegister5) Address() byte { return RegCtrl5 }
func (ControlRegister5) writable()     {}

func (r ControlRegister5) Boot() bool           { return bit(byte(r), 7) }
func (r ControlRegister5) FIFOEnable() bool     { return bit(byte(r), 6) }
func (r ControlRegister5) HighpassEnable() bool { return bit(byte(r), 4) }
func (r ControlRegister5) Int1Select() uint8    { return uint8(r >> 2 & 0x03) }
func (r ControlRegister5) OutSelect() uint8     { return uint8(r & 0x03) }

func (r ControlRegister5) WithBoot(on bool) ControlRegister5 {
	return ControlRegister5(setBit(byte(r), 7, on))
}

func (r ControlRegister5) WithFIFOEnable(on bool) ControlRegister5 {
	return ControlRegister5(setBit(byte(r), 6, on))
}

func (r ControlRegister5) WithHighpassEnable(on bool) ControlRegister5 {
	return ControlRegister5(setBit(byte(r), 4, on))
}

func (r ControlRegister5) WithInt1Select(v uint8) ControlRegister5 {
	return ControlRegister5(setField(byte(r), 2, 0x03, v))
}

func (r ControlRegister5) WithOutSelect(v uint8) ControlRegister5 {
	return ControlRegister5(setField(byte(r), 0, 0x03, v))
}

// TemperatureRegister is OUT_TEMP, the raw temperature count.
type TemperatureRegister uint8

func (TemperatureRegister) Address() byte { return RegOutTemp }

func (r TemperatureRegister) Temp() uint8 { return uint8(r) }

// StatusRegister reports per-axis data-available and overrun flags.
//
//	ZYXOR[7] ZOR[6] YOR[5] XOR[4] ZYXDA[3] ZDA[2] YDA[1] XDA[0]
type StatusRegister uint8

func (StatusRegister) Address() byte { return RegStatus }

func (r StatusRegister) ZYXOverrun() bool       { return bit(byte(r), 7) }
func (r StatusRegister) ZOverrun() bool         { return bit(byte(r), 6) }
func (r StatusRegister) YOverrun() bool         { return bit(byte(r), 5) }
func (r StatusRegister) XOverrun() bool         { return bit(byte(r), 4) }
func (r StatusRegister) ZYXDataAvailable() bool { return bit(byte(r), 3) }
func (r StatusRegister) ZDataAvailable() bool   { return bit(byte(r), 2) }
func (r StatusRegister) YDataAvailable() bool   { return bit(byte(r), 1) }
func (r StatusRegister) XDataAvailable() bool   { return bit(byte(r), 0) }

// Axis assembles a raw axis value from its low and high output registers.
// The device sends low before high in little-endian mode.
func Axis(lo, hi byte) int16 {
	return int16(uint16(hi)<<8 | uint16(lo))
}
