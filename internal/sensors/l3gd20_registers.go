// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"strconv"

	"github.com/relabs-tech/l3gd20/internal/l3gd20"
)

// BitField describes one field of a register.
type BitField struct {
	Bits        string `json:"bits" yaml:"bits"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Values      string `json:"values,omitempty" yaml:"values,omitempty"`
}

// RegisterInfo is the metadata the register debugger and dump show.
type RegisterInfo struct {
	Address     string     `json:"address" yaml:"address"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Access      string     `json:"access" yaml:"access"` // "R" or "RW"
	Default     string     `json:"default,omitempty" yaml:"default,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty" yaml:"bit_fields,omitempty"`
}

// Addr returns the numeric register address.
func (r RegisterInfo) Addr() byte {
	v, _ := strconv.ParseUint(r.Address, 0, 8)
	return byte(v)
}

func hexAddr(a byte) string { return fmt.Sprintf("0x%02X", a) }

// getL3GD20RegisterMap returns metadata for all documented L3GD20 registers,
// in address order.
func getL3GD20RegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: hexAddr(l3gd20.RegWhoAmI), Name: "WHO_AM_I", Description: "Device identification", Access: "R", Default: "0xD4"},

		// Control Registers
		{Address: hexAddr(l3gd20.RegCtrl1), Name: "CTRL_REG1", Description: "Data rate, bandwidth, power and axis enables", Access: "RW", Default: "0x07",
			BitFields: []BitField{
				{Bits: "7:6", Name: "DR", Description: "Output data rate", Values: "0=95Hz, 1=190Hz, 2=380Hz, 3=760Hz"},
				{Bits: "5:4", Name: "BW", Description: "Bandwidth selection", Values: "0=narrowest .. 3=wide"},
				{Bits: "3", Name: "PD", Description: "Power mode", Values: "0=Power down, 1=Normal or sleep"},
				{Bits: "2", Name: "Zen", Description: "Z axis enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "1", Name: "Yen", Description: "Y axis enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "Xen", Description: "X axis enable", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: hexAddr(l3gd20.RegCtrl2), Name: "CTRL_REG2", Description: "High pass filter", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "5:4", Name: "HPM", Description: "High pass filter mode", Values: "0=Normal (reset filter), 1=Reference, 2=Normal, 3=Autoreset on interrupt"},
				{Bits: "3:0", Name: "HPCF", Description: "High pass filter cut-off", Values: "0-9, depends on ODR"},
			}},
		{Address: hexAddr(l3gd20.RegCtrl3), Name: "CTRL_REG3", Description: "Interrupt pin routing", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "I1_Int1", Description: "Interrupt on INT1", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "I1_Boot", Description: "Boot status on INT1", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "H_Lactive", Description: "INT1 active level", Values: "0=High, 1=Low"},
				{Bits: "4", Name: "PP_OD", Description: "Output mode", Values: "0=Push-pull, 1=Open drain"},
				{Bits: "3", Name: "I2_DRDY", Description: "Data ready on DRDY/INT2", Values: "0=Disabled, 1=Enabled"},
				{Bits: "2", Name: "I2_WTM", Description: "FIFO watermark on DRDY/INT2", Values: "0=Disabled, 1=Enabled"},
				{Bits: "1", Name: "I2_ORun", Description: "FIFO overrun on DRDY/INT2", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "I2_Empty", Description: "FIFO empty on DRDY/INT2", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: hexAddr(l3gd20.RegCtrl4), Name: "CTRL_REG4", Description: "Update mode, endianness, full scale, SPI mode", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=Wait for MSB and LSB read"},
				{Bits: "6", Name: "BLE", Description: "Endianness", Values: "0=LSB at lower address, 1=MSB at lower address"},
				{Bits: "5:4", Name: "FS", Description: "Full scale", Values: "0=±250°/s, 1=±500°/s, 2=±2000°/s, 3=±2000°/s"},
				{Bits: "0", Name: "SIM", Description: "SPI interface mode", Values: "0=4-wire, 1=3-wire"},
			}},
		{Address: hexAddr(l3gd20.RegCtrl5), Name: "CTRL_REG5", Description: "Reboot, FIFO and filter path", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "BOOT", Description: "Reboot memory content", Values: "0=Normal, 1=Reboot"},
				{Bits: "6", Name: "FIFO_EN", Description: "FIFO enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "4", Name: "HPen", Description: "High pass filter enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "3:2", Name: "INT1_Sel", Description: "INT1 selection", Values: "0-3"},
				{Bits: "1:0", Name: "Out_Sel", Description: "Output selection", Values: "0-3"},
			}},
		{Address: hexAddr(l3gd20.RegReference), Name: "REFERENCE", Description: "Reference value for interrupt generation", Access: "RW", Default: "0x00"},

		// Output Registers (Read-Only)
		{Address: hexAddr(l3gd20.RegOutTemp), Name: "OUT_TEMP", Description: "Temperature data", Access: "R"},
		{Address: hexAddr(l3gd20.RegStatus), Name: "STATUS_REG", Description: "Data available and overrun flags", Access: "R",
			BitFields: []BitField{
				{Bits: "7", Name: "ZYXOR", Description: "X, Y, Z axis data overrun"},
				{Bits: "6", Name: "ZOR", Description: "Z axis data overrun"},
				{Bits: "5", Name: "YOR", Description: "Y axis data overrun"},
				{Bits: "4", Name: "XOR", Description: "X axis data overrun"},
				{Bits: "3", Name: "ZYXDA", Description: "X, Y, Z axis new data available"},
				{Bits: "2", Name: "ZDA", Description: "Z axis new data available"},
				{Bits: "1", Name: "YDA", Description: "Y axis new data available"},
				{Bits: "0", Name: "XDA", Description: "X axis new data available"},
			}},
		{Address: hexAddr(l3gd20.RegOutXL), Name: "OUT_X_L", Description: "X-Axis Low Byte", Access: "R"},
		{Address: hexAddr(l3gd20.RegOutXH), Name: "OUT_X_H", Description: "X-Axis High Byte", Access: "R"},
		{Address: hexAddr(l3gd20.RegOutYL), Name: "OUT_Y_L", Description: "Y-Axis Low Byte", Access: "R"},
		{Address: hexAddr(l3gd20.RegOutYH), Name: "OUT_Y_H", Description: "Y-Axis High Byte", Access: "R"},
		{Address: hexAddr(l3gd20.RegOutZL), Name: "OUT_Z_L", Description: "Z-Axis Low Byte", Access: "R"},
		{Address: hexAddr(l3gd20.RegOutZH), Name: "OUT_Z_H", Description: "Z-Axis High Byte", Access: "R"},

		// FIFO
		{Address: hexAddr(l3gd20.RegFIFOCtrl), Name: "FIFO_CTRL_REG", Description: "FIFO control", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:5", Name: "FM", Description: "FIFO mode", Values: "0=Bypass, 1=FIFO, 2=Stream, 3=Stream-to-FIFO, 4=Bypass-to-Stream"},
				{Bits: "4:0", Name: "WTM", Description: "FIFO watermark level", Values: "0-31"},
			}},
		{Address: hexAddr(l3gd20.RegFIFOSrc), Name: "FIFO_SRC_REG", Description: "FIFO status", Access: "R",
			BitFields: []BitField{
				{Bits: "7", Name: "WTM", Description: "Watermark status"},
				{Bits: "6", Name: "OVRN", Description: "Overrun status"},
				{Bits: "5", Name: "EMPTY", Description: "FIFO empty"},
				{Bits: "4:0", Name: "FSS", Description: "FIFO stored data level"},
			}},

		// Interrupt 1
		{Address: hexAddr(l3gd20.RegInt1Cfg), Name: "INT1_CFG", Description: "Interrupt 1 configuration", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "AND/OR", Description: "Combination of interrupt events", Values: "0=OR, 1=AND"},
				{Bits: "6", Name: "LIR", Description: "Latch interrupt request", Values: "0=Not latched, 1=Latched"},
				{Bits: "5", Name: "ZHIE", Description: "Z high event enable"},
				{Bits: "4", Name: "ZLIE", Description: "Z low event enable"},
				{Bits: "3", Name: "YHIE", Description: "Y high event enable"},
				{Bits: "2", Name: "YLIE", Description: "Y low event enable"},
				{Bits: "1", Name: "XHIE", Description: "X high event enable"},
				{Bits: "0", Name: "XLIE", Description: "X low event enable"},
			}},
		{Address: hexAddr(l3gd20.RegInt1Src), Name: "INT1_SRC", Description: "Interrupt 1 source", Access: "R"},
		{Address: hexAddr(l3gd20.RegInt1ThsXH), Name: "INT1_THS_XH", Description: "Interrupt 1 X threshold high", Access: "RW", Default: "0x00"},
		{Address: hexAddr(l3gd20.RegInt1ThsXL), Name: "INT1_THS_XL", Description: "Interrupt 1 X threshold low", Access: "RW", Default: "0x00"},
		{Address: hexAddr(l3gd20.RegInt1ThsYH), Name: "INT1_THS_YH", Description: "Interrupt 1 Y threshold high", Access: "RW", Default: "0x00"},
		{Address: hexAddr(l3gd20.RegInt1ThsYL), Name: "INT1_THS_YL", Description: "Interrupt 1 Y threshold low", Access: "RW", Default: "0x00"},
		{Address: hexAddr(l3gd20.RegInt1ThsZH), Name: "INT1_THS_ZH", Description: "Interrupt 1 Z threshold high", Access: "RW", Default: "0x00"},
		{Address: hexAddr(l3gd20.RegInt1ThsZL), Name: "INT1_THS_ZL", Description: "Interrupt 1 Z threshold low", Access: "RW", Default: "0x00"},
		{Address: hexAddr(l3gd20.RegInt1Duration), Name: "INT1_DURATION", Description: "Interrupt 1 duration", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "WAIT", Description: "Wait before exiting interrupt", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6:0", Name: "D", Description: "Duration", Values: "0-127 (1/ODR)"},
			}},
	}
}
