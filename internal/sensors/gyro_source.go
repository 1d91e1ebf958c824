// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/l3gd20/internal/config"
	"github.com/relabs-tech/l3gd20/internal/l3gd20"
	"github.com/relabs-tech/l3gd20/internal/metrics"
)

// ErrNotInitialized is returned by GyroManager before a successful Init.
var ErrNotInitialized = errors.New("gyro: not initialized")

// DeviceSetup is the configuration applied after the driver reset.
type DeviceSetup struct {
	ODR       l3gd20.OutputDataRate
	Bandwidth l3gd20.Bandwidth
	FullScale l3gd20.FullScale
	DataReady bool
}

// SetupFromConfig extracts the device setup from the application config.
func SetupFromConfig(cfg *config.Config) DeviceSetup {
	return DeviceSetup{
		ODR:       l3gd20.OutputDataRate(cfg.GyroODR),
		Bandwidth: l3gd20.Bandwidth(cfg.GyroBandwidth),
		FullScale: l3gd20.FullScale(cfg.GyroFullScale),
		DataReady: cfg.GyroDataReadyInt,
	}
}

// GyroManager owns the gyro device and serializes access to it. All
// methods are safe for concurrent use.
type GyroManager struct {
	mu       sync.Mutex
	name     string
	open     func(BusSettings) (*Bus, error)
	settings BusSettings
	setup    DeviceSetup
	bus      *Bus
	dev      *l3gd20.Dev
}

var (
	gyroManager     *GyroManager
	gyroManagerOnce sync.Once
)

// GetGyroManager returns the process wide manager built from the global
// config. Init must be called before use.
func GetGyroManager() *GyroManager {
	gyroManagerOnce.Do(func() {
		cfg := config.Get()
		gyroManager = NewGyroManager("gyro", OpenBus, SettingsFromConfig(cfg), SetupFromConfig(cfg))
	})
	return gyroManager
}

// NewGyroManager returns a manager that opens its bus with open.
func NewGyroManager(name string, open func(BusSettings) (*Bus, error), s BusSettings, setup DeviceSetup) *GyroManager {
	return &GyroManager{name: name, open: open, settings: s, setup: setup}
}

// Init opens the bus, resets and identifies the device and applies the setup.
// Calling it again reinitializes.
func (m *GyroManager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initLocked()
}

func (m *GyroManager) initLocked() (err error) {
	if err := m.closeLocked(); err != nil {
		log.Debugf("%s: close before init: %v", m.name, err)
	}

	bus, err := m.open(m.settings)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = closeAfter(err, bus.Close)
		}
	}()

	dev, err := l3gd20.New(bus.Conn, bus.CS, nil)
	if err != nil {
		return fmt.Errorf("%s: reset: %w", m.name, err)
	}

	ok, err := dev.Identify()
	if err != nil {
		return fmt.Errorf("%s: identify: %w", m.name, err)
	}
	if !ok {
		return fmt.Errorf("%s: WHO_AM_I mismatch on %s, is an L3GD20 connected?", m.name, bus.Desc)
	}
	log.Infof("%s: L3GD20 found on %s", m.name, bus.Desc)

	if err := dev.SetOutputDataRate(m.setup.ODR); err != nil {
		return fmt.Errorf("%s: set output data rate: %w", m.name, err)
	}
	if err := dev.SetBandwidth(m.setup.Bandwidth); err != nil {
		return fmt.Errorf("%s: set bandwidth: %w", m.name, err)
	}
	if err := dev.SetFullScale(m.setup.FullScale); err != nil {
		return fmt.Errorf("%s: set full scale: %w", m.name, err)
	}
	if m.setup.DataReady {
		if err := dev.EnableDataReady(true); err != nil {
			return fmt.Errorf("%s: enable data ready: %w", m.name, err)
		}
	}
	log.Infof("%s: output data rate %d Hz, bandwidth %s, full scale ±%d°/s",
		m.name, m.setup.ODR.Hz(), m.setup.Bandwidth, m.setup.FullScale.DPS())

	m.bus, m.dev = bus, dev
	return nil
}

func (m *GyroManager) closeLocked() error {
	if m.bus == nil {
		return nil
	}
	err := m.bus.Close()
	m.bus, m.dev = nil, nil
	return err
}

// Close releases the bus.
func (m *GyroManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

// IsAvailable reports whether Init has succeeded.
func (m *GyroManager) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dev != nil
}

// Name returns the source name used in logs and payloads.
func (m *GyroManager) Name() string { return m.name }

// with runs f holding the lock and counts bus errors.
func (m *GyroManager) with(f func(d *l3gd20.Dev) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev == nil {
		return ErrNotInitialized
	}
	err := f(m.dev)
	if err != nil {
		metrics.ObserveError(err)
	}
	return err
}

// ReadSample reads one full sample in a single transaction.
func (m *GyroManager) ReadSample() (l3gd20.SensorData, error) {
	var s l3gd20.SensorData
	err := m.with(func(d *l3gd20.Dev) (err error) {
		s, err = d.DataRaw()
		return err
	})
	if err != nil {
		return s, fmt.Errorf("%s: read sample: %w", m.name, err)
	}
	return s, nil
}

// Characteristics reads the current configuration and derives its figures.
func (m *GyroManager) Characteristics() (l3gd20.Characteristics, error) {
	var c l3gd20.Characteristics
	err := m.with(func(d *l3gd20.Dev) (err error) {
		c, err = d.Characteristics()
		return err
	})
	if err != nil {
		return c, fmt.Errorf("%s: characteristics: %w", m.name, err)
	}
	return c, nil
}

// Config reads CTRL_REG1 and CTRL_REG4.
func (m *GyroManager) Config() (l3gd20.ControlRegister1, l3gd20.ControlRegister4, error) {
	var (
		r1 l3gd20.ControlRegister1
		r4 l3gd20.ControlRegister4
	)
	err := m.with(func(d *l3gd20.Dev) (err error) {
		if r1, err = l3gd20.ReadRegister[l3gd20.ControlRegister1](d); err != nil {
			return err
		}
		r4, err = l3gd20.ReadRegister[l3gd20.ControlRegister4](d)
		return err
	})
	return r1, r4, err
}

// ReadRegister reads one register by address.
func (m *GyroManager) ReadRegister(addr byte) (byte, error) {
	var v byte
	err := m.with(func(d *l3gd20.Dev) (err error) {
		v, err = d.ReadRaw(addr)
		return err
	})
	return v, err
}

// WriteRegister writes one register by address. Callers decide which
// addresses may be written.
func (m *GyroManager) WriteRegister(addr, value byte) error {
	return m.with(func(d *l3gd20.Dev) error {
		return d.WriteRaw(addr, value)
	})
}

// burstSpans are the register runs read by ReadAllRegisters. INT1_SRC (0x31)
// is left out because reading it clears a latched interrupt.
var burstSpans = [...]struct{ first, last byte }{
	{l3gd20.RegCtrl1, l3gd20.RegInt1Cfg},
	{l3gd20.RegInt1ThsXH, l3gd20.RegInt1Duration},
}

// ReadAllRegisters reads WHO_AM_I and every register from CTRL_REG1 to
// INT1_DURATION except INT1_SRC, one burst per span in burstSpans.
func (m *GyroManager) ReadAllRegisters() (map[byte]byte, error) {
	regs := make(map[byte]byte, 32)
	err := m.with(func(d *l3gd20.Dev) error {
		id, err := d.ReadRaw(l3gd20.RegWhoAmI)
		if err != nil {
			return err
		}
		regs[l3gd20.RegWhoAmI] = id

		for _, sp := range burstSpans {
			b, err := d.ReadBurst(sp.first, int(sp.last-sp.first)+1)
			if err != nil {
				return err
			}
			for i, v := range b {
				regs[sp.first+byte(i)] = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: read all registers: %w", m.name, err)
	}
	return regs, nil
}

// ExportRegisterConfig returns the values of the writable registers.
func (m *GyroManager) ExportRegisterConfig() (map[byte]byte, error) {
	all, err := m.ReadAllRegisters()
	if err != nil {
		return nil, err
	}
	out := make(map[byte]byte)
	for _, r := range getL3GD20RegisterMap() {
		if r.Access != "RW" {
			continue
		}
		if v, ok := all[r.Addr()]; ok {
			out[r.Addr()] = v
		}
	}
	return out, nil
}

// SPISpeed returns the configured bus clock in Hz.
func (m *GyroManager) SPISpeed() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.SpeedHz
}

// SetSPISpeed reopens the bus at hz and reinitializes the device.
func (m *GyroManager) SetSPISpeed(hz int64) error {
	if hz <= 0 {
		return fmt.Errorf("%s: invalid SPI speed %d", m.name, hz)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.SpeedHz = hz
	return m.initLocked()
}

// GetRegisterMap returns the register metadata.
func (m *GyroManager) GetRegisterMap() []RegisterInfo {
	return getL3GD20RegisterMap()
}
