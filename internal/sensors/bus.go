// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/l3gd20/internal/config"
	"github.com/relabs-tech/l3gd20/internal/l3gd20"
)

// Bus is an opened SPI connection plus its chip-select line.
type Bus struct {
	Conn  l3gd20.Conn
	CS    l3gd20.ChipSelect
	Desc  string
	close func() error
}

// Close releases the port and any GPIO held by the bus.
func (b *Bus) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// closeAfter releases a half-opened resource on an error path. A close
// failure is logged and joined to err.
func closeAfter(err error, release func() error) error {
	if cerr := release(); cerr != nil {
		log.Debugf("gyro: close after %v: %v", err, cerr)
		return errors.Join(err, cerr)
	}
	return err
}

// BusSettings selects and configures a backend.
type BusSettings struct {
	Backend string
	Device  string
	Channel byte
	CSPin   string
	SpeedHz int64
}

// SettingsFromConfig extracts the bus settings from the application config.
func SettingsFromConfig(cfg *config.Config) BusSettings {
	return BusSettings{
		Backend: cfg.GyroBusBackend,
		Device:  cfg.GyroSPIDevice,
		Channel: cfg.GyroSPIChannel,
		CSPin:   cfg.GyroCSPin,
		SpeedHz: cfg.GyroSPISpeedHz,
	}
}

// OpenBus opens the configured backend.
func OpenBus(s BusSettings) (*Bus, error) {
	switch s.Backend {
	case config.BackendPeriph, "":
		return openPeriphBus(s)
	case config.BackendEmbd:
		return openEmbdBus(s)
	}
	return nil, fmt.Errorf("gyro: unknown bus backend %q", s.Backend)
}
