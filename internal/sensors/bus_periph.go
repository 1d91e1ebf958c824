package sensors

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/l3gd20/internal/l3gd20"
)

// openPeriphBus opens the SPI port through periph. When a CS pin is named the
// port is connected with NoCS and the pin is driven per transaction.
func openPeriphBus(s BusSettings) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gyro: periph host init: %w", err)
	}

	var cs l3gd20.ChipSelect = l3gd20.NoSelect{}
	mode := l3gd20.SpiMode
	if s.CSPin != "" {
		pin := gpioreg.ByName(s.CSPin)
		if pin == nil {
			return nil, fmt.Errorf("gyro: CS pin %q not found", s.CSPin)
		}
		if err := pin.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("gyro: CS pin %s idle high: %w", s.CSPin, err)
		}
		cs = l3gd20.PinSelect{Pin: pin}
		mode |= spi.NoCS
	}

	port, err := spireg.Open(s.Device)
	if err != nil {
		return nil, fmt.Errorf("gyro: SPI open (%s): %w", s.Device, err)
	}

	speed := l3gd20.SpiFrequency
	if s.SpeedHz > 0 {
		speed = physic.Frequency(s.SpeedHz) * physic.Hertz
	}
	conn, err := port.Connect(speed, mode, l3gd20.SpiBits)
	if err != nil {
		return nil, closeAfter(fmt.Errorf("gyro: SPI connect (%s @ %s): %w", s.Device, speed, err), port.Close)
	}
	log.Debugf("gyro: periph SPI %s connected at %s, mode %s", s.Device, speed, mode)

	return &Bus{
		Conn:  conn,
		CS:    cs,
		Desc:  fmt.Sprintf("periph %s", s.Device),
		close: port.Close,
	}, nil
}
