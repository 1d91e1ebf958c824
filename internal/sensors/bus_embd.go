package sensors

import (
	"errors"
	"fmt"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"

	"github.com/relabs-tech/l3gd20/internal/l3gd20"
)

// embdTransferer is the part of embd.SPIBus the adapter uses.
type embdTransferer interface {
	TransferAndReceiveData(dataBuffer []uint8) error
}

// embdConn adapts an embd SPI bus, which transfers in place, to l3gd20.Conn.
type embdConn struct {
	bus embdTransferer
}

func (c embdConn) Tx(w, r []byte) error {
	if len(w) != len(r) {
		return fmt.Errorf("embd: tx %d bytes, rx %d bytes", len(w), len(r))
	}
	buf := make([]byte, len(w))
	copy(buf, w)
	if err := c.bus.TransferAndReceiveData(buf); err != nil {
		return err
	}
	copy(r, buf)
	return nil
}

// embdWriter is the part of embd.DigitalPin the chip select uses.
type embdWriter interface {
	Write(val int) error
}

// embdPinSelect drives an active-low embd GPIO as chip select.
type embdPinSelect struct {
	pin  embdWriter
	name string
}

func (p embdPinSelect) Select() (func() error, error) {
	if err := p.pin.Write(embd.Low); err != nil {
		return nil, fmt.Errorf("gyro: assert CS %s: %w", p.name, err)
	}
	return func() error {
		if err := p.pin.Write(embd.High); err != nil {
			return fmt.Errorf("gyro: release CS %s: %w", p.name, err)
		}
		return nil
	}, nil
}

func openEmbdBus(s BusSettings) (*Bus, error) {
	if err := embd.InitSPI(); err != nil {
		return nil, fmt.Errorf("gyro: embd SPI init: %w", err)
	}
	speed := int(s.SpeedHz)
	if speed <= 0 {
		speed = 1_000_000
	}
	spiBus := embd.NewSPIBus(embd.SPIMode3, s.Channel, speed, 8, 0)

	// Run in reverse order of acquisition.
	closers := []func() error{embd.CloseSPI, spiBus.Close}
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	b := &Bus{
		Conn:  embdConn{bus: spiBus},
		CS:    l3gd20.NoSelect{},
		Desc:  fmt.Sprintf("embd spi channel %d", s.Channel),
		close: closeAll,
	}
	if s.CSPin == "" {
		return b, nil
	}

	if err := embd.InitGPIO(); err != nil {
		return nil, closeAfter(fmt.Errorf("gyro: embd GPIO init: %w", err), closeAll)
	}
	closers = append(closers, embd.CloseGPIO)
	pin, err := embd.NewDigitalPin(s.CSPin)
	if err != nil {
		return nil, closeAfter(fmt.Errorf("gyro: CS pin %q: %w", s.CSPin, err), closeAll)
	}
	closers = append(closers, pin.Close)
	if err := pin.SetDirection(embd.Out); err != nil {
		return nil, closeAfter(fmt.Errorf("gyro: CS pin %q direction: %w", s.CSPin, err), closeAll)
	}
	if err := pin.Write(embd.High); err != nil {
		return nil, closeAfter(fmt.Errorf("gyro: CS pin %q idle high: %w", s.CSPin, err), closeAll)
	}
	b.CS = embdPinSelect{pin: pin, name: s.CSPin}
	return b, nil
}
