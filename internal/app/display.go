package app

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/l3gd20/internal/config"
	"github.com/relabs-tech/l3gd20/internal/gyro"
)

const (
	displayWidth  = 128
	displayHeight = 64
)

// drawer is the part of ssd1306.Dev used for output.
type drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// DisplayData holds the latest data for display
type DisplayData struct {
	mu     sync.RWMutex
	sample *gyro.Sample
	chars  *gyro.Characteristics
}

func (d *DisplayData) setSample(s gyro.Sample) {
	d.mu.Lock()
	d.sample = &s
	d.mu.Unlock()
}

func (d *DisplayData) setCharacteristics(c gyro.Characteristics) {
	d.mu.Lock()
	d.chars = &c
	d.mu.Unlock()
}

func (d *DisplayData) snapshot() (*gyro.Sample, *gyro.Characteristics) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sample, d.chars
}

func newFrame() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))
	return img, &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
}

func drawLines(d *font.Drawer, x int, lines ...string) {
	for i, l := range lines {
		d.Dot = fixed.P(x, 13*(i+1))
		d.DrawString(l)
	}
}

// freshnessMark abbreviates a freshness tag to one letter.
func freshnessMark(f string) string {
	switch f {
	case "fresh":
		return "F"
	case "overrun":
		return "O"
	default:
		return "-"
	}
}

// renderGyro draws the raw axes with their freshness and the full scale
// range, or a waiting screen before the first sample.
func renderGyro(s *gyro.Sample, c *gyro.Characteristics) *image1bit.VerticalLSB {
	img, d := newFrame()
	if s == nil {
		drawLines(d, 0, "", "L3GD20 gyro", "Waiting...")
		return img
	}

	header := fmt.Sprintf("T:%3d", s.Temperature)
	if c != nil {
		header += fmt.Sprintf(" %4ddps", c.FullScale)
	}
	drawLines(d, 0,
		header,
		fmt.Sprintf("X:%7d %s", s.X.Raw, freshnessMark(s.X.Freshness)),
		fmt.Sprintf("Y:%7d %s", s.Y.Raw, freshnessMark(s.Y.Freshness)),
		fmt.Sprintf("Z:%7d %s", s.Z.Raw, freshnessMark(s.Z.Freshness)),
	)
	return img
}

func renderSplash() *image1bit.VerticalLSB {
	img, d := newFrame()
	d.Dot = fixed.P(30, 26)
	d.DrawString("L3GD20")
	d.Dot = fixed.P(10, 43)
	d.DrawString("Connecting...")
	return img
}

func show(dev drawer, img image.Image) error {
	return dev.Draw(dev.Bounds(), img, image.Point{})
}

// RunDisplay mirrors the latest gyro sample on an SSD1306 until ctx is done.
func RunDisplay(ctx context.Context) error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus %q: %w", cfg.DisplayI2CBus, err)
	}
	defer bus.Close()

	// NewI2C talks to the controller at 0x3C.
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	log.Infof("display: initialized on %s", bus)

	if err := show(dev, renderSplash()); err != nil {
		log.Warnf("display: error showing splash: %v", err)
	}

	client, err := connectMQTT("display", cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	data := &DisplayData{}
	if err := subscribeJSON(client, "display", cfg.TopicGyroRaw, data.setSample); err != nil {
		return err
	}
	if err := subscribeJSON(client, "display", cfg.TopicGyroCharacteristics, data.setCharacteristics); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Info("display: starting update loop")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := show(dev, renderGyro(data.snapshot())); err != nil {
				log.Warnf("display: error updating: %v", err)
			}
		}
	}
}
