package app

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/l3gd20/internal/sensors"
)

// registerReader is the part of sensors.GyroManager a dump needs.
type registerReader interface {
	Name() string
	SPISpeed() int64
	ReadAllRegisters() (map[byte]byte, error)
	GetRegisterMap() []sensors.RegisterInfo
}

// DumpEntry is one register with its current value.
type DumpEntry struct {
	sensors.RegisterInfo `yaml:",inline"`
	Value                string `yaml:"value"`
}

// RegisterDump is the YAML document written by register_dump.
type RegisterDump struct {
	Device     string      `yaml:"device"`
	Time       time.Time   `yaml:"time"`
	SPISpeedHz int64       `yaml:"spi_speed_hz"`
	Registers  []DumpEntry `yaml:"registers"`
}

func buildDump(dev registerReader, t time.Time) (*RegisterDump, error) {
	regs, err := dev.ReadAllRegisters()
	if err != nil {
		return nil, err
	}
	dump := &RegisterDump{Device: dev.Name(), Time: t, SPISpeedHz: dev.SPISpeed()}
	for _, info := range dev.GetRegisterMap() {
		v, ok := regs[info.Addr()]
		if !ok {
			continue
		}
		dump.Registers = append(dump.Registers, DumpEntry{
			RegisterInfo: info,
			Value:        fmt.Sprintf("0x%02X", v),
		})
	}
	return dump, nil
}

func writeDump(w io.Writer, dump *RegisterDump) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(dump); err != nil {
		return err
	}
	return enc.Close()
}

// RunRegisterDump initializes the gyro and writes every readable register
// as YAML to path, or to stdout when path is empty or "-".
func RunRegisterDump(path string) error {
	mgr := sensors.GetGyroManager()
	if err := mgr.Init(); err != nil {
		return fmt.Errorf("failed to initialize gyro: %w", err)
	}
	defer mgr.Close()

	dump, err := buildDump(mgr, time.Now())
	if err != nil {
		return err
	}

	if path == "" || path == "-" {
		return writeDump(os.Stdout, dump)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeDump(f, dump); err != nil {
		f.Close()
		return err
	}
	log.Infof("register_dump: %d registers written to %s", len(dump.Registers), path)
	return f.Close()
}
