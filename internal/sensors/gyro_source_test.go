package sensors

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/relabs-tech/l3gd20/internal/l3gd20"
	"github.com/relabs-tech/l3gd20/internal/metrics"
)

func write(addr, v byte) conntest.IO {
	return conntest.IO{W: []byte{addr, v}, R: []byte{0, 0}}
}

func read(addr, v byte) conntest.IO {
	return conntest.IO{W: []byte{0x80 | addr, 0}, R: []byte{0, v}}
}

// initOps is the transcript of Init with testSetup.
func initOps() []conntest.IO {
	return []conntest.IO{
		// reset
		write(0x20, 0x0F),
		write(0x21, 0x00),
		write(0x22, 0x00),
		write(0x23, 0x00),
		write(0x24, 0x80),
		write(0x24, 0x00),
		// identify
		read(0x0F, 0xD4),
		// 190 Hz
		read(0x20, 0x0F), write(0x20, 0x4F),
		// medium bandwidth
		read(0x20, 0x4F), write(0x20, 0x6F),
		// ±500 dps
		read(0x23, 0x00), write(0x23, 0x10),
		// data ready on INT2
		read(0x22, 0x00), write(0x22, 0x08),
	}
}

var testSetup = DeviceSetup{
	ODR:       l3gd20.Hz190,
	Bandwidth: l3gd20.Medium,
	FullScale: l3gd20.D500,
	DataReady: true,
}

type fakeOpener struct {
	bus      *spitest.Playback
	opened   int
	closed   int
	speed    int64
	closeErr error
}

func (f *fakeOpener) open(s BusSettings) (*Bus, error) {
	f.opened++
	f.speed = s.SpeedHz
	return &Bus{
		Conn: f.bus,
		CS:   l3gd20.NoSelect{},
		Desc: "playback",
		close: func() error {
			f.closed++
			return f.closeErr
		},
	}, nil
}

func newTestManager(ops ...conntest.IO) (*GyroManager, *fakeOpener) {
	f := &fakeOpener{bus: &spitest.Playback{Playback: conntest.Playback{Ops: ops}}}
	return NewGyroManager("test", f.open, BusSettings{SpeedHz: 1_000_000}, testSetup), f
}

func TestGyroManagerInitAndSample(t *testing.T) {
	ops := initOps()
	ops = append(ops, conntest.IO{
		W: []byte{0xE6, 0, 0, 0, 0, 0, 0, 0, 0},
		R: []byte{0, 30, 0x0F, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00},
	})
	m, f := newTestManager(ops...)

	if m.IsAvailable() {
		t.Fatal("available before Init")
	}
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if !m.IsAvailable() {
		t.Fatal("not available after Init")
	}
	s, err := m.ReadSample()
	if err != nil {
		t.Fatal(err)
	}
	if !s.AllFresh() || s.XYZ() != (l3gd20.I16x3{X: 1, Y: 2, Z: 3}) || s.Temperature != 30 {
		t.Fatalf("sample = %+v", s)
	}
	if f.bus.Count != len(f.bus.Ops) {
		t.Fatalf("%d of %d transactions done", f.bus.Count, len(f.bus.Ops))
	}
}

// transportErrors returns the gathered l3gd20_transport_errors_total value
// for op, or -1 when the series is absent.
func transportErrors(t *testing.T, op string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != "l3gd20_transport_errors_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "op" && l.GetValue() == op {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}

func TestGyroManagerReadSampleErrorIsGathered(t *testing.T) {
	metrics.Register()
	m, f := newTestManager(initOps()...)
	f.bus.DontPanic = true
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	before := transportErrors(t, "burst read")

	// The playback is exhausted, so the sample burst fails on the bus.
	_, err := m.ReadSample()
	var te *l3gd20.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want a transport error", err)
	}
	got := transportErrors(t, "burst read")
	if got < 1 || got != max(before, 0)+1 {
		t.Fatalf("gathered burst read errors = %v, before %v", got, before)
	}
}

func TestGyroManagerNotInitialized(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.ReadSample(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("err = %v, want ErrNotInitialized", err)
	}
	if err := m.WriteRegister(0x20, 0); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("err = %v, want ErrNotInitialized", err)
	}
}

func TestGyroManagerWrongDevice(t *testing.T) {
	ops := initOps()[:7]
	ops[6] = read(0x0F, 0xD7)
	m, f := newTestManager(ops...)

	if err := m.Init(); err == nil {
		t.Fatal("Init succeeded with wrong WHO_AM_I")
	}
	if m.IsAvailable() {
		t.Fatal("available after failed Init")
	}
	if f.closed != 1 {
		t.Fatalf("bus closed %d times, want 1", f.closed)
	}
}

func TestGyroManagerInitReportsCloseError(t *testing.T) {
	ops := initOps()[:7]
	ops[6] = read(0x0F, 0xD7)
	m, f := newTestManager(ops...)
	errClose := errors.New("spi close")
	f.closeErr = errClose

	err := m.Init()
	if !errors.Is(err, errClose) {
		t.Fatalf("err = %v, want the close error joined", err)
	}
	if !strings.Contains(err.Error(), "WHO_AM_I mismatch") {
		t.Fatalf("err = %v, lost the init failure", err)
	}
	if f.closed != 1 {
		t.Fatalf("bus closed %d times, want 1", f.closed)
	}
}

func TestCloseAfter(t *testing.T) {
	errOpen := errors.New("open")
	calls := 0
	ok := func() error { calls++; return nil }
	if err := closeAfter(errOpen, ok); err != errOpen || calls != 1 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}

	errClose := errors.New("close")
	err := closeAfter(errOpen, func() error { return errClose })
	if !errors.Is(err, errOpen) || !errors.Is(err, errClose) {
		t.Fatalf("err = %v, want both errors", err)
	}
}

// burst is the transcript of an auto-increment read of first..last that
// returns first, first+1, ... as values.
func burst(first, last byte) conntest.IO {
	n := int(last-first) + 1
	w := make([]byte, 1+n)
	w[0] = 0xC0 | first
	r := make([]byte, 1+n)
	for i := 1; i <= n; i++ {
		r[i] = first + byte(i-1)
	}
	return conntest.IO{W: w, R: r}
}

func TestGyroManagerReadAllRegisters(t *testing.T) {
	ops := initOps()
	ops = append(ops, read(0x0F, 0xD4), burst(0x20, 0x30), burst(0x32, 0x38))
	m, f := newTestManager(ops...)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}

	regs, err := m.ReadAllRegisters()
	if err != nil {
		t.Fatal(err)
	}
	if f.bus.Count != len(f.bus.Ops) {
		t.Fatalf("%d of %d transactions done", f.bus.Count, len(f.bus.Ops))
	}
	if len(regs) != 1+17+7 {
		t.Fatalf("%d registers, want 25", len(regs))
	}
	if _, ok := regs[l3gd20.RegInt1Src]; ok {
		t.Fatal("INT1_SRC read; it clears the latched interrupt")
	}
	if regs[l3gd20.RegWhoAmI] != 0xD4 || regs[l3gd20.RegCtrl1] != 0x20 ||
		regs[l3gd20.RegInt1Cfg] != 0x30 || regs[l3gd20.RegInt1ThsXH] != 0x32 ||
		regs[l3gd20.RegInt1Duration] != 0x38 {
		t.Fatalf("registers = %v", regs)
	}
}

func TestGyroManagerSetSPISpeedReinitializes(t *testing.T) {
	ops := append(initOps(), initOps()...)
	m, f := newTestManager(ops...)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if err := m.SetSPISpeed(4_000_000); err != nil {
		t.Fatal(err)
	}
	if f.opened != 2 || f.closed != 1 || f.speed != 4_000_000 || m.SPISpeed() != 4_000_000 {
		t.Fatalf("opened=%d closed=%d speed=%d", f.opened, f.closed, f.speed)
	}
	if err := m.SetSPISpeed(0); err == nil {
		t.Fatal("SetSPISpeed(0) succeeded")
	}
}

func TestRegisterMapAddresses(t *testing.T) {
	prev := -1
	for _, r := range getL3GD20RegisterMap() {
		a := int(r.Addr())
		if a <= prev {
			t.Fatalf("%s at %s is out of order", r.Name, r.Address)
		}
		prev = a
		if r.Access != "R" && r.Access != "RW" {
			t.Fatalf("%s: access %q", r.Name, r.Access)
		}
	}
}
