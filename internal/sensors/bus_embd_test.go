package sensors

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kidoman/embd"

	"github.com/relabs-tech/l3gd20/internal/l3gd20"
)

// loopback answers each byte with its complement, in place like embd does.
type loopback struct {
	seen [][]byte
	err  error
}

func (l *loopback) TransferAndReceiveData(buf []uint8) error {
	l.seen = append(l.seen, append([]byte(nil), buf...))
	if l.err != nil {
		return l.err
	}
	for i := range buf {
		buf[i] = ^buf[i]
	}
	return nil
}

func TestEmbdConnTx(t *testing.T) {
	lb := &loopback{}
	c := embdConn{bus: lb}
	w := []byte{0x8F, 0x00}
	r := make([]byte, 2)
	if err := c.Tx(w, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(w, []byte{0x8F, 0x00}) {
		t.Fatalf("write buffer modified: % X", w)
	}
	if !bytes.Equal(r, []byte{0x70, 0xFF}) {
		t.Fatalf("r = % X", r)
	}
	if err := c.Tx(w, make([]byte, 3)); err == nil {
		t.Fatal("length mismatch accepted")
	}
}

func TestEmbdConnWithDriver(t *testing.T) {
	lb := &loopback{}
	d, err := l3gd20.New(embdConn{bus: lb}, nil, &l3gd20.Opts{SkipReset: true})
	if err != nil {
		t.Fatal(err)
	}
	// WHO_AM_I reads back ^0x00.
	if ok, err := d.Identify(); err != nil || ok {
		t.Fatalf("Identify() = %v, %v", ok, err)
	}
	if !bytes.Equal(lb.seen[0], []byte{0x8F, 0x00}) {
		t.Fatalf("sent % X", lb.seen[0])
	}

	lb.err = errors.New("spidev")
	_, err = d.DataRaw()
	var te *l3gd20.TransportError
	if !errors.As(err, &te) || !errors.Is(err, lb.err) {
		t.Fatalf("err = %v", err)
	}
}

type recordPin struct {
	levels []int
	fail   bool
}

func (p *recordPin) Write(v int) error {
	if p.fail {
		return errors.New("gpio")
	}
	p.levels = append(p.levels, v)
	return nil
}

func TestEmbdPinSelect(t *testing.T) {
	p := &recordPin{}
	cs := embdPinSelect{pin: p, name: "GPIO8"}
	release, err := cs.Select()
	if err != nil {
		t.Fatal(err)
	}
	if err := release(); err != nil {
		t.Fatal(err)
	}
	if len(p.levels) != 2 || p.levels[0] != embd.Low || p.levels[1] != embd.High {
		t.Fatalf("levels = %v", p.levels)
	}

	p.fail = true
	if _, err := cs.Select(); err == nil {
		t.Fatal("Select succeeded with failing pin")
	}
}
