// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package l3gd20

import "testing"

func reading(f Freshness, v int16) Reading[int16] {
	switch f {
	case Fresh:
		return NewFresh(v)
	case Overrun:
		return NewOverrun(v)
	}
	return NewStale(v)
}

func TestSensorDataCombinators(t *testing.T) {
	all := []Freshness{Stale, Fresh, Overrun}
	for _, x := range all {
		for _, y := range all {
			for _, z := range all {
				s := SensorData{X: reading(x, 1), Y: reading(y, 2), Z: reading(z, 3)}
				axes := []Freshness{x, y, z}

				count := func(pred func(Freshness) bool) int {
					n := 0
					for _, f := range axes {
						if pred(f) {
							n++
						}
					}
					return n
				}
				stale := count(func(f Freshness) bool { return f == Stale })
				fresh := count(func(f Freshness) bool { return f == Fresh })
				overrun := count(func(f Freshness) bool { return f == Overrun })

				checks := []struct {
					name string
					got  bool
					want bool
				}{
					{"AnyStale", s.AnyStale(), stale > 0},
					{"AllFresh", s.AllFresh(), fresh == 3},
					{"AllFreshOrOverrun", s.AllFreshOrOverrun(), stale == 0},
					{"AnyFreshOrOverrun", s.AnyFreshOrOverrun(), stale < 3},
					{"AllOverrun", s.AllOverrun(), overrun == 3},
					{"AnyOverrun", s.AnyOverrun(), overrun > 0},
				}
				for _, c := range checks {
					if c.got != c.want {
						t.Errorf("x=%s y=%s z=%s: %s = %v, want %v", x, y, z, c.name, c.got, c.want)
					}
				}
			}
		}
	}
}

// Fresh X with stale Y and Z is not an all-fresh sample.
func TestAllFreshNeedsEveryAxis(t *testing.T) {
	s := SensorData{X: NewFresh[int16](0), Y: NewStale[int16](0), Z: NewStale[int16](0)}
	if s.AllFresh() {
		t.Fatal("AllFresh() = true with stale Y and Z")
	}
	s = SensorData{X: NewStale[int16](0), Y: NewFresh[int16](0), Z: NewStale[int16](0)}
	if s.AllFresh() {
		t.Fatal("AllFresh() = true with stale X and Z")
	}
}

func TestNewSensorDataStatusBits(t *testing.T) {
	tests := []struct {
		status  StatusRegister
		x, y, z Freshness
	}{
		{0x00, Stale, Stale, Stale},
		{0x0F, Fresh, Fresh, Fresh},
		{0x01, Fresh, Stale, Stale},
		{0x02, Stale, Fresh, Stale},
		{0x04, Stale, Stale, Fresh},
		{0x10, Overrun, Stale, Stale},
		{0x21, Fresh, Overrun, Stale},
		{0xFF, Overrun, Overrun, Overrun},
		{0x45, Fresh, Stale, Overrun},
	}
	for _, tt := range tests {
		s := NewSensorData(20, 1, 2, 3, tt.status)
		if s.X.Freshness() != tt.x || s.Y.Freshness() != tt.y || s.Z.Freshness() != tt.z {
			t.Errorf("status %08b: got (%s, %s, %s), want (%s, %s, %s)", byte(tt.status),
				s.X.Freshness(), s.Y.Freshness(), s.Z.Freshness(), tt.x, tt.y, tt.z)
		}
	}
}

func TestSensorDataXYZ(t *testing.T) {
	s := NewSensorData(0, 10, -20, 30, 0x0F)
	if got := s.XYZ(); got != (I16x3{X: 10, Y: -20, Z: 30}) {
		t.Fatalf("XYZ() = %v", got)
	}
	if got := s.XYZ().String(); got != "(10, -20, 30)" {
		t.Fatalf("String() = %q", got)
	}
}
