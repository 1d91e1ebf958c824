// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package l3gd20

import "fmt"

// I16x3 is a raw XYZ triple.
type I16x3 struct {
	X, Y, Z int16
}

func (v I16x3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// SensorData is one full sample: the temperature count and the three axes,
// each tagged with its freshness.
type SensorData struct {
	Temperature uint8
	X, Y, Z     Reading[int16]
}

// NewSensorData tags x, y and z from the status register.
func NewSensorData(temp uint8, x, y, z int16, status StatusRegister) SensorData {
	return SensorData{
		Temperature: temp,
		X:           NewReading(x, status.XDataAvailable(), status.XOverrun()),
		Y:           NewReading(y, status.YDataAvailable(), status.YOverrun()),
		Z:           NewReading(z, status.ZDataAvailable(), status.ZOverrun()),
	}
}

func (s SensorData) axes() [3]Freshness {
	return [3]Freshness{s.X.Freshness(), s.Y.Freshness(), s.Z.Freshness()}
}

func (s SensorData) any(pred func(Freshness) bool) bool {
	for _, f := range s.axes() {
		if pred(f) {
			return true
		}
	}
	return false
}

func (s SensorData) all(pred func(Freshness) bool) bool {
	for _, f := range s.axes() {
		if !pred(f) {
			return false
		}
	}
	return true
}

func isStale(f Freshness) bool          { return f == Stale }
func isFresh(f Freshness) bool          { return f == Fresh }
func isOverrun(f Freshness) bool        { return f == Overrun }
func isFreshOrOverrun(f Freshness) bool { return f != Stale }

// AnyStale reports whether at least one axis is stale.
func (s SensorData) AnyStale() bool { return s.any(isStale) }

// AllFresh reports whether every axis is fresh.
func (s SensorData) AllFresh() bool { return s.all(isFresh) }

// AllFreshOrOverrun reports whether every axis carries new data.
func (s SensorData) AllFreshOrOverrun() bool { return s.all(isFreshOrOverrun) }

// AnyFreshOrOverrun reports whether at least one axis carries new data.
func (s SensorData) AnyFreshOrOverrun() bool { return s.any(isFreshOrOverrun) }

// AllOverrun reports whether every axis overran.
func (s SensorData) AllOverrun() bool { return s.all(isOverrun) }

// AnyOverrun reports whether at least one axis overran.
func (s SensorData) AnyOverrun() bool { return s.any(isOverrun) }

// XYZ drops the freshness tags.
func (s SensorData) XYZ() I16x3 {
	return I16x3{X: s.X.Value(), Y: s.Y.Value(), Z: s.Z.Value()}
}
