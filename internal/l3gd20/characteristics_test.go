// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package l3gd20

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCharacteristicsDefaults(t *testing.T) {
	c := ComputeCharacteristics(D250, Hz95, Narrowest, 0)
	if c.FullScale != 250 {
		t.Errorf("FullScale = %d, want 250", c.FullScale)
	}
	if !near(float64(c.Sensitivity), 0.00875) {
		t.Errorf("Sensitivity = %v, want 0.00875", c.Sensitivity)
	}
	if c.ZeroRateNoise != 10 {
		t.Errorf("ZeroRateNoise = %v, want 10", c.ZeroRateNoise)
	}
	if want := 0.03 * math.Sqrt(12.5); !near(float64(c.RateNoiseDensity), want) {
		t.Errorf("RateNoiseDensity = %v, want %v", c.RateNoiseDensity, want)
	}
	if c.ZeroRateLevelTemp != 0 {
		t.Errorf("ZeroRateLevelTemp = %v, want 0", c.ZeroRateLevelTemp)
	}
}

func TestCharacteristicsByFullScale(t *testing.T) {
	tests := []struct {
		fs        FullScale
		dps       uint16
		sens      float64
		noise     float32
		tempCoeff float64
	}{
		{D250, 250, 0.00875, 10, 0.03},
		{D500, 500, 0.0175, 15, 0.03},
		{D2000, 2000, 0.070, 75, 0.04},
		{D2000Alt, 2000, 0.070, 75, 0.05},
	}
	const temp = 40
	for _, tt := range tests {
		c := ComputeCharacteristics(tt.fs, Hz190, Medium, temp)
		if c.FullScale != tt.dps || c.FullScale != tt.fs.DPS() {
			t.Errorf("fs %d: FullScale = %d, want %d", tt.fs, c.FullScale, tt.dps)
		}
		if !near(float64(c.Sensitivity), tt.sens) {
			t.Errorf("fs %d: Sensitivity = %v, want %v", tt.fs, c.Sensitivity, tt.sens)
		}
		if c.ZeroRateNoise != tt.noise {
			t.Errorf("fs %d: ZeroRateNoise = %v, want %v", tt.fs, c.ZeroRateNoise, tt.noise)
		}
		if !near(float64(c.ZeroRateLevelTemp), tt.tempCoeff*temp) {
			t.Errorf("fs %d: ZeroRateLevelTemp = %v, want %v", tt.fs, c.ZeroRateLevelTemp, tt.tempCoeff*temp)
		}
	}
}

func TestNoiseBandwidthTable(t *testing.T) {
	want := map[Bandwidth][4]float64{
		Narrowest: {12.5, 12.5, 20, 30},
		Narrow:    {25, 25, 25, 35},
		Medium:    {25, 50, 50, 50},
		Wide:      {25, 70, 100, 100},
	}
	for bw, row := range want {
		for odr, hz := range row {
			if got := NoiseBandwidth(bw, OutputDataRate(odr)); got != hz {
				t.Errorf("NoiseBandwidth(%s, %d Hz) = %v, want %v", bw, OutputDataRate(odr).Hz(), got, hz)
			}
			c := ComputeCharacteristics(D250, OutputDataRate(odr), bw, 0)
			if d := 0.03 * math.Sqrt(hz); !near(float64(c.RateNoiseDensity), d) {
				t.Errorf("%s/%d Hz: RateNoiseDensity = %v, want %v", bw, OutputDataRate(odr).Hz(), c.RateNoiseDensity, d)
			}
		}
	}
}

func TestDefaultCharacteristics(t *testing.T) {
	c := DefaultCharacteristics()
	if c.FullScale != 250 || !near(float64(c.ZeroRateLevelTemp), 0.03) {
		t.Fatalf("DefaultCharacteristics() = %+v", c)
	}
}
