// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package l3gd20

import "math"

// Characteristics are the scale and noise figures for one configuration.
type Characteristics struct {
	// FullScale is the measurement range in degrees/second.
	FullScale uint16 `json:"full_scale_dps"`

	// Sensitivity in degrees/second per LSB.
	Sensitivity float32 `json:"sensitivity_dps_per_lsb"`

	// ZeroRateNoise is the zero-rate level in ±degrees/second.
	ZeroRateNoise float32 `json:"zero_rate_noise_dps"`

	// ZeroRateLevelTemp is the temperature related zero-rate change, in
	// degrees/second, for the raw temperature the figures were computed at.
	ZeroRateLevelTemp float32 `json:"zero_rate_level_temp_dps"`

	// RateNoiseDensity is 0.03 dps/√Hz integrated over the noise bandwidth.
	RateNoiseDensity float32 `json:"rate_noise_density_dps"`
}

// rateNoise is the datasheet rate noise density in dps/√Hz.
const rateNoise = 0.03

var (
	fullScaleDPS  = [4]uint16{250, 500, 2000, 2000}
	sensitivity   = [4]float32{8.75e-3, 17.5e-3, 70e-3, 70e-3}
	zeroRateNoise = [4]float32{10, 15, 75, 75}
	tempCoeff     = [4]float32{0.03, 0.03, 0.04, 0.05}

	// noiseBandwidthHz[bw][odr], datasheet values.
	noiseBandwidthHz = [4][4]float64{
		Narrowest: {Hz95: 12.5, Hz190: 12.5, Hz380: 20, Hz760: 30},
		Narrow:    {Hz95: 25, Hz190: 25, Hz380: 25, Hz760: 35},
		Medium:    {Hz95: 25, Hz190: 50, Hz380: 50, Hz760: 50},
		Wide:      {Hz95: 25, Hz190: 70, Hz380: 100, Hz760: 100},
	}
)

// NoiseBandwidth returns the noise-equivalent bandwidth in hertz for a
// bandwidth and data rate setting.
func NoiseBandwidth(bw Bandwidth, odr OutputDataRate) float64 {
	return noiseBandwidthHz[bw&0x03][odr&0x03]
}

// ComputeCharacteristics derives the figures for a configuration and a raw
// temperature count. Every setting maps to a table entry.
func ComputeCharacteristics(fs FullScale, odr OutputDataRate, bw Bandwidth, temp uint8) Characteristics {
	i := fs & 0x03
	return Characteristics{
		FullScale:         fullScaleDPS[i],
		Sensitivity:       sensitivity[i],
		ZeroRateNoise:     zeroRateNoise[i],
		ZeroRateLevelTemp: tempCoeff[i] * float32(temp),
		RateNoiseDensity:  float32(rateNoise * math.Sqrt(NoiseBandwidth(bw, odr))),
	}
}

// DefaultCharacteristics matches the configuration applied by Reset. The
// temperature term is given per count.
func DefaultCharacteristics() Characteristics {
	return ComputeCharacteristics(D250, Hz95, Narrowest, 1)
}
