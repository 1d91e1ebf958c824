// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package metrics holds the prometheus collectors shared by the gyro tools.
package metrics

import (
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relabs-tech/l3gd20/internal/gyro"
	"github.com/relabs-tech/l3gd20/internal/l3gd20"
)

var (
	SamplesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "l3gd20_samples_total",
		Help: "Gyro samples observed.",
	})

	AxisReadings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "l3gd20_axis_readings_total",
			Help: "Axis readings by freshness.",
		},
		[]string{"axis", "freshness"},
	)

	TransportErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "l3gd20_transport_errors_total",
			Help: "Failed SPI transfers by operation.",
		},
		[]string{"op"},
	)

	TemperatureRaw = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "l3gd20_temperature_raw",
		Help: "Last raw OUT_TEMP count.",
	})
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(SamplesTotal)
		prometheus.MustRegister(AxisReadings)
		prometheus.MustRegister(TransportErrors)
		prometheus.MustRegister(TemperatureRaw)
	})
}

// Handler registers the collectors and returns the scrape handler.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// ObserveSample counts one published sample.
func ObserveSample(s gyro.Sample) {
	SamplesTotal.Inc()
	AxisReadings.With(prometheus.Labels{"axis": "x", "freshness": s.X.Freshness}).Inc()
	AxisReadings.With(prometheus.Labels{"axis": "y", "freshness": s.Y.Freshness}).Inc()
	AxisReadings.With(prometheus.Labels{"axis": "z", "freshness": s.Z.Freshness}).Inc()
	TemperatureRaw.Set(float64(s.Temperature))
}

// ObserveError counts err if it came from the bus.
func ObserveError(err error) {
	var te *l3gd20.TransportError
	if errors.As(err, &te) {
		TransportErrors.With(prometheus.Labels{"op": te.Op}).Inc()
	}
}
