package gyro

import (
	"time"

	"github.com/relabs-tech/l3gd20/internal/l3gd20"
)

// Axis is one raw axis count and its freshness tag.
type Axis struct {
	Raw       int16  `json:"raw"`
	Freshness string `json:"freshness"` // "stale", "fresh" or "overrun"
}

// Sample is a single raw gyro sample as published on MQTT.
type Sample struct {
	Source string    `json:"source"`
	Time   time.Time `json:"time"`

	Temperature uint8 `json:"temp_raw"`

	X Axis `json:"x"`
	Y Axis `json:"y"`
	Z Axis `json:"z"`

	// Sample level summaries.
	AllFresh   bool `json:"all_fresh"`
	AnyOverrun bool `json:"any_overrun"`
}

// Characteristics is the published form of the scale and noise figures.
type Characteristics struct {
	Source string    `json:"source"`
	Time   time.Time `json:"time"`

	ODRHz     int    `json:"odr_hz"`
	Bandwidth string `json:"bandwidth"`

	l3gd20.Characteristics
}

func axis(r l3gd20.Reading[int16]) Axis {
	return Axis{Raw: r.Value(), Freshness: r.Freshness().String()}
}

// NewSample converts a driver sample into its published form.
func NewSample(source string, t time.Time, s l3gd20.SensorData) Sample {
	return Sample{
		Source:      source,
		Time:        t,
		Temperature: s.Temperature,
		X:           axis(s.X),
		Y:           axis(s.Y),
		Z:           axis(s.Z),
		AllFresh:    s.AllFresh(),
		AnyOverrun:  s.AnyOverrun(),
	}
}

// XYZ returns the raw triple.
func (s Sample) XYZ() l3gd20.I16x3 {
	return l3gd20.I16x3{X: s.X.Raw, Y: s.Y.Raw, Z: s.Z.Raw}
}

// SampleSource produces driver samples. GyroManager implements it.
type SampleSource interface {
	ReadSample() (l3gd20.SensorData, error)
}
