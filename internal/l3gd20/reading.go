// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package l3gd20

// Freshness tags a sensor value with the state of its status flags.
type Freshness uint8

const (
	// Stale means no new data since the last read.
	Stale Freshness = iota
	// Fresh means new data and no overrun.
	Fresh
	// Overrun means new data was written before the previous value was read.
	Overrun
)

func (f Freshness) String() string {
	switch f {
	case Stale:
		return "stale"
	case Fresh:
		return "fresh"
	case Overrun:
		return "overrun"
	}
	return "unknown"
}

// Classify maps the data-available and overrun status bits of one axis to a
// Freshness. Overrun wins over data-available.
func Classify(dataAvailable, overrun bool) Freshness {
	switch {
	case overrun:
		return Overrun
	case dataAvailable:
		return Fresh
	default:
		return Stale
	}
}

// Reading is a value tagged with its Freshness. The tag is fixed at
// construction; the value can be read and written regardless of it.
type Reading[T any] struct {
	value T
	tag   Freshness
}

func NewStale[T any](v T) Reading[T]   { return Reading[T]{value: v, tag: Stale} }
func NewFresh[T any](v T) Reading[T]   { return Reading[T]{value: v, tag: Fresh} }
func NewOverrun[T any](v T) Reading[T] { return Reading[T]{value: v, tag: Overrun} }

// NewReading tags v using the status bits of its axis.
func NewReading[T any](v T, dataAvailable, overrun bool) Reading[T] {
	return Reading[T]{value: v, tag: Classify(dataAvailable, overrun)}
}

func (r Reading[T]) Value() T             { return r.value }
func (r *Reading[T]) Set(v T)             { r.value = v }
func (r *Reading[T]) Ptr() *T             { return &r.value }
func (r Reading[T]) Freshness() Freshness { return r.tag }

func (r Reading[T]) Stale() bool          { return r.tag == Stale }
func (r Reading[T]) Fresh() bool          { return r.tag == Fresh }
func (r Reading[T]) Overrun() bool        { return r.tag == Overrun }
func (r Reading[T]) FreshOrOverrun() bool { return r.tag != Stale }
