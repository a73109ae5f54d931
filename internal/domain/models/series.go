package models

import (
	"math"
	"time"
)

// PricePoint is one daily observation. Volume is NaN when the source has none.
type PricePoint struct {
	Time   time.Time
	Close  float64
	Volume float64
}

// History is the raw, source-ordered output of a market history source.
type History struct {
	Code      string
	Points    []PricePoint
	HasVolume bool
}

// Series is an index-aligned sequence where NaN marks an absent value
// (indicator warm-up, missing input). Absent values are never read as zero.
type Series []float64

// Absent is the marker stored for values that are not defined.
var Absent = math.NaN()

// IsAbsent reports whether v is the absent marker.
func IsAbsent(v float64) bool { return math.IsNaN(v) }

// NewAbsentSeries returns a series of length n with every value absent.
func NewAbsentSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = Absent
	}
	return s
}

// At returns the value at i and whether it is defined.
// Negative indexes count from the end (-1 is the latest point).
func (s Series) At(i int) (float64, bool) {
	if i < 0 {
		i += len(s)
	}
	if i < 0 || i >= len(s) {
		return 0, false
	}
	v := s[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Last returns the latest value and whether it is defined.
func (s Series) Last() (float64, bool) { return s.At(-1) }

// LastPtr returns the latest value, or nil when absent.
func (s Series) LastPtr() *float64 {
	v, ok := s.Last()
	if !ok {
		return nil
	}
	return &v
}

// Sub returns s - o element-wise. Any absent operand yields an absent value.
func (s Series) Sub(o Series) Series {
	n := min(len(s), len(o))
	out := make(Series, n)
	for i := 0; i < n; i++ {
		out[i] = s[i] - o[i]
	}
	return out
}

// MACDLines holds the three MACD outputs aligned to the input index.
type MACDLines struct {
	MACD      Series
	Signal    Series
	Histogram Series
}

// IndicatorSet is every derived series for one instrument.
// VolumeOscillator is nil when the instrument has no volume.
type IndicatorSet struct {
	SMA5             Series
	SMA20            Series
	SMA120           Series
	DEMA5            Series
	DEMA20           Series
	DEMA120          Series
	MACD             MACDLines
	VolumeOscillator Series
}
