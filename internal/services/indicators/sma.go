// Package indicators computes moving-average indicators over whole series.
//
// Every output is aligned to the input index. Warm-up positions hold the
// absent marker (NaN) and absent inputs propagate; nothing is coerced to zero.
package indicators

import (
	"math"
	"slices"

	talib "github.com/markcheno/go-talib"

	"BuyBio/internal/domain/models"
)

// SMA returns the trailing arithmetic mean over window points.
// The first window-1 outputs are absent, as is any window containing an absent input.
func SMA(series models.Series, window int) models.Series {
	if window <= 0 {
		return models.NewAbsentSeries(len(series))
	}
	if slices.ContainsFunc(series, math.IsNaN) {
		return gappedSMA(series, window)
	}
	return fromTalib(talib.Sma(series, window), window-1)
}

// gappedSMA sums every window directly. talib keeps a running total, so a
// single NaN would poison every later mean.
func gappedSMA(series models.Series, window int) models.Series {
	out := models.NewAbsentSeries(len(series))
	for i := window - 1; i < len(series); i++ {
		sum := 0.0
		defined := true
		for _, v := range series[i-window+1 : i+1] {
			if math.IsNaN(v) {
				defined = false
				break
			}
			sum += v
		}
		if defined {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// fromTalib marks talib's zero-filled lookback prefix as absent.
// Outputs shorter than the lookback are absent throughout.
func fromTalib(out []float64, lookback int) models.Series {
	s := models.Series(out)
	for i := 0; i < lookback && i < len(s); i++ {
		s[i] = models.Absent
	}
	return s
}
