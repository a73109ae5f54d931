package indicators

import (
	"math"

	"BuyBio/internal/domain/models"
)

func alpha(span int) float64 {
	return 2.0 / (float64(span) + 1.0)
}

// EMA is the exponential moving average with adjusted (cumulative) weighting.
//
// The first observation seeds the average with weight 1. Each later step ages
// the accumulated weight by (1-α) and folds the new observation in with weight 1,
// so early outputs are weighted means that converge to the plain recursion as
// the window fills. Absent inputs still age the weight but carry the previous
// average forward. Outputs are absent only before the first observation.
func EMA(series models.Series, span int) models.Series {
	out := models.NewAbsentSeries(len(series))
	if span <= 0 || len(series) == 0 {
		return out
	}

	decay := 1 - alpha(span)
	avg := series[0]
	weight := 1.0
	out[0] = avg

	for i := 1; i < len(series); i++ {
		x := series[i]
		observed := !math.IsNaN(x)

		switch {
		case !math.IsNaN(avg):
			weight *= decay
			if observed {
				// identical inputs leave the average untouched so constant series stay exact
				if avg != x {
					avg = (weight*avg + x) / (weight + 1)
				}
				weight++
			}
		case observed:
			avg = x
		}
		out[i] = avg
	}
	return out
}

// adjustedDEMA is 2·EMA(series) − EMA(EMA(series)).
func adjustedDEMA(series models.Series, length int) models.Series {
	first := EMA(series, length)
	second := EMA(first, length)

	out := make(models.Series, len(series))
	for i := range out {
		out[i] = 2*first[i] - second[i]
	}
	return out
}

func adjustedMACD(series models.Series, fast, slow, signal int) models.MACDLines {
	line := EMA(series, fast).Sub(EMA(series, slow))
	sig := EMA(line, signal)
	return models.MACDLines{
		MACD:      line,
		Signal:    sig,
		Histogram: line.Sub(sig),
	}
}
