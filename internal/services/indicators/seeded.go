package indicators

import (
	talib "github.com/markcheno/go-talib"

	"BuyBio/internal/domain/models"
)

// SeededEMA is the classic fixed-α recursion seeded with the mean of the
// first span inputs. The first span-1 outputs are absent and an absent input
// makes every later output absent.
func SeededEMA(series models.Series, span int) models.Series {
	if span <= 0 {
		return models.NewAbsentSeries(len(series))
	}
	return fromTalib(talib.Ema(series, span), span-1)
}

// seededDEMA is defined from index 2(length-1).
func seededDEMA(series models.Series, length int) models.Series {
	if length <= 0 {
		return models.NewAbsentSeries(len(series))
	}
	return fromTalib(talib.Dema(series, length), 2*(length-1))
}

// seededMACD runs the signal EMA over the defined part of the MACD line only.
// talib.Macd seeds its signal from the zero-filled warm-up instead.
func seededMACD(series models.Series, fast, slow, signal int) models.MACDLines {
	line := SeededEMA(series, fast).Sub(SeededEMA(series, slow))
	sig := models.NewAbsentSeries(len(line))
	if start := max(fast, slow) - 1; signal > 0 && start >= 0 && start < len(line) {
		copy(sig[start:], SeededEMA(line[start:], signal))
	}
	return models.MACDLines{
		MACD:      line,
		Signal:    sig,
		Histogram: line.Sub(sig),
	}
}
