package indicators

import (
	"fmt"
	"strings"

	"BuyBio/internal/domain/models"
	"BuyBio/internal/domain/service"
)

const (
	LibraryAdjusted = "adjusted"
	LibrarySeeded   = "seeded"
)

// Default MACD parameters.
const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// AdjustedLibrary builds DEMA and MACD on the adjusted-weight EMA.
type AdjustedLibrary struct{}

func (AdjustedLibrary) Name() string { return LibraryAdjusted }

func (AdjustedLibrary) ComputeDEMA(series models.Series, length int) models.Series {
	return adjustedDEMA(series, length)
}

func (AdjustedLibrary) ComputeMACD(series models.Series, fast, slow, signal int) models.MACDLines {
	return adjustedMACD(series, fast, slow, signal)
}

// SeededLibrary builds DEMA and MACD on the SMA-seeded EMA computed by talib.
// Its warm-up is longer: DEMA(n) is defined from index 2(n-1).
type SeededLibrary struct{}

func (SeededLibrary) Name() string { return LibrarySeeded }

func (SeededLibrary) ComputeDEMA(series models.Series, length int) models.Series {
	return seededDEMA(series, length)
}

func (SeededLibrary) ComputeMACD(series models.Series, fast, slow, signal int) models.MACDLines {
	return seededMACD(series, fast, slow, signal)
}

// New returns the library registered under name. An empty name selects the adjusted library.
func New(name string) (service.IndicatorLibrary, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LibraryAdjusted:
		return AdjustedLibrary{}, nil
	case LibrarySeeded:
		return SeededLibrary{}, nil
	default:
		return nil, fmt.Errorf("unknown indicator library %q", name)
	}
}
