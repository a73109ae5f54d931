package service

import "BuyBio/internal/domain/models"

// IndicatorLibrary computes the exponential-average based indicators.
// Implementations differ only in how the exponential averages are seeded.
type IndicatorLibrary interface {
	Name() string
	ComputeDEMA(series models.Series, length int) models.Series
	ComputeMACD(series models.Series, fast, slow, signal int) models.MACDLines
}
