package analysis

import "BuyBio/internal/domain/models"

// Signal weights. Each signal is worth ±5 points times its weight.
const (
	WeightMA        = 4.0
	WeightMACD      = 7.0
	WeightVolume    = 3.5
	pointsPerSignal = 5.0
)

// Scored converts a direction into its weighted points.
func Scored(d models.Direction, weight float64) float64 {
	return pointsPerSignal * d.Sign() * weight
}

// Score splits the weighted signals into the short and mid/long horizons.
// MACD and the volume oscillator count identically toward both.
func Score(s Signals) models.ScoreBreakdown {
	common := Scored(s.MACD, WeightMACD) + Scored(s.Volume, WeightVolume)
	short := Scored(s.MAShort, WeightMA) + common
	mid := Scored(s.MAMid, WeightMA) + common
	return models.NewScoreBreakdown(short, mid)
}

// Classify labels a total as buy only when strictly positive; zero is a sell.
func Classify(total float64) models.Recommendation {
	if total > 0 {
		return models.RecommendationBuy
	}
	return models.RecommendationSell
}
