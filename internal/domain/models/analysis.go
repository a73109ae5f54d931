package models

import (
	"encoding/json"
	"math"
)

type SignalKind string

const (
	SignalMAShort   SignalKind = "ma_short"
	SignalMAMid     SignalKind = "ma_mid"
	SignalMACD      SignalKind = "macd"
	SignalVolumeOsc SignalKind = "volume_osc"
)

type Direction string

const (
	DirectionBuy     Direction = "buy"
	DirectionSell    Direction = "sell"
	DirectionNeutral Direction = "neutral"
)

// Sign maps buy/sell/neutral to +1/-1/0.
func (d Direction) Sign() float64 {
	switch d {
	case DirectionBuy:
		return 1
	case DirectionSell:
		return -1
	default:
		return 0
	}
}

// SignalEvent is produced fresh per evaluation and never persisted.
type SignalEvent struct {
	Kind      SignalKind `json:"kind"`
	Direction Direction  `json:"direction"`
}

// ScoreBreakdown keeps full precision internally; JSON output is rounded to 2 decimals.
type ScoreBreakdown struct {
	ShortTerm   float64
	MidLongTerm float64
	Total       float64
}

// NewScoreBreakdown builds a breakdown whose total is exactly short + mid.
func NewScoreBreakdown(short, mid float64) ScoreBreakdown {
	return ScoreBreakdown{ShortTerm: short, MidLongTerm: mid, Total: short + mid}
}

func (s ScoreBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ShortTerm   float64 `json:"short_term"`
		MidLongTerm float64 `json:"mid_long_term"`
		Total       float64 `json:"total"`
	}{
		ShortTerm:   Round2(s.ShortTerm),
		MidLongTerm: Round2(s.MidLongTerm),
		Total:       Round2(s.Total),
	})
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type Recommendation string

const (
	RecommendationBuy    Recommendation = "buy"
	RecommendationSell   Recommendation = "sell"
	RecommendationNoCode Recommendation = "no_code"
)

// IndicatorSnapshot is the last-value view of an IndicatorSet.
type IndicatorSnapshot struct {
	MACD        *float64 `json:"macd"`
	Signal      *float64 `json:"signal"`
	DEMA5       *float64 `json:"dema5"`
	DEMA20      *float64 `json:"dema20"`
	DEMA120     *float64 `json:"dema120"`
	VOCrossUp   bool     `json:"volume_oscillator_cross_up"`
	VOCrossDown bool     `json:"volume_oscillator_cross_down"`
}

// AnalysisResult is immutable once produced and recomputed on every request.
type AnalysisResult struct {
	Code           string            `json:"code"`
	Name           string            `json:"name"`
	Recommendation Recommendation    `json:"recommendation"`
	Scores         ScoreBreakdown    `json:"scores"`
	Indicators     IndicatorSnapshot `json:"indicators"`
	Signals        []SignalEvent     `json:"signals,omitempty"`
	Tags           []int             `json:"tags"`
	Tag            int               `json:"tag,omitempty"`
	CompanyInfo    *CompanyInfo      `json:"company_info,omitempty"`
}

// IsBuy reports whether the result qualifies for a buy ranking.
func (r *AnalysisResult) IsBuy() bool {
	return r.Recommendation == RecommendationBuy
}
