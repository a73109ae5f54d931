// Package analysis turns one instrument history into a scored recommendation.
package analysis

import (
	"fmt"

	"BuyBio/internal/domain/models"
	domsvc "BuyBio/internal/domain/service"
	"BuyBio/internal/services/indicators"
)

// DefaultMinHistory is the length of the longest indicator window.
const DefaultMinHistory = 120

// Config is resolved by the caller and passed in at construction.
type Config struct {
	MinHistory int
	Library    domsvc.IndicatorLibrary
}

// Engine is stateless; one Engine is shared by every concurrent analysis.
type Engine struct {
	minHistory int
	lib        domsvc.IndicatorLibrary
}

func NewEngine(cfg Config) *Engine {
	// the 120-point window is the floor; callers may only ask for more history
	if cfg.MinHistory < DefaultMinHistory {
		cfg.MinHistory = DefaultMinHistory
	}
	if cfg.Library == nil {
		cfg.Library = indicators.AdjustedLibrary{}
	}
	return &Engine{minHistory: cfg.MinHistory, lib: cfg.Library}
}

// Library returns the indicator library the engine was built with.
func (e *Engine) Library() domsvc.IndicatorLibrary { return e.lib }

// MinHistory returns the minimum number of observations required.
func (e *Engine) MinHistory() int { return e.minHistory }

// Indicators computes every indicator over a prepared history.
func (e *Engine) Indicators(p Prepared) models.IndicatorSet {
	return models.IndicatorSet{
		SMA5:             indicators.SMA(p.Close, 5),
		SMA20:            indicators.SMA(p.Close, 20),
		SMA120:           indicators.SMA(p.Close, 120),
		DEMA5:            e.lib.ComputeDEMA(p.Close, 5),
		DEMA20:           e.lib.ComputeDEMA(p.Close, 20),
		DEMA120:          e.lib.ComputeDEMA(p.Close, 120),
		MACD:             e.lib.ComputeMACD(p.Close, indicators.MACDFast, indicators.MACDSlow, indicators.MACDSignal),
		VolumeOscillator: VolumeOscillator(p.Volume),
	}
}

// Analyze prepares the history, detects signals, scores and classifies them.
// Errors wrap ErrDataUnavailable or ErrComputation.
func (e *Engine) Analyze(code, name string, h *models.History) (res *models.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%s: %v: %w", code, r, ErrComputation)
		}
	}()

	prepared, err := Prepare(h, e.minHistory)
	if err != nil {
		return nil, err
	}

	set := e.Indicators(prepared)
	signals := Detect(set)
	scores := Score(signals)

	return &models.AnalysisResult{
		Code:           code,
		Name:           name,
		Recommendation: Classify(scores.Total),
		Scores:         scores,
		Indicators:     Snapshot(set, signals),
		Signals:        signals.Events(),
	}, nil
}

// Snapshot is the last-value view of an indicator set.
func Snapshot(set models.IndicatorSet, s Signals) models.IndicatorSnapshot {
	return models.IndicatorSnapshot{
		MACD:        set.MACD.MACD.LastPtr(),
		Signal:      set.MACD.Signal.LastPtr(),
		DEMA5:       set.DEMA5.LastPtr(),
		DEMA20:      set.DEMA20.LastPtr(),
		DEMA120:     set.DEMA120.LastPtr(),
		VOCrossUp:   s.Volume == models.DirectionBuy,
		VOCrossDown: s.Volume == models.DirectionSell,
	}
}

// Placeholder is the result reported for a company without a market code.
func Placeholder(name string) *models.AnalysisResult {
	return &models.AnalysisResult{
		Code:           models.NoCode,
		Name:           name,
		Recommendation: models.RecommendationNoCode,
		Scores:         models.NewScoreBreakdown(0, 0),
	}
}
