package analysis

import (
	"BuyBio/internal/domain/models"
	"BuyBio/internal/services/indicators"
)

// Signals are the directions detected at the latest observation.
// Volume is neutral when there is no volume or no oscillator cross.
type Signals struct {
	MAShort models.Direction
	MAMid   models.Direction
	MACD    models.Direction
	Volume  models.Direction
}

// Events lists the detected signals. The volume oscillator only produces an
// event when it actually crossed.
func (s Signals) Events() []models.SignalEvent {
	events := []models.SignalEvent{
		{Kind: models.SignalMAShort, Direction: s.MAShort},
		{Kind: models.SignalMAMid, Direction: s.MAMid},
		{Kind: models.SignalMACD, Direction: s.MACD},
	}
	if s.Volume != models.DirectionNeutral {
		events = append(events, models.SignalEvent{Kind: models.SignalVolumeOsc, Direction: s.Volume})
	}
	return events
}

// Detect evaluates every signal on the last two points of the indicator set.
func Detect(set models.IndicatorSet) Signals {
	return Signals{
		MAShort: MACrossover(set.DEMA5, set.DEMA20, set.SMA5, set.SMA20),
		MAMid:   MACrossover(set.DEMA20, set.DEMA120, set.SMA20, set.SMA120),
		MACD:    MACDDirection(set.MACD),
		Volume:  ZeroCross(set.VolumeOscillator),
	}
}

// Crossover reports how short series a crossed long series b between the
// last two points. Buy needs a[t-1] <= b[t-1] and a[t] > b[t]; sell is the
// mirror. Any absent operand is neutral.
func Crossover(a, b models.Series) models.Direction {
	aPrev, ok1 := a.At(-2)
	aLast, ok2 := a.At(-1)
	bPrev, ok3 := b.At(-2)
	bLast, ok4 := b.At(-1)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return models.DirectionNeutral
	}

	switch {
	case aPrev <= bPrev && aLast > bLast:
		return models.DirectionBuy
	case aPrev >= bPrev && aLast < bLast:
		return models.DirectionSell
	default:
		return models.DirectionNeutral
	}
}

// MACrossover evaluates the DEMA pair, or the SMA pair when the latest value
// of either DEMA is absent. Checking only the short DEMA would leave the
// 20/120 pair neutral whenever DEMA120 is still warming up under the seeded
// library; the adjusted library never produces that case.
func MACrossover(demaShort, demaLong, smaShort, smaLong models.Series) models.Direction {
	_, shortOK := demaShort.Last()
	_, longOK := demaLong.Last()
	if shortOK && longOK {
		return Crossover(demaShort, demaLong)
	}
	return Crossover(smaShort, smaLong)
}

// MACDDirection compares the latest MACD and signal values.
func MACDDirection(lines models.MACDLines) models.Direction {
	m, ok1 := lines.MACD.Last()
	s, ok2 := lines.Signal.Last()
	if !ok1 || !ok2 {
		return models.DirectionNeutral
	}

	switch {
	case m > s:
		return models.DirectionBuy
	case m < s:
		return models.DirectionSell
	default:
		return models.DirectionNeutral
	}
}

// VolumeOscillator is SMA(volume,5) − SMA(volume,20).
// It is nil when there is no volume or fewer than two points.
func VolumeOscillator(volume models.Series) models.Series {
	if len(volume) < 2 {
		return nil
	}
	return indicators.SMA(volume, 5).Sub(indicators.SMA(volume, 20))
}

// ZeroCross reports a cross of the oscillator through zero between the last two points.
func ZeroCross(vo models.Series) models.Direction {
	return Crossover(vo, models.Series{0, 0})
}
