package analysis

import (
	"fmt"
	"math"
	"sort"

	"BuyBio/internal/domain/models"
)

// Prepared is a validated history split into aligned close and volume series.
// Volume is nil when the source carries no volume.
type Prepared struct {
	Close  models.Series
	Volume models.Series
}

// Len returns the number of observations.
func (p Prepared) Len() int { return len(p.Close) }

// Prepare orders the history chronologically, keeps the last point of any
// repeated timestamp, and rejects histories shorter than minPoints or with a
// non-finite close.
func Prepare(h *models.History, minPoints int) (Prepared, error) {
	if h == nil {
		return Prepared{}, fmt.Errorf("nil history: %w", ErrDataUnavailable)
	}

	points := make([]models.PricePoint, len(h.Points))
	copy(points, h.Points)
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	deduped := points[:0]
	for _, p := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(p.Time) {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	if len(deduped) < minPoints {
		return Prepared{}, fmt.Errorf("%s: %d of %d points: %w", h.Code, len(deduped), minPoints, ErrInsufficientData)
	}

	out := Prepared{Close: make(models.Series, len(deduped))}
	if h.HasVolume {
		out.Volume = make(models.Series, len(deduped))
	}
	for i, p := range deduped {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			return Prepared{}, fmt.Errorf("%s at %s: %w", h.Code, p.Time.Format("2006-01-02"), ErrMalformedClose)
		}
		out.Close[i] = p.Close
		if out.Volume != nil {
			out.Volume[i] = p.Volume
		}
	}
	return out, nil
}
