package analysis

import (
	"math"
	"time"

	"BuyBio/internal/domain/models"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// stepHistory is n-1 flat closes followed by one close at last.
func stepHistory(code string, n int, base, last float64) *models.History {
	h := &models.History{Code: code, Points: make([]models.PricePoint, n)}
	for i := range h.Points {
		h.Points[i] = models.PricePoint{Time: day0.AddDate(0, 0, i), Close: base, Volume: math.NaN()}
	}
	h.Points[n-1].Close = last
	return h
}

// withVolume adds a flat volume with a final spike.
func withVolume(h *models.History, base, last float64) *models.History {
	h.HasVolume = true
	for i := range h.Points {
		h.Points[i].Volume = base
	}
	h.Points[len(h.Points)-1].Volume = last
	return h
}
