package repository

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarsToHistoryReversesNewestFirst(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	bars := []chBar{
		{Day: day.AddDate(0, 0, 2), Close: 12, Volume: sql.NullFloat64{Float64: 300, Valid: true}},
		{Day: day.AddDate(0, 0, 1), Close: 11},
		{Day: day, Close: 10, Volume: sql.NullFloat64{Float64: 100, Valid: true}},
	}

	h := barsToHistory("000100", bars)
	require.Len(t, h.Points, 3)
	assert.Equal(t, "000100", h.Code)
	assert.True(t, h.HasVolume)
	assert.Equal(t, []float64{10, 11, 12}, []float64{h.Points[0].Close, h.Points[1].Close, h.Points[2].Close})
	assert.True(t, h.Points[0].Time.Equal(day))
	assert.True(t, math.IsNaN(h.Points[1].Volume))
	assert.Equal(t, 300.0, h.Points[2].Volume)
}

func TestBarsToHistoryWithoutVolume(t *testing.T) {
	h := barsToHistory("000100", []chBar{{Day: time.Now(), Close: 1}})
	assert.False(t, h.HasVolume)

	h = barsToHistory("000100", nil)
	assert.Empty(t, h.Points)
}
