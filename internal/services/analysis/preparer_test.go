package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BuyBio/internal/domain/models"
)

func TestPrepareSortsAndDedupes(t *testing.T) {
	h := &models.History{Code: "000100", Points: []models.PricePoint{
		{Time: day0.AddDate(0, 0, 2), Close: 3},
		{Time: day0, Close: 1},
		{Time: day0.AddDate(0, 0, 1), Close: 2},
		{Time: day0.AddDate(0, 0, 1), Close: 2.5},
	}}

	p, err := Prepare(h, 3)
	require.NoError(t, err)
	assert.Equal(t, models.Series{1, 2.5, 3}, p.Close)
	assert.Nil(t, p.Volume)
	assert.Equal(t, 3, p.Len())
	// source history is left untouched
	assert.Equal(t, 3.0, h.Points[0].Close)
}

func TestPrepareInsufficient(t *testing.T) {
	_, err := Prepare(stepHistory("000100", 119, 10, 10), DefaultMinHistory)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))
	assert.True(t, errors.Is(err, ErrDataUnavailable))
	assert.Equal(t, models.SkipDataUnavailable, ReasonOf(err))

	_, err = Prepare(stepHistory("000100", 120, 10, 10), DefaultMinHistory)
	assert.NoError(t, err)
}

func TestPrepareMalformedClose(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		h := stepHistory("000100", 130, 10, 10)
		h.Points[50].Close = bad
		_, err := Prepare(h, DefaultMinHistory)
		if !errors.Is(err, ErrMalformedClose) {
			t.Fatalf("close %v: expected ErrMalformedClose, got %v", bad, err)
		}
	}
}

func TestPrepareNilHistory(t *testing.T) {
	_, err := Prepare(nil, DefaultMinHistory)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestPrepareVolumeAligned(t *testing.T) {
	h := withVolume(stepHistory("000100", 130, 10, 10), 1000, 2000)
	h.Points[3].Volume = math.NaN()

	p, err := Prepare(h, DefaultMinHistory)
	require.NoError(t, err)
	require.Len(t, p.Volume, 130)
	assert.True(t, models.IsAbsent(p.Volume[3]))
	assert.Equal(t, 2000.0, p.Volume[129])
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, models.SkipComputationError, ReasonOf(ErrComputation))
	assert.Equal(t, models.SkipDataUnavailable, ReasonOf(errors.New("timeout")))
}
