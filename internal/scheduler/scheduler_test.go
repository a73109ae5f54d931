package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BuyBio/internal/domain/models"
)

type stubRanker struct {
	calls atomic.Int32
	limit atomic.Int32
	err   error
}

func (s *stubRanker) RankBuyAll(_ context.Context, limit int) (*models.Ranking, error) {
	s.calls.Add(1)
	s.limit.Store(int32(limit))
	if s.err != nil {
		return nil, s.err
	}
	return &models.Ranking{
		BuyRecommendations: []*models.AnalysisResult{{Code: "000100", Scores: models.NewScoreBreakdown(10, 5)}},
		TotalBuyCount:      1,
		ReturnedCount:      1,
	}, nil
}

func TestRunNowPassesLimit(t *testing.T) {
	r := &stubRanker{}
	s := New(r, 15, time.Second, nil)

	got, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got.ReturnedCount)
	assert.Equal(t, int32(15), r.limit.Load())
}

func TestRunNowWrapsError(t *testing.T) {
	cause := errors.New("metadata down")
	s := New(&stubRanker{err: cause}, 20, time.Second, nil)
	_, err := s.RunNow(context.Background())
	assert.ErrorIs(t, err, cause)
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(&stubRanker{}, 20, time.Second, nil)
	assert.Error(t, s.Register("every day"))
	// five-field expressions need the seconds field here
	assert.Error(t, s.Register("0 16 * * 1-5"))
	assert.NoError(t, s.Register("0 40 15 * * 1-5"))
}

func TestScheduledRunFires(t *testing.T) {
	r := &stubRanker{}
	s := New(r, 20, time.Second, nil)
	require.NoError(t, s.Register("* * * * * *"))

	s.Start()
	assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
