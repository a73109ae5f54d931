package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"BuyBio/internal/domain/models"
)

func TestRecorderCounts(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordAnalysis("yahoo", "ok")
	r.RecordAnalysis("yahoo", "ok")
	r.RecordAnalysis("yahoo", "data_unavailable")
	r.RecordRecommendation(models.RecommendationBuy)
	r.RecordError("fetch")
	r.RecordLatency("batch", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.analyses.WithLabelValues("yahoo", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.analyses.WithLabelValues("yahoo", "data_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.recommendations.WithLabelValues("buy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("fetch")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}

func TestRecordersOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
