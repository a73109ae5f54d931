package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"BuyBio/internal/domain/models"
	domrepo "BuyBio/internal/domain/repository"
	"BuyBio/internal/service/cache"
	"BuyBio/pkg/logger"
)

// CachedHistory serves histories from a byte cache and fills it from the
// wrapped source on a miss. Cache failures degrade to a direct fetch.
type CachedHistory struct {
	next  domrepo.HistorySource
	cache cache.BytesCache
	ttl   time.Duration
	l     *logger.Logger
}

var _ domrepo.HistorySource = (*CachedHistory)(nil)

func NewCachedHistory(next domrepo.HistorySource, c cache.BytesCache, ttl time.Duration, l *logger.Logger) *CachedHistory {
	if l == nil {
		l = logger.Nop()
	}
	return &CachedHistory{next: next, cache: c, ttl: ttl, l: l}
}

func (c *CachedHistory) Name() string { return c.next.Name() }

func (c *CachedHistory) History(ctx context.Context, code string) (*models.History, error) {
	key := "history:" + c.next.Name() + ":" + code

	b, ok, err := c.cache.GetBytes(ctx, key)
	if err != nil {
		c.l.Warn("history cache get failed", logger.String("key", key), logger.Error(err))
	}
	if ok {
		h, err := decodeHistory(b)
		if err == nil {
			return h, nil
		}
		c.l.Warn("history cache entry corrupt", logger.String("key", key), logger.Error(err))
	}

	h, err := c.next.History(ctx, code)
	if err != nil {
		return nil, err
	}
	if b, err := encodeHistory(h); err == nil {
		if err := c.cache.SetBytes(ctx, key, b, c.ttl); err != nil {
			c.l.Warn("history cache set failed", logger.String("key", key), logger.Error(err))
		}
	}
	return h, nil
}

// cachedPoint stores an absent volume as null since JSON has no NaN.
type cachedPoint struct {
	Time   time.Time `json:"t"`
	Close  float64   `json:"c"`
	Volume *float64  `json:"v,omitempty"`
}

type cachedHistory struct {
	Code      string        `json:"code"`
	HasVolume bool          `json:"has_volume"`
	Points    []cachedPoint `json:"points"`
}

func encodeHistory(h *models.History) ([]byte, error) {
	out := cachedHistory{Code: h.Code, HasVolume: h.HasVolume, Points: make([]cachedPoint, len(h.Points))}
	for i, p := range h.Points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			return nil, fmt.Errorf("encode history %s: non-finite close at %d", h.Code, i)
		}
		cp := cachedPoint{Time: p.Time, Close: p.Close}
		if !math.IsNaN(p.Volume) {
			v := p.Volume
			cp.Volume = &v
		}
		out.Points[i] = cp
	}
	return json.Marshal(out)
}

func decodeHistory(b []byte) (*models.History, error) {
	var in cachedHistory
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	h := &models.History{Code: in.Code, HasVolume: in.HasVolume, Points: make([]models.PricePoint, len(in.Points))}
	for i, p := range in.Points {
		vol := math.NaN()
		if p.Volume != nil {
			vol = *p.Volume
		}
		h.Points[i] = models.PricePoint{Time: p.Time, Close: p.Close, Volume: vol}
	}
	return h, nil
}
