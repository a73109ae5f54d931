package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"BuyBio/internal/domain/models"
	domrepo "BuyBio/internal/domain/repository"
	"BuyBio/internal/service/breaker"
	"BuyBio/internal/service/ratelimit"
	xhttp "BuyBio/pkg/http"
	"BuyBio/pkg/logger"
	"BuyBio/pkg/util"
)

const (
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"
	DefaultYahooRange   = "1y"
)

// ErrSymbolNotFound means the upstream has no chart for any listing of a code.
var ErrSymbolNotFound = errors.New("symbol not found")

// YahooConfig configures the Yahoo chart history source.
type YahooConfig struct {
	BaseURL string `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
	Range   string `yaml:"range" default:"1y"`
	// Suffixes are tried in order: KOSPI listings first, then KOSDAQ.
	Suffixes []string `yaml:"suffixes"`
	Timezone string   `yaml:"timezone" default:"Asia/Seoul"`
}

// YahooHistory fetches daily closes and volumes from the Yahoo chart API.
type YahooHistory struct {
	cfg     YahooConfig
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	breaker *breaker.Breaker
	loc     *time.Location
	host    string
	l       *logger.Logger
}

var _ domrepo.HistorySource = (*YahooHistory)(nil)

type YahooOption func(*YahooHistory)

func WithYahooLimiter(l *ratelimit.Limiter) YahooOption {
	return func(y *YahooHistory) { y.limiter = l }
}

func WithYahooBreaker(b *breaker.Breaker) YahooOption {
	return func(y *YahooHistory) { y.breaker = b }
}

func WithYahooLogger(l *logger.Logger) YahooOption {
	return func(y *YahooHistory) { y.l = l }
}

func NewYahooHistory(cfg YahooConfig, client *xhttp.Client, opts ...YahooOption) *YahooHistory {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultYahooBaseURL
	}
	if cfg.Range == "" {
		cfg.Range = DefaultYahooRange
	}
	if len(cfg.Suffixes) == 0 {
		cfg.Suffixes = []string{".KS", ".KQ"}
	}
	y := &YahooHistory{
		cfg:    cfg,
		client: client,
		loc:    util.LoadLocation(cfg.Timezone),
		host:   cfg.BaseURL,
		l:      logger.Nop(),
	}
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		y.host = u.Host
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

func (y *YahooHistory) Name() string { return "yahoo" }

// History returns the daily history of code, trying each listing suffix until
// one has data.
func (y *YahooHistory) History(ctx context.Context, code string) (*models.History, error) {
	var lastErr error
	for _, suffix := range y.cfg.Suffixes {
		symbol := code + suffix
		h, err := y.fetch(ctx, code, symbol)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, ErrSymbolNotFound) {
			return nil, err
		}
		lastErr = err
		y.l.Debug("yahoo symbol not listed",
			logger.String("code", code),
			logger.String("symbol", symbol),
		)
	}
	return nil, fmt.Errorf("yahoo %s: %w", code, lastErr)
}

func (y *YahooHistory) fetch(ctx context.Context, code, symbol string) (*models.History, error) {
	if y.limiter != nil {
		if err := y.limiter.Wait(ctx, y.host); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	var chart yahooChart
	call := func() error {
		return y.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    y.cfg.BaseURL + "/v8/finance/chart/" + url.PathEscape(symbol),
			QueryParams: map[string][]string{
				"interval": {"1d"},
				"range":    {y.cfg.Range},
			},
		}, &chart)
	}

	start := time.Now()
	var err error
	if y.breaker != nil {
		err = y.breaker.Do(func() error { return classifyYahoo(call()) })
	} else {
		err = classifyYahoo(call())
	}
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	h, err := chart.history(code, y.loc)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	y.l.Debug("yahoo chart fetched",
		logger.String("symbol", symbol),
		logger.Int("points", len(h.Points)),
		logger.Duration("duration_ms", time.Since(start)),
	)
	return h, nil
}

// classifyYahoo turns a 404 into ErrSymbolNotFound so the next suffix is tried.
func classifyYahoo(err error) error {
	var se *xhttp.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrSymbolNotFound, err)
	}
	return err
}

// IsUpstreamHealthy reports errors that should not count against the upstream
// breaker: unknown symbols and caller cancellation.
func IsUpstreamHealthy(err error) bool {
	return errors.Is(err, ErrSymbolNotFound) || errors.Is(err, context.Canceled)
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// history converts the chart payload. Bars without a close are dropped;
// a missing volume becomes absent.
func (c *yahooChart) history(code string, loc *time.Location) (*models.History, error) {
	if c.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, c.Chart.Error.Description)
	}
	if len(c.Chart.Result) == 0 || len(c.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w: empty chart", ErrSymbolNotFound)
	}
	res := c.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no quotes", ErrSymbolNotFound)
	}
	q := res.Indicators.Quote[0]

	h := &models.History{
		Code:      code,
		Points:    make([]models.PricePoint, 0, len(res.Timestamp)),
		HasVolume: len(q.Volume) > 0,
	}
	for i, ts := range res.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		vol := math.NaN()
		if i < len(q.Volume) && q.Volume[i] != nil {
			vol = *q.Volume[i]
		}
		h.Points = append(h.Points, models.PricePoint{
			Time:   util.TradingDay(ts, loc),
			Close:  *q.Close[i],
			Volume: vol,
		})
	}
	return h, nil
}
