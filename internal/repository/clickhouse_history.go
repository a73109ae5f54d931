package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"slices"
	"time"

	"BuyBio/internal/domain/models"
	domrepo "BuyBio/internal/domain/repository"
	pkgch "BuyBio/pkg/clickhouse"
	applogger "BuyBio/pkg/logger"
)

const (
	DefaultBarsTable = "daily_bars"
	DefaultBarsLimit = 400
)

// CHHistory reads daily bars from a ClickHouse table of
// (code String, day Date, close Float64, volume Nullable(Float64)).
type CHHistory struct {
	db    *sql.DB
	table string
	limit int
	l     *applogger.Logger
}

var _ domrepo.HistorySource = (*CHHistory)(nil)

func NewCHHistory(ch *pkgch.Client, table string, limit int) *CHHistory {
	if table == "" {
		table = DefaultBarsTable
	}
	if limit <= 0 {
		limit = DefaultBarsLimit
	}
	return &CHHistory{db: ch.DB(), table: table, limit: limit, l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *CHHistory) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHHistory) Name() string { return "clickhouse" }

// History returns the latest limit bars of code in chronological order.
func (s *CHHistory) History(ctx context.Context, code string) (*models.History, error) {
	start := time.Now()
	const qtpl = `
        SELECT day, close, volume
        FROM %s
        WHERE code = ?
        ORDER BY day DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(qtpl, s.table), code, s.limit)
	if err != nil {
		s.l.Error("clickhouse history query error",
			applogger.String("table", s.table),
			applogger.String("code", code),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	bars := make([]chBar, 0, s.limit)
	for rows.Next() {
		var b chBar
		if err := rows.Scan(&b.Day, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	h := barsToHistory(code, bars)
	s.l.Debug("clickhouse history ok",
		applogger.String("table", s.table),
		applogger.String("code", code),
		applogger.Int("rows", len(h.Points)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return h, nil
}

type chBar struct {
	Day    time.Time
	Close  float64
	Volume sql.NullFloat64
}

// barsToHistory reverses newest-first rows. The history carries volume
// when any bar has one; bars without it hold the absent marker.
func barsToHistory(code string, bars []chBar) *models.History {
	h := &models.History{Code: code, Points: make([]models.PricePoint, 0, len(bars))}
	for _, b := range slices.Backward(bars) {
		vol := math.NaN()
		if b.Volume.Valid {
			vol = b.Volume.Float64
			h.HasVolume = true
		}
		h.Points = append(h.Points, models.PricePoint{Time: b.Day, Close: b.Close, Volume: vol})
	}
	return h
}
