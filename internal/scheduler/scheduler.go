package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"BuyBio/internal/domain/models"
	"BuyBio/pkg/logger"
)

// Ranker produces the cross-cohort buy ranking. Publishing happens inside RankBuyAll.
type Ranker interface {
	RankBuyAll(ctx context.Context, limit int) (*models.Ranking, error)
}

// Scheduler refreshes the cross-cohort ranking on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	ranker  Ranker
	limit   int
	timeout time.Duration
	l       *logger.Logger
}

// New builds a scheduler that parses six-field (seconds first) expressions.
// Overlapping runs are skipped.
func New(ranker Ranker, limit int, timeout time.Duration, l *logger.Logger) *Scheduler {
	if l == nil {
		l = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	cl := cronLogger{l: l}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		ranker:  ranker,
		limit:   limit,
		timeout: timeout,
		l:       l,
	}
}

// Register schedules the ranking refresh.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.rankTask); err != nil {
		return fmt.Errorf("register ranking task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.l.Info("scheduler started", logger.Int("entries", len(s.cron.Entries())))
}

// Stop stops scheduling and waits for a running task until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.l.Warn("scheduler stop timed out")
	}
	s.l.Info("scheduler stopped")
}

// RunNow computes the ranking immediately.
func (s *Scheduler) RunNow(ctx context.Context) (*models.Ranking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	r, err := s.ranker.RankBuyAll(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("scheduled ranking: %w", err)
	}
	fields := []logger.Field{
		logger.Int("total_buy_count", r.TotalBuyCount),
		logger.Int("returned", r.ReturnedCount),
		logger.Duration("duration_ms", time.Since(start)),
	}
	if len(r.BuyRecommendations) > 0 {
		top := r.BuyRecommendations[0]
		fields = append(fields, logger.String("top_code", top.Code), logger.Float64("top_total", models.Round2(top.Scores.Total)))
	}
	s.l.Info("scheduled ranking refreshed", fields...)
	return r, nil
}

func (s *Scheduler) rankTask() {
	if _, err := s.RunNow(context.Background()); err != nil {
		s.l.Error("scheduled ranking failed", logger.Error(err))
	}
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	l *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []interface{}) []logger.Field {
	out := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, logger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}
