package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"BuyBio/internal/domain/models"
	drepo "BuyBio/internal/domain/repository"
	"BuyBio/internal/services/analysis"
	"BuyBio/pkg/logger"
)

const (
	DefaultConcurrency = 8
	DefaultTimeout     = 15 * time.Second
)

// Job is one instrument to analyze.
type Job struct {
	Code string
	Name string
}

// BatchRunner analyzes instruments in parallel with bounded concurrency.
// A failing instrument is skipped; it never fails or cancels the batch.
type BatchRunner struct {
	source      drepo.HistorySource
	engine      *analysis.Engine
	log         *logger.Logger
	metrics     drepo.Metrics
	concurrency int
	timeout     time.Duration
}

type BatchOption func(*BatchRunner)

// WithConcurrency bounds in-flight analyses, keeping the upstream source within its rate limits.
func WithConcurrency(n int) BatchOption {
	return func(r *BatchRunner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithInstrumentTimeout bounds a single fetch-and-analyze.
func WithInstrumentTimeout(d time.Duration) BatchOption {
	return func(r *BatchRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithBatchMetrics(m drepo.Metrics) BatchOption {
	return func(r *BatchRunner) {
		if m != nil {
			r.metrics = m
		}
	}
}

func WithBatchLogger(l *logger.Logger) BatchOption {
	return func(r *BatchRunner) {
		if l != nil {
			r.log = l
		}
	}
}

func NewBatchRunner(source drepo.HistorySource, engine *analysis.Engine, opts ...BatchOption) *BatchRunner {
	r := &BatchRunner{
		source:      source,
		engine:      engine,
		log:         logger.Nop(),
		metrics:     nopMetrics{},
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run analyzes every job and returns the successes and skips, both in job order.
// It returns only after every job has resolved.
func (r *BatchRunner) Run(ctx context.Context, jobs []Job) ([]*models.AnalysisResult, []models.Skip) {
	start := time.Now()
	results := make([]*models.AnalysisResult, len(jobs))
	errs := make([]error, len(jobs))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			results[i], errs[i] = r.analyzeOne(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	ok := make([]*models.AnalysisResult, 0, len(jobs))
	var skipped []models.Skip
	for i, job := range jobs {
		if errs[i] != nil {
			reason := analysis.ReasonOf(errs[i])
			r.log.Warn("instrument skipped",
				logger.String("code", job.Code),
				logger.String("name", job.Name),
				logger.String("reason", string(reason)),
				logger.Error(errs[i]),
			)
			r.metrics.RecordAnalysis(r.source.Name(), string(reason))
			if reason == models.SkipComputationError {
				r.metrics.RecordError(string(reason))
			}
			skipped = append(skipped, models.Skip{Code: job.Code, Name: job.Name, Reason: reason, Error: errs[i].Error()})
			continue
		}
		r.metrics.RecordAnalysis(r.source.Name(), "ok")
		r.metrics.RecordRecommendation(results[i].Recommendation)
		ok = append(ok, results[i])
	}

	r.metrics.RecordLatency("batch", time.Since(start).Seconds())
	r.log.Debug("batch analyzed",
		logger.Int("jobs", len(jobs)),
		logger.Int("analyzed", len(ok)),
		logger.Int("skipped", len(skipped)),
		logger.Duration("took_ms", time.Since(start)),
	)
	return ok, skipped
}

func (r *BatchRunner) analyzeOne(ctx context.Context, job Job) (res *models.AnalysisResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res = nil
			err = fmt.Errorf("%s: %v: %w", job.Code, rec, analysis.ErrComputation)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	hist, err := r.source.History(ctx, job.Code)
	r.metrics.RecordLatency("fetch", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", job.Code, analysis.ErrDataUnavailable, err)
	}
	return r.engine.Analyze(job.Code, job.Name, hist)
}

type nopMetrics struct{}

func (nopMetrics) RecordAnalysis(string, string)              {}
func (nopMetrics) RecordRecommendation(models.Recommendation) {}
func (nopMetrics) RecordError(string)                         {}
func (nopMetrics) RecordLatency(string, float64)              {}
