package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"BuyBio/internal/domain/models"
	drepo "BuyBio/internal/domain/repository"
	"BuyBio/internal/services/analysis"
	"BuyBio/pkg/logger"
)

const (
	DefaultTagLimit = 10
	DefaultAllLimit = 20
)

var ErrInvalidTag = errors.New("tag out of range")

// CohortAnalyzer runs analyses over the instrument universe and its cohorts.
// Every call recomputes from the sources; nothing is memoized between calls
// or between cohorts of the same call.
type CohortAnalyzer struct {
	store     drepo.CompanyStore
	runner    *BatchRunner
	publisher drepo.RecommendationPublisher
	log       *logger.Logger
	metrics   drepo.Metrics
}

type CohortOption func(*CohortAnalyzer)

// WithPublisher announces every ranking computed by the analyzer.
func WithPublisher(p drepo.RecommendationPublisher) CohortOption {
	return func(a *CohortAnalyzer) { a.publisher = p }
}

func WithCohortLogger(l *logger.Logger) CohortOption {
	return func(a *CohortAnalyzer) {
		if l != nil {
			a.log = l
		}
	}
}

func WithCohortMetrics(m drepo.Metrics) CohortOption {
	return func(a *CohortAnalyzer) {
		if m != nil {
			a.metrics = m
		}
	}
}

func NewCohortAnalyzer(store drepo.CompanyStore, runner *BatchRunner, opts ...CohortOption) *CohortAnalyzer {
	a := &CohortAnalyzer{store: store, runner: runner, log: logger.Nop(), metrics: nopMetrics{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeAll analyzes every instrument of the code listing.
func (a *CohortAnalyzer) AnalyzeAll(ctx context.Context) (*models.BatchAnalysis, error) {
	defer a.observe("analyze_all", time.Now())

	codes, err := a.store.Codes(ctx)
	if err != nil {
		a.metrics.RecordError("metadata")
		return nil, fmt.Errorf("load codes: %w: %w", analysis.ErrMetadataUnavailable, err)
	}

	tags := map[string][]int{}
	if companies, err := a.store.Companies(ctx); err != nil {
		a.log.Warn("company metadata unavailable, results carry no tags", logger.Error(err))
	} else {
		for _, c := range companies {
			tags[c.Name] = c.Tags
		}
	}

	jobs := make([]Job, 0, len(codes))
	for _, c := range codes {
		jobs = append(jobs, Job{Code: c.Code, Name: c.Name})
	}
	results, skipped := a.runner.Run(ctx, jobs)
	for _, r := range results {
		r.Tags = tags[r.Name]
	}

	return &models.BatchAnalysis{Results: results, Count: len(results), Skipped: skipped}, nil
}

// AnalyzeByTag analyzes the companies of one cohort in metadata order.
func (a *CohortAnalyzer) AnalyzeByTag(ctx context.Context, tag int) (*models.TagAnalysis, error) {
	defer a.observe("analyze_tag", time.Now())

	if err := checkTag(tag); err != nil {
		return nil, err
	}
	md, err := a.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}
	return a.analyzeTag(ctx, tag, md), nil
}

// AnalyzeAllTags analyzes every cohort independently.
func (a *CohortAnalyzer) AnalyzeAllTags(ctx context.Context) (map[int]*models.TagAnalysis, error) {
	defer a.observe("analyze_all_tags", time.Now())

	md, err := a.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int]*models.TagAnalysis, models.MaxTag)
	for _, tag := range models.Tags() {
		out[tag] = a.analyzeTag(ctx, tag, md)
	}
	return out, nil
}

// RankBuyByTag ranks the buy recommendations of one cohort.
func (a *CohortAnalyzer) RankBuyByTag(ctx context.Context, tag, limit int) (*models.TagRanking, error) {
	defer a.observe("rank_tag", time.Now())

	if limit <= 0 {
		limit = DefaultTagLimit
	}
	ta, err := a.AnalyzeByTag(ctx, tag)
	if err != nil {
		return nil, err
	}

	ranked, total := RankBuy(ta.Companies, limit)
	a.publish(ctx, "tag:"+strconv.Itoa(tag), ranked)
	return &models.TagRanking{
		Tag:                tag,
		BuyRecommendations: ranked,
		TotalBuyCount:      total,
		ReturnedCount:      len(ranked),
	}, nil
}

// RankBuyAll ranks the union of every cohort's buy recommendations. A company in
// several cohorts is analyzed once per cohort and may appear more than once.
func (a *CohortAnalyzer) RankBuyAll(ctx context.Context, limit int) (*models.Ranking, error) {
	defer a.observe("rank_all", time.Now())

	if limit <= 0 {
		limit = DefaultAllLimit
	}
	md, err := a.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}

	var union []*models.AnalysisResult
	for _, tag := range models.Tags() {
		union = append(union, FilterBuy(a.analyzeTag(ctx, tag, md).Companies)...)
	}

	ranked, total := RankBuy(union, limit)
	a.publish(ctx, "all", ranked)
	return &models.Ranking{
		BuyRecommendations: ranked,
		TotalBuyCount:      total,
		ReturnedCount:      len(ranked),
	}, nil
}

type metadata struct {
	companies []models.Company
	codes     map[string]string
}

// loadMetadata fails only when the company list itself is unreadable. A missing
// code listing leaves every company without a code.
func (a *CohortAnalyzer) loadMetadata(ctx context.Context) (*metadata, error) {
	companies, err := a.store.Companies(ctx)
	if err != nil {
		a.metrics.RecordError("metadata")
		return nil, fmt.Errorf("load companies: %w: %w", analysis.ErrMetadataUnavailable, err)
	}

	md := &metadata{companies: companies, codes: map[string]string{}}
	codes, err := a.store.Codes(ctx)
	if err != nil {
		a.log.Warn("code listing unavailable, companies reported without code", logger.Error(err))
		return md, nil
	}
	for _, c := range codes {
		md.codes[c.Name] = c.Code
	}
	return md, nil
}

func (a *CohortAnalyzer) analyzeTag(ctx context.Context, tag int, md *metadata) *models.TagAnalysis {
	var (
		selected []models.Company
		jobs     []Job
	)
	for _, c := range md.companies {
		if !c.HasTag(tag) {
			continue
		}
		selected = append(selected, c)
		if code, ok := md.codes[c.Name]; ok {
			jobs = append(jobs, Job{Code: code, Name: c.Name})
		}
	}

	results, skipped := a.runner.Run(ctx, jobs)
	byName := make(map[string]*models.AnalysisResult, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}

	out := make([]*models.AnalysisResult, 0, len(selected))
	for _, c := range selected {
		var r *models.AnalysisResult
		if _, ok := md.codes[c.Name]; !ok {
			r = analysis.Placeholder(c.Name)
		} else if r = byName[c.Name]; r == nil {
			continue
		}
		info := c.Info
		r.Tags = c.Tags
		r.Tag = tag
		r.CompanyInfo = &info
		out = append(out, r)
	}

	return &models.TagAnalysis{Tag: tag, Companies: out, TotalCount: len(out), Skipped: skipped}
}

func (a *CohortAnalyzer) publish(ctx context.Context, key string, ranked []*models.AnalysisResult) {
	if a.publisher == nil || len(ranked) == 0 {
		return
	}
	if err := a.publisher.PublishRanking(ctx, key, ranked); err != nil {
		a.metrics.RecordError("publish")
		a.log.Warn("publish ranking failed", logger.String("key", key), logger.Error(err))
	}
}

func (a *CohortAnalyzer) observe(op string, start time.Time) {
	a.metrics.RecordLatency(op, time.Since(start).Seconds())
}

func checkTag(tag int) error {
	if tag < models.MinTag || tag > models.MaxTag {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidTag, tag, models.MinTag, models.MaxTag)
	}
	return nil
}
