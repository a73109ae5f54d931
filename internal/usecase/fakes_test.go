package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"BuyBio/internal/domain/models"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func stepHistory(code string, n int, base, last float64) *models.History {
	h := &models.History{Code: code, Points: make([]models.PricePoint, n)}
	for i := range h.Points {
		h.Points[i] = models.PricePoint{Time: day0.AddDate(0, 0, i), Close: base, Volume: math.NaN()}
	}
	h.Points[n-1].Close = last
	return h
}

func rising(code string) *models.History  { return stepHistory(code, 150, 100, 120) }
func falling(code string) *models.History { return stepHistory(code, 150, 100, 80) }

type fakeSource struct {
	mu       sync.Mutex
	data     map[string]*models.History
	errs     map[string]error
	panics   map[string]bool
	block    bool
	delay    time.Duration
	calls    map[string]int
	inFlight int
	maxSeen  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		data:   map[string]*models.History{},
		errs:   map[string]error{},
		panics: map[string]bool{},
		calls:  map[string]int{},
	}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) History(ctx context.Context, code string) (*models.History, error) {
	f.mu.Lock()
	f.calls[code]++
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	h, err, p, block, delay := f.data[code], f.errs[code], f.panics[code], f.block, f.delay
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if p {
		panic("corrupt payload")
	}
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errors.New("unknown code")
	}
	return h, nil
}

func (f *fakeSource) callsFor(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[code]
}

type fakeStore struct {
	companies    []models.Company
	codes        []models.CodeEntry
	companiesErr error
	codesErr     error
}

func (s *fakeStore) Companies(context.Context) ([]models.Company, error) {
	if s.companiesErr != nil {
		return nil, s.companiesErr
	}
	return s.companies, nil
}

func (s *fakeStore) Codes(context.Context) ([]models.CodeEntry, error) {
	if s.codesErr != nil {
		return nil, s.codesErr
	}
	return s.codes, nil
}

type published struct {
	key   string
	names []string
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *fakePublisher) PublishRanking(_ context.Context, key string, ranked []*models.AnalysisResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.Name)
	}
	p.sent = append(p.sent, published{key: key, names: names})
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func names(results []*models.AnalysisResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Name)
	}
	return out
}
