package repository

import (
	"context"

	"BuyBio/internal/domain/models"
)

// HistorySource returns the chronological daily history of one instrument.
// A failed fetch or a too-short history are both treated as unavailable by callers.
type HistorySource interface {
	History(ctx context.Context, code string) (*models.History, error)
	Name() string
}

// CompanyStore provides analyst metadata: cohort tags and the name→code mapping.
// Both lists are returned in source enumeration order.
type CompanyStore interface {
	Companies(ctx context.Context) ([]models.Company, error)
	Codes(ctx context.Context) ([]models.CodeEntry, error)
}

// RecommendationPublisher announces ranked buy lists to downstream consumers.
type RecommendationPublisher interface {
	PublishRanking(ctx context.Context, key string, ranked []*models.AnalysisResult) error
	Close() error
}

type Metrics interface {
	RecordAnalysis(source string, outcome string)
	RecordRecommendation(rec models.Recommendation)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
