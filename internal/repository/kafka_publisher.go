package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"BuyBio/internal/domain/models"
	domrepo "BuyBio/internal/domain/repository"
	pkgkafka "BuyBio/pkg/kafka"
)

const DefaultRankingTopic = "buybio.rankings"

// RankingEntry is one ranked buy recommendation on the wire.
type RankingEntry struct {
	Rank        int     `json:"rank"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	ShortTerm   float64 `json:"short_term"`
	MidLongTerm float64 `json:"mid_long_term"`
	Total       float64 `json:"total"`
	Tags        []int   `json:"tags"`
}

// RankingEvent announces a freshly computed ranking.
type RankingEvent struct {
	EventID     string         `json:"event_id"`
	Key         string         `json:"key"`
	GeneratedAt time.Time      `json:"generated_at"`
	Entries     []RankingEntry `json:"entries"`
}

type rankingProducer interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaPublisher publishes ranking events keyed by ranking key so that every
// update of one ranking lands on the same partition.
type KafkaPublisher struct {
	p     rankingProducer
	topic string
	now   func() time.Time
}

var _ domrepo.RecommendationPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(p *pkgkafka.Producer, topic string) *KafkaPublisher {
	return newKafkaPublisher(p, topic)
}

func newKafkaPublisher(p rankingProducer, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultRankingTopic
	}
	return &KafkaPublisher{p: p, topic: topic, now: time.Now}
}

func (k *KafkaPublisher) PublishRanking(ctx context.Context, key string, ranked []*models.AnalysisResult) error {
	ev := NewRankingEvent(key, ranked, k.now())
	return k.p.PublishBatch(ctx, k.topic, []pkgkafka.Message{{
		Key:     []byte(key),
		Value:   ev,
		Headers: map[string]string{"event_id": ev.EventID},
	}})
}

func (k *KafkaPublisher) Close() error { return k.p.Close() }

// NewRankingEvent snapshots ranked results. Scores are rounded to two decimals.
func NewRankingEvent(key string, ranked []*models.AnalysisResult, at time.Time) RankingEvent {
	ev := RankingEvent{
		EventID:     uuid.NewString(),
		Key:         key,
		GeneratedAt: at.UTC(),
		Entries:     make([]RankingEntry, 0, len(ranked)),
	}
	for i, r := range ranked {
		ev.Entries = append(ev.Entries, RankingEntry{
			Rank:        i + 1,
			Code:        r.Code,
			Name:        r.Name,
			ShortTerm:   models.Round2(r.Scores.ShortTerm),
			MidLongTerm: models.Round2(r.Scores.MidLongTerm),
			Total:       models.Round2(r.Scores.Total),
			Tags:        r.Tags,
		})
	}
	return ev
}

// NopPublisher drops rankings. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishRanking(context.Context, string, []*models.AnalysisResult) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
