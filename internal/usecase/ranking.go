package usecase

import (
	"sort"

	"BuyBio/internal/domain/models"
)

// FilterBuy keeps buy-labeled results in their original order.
func FilterBuy(results []*models.AnalysisResult) []*models.AnalysisResult {
	out := make([]*models.AnalysisResult, 0, len(results))
	for _, r := range results {
		if r != nil && r.IsBuy() {
			out = append(out, r)
		}
	}
	return out
}

// RankBuy orders buy results by total score, highest first, and keeps at most limit.
// Equal totals keep their enumeration order. It returns the ranked list and the
// number of buy results before truncation.
func RankBuy(results []*models.AnalysisResult, limit int) ([]*models.AnalysisResult, int) {
	buys := FilterBuy(results)
	sort.SliceStable(buys, func(i, j int) bool {
		return buys[i].Scores.Total > buys[j].Scores.Total
	})

	total := len(buys)
	if limit < 0 {
		limit = 0
	}
	if len(buys) > limit {
		buys = buys[:limit]
	}
	return buys, total
}
