package models

// SkipReason classifies why an instrument is missing from a batch.
type SkipReason string

const (
	SkipDataUnavailable  SkipReason = "data_unavailable"
	SkipComputationError SkipReason = "computation_error"
)

// Skip records one instrument dropped from a batch. It never fails the batch.
type Skip struct {
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	Reason SkipReason `json:"reason"`
	Error  string     `json:"error,omitempty"`
}

// BatchAnalysis is the outcome of analyzing the whole universe.
type BatchAnalysis struct {
	Results []*AnalysisResult `json:"results"`
	Count   int               `json:"count"`
	Skipped []Skip            `json:"skipped,omitempty"`
}

// TagAnalysis is the outcome of analyzing one cohort.
type TagAnalysis struct {
	Tag        int               `json:"tag"`
	Companies  []*AnalysisResult `json:"companies"`
	TotalCount int               `json:"total_count"`
	Skipped    []Skip            `json:"skipped,omitempty"`
}

// TagRanking is the ranked buy list of one cohort.
type TagRanking struct {
	Tag                int               `json:"tag"`
	BuyRecommendations []*AnalysisResult `json:"buy_recommendations"`
	TotalBuyCount      int               `json:"total_buy_count"`
	ReturnedCount      int               `json:"returned_count"`
}

// Ranking is the ranked buy list across every cohort.
type Ranking struct {
	BuyRecommendations []*AnalysisResult `json:"all_buy_recommendations"`
	TotalBuyCount      int               `json:"total_buy_count"`
	ReturnedCount      int               `json:"returned_count"`
}
