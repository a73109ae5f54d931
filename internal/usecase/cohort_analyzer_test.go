package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BuyBio/internal/domain/models"
	"BuyBio/internal/services/analysis"
)

// universe:
//
//	Alpha   tags {1,7}  rising        buy
//	Beta    tags {1,7}  90 points     excluded everywhere
//	Gamma   tags {1}    no code       placeholder
//	Delta   tags {7}    falling       sell
//	Epsilon tags {1}    rising        buy, ties Alpha
func newUniverse() (*fakeStore, *fakeSource) {
	store := &fakeStore{
		companies: []models.Company{
			{Name: "Alpha", Tags: []int{1, 7}, Info: models.CompanyInfo{Summary: "antibody platform"}},
			{Name: "Beta", Tags: []int{1, 7}},
			{Name: "Gamma", Tags: []int{1}},
			{Name: "Delta", Tags: []int{7}},
			{Name: "Epsilon", Tags: []int{1}},
		},
		codes: []models.CodeEntry{
			{Name: "Alpha", Code: "000100"},
			{Name: "Beta", Code: "000200"},
			{Name: "Delta", Code: "000400"},
			{Name: "Epsilon", Code: "000500"},
		},
	}
	src := newFakeSource()
	src.data["000100"] = rising("000100")
	src.data["000200"] = stepHistory("000200", 90, 100, 120)
	src.data["000400"] = falling("000400")
	src.data["000500"] = rising("000500")
	return store, src
}

func newAnalyzer(store *fakeStore, src *fakeSource, opts ...CohortOption) *CohortAnalyzer {
	runner := NewBatchRunner(src, analysis.NewEngine(analysis.Config{}))
	return NewCohortAnalyzer(store, runner, opts...)
}

func TestAnalyzeByTag(t *testing.T) {
	store, src := newUniverse()
	a := newAnalyzer(store, src)

	got, err := a.AnalyzeByTag(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Tag)
	assert.Equal(t, []string{"Alpha", "Gamma", "Epsilon"}, names(got.Companies))
	assert.Equal(t, 3, got.TotalCount)
	require.Len(t, got.Skipped, 1)
	assert.Equal(t, "Beta", got.Skipped[0].Name)

	alpha := got.Companies[0]
	assert.Equal(t, models.RecommendationBuy, alpha.Recommendation)
	assert.Equal(t, []int{1, 7}, alpha.Tags)
	assert.Equal(t, 1, alpha.Tag)
	require.NotNil(t, alpha.CompanyInfo)
	assert.Equal(t, "antibody platform", alpha.CompanyInfo.Summary)

	gamma := got.Companies[1]
	assert.Equal(t, models.NoCode, gamma.Code)
	assert.Equal(t, models.RecommendationNoCode, gamma.Recommendation)
	assert.Equal(t, 0.0, gamma.Scores.Total)
	assert.Nil(t, gamma.Indicators.MACD)
	assert.Nil(t, gamma.Indicators.DEMA120)
}

func TestAnalyzeByTagMultiCohortInstrument(t *testing.T) {
	store, src := newUniverse()
	a := newAnalyzer(store, src)

	one, err := a.AnalyzeByTag(context.Background(), 1)
	require.NoError(t, err)
	seven, err := a.AnalyzeByTag(context.Background(), 7)
	require.NoError(t, err)

	count := func(results []*models.AnalysisResult, name string) int {
		n := 0
		for _, r := range results {
			if r.Name == name {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, count(one.Companies, "Alpha"))
	assert.Equal(t, 1, count(seven.Companies, "Alpha"))
	assert.Equal(t, []string{"Alpha", "Delta"}, names(seven.Companies))
	assert.Equal(t, 7, seven.Companies[0].Tag)
	// separate results per cohort
	assert.NotSame(t, one.Companies[0], seven.Companies[0])
}

func TestAnalyzeAllTags(t *testing.T) {
	store, src := newUniverse()
	got, err := newAnalyzer(store, src).AnalyzeAllTags(context.Background())
	require.NoError(t, err)

	require.Len(t, got, models.MaxTag)
	for _, tag := range models.Tags() {
		require.Contains(t, got, tag)
		assert.Equal(t, tag, got[tag].Tag)
	}
	assert.Empty(t, got[2].Companies)
	assert.Equal(t, 0, got[2].TotalCount)
	assert.Equal(t, []string{"Alpha", "Delta"}, names(got[7].Companies))
	// each cohort fetches on its own
	assert.Equal(t, 2, src.callsFor("000100"))
}

func TestRankBuyByTag(t *testing.T) {
	store, src := newUniverse()
	pub := &fakePublisher{}
	a := newAnalyzer(store, src, WithPublisher(pub))

	got, err := a.RankBuyByTag(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Epsilon"}, names(got.BuyRecommendations))
	assert.Equal(t, 2, got.TotalBuyCount)
	assert.Equal(t, 2, got.ReturnedCount)

	got, err = a.RankBuyByTag(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, names(got.BuyRecommendations))
	assert.Equal(t, 2, got.TotalBuyCount)
	assert.Equal(t, 1, got.ReturnedCount)

	got, err = a.RankBuyByTag(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, names(got.BuyRecommendations))

	require.Len(t, pub.sent, 3)
	assert.Equal(t, published{key: "tag:1", names: []string{"Alpha", "Epsilon"}}, pub.sent[0])
	assert.Equal(t, "tag:7", pub.sent[2].key)
}

func TestRankBuyAllUnionsCohorts(t *testing.T) {
	store, src := newUniverse()
	pub := &fakePublisher{err: errors.New("broker down")}
	a := newAnalyzer(store, src, WithPublisher(pub))

	got, err := a.RankBuyAll(context.Background(), 0)
	require.NoError(t, err, "publish failures never fail the ranking")
	assert.Equal(t, []string{"Alpha", "Epsilon", "Alpha"}, names(got.BuyRecommendations))
	assert.Equal(t, 3, got.TotalBuyCount)
	assert.Equal(t, 3, got.ReturnedCount)
	require.Len(t, pub.sent, 1)
	assert.Equal(t, "all", pub.sent[0].key)

	got, err = a.RankBuyAll(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got.BuyRecommendations, 2)
	assert.Equal(t, 3, got.TotalBuyCount)
}

func TestShortHistoryAbsentFromEveryOperation(t *testing.T) {
	store, src := newUniverse()
	a := newAnalyzer(store, src)
	ctx := context.Background()

	all, err := a.AnalyzeAll(ctx)
	require.NoError(t, err)
	assert.NotContains(t, names(all.Results), "Beta")
	assert.Equal(t, len(all.Results), all.Count)

	for _, tag := range []int{1, 7} {
		ta, err := a.AnalyzeByTag(ctx, tag)
		require.NoError(t, err)
		assert.NotContains(t, names(ta.Companies), "Beta")

		tr, err := a.RankBuyByTag(ctx, tag, 50)
		require.NoError(t, err)
		assert.NotContains(t, names(tr.BuyRecommendations), "Beta")
	}

	tags, err := a.AnalyzeAllTags(ctx)
	require.NoError(t, err)
	for tag, ta := range tags {
		assert.NotContains(t, names(ta.Companies), "Beta", "tag %d", tag)
	}

	ranking, err := a.RankBuyAll(ctx, 50)
	require.NoError(t, err)
	assert.NotContains(t, names(ranking.BuyRecommendations), "Beta")
}

func TestAnalyzeAll(t *testing.T) {
	store, src := newUniverse()
	got, err := newAnalyzer(store, src).AnalyzeAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Delta", "Epsilon"}, names(got.Results))
	assert.Equal(t, 3, got.Count)
	require.Len(t, got.Skipped, 1)
	assert.Equal(t, models.SkipDataUnavailable, got.Skipped[0].Reason)
	assert.Equal(t, []int{1, 7}, got.Results[0].Tags)
	assert.Equal(t, 0, got.Results[0].Tag)
}

func TestAnalyzeAllWithoutCompanies(t *testing.T) {
	store, src := newUniverse()
	store.companiesErr = errors.New("sheet missing")

	got, err := newAnalyzer(store, src).AnalyzeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
	assert.Nil(t, got.Results[0].Tags)
}

func TestMetadataUnavailable(t *testing.T) {
	store, src := newUniverse()
	store.companiesErr = errors.New("file not found")
	a := newAnalyzer(store, src)
	ctx := context.Background()

	_, err := a.AnalyzeByTag(ctx, 1)
	assert.ErrorIs(t, err, analysis.ErrMetadataUnavailable)
	_, err = a.AnalyzeAllTags(ctx)
	assert.ErrorIs(t, err, analysis.ErrMetadataUnavailable)
	_, err = a.RankBuyByTag(ctx, 1, 10)
	assert.ErrorIs(t, err, analysis.ErrMetadataUnavailable)
	_, err = a.RankBuyAll(ctx, 10)
	assert.ErrorIs(t, err, analysis.ErrMetadataUnavailable)

	store.companiesErr = nil
	store.codesErr = errors.New("file not found")
	_, err = a.AnalyzeAll(ctx)
	assert.ErrorIs(t, err, analysis.ErrMetadataUnavailable)
}

func TestCodesUnavailableYieldsPlaceholders(t *testing.T) {
	store, src := newUniverse()
	store.codesErr = errors.New("file not found")

	got, err := newAnalyzer(store, src).AnalyzeByTag(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma", "Epsilon"}, names(got.Companies))
	for _, r := range got.Companies {
		assert.Equal(t, models.RecommendationNoCode, r.Recommendation)
	}
	assert.Equal(t, 0, src.callsFor("000100"))
}

func TestInvalidTag(t *testing.T) {
	store, src := newUniverse()
	a := newAnalyzer(store, src)
	for _, tag := range []int{0, 12, -1} {
		_, err := a.AnalyzeByTag(context.Background(), tag)
		assert.ErrorIs(t, err, ErrInvalidTag)
		_, err = a.RankBuyByTag(context.Background(), tag, 5)
		assert.ErrorIs(t, err, ErrInvalidTag)
	}
}
