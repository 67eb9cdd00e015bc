package model

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func sampleNews() []NewsItem {
	return []NewsItem{
		{ID: "1", Category: CategoryMicro, Sentiment: SentimentPositive, RelatedStocks: []string{"NVDA", "TSM"}},
		{ID: "2", Category: CategoryMacro, Sentiment: SentimentNeutral, RelatedStocks: []string{"AAPL", "MSFT"}},
		{ID: "3", Category: CategoryIndustry, Sentiment: SentimentNegative, RelatedStocks: []string{"TSLA"}},
		{ID: "4", Category: CategoryMacro, Sentiment: SentimentPositive, RelatedStocks: []string{"BABA"}},
	}
}

func TestFilterNews(t *testing.T) {
	tests := []struct {
		name   string
		filter NewsFilter
		want   []string
	}{
		{name: "empty filter keeps everything", filter: NewsFilter{}, want: []string{"1", "2", "3", "4"}},
		{name: "by category", filter: NewsFilter{Category: "Macro"}, want: []string{"2", "4"}},
		{name: "category is case insensitive", filter: NewsFilter{Category: "macro"}, want: []string{"2", "4"}},
		{name: "by symbol", filter: NewsFilter{Symbol: "nvda"}, want: []string{"1"}},
		{name: "by sentiment", filter: NewsFilter{Sentiment: SentimentPositive}, want: []string{"1", "4"}},
		{name: "combined", filter: NewsFilter{Category: CategoryMacro, Sentiment: SentimentPositive}, want: []string{"4"}},
		{name: "no match", filter: NewsFilter{Symbol: "AMD"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterNews(sampleNews(), tt.filter)
			ids := make([]string, len(got))
			for i, n := range got {
				ids[i] = n.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Paginate(items, 2, 0))
	assert.Equal(t, []int{4, 5}, Paginate(items, 10, 3))
	assert.Equal(t, []int{}, Paginate(items, 2, 5))
	assert.Equal(t, []int{}, Paginate(items, 0, 0))
}

func TestPrimarySymbol(t *testing.T) {
	assert.Equal(t, "NVDA", sampleNews()[0].PrimarySymbol())
	assert.Equal(t, "", NewsItem{}.PrimarySymbol())
}

func TestDanglingLinks(t *testing.T) {
	g := CorrelationGraph{
		Nodes: []CorrelationNode{
			{ID: "1", Label: "AI Compute Demand", Group: GroupMarketTrend},
			{ID: "2", Label: "AMD MI300X", Group: GroupCompetitor},
		},
		Links: []CorrelationLink{
			{Source: "AI Compute Demand", Target: "AMD MI300X", Strength: 0.85},
			{Source: "TSMC CoWoS Capacity", Target: "AI Compute Demand", Strength: 0.9},
		},
	}

	dangling := g.Dangling()
	assert.Equal(t, 1, len(dangling))
	assert.Equal(t, "TSMC CoWoS Capacity", dangling[0].Source)
	// links are never dropped from the graph itself
	assert.Equal(t, 2, len(g.Links))
}

func TestParseViewType(t *testing.T) {
	v, ok := ParseViewType("Timeline")
	assert.Equal(t, true, ok)
	assert.Equal(t, ViewTimeline, v)

	_, ok = ParseViewType("timeline")
	assert.Equal(t, false, ok)
}

func TestStockHelpers(t *testing.T) {
	stocks := []Stock{
		{Symbol: "NVDA", Sector: "Technology"},
		{Symbol: "TSLA", Sector: "Automotive"},
		{Symbol: "AAPL", Sector: "Technology"},
	}

	assert.Equal(t, []string{"NVDA", "TSLA", "AAPL"}, Symbols(stocks))
	assert.Equal(t, 2, len(FilterStocks(stocks, "technology")))
	assert.Equal(t, 3, len(FilterStocks(stocks, "")))
}
