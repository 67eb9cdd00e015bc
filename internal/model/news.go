package model

import "strings"

const (
	CategoryMacro     = "Macro"
	CategoryIndustry  = "Industry"
	CategoryMicro     = "Micro"
	CategorySentiment = "Sentiment"

	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

const (
	StatusPending  = "pending"
	StatusEnriched = "enriched"
	StatusFailed   = "failed"
)

type AssetImpact struct {
	Equity string `json:"equity" yaml:"equity"`
	Bond   string `json:"bond" yaml:"bond"`
	FX     string `json:"fx" yaml:"fx"`
}

// NewsItem is a display record. Scores are meant to be 0-100 but are never
// clamped, and Category/Sentiment are not checked against their enumerations.
type NewsItem struct {
	ID            string       `json:"id" yaml:"id"`
	Title         string       `json:"title" yaml:"title"`
	Summary       string       `json:"summary" yaml:"summary"`
	Source        string       `json:"source" yaml:"source"`
	Timestamp     string       `json:"timestamp" yaml:"timestamp"`
	Category      string       `json:"category" yaml:"category"`
	RelatedStocks []string     `json:"relatedStocks" yaml:"relatedStocks"`
	Sentiment     string       `json:"sentiment" yaml:"sentiment"`
	ImpactScore   int          `json:"impactScore" yaml:"impactScore"`
	Reliability   int          `json:"reliability" yaml:"reliability"`
	IsFact        bool         `json:"isFact" yaml:"isFact"`
	HasConflict   bool         `json:"hasConflict" yaml:"hasConflict"`
	ConflictNote  string       `json:"conflictNote,omitempty" yaml:"conflictNote,omitempty"`
	AssetImpact   *AssetImpact `json:"assetImpact,omitempty" yaml:"assetImpact,omitempty"`
}

type NewsFilter struct {
	Category  string
	Symbol    string
	Sentiment string
}

func (f NewsFilter) matches(n NewsItem) bool {
	if f.Category != "" && !strings.EqualFold(n.Category, f.Category) {
		return false
	}
	if f.Sentiment != "" && !strings.EqualFold(n.Sentiment, f.Sentiment) {
		return false
	}
	if f.Symbol != "" {
		for _, s := range n.RelatedStocks {
			if strings.EqualFold(s, f.Symbol) {
				return true
			}
		}
		return false
	}
	return true
}

// FilterNews keeps the input order. Empty filter fields match everything.
func FilterNews(items []NewsItem, f NewsFilter) []NewsItem {
	out := make([]NewsItem, 0, len(items))
	for _, n := range items {
		if f.matches(n) {
			out = append(out, n)
		}
	}
	return out
}

// PrimarySymbol is the first related stock, or "" when there is none.
func (n NewsItem) PrimarySymbol() string {
	if len(n.RelatedStocks) == 0 {
		return ""
	}
	return n.RelatedStocks[0]
}

func Paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) || limit <= 0 {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
