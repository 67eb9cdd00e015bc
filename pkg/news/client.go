package news

import (
	"context"
	"strings"
	"time"
)

type Article struct {
	ExternalID  string
	Title       string
	Summary     string
	URL         string
	Source      string
	Publisher   string
	PublishedAt time.Time
	Symbols     []string
}

type NewsClient interface {
	Fetch(ctx context.Context, limit int) ([]Article, error)
	Name() string
}

type Quote struct {
	Symbol        string
	Price         float64
	Change        float64
	ChangePercent float64
}

type QuoteClient interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
}

// Usable drops articles that cannot be stored: no URL to dedupe on, or no
// title to show. Symbols are upper-cased and trimmed.
func Usable(articles []Article) []Article {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if strings.TrimSpace(a.URL) == "" || strings.TrimSpace(a.Title) == "" {
			continue
		}

		symbols := make([]string, 0, len(a.Symbols))
		for _, s := range a.Symbols {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s != "" {
				symbols = append(symbols, s)
			}
		}
		a.Symbols = symbols

		out = append(out, a)
	}
	return out
}
