package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

const massiveNewsURL = "https://api.massive.com/v2/reference/news"

// MassiveClient reads the Massive reference news feed. The endpoint takes a
// single ticker per request, so a portfolio is fetched one symbol at a time.
type MassiveClient struct {
	apiKey     string
	tickers    []string
	httpClient *http.Client
}

// NewMassiveClient narrows the feed to tickers when any are given.
func NewMassiveClient(apiKey string, tickers []string) *MassiveClient {
	return &MassiveClient{
		apiKey:     apiKey,
		tickers:    tickers,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *MassiveClient) Name() string {
	return "Massive"
}

// Fetch returns at most limit articles, newest first. Articles tagged with
// several portfolio tickers are returned once.
func (c *MassiveClient) Fetch(ctx context.Context, limit int) ([]Article, error) {
	if len(c.tickers) == 0 {
		return c.fetchTicker(ctx, "", limit)
	}

	seen := make(map[string]bool)
	var merged []Article
	for _, ticker := range c.tickers {
		articles, err := c.fetchTicker(ctx, ticker, limit)
		if err != nil {
			return nil, err
		}
		for _, a := range articles {
			if seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			merged = append(merged, a)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func (c *MassiveClient) fetchTicker(ctx context.Context, ticker string, limit int) ([]Article, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("order", "desc")
	q.Set("sort", "published_utc")
	q.Set("apiKey", c.apiKey)
	if ticker != "" {
		q.Set("ticker", ticker)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, massiveNewsURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("massive request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("massive fetch %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("massive fetch %s: status %s", ticker, resp.Status)
	}

	var raw massiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("massive decode: %w", err)
	}

	articles := make([]Article, 0, len(raw.Results))
	for _, item := range raw.Results {
		publishedAt, err := time.Parse(time.RFC3339, item.PublishedUTC)
		if err != nil {
			publishedAt = time.Time{}
		}

		articles = append(articles, Article{
			ExternalID:  item.ID,
			Title:       item.Title,
			Summary:     item.Description,
			URL:         item.ArticleURL,
			Publisher:   item.Publisher.Name,
			PublishedAt: publishedAt,
			Symbols:     item.Tickers,
			Source:      c.Name(),
		})
	}

	return articles, nil
}

type massiveResponse struct {
	Results []struct {
		ID           string   `json:"id"`
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		ArticleURL   string   `json:"article_url"`
		PublishedUTC string   `json:"published_utc"`
		Tickers      []string `json:"tickers"`
		Publisher    struct {
			Name string `json:"name"`
		} `json:"publisher"`
	} `json:"results"`
}
