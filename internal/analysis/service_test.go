package analysis

import (
	"context"
	"errors"
	"marketlens/internal/model"
	"marketlens/pkg/llm"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type fakeGenerator struct {
	text     string
	err      error
	requests []llm.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Text: f.text, ModelUsed: req.Model + "-001"}, nil
}

type recordedCall struct {
	op  string
	err error
}

type fakeRecorder struct {
	calls []recordedCall
}

func (r *fakeRecorder) ObserveModelCall(op string, elapsed time.Duration, err error) {
	r.calls = append(r.calls, recordedCall{op: op, err: err})
}

func newTestService(gen llm.Generator) *Service {
	return NewService(gen, "deep-model", "fast-model")
}

func TestAnalyzeNewsImpact(t *testing.T) {
	gen := &fakeGenerator{text: "Core facts: rates unchanged."}
	rec := &fakeRecorder{}
	svc := newTestService(gen).WithRecorder(rec)

	news := model.NewsItem{Title: "Fed holds rates", Summary: "Powell signals patience."}
	text, err := svc.AnalyzeNewsImpact(context.Background(), news, []string{"NVDA", "AAPL"})

	assert.Equal(t, nil, err)
	assert.Equal(t, "Core facts: rates unchanged.", text)
	assert.Equal(t, 1, len(gen.requests))

	req := gen.requests[0]
	assert.Equal(t, "deep-model", req.Model)
	assert.Equal(t, 0.1, *req.Temperature)
	assert.Equal(t, true, req.Schema == nil)
	assert.Equal(t, true, strings.Contains(req.Prompt, `"Fed holds rates"`))
	assert.Equal(t, true, strings.Contains(req.Prompt, `"Powell signals patience."`))
	assert.Equal(t, true, strings.Contains(req.Prompt, "Portfolio: NVDA, AAPL"))

	assert.Equal(t, []recordedCall{{op: OpNewsImpact}}, rec.calls)
}

func TestAnalyzeNewsImpactEmpty(t *testing.T) {
	svc := newTestService(&fakeGenerator{err: llm.ErrEmptyResponse})

	text, err := svc.AnalyzeNewsImpact(context.Background(), model.NewsItem{Title: "x"}, nil)

	assert.Equal(t, nil, err)
	assert.Equal(t, "", text)
}

func TestAnalyzeNewsImpactError(t *testing.T) {
	boom := errors.New("quota exceeded")
	rec := &fakeRecorder{}
	svc := newTestService(&fakeGenerator{err: boom}).WithRecorder(rec)

	_, err := svc.AnalyzeNewsImpact(context.Background(), model.NewsItem{Title: "x"}, nil)

	assert.Equal(t, true, errors.Is(err, boom))
	assert.Equal(t, 1, len(rec.calls))
	assert.Equal(t, boom, rec.calls[0].err)
}

func TestGenerateTimeline(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n" + `[
		{"date":"2023-05","title":"Data center surge","description":"Revenue guidance raised.\n• AI demand\n• H100 supply","significance":"Re-rating","url":"https://news.example.com/a"},
		{"date":"2024-03","title":"GTC","description":"Blackwell unveiled.","significance":"Roadmap"}
	]` + "\n```"}
	svc := newTestService(gen)

	events, err := svc.GenerateTimeline(context.Background(), "History of NVDA specifically related to chips")

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(events))
	assert.Equal(t, "Data center surge", events[0].Title)
	assert.Equal(t, "https://news.example.com/a", events[0].URL)
	assert.Equal(t, "", events[1].URL)

	req := gen.requests[0]
	assert.Equal(t, "deep-model", req.Model)
	assert.Equal(t, llm.TypeArray, req.Schema.Type)
	assert.Equal(t, true, strings.Contains(req.Prompt, "History of NVDA specifically related to chips"))
}

func TestGenerateTimelineMalformed(t *testing.T) {
	svc := newTestService(&fakeGenerator{text: "I cannot help with that."})

	events, err := svc.GenerateTimeline(context.Background(), "topic")

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(events))
}

func TestHistoricalAnalogy(t *testing.T) {
	gen := &fakeGenerator{text: `[{"concept":"AI capex","description":"Hyperscaler spend.","history":[{"date":"2021-01","title":"t","description":"d","significance":"s","url":"https://x"}],"trends":[{"date":"2021-01","volume":40,"sentiment":120}]}]`}
	svc := newTestService(gen)

	concepts, err := svc.HistoricalAnalogy(context.Background(), "NVIDIA beats estimates")

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(concepts))
	assert.Equal(t, "AI capex", concepts[0].Concept)
	// out of range values are passed through untouched
	assert.Equal(t, 120.0, concepts[0].Trends[0].Sentiment)

	req := gen.requests[0]
	assert.Equal(t, "deep-model", req.Model)
	assert.Equal(t, []string{"concept", "description", "history", "trends"}, req.Schema.Items.Required)
	assert.Equal(t, true, strings.Contains(req.Prompt, `"NVIDIA beats estimates"`))
	assert.Equal(t, true, strings.Contains(req.Prompt, "3-4 core intelligence concepts"))
}

func TestFactorCorrelationsKeepsDanglingLinks(t *testing.T) {
	gen := &fakeGenerator{text: `{"nodes":[{"id":"1","label":"NVDA","group":"stock"},{"id":"2","label":"TSMC","group":"foundry"}],"links":[{"source":"NVDA","target":"Ghost","strength":0.4,"reason":"?"}]}`}
	svc := newTestService(gen)

	graph, err := svc.FactorCorrelations(context.Background(), "Fed holds rates - Powell signals patience.")

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(graph.Nodes))
	assert.Equal(t, "foundry", graph.Nodes[1].Group)
	assert.Equal(t, 1, len(graph.Links))
	assert.Equal(t, 1, len(graph.Dangling()))
	assert.Equal(t, "fast-model", gen.requests[0].Model)

	node := gen.requests[0].Schema.Properties["nodes"].Items
	group := node.Properties["group"]
	assert.Equal(t, llm.TypeString, group.Type)
	assert.Equal(t, 0, len(group.Enum))
	assert.Equal(t, true, strings.Contains(group.Description, model.GroupKOLOpinion))
	assert.Equal(t, true, strings.Contains(group.Description, model.GroupMarketTrend))
}

func TestSocialIntelligence(t *testing.T) {
	gen := &fakeGenerator{text: `{"symbol":"TSLA","bullishPercent":61,"buzzScore":88,"topComments":[{"id":"c1","author":"@elonfan","content":"FSD soon","sentiment":"positive","platform":"X","likes":1200,"timestamp":"1h","url":"https://x.com/1"}]}`}
	svc := newTestService(gen)

	signal, err := svc.SocialIntelligence(context.Background(), "TSLA")

	assert.Equal(t, nil, err)
	assert.Equal(t, "TSLA", signal.Symbol)
	assert.Equal(t, 61.0, signal.BullishPercent)
	assert.Equal(t, 1, len(signal.TopComments))
	assert.Equal(t, model.PlatformX, signal.TopComments[0].Platform)
	assert.Equal(t, "fast-model", gen.requests[0].Model)
}

func TestSocialUserHistory(t *testing.T) {
	gen := &fakeGenerator{text: `{"author":"@macro_guy","platform":"Reddit","trustScore":72,"trustSummary":"Mostly right on rates.","pastPosts":[]}`}
	svc := newTestService(gen)

	history, err := svc.SocialUserHistory(context.Background(), "@macro_guy", "Reddit")

	assert.Equal(t, nil, err)
	assert.Equal(t, 72.0, history.TrustScore)
	assert.Equal(t, 0, len(history.PastPosts))

	req := gen.requests[0]
	assert.Equal(t, "deep-model", req.Model)
	assert.Equal(t, true, strings.Contains(req.Prompt, "@macro_guy on Reddit"))
}

func TestOpinionCorrelations(t *testing.T) {
	gen := &fakeGenerator{text: `{"nodes":[{"id":"a","label":"Bulls","group":"Supportive-Post"}],"links":[]}`}
	svc := newTestService(gen)

	graph, err := svc.OpinionCorrelations(context.Background(), "Rate cuts in June")

	assert.Equal(t, nil, err)
	assert.Equal(t, model.GroupSupportivePost, graph.Nodes[0].Group)
	assert.Equal(t, "fast-model", gen.requests[0].Model)
}

func TestClassifyNews(t *testing.T) {
	gen := &fakeGenerator{text: `{"category":"Micro","sentiment":"positive","impactScore":85,"reliability":95,"isFact":true,"assetImpact":{"equity":"Bullish","bond":"Neutral","fx":"Neutral"}}`}
	svc := newTestService(gen)

	result, err := svc.ClassifyNews(context.Background(), "NVIDIA beats", "Record data center revenue")

	assert.Equal(t, nil, err)
	assert.Equal(t, model.CategoryMicro, result.Category)
	assert.Equal(t, 85, result.ImpactScore)
	assert.Equal(t, "Bullish", result.AssetImpact.Equity)
	assert.Equal(t, "v1", result.PromptVersion)
	assert.Equal(t, "fast-model-001", result.ModelUsed)

	req := gen.requests[0]
	assert.Equal(t, 0.0, *req.Temperature)
	assert.Equal(t, "Headline: NVIDIA beats\nSummary: Record data center revenue", req.Prompt)
}

func TestJSONOperationsPropagateErrors(t *testing.T) {
	boom := errors.New("upstream down")
	svc := newTestService(&fakeGenerator{err: boom})
	ctx := context.Background()

	_, err := svc.HistoricalAnalogy(ctx, "x")
	assert.Equal(t, true, errors.Is(err, boom))
	_, err = svc.FactorCorrelations(ctx, "x")
	assert.Equal(t, true, errors.Is(err, boom))
	_, err = svc.SocialIntelligence(ctx, "x")
	assert.Equal(t, true, errors.Is(err, boom))
	_, err = svc.SocialUserHistory(ctx, "x", "X")
	assert.Equal(t, true, errors.Is(err, boom))
	_, err = svc.OpinionCorrelations(ctx, "x")
	assert.Equal(t, true, errors.Is(err, boom))
	_, err = svc.ClassifyNews(ctx, "x", "y")
	assert.Equal(t, true, errors.Is(err, boom))
}
