package analysis

import (
	"context"
	"errors"
	"fmt"
	"marketlens/internal/model"
	"marketlens/pkg/llm"
	"strings"
	"time"
)

// Operation names, used as metric labels.
const (
	OpNewsImpact          = "news_impact"
	OpTimeline            = "timeline"
	OpHistoricalAnalogy   = "historical_analogy"
	OpFactorCorrelations  = "factor_correlations"
	OpSocialIntelligence  = "social_intelligence"
	OpSocialUserHistory   = "social_user_history"
	OpOpinionCorrelations = "opinion_correlations"
	OpClassifyNews        = "classify_news"
)

const impactTemperature = 0.1

// Recorder observes every model call made by the service.
type Recorder interface {
	ObserveModelCall(operation string, elapsed time.Duration, err error)
}

type NewsClassification struct {
	Category      string             `json:"category"`
	Sentiment     string             `json:"sentiment"`
	ImpactScore   int                `json:"impactScore"`
	Reliability   int                `json:"reliability"`
	IsFact        bool               `json:"isFact"`
	AssetImpact   *model.AssetImpact `json:"assetImpact,omitempty"`
	PromptVersion string             `json:"-"`
	ModelUsed     string             `json:"-"`
}

// Service assembles prompts and reply schemas for the hosted model. It has
// two tiers: deep for long-form reasoning, fast for quick structured replies.
type Service struct {
	gen       llm.Generator
	deepModel string
	fastModel string
	recorder  Recorder
}

func NewService(gen llm.Generator, deepModel, fastModel string) *Service {
	return &Service{
		gen:       gen,
		deepModel: deepModel,
		fastModel: fastModel,
	}
}

func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

func (s *Service) generate(ctx context.Context, op string, req llm.Request) (*llm.Response, error) {
	start := time.Now()
	resp, err := s.gen.Generate(ctx, req)
	if s.recorder != nil {
		s.recorder.ObserveModelCall(op, time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}

func (s *Service) generateJSON(ctx context.Context, op string, req llm.Request, v any) (*llm.Response, error) {
	resp, err := s.generate(ctx, op, req)
	if err != nil {
		return nil, err
	}
	if err := llm.DecodeJSON(resp.Text, v); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}

// AnalyzeNewsImpact returns the model's free-text assessment of one news
// item against the portfolio. An empty reply yields "" and no error.
func (s *Service) AnalyzeNewsImpact(ctx context.Context, news model.NewsItem, portfolio []string) (string, error) {
	resp, err := s.generate(ctx, OpNewsImpact, llm.Request{
		Model:       s.deepModel,
		System:      analystSystemPrompt,
		Prompt:      fmt.Sprintf(impactPrompt, news.Title, news.Summary, strings.Join(portfolio, ", ")),
		Temperature: llm.Temperature(impactTemperature),
	})
	if errors.Is(err, llm.ErrEmptyResponse) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (s *Service) GenerateTimeline(ctx context.Context, topic string) ([]model.TimelineEvent, error) {
	var events []model.TimelineEvent
	_, err := s.generateJSON(ctx, OpTimeline, llm.Request{
		Model:  s.deepModel,
		Prompt: fmt.Sprintf(timelinePrompt, topic),
		Schema: timelineSchema(),
	}, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// HistoricalAnalogy extracts the concepts behind a headline and traces each
// one over five years.
func (s *Service) HistoricalAnalogy(ctx context.Context, newsTitle string) ([]model.ConceptIntelligence, error) {
	var concepts []model.ConceptIntelligence
	_, err := s.generateJSON(ctx, OpHistoricalAnalogy, llm.Request{
		Model:  s.deepModel,
		Prompt: fmt.Sprintf(analogyPrompt, newsTitle),
		Schema: conceptSchema(),
	}, &concepts)
	if err != nil {
		return nil, err
	}
	return concepts, nil
}

func (s *Service) FactorCorrelations(ctx context.Context, text string) (*model.CorrelationGraph, error) {
	var graph model.CorrelationGraph
	_, err := s.generateJSON(ctx, OpFactorCorrelations, llm.Request{
		Model:  s.fastModel,
		Prompt: fmt.Sprintf(factorPrompt, text),
		Schema: graphSchema(),
	}, &graph)
	if err != nil {
		return nil, err
	}
	return &graph, nil
}

func (s *Service) SocialIntelligence(ctx context.Context, symbol string) (*model.SocialSignal, error) {
	var signal model.SocialSignal
	_, err := s.generateJSON(ctx, OpSocialIntelligence, llm.Request{
		Model:  s.fastModel,
		Prompt: fmt.Sprintf(socialPrompt, symbol),
		Schema: socialSignalSchema(),
	}, &signal)
	if err != nil {
		return nil, err
	}
	return &signal, nil
}

func (s *Service) SocialUserHistory(ctx context.Context, author, platform string) (*model.SocialUserHistory, error) {
	var history model.SocialUserHistory
	_, err := s.generateJSON(ctx, OpSocialUserHistory, llm.Request{
		Model:  s.deepModel,
		Prompt: fmt.Sprintf(userHistoryPrompt, author, platform),
		Schema: userHistorySchema(),
	}, &history)
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (s *Service) OpinionCorrelations(ctx context.Context, comment string) (*model.CorrelationGraph, error) {
	var graph model.CorrelationGraph
	_, err := s.generateJSON(ctx, OpOpinionCorrelations, llm.Request{
		Model:  s.fastModel,
		Prompt: fmt.Sprintf(opinionPrompt, comment),
		Schema: graphSchema(),
	}, &graph)
	if err != nil {
		return nil, err
	}
	return &graph, nil
}

// ClassifyNews labels a fetched headline for the feed. Used by the enricher.
func (s *Service) ClassifyNews(ctx context.Context, title, summary string) (*NewsClassification, error) {
	var result NewsClassification
	resp, err := s.generateJSON(ctx, OpClassifyNews, llm.Request{
		Model:       s.fastModel,
		System:      classifySystemPrompt,
		Prompt:      fmt.Sprintf("Headline: %s\nSummary: %s", title, summary),
		Temperature: llm.Temperature(0),
		Schema:      classificationSchema(),
	}, &result)
	if err != nil {
		return nil, err
	}

	result.PromptVersion = classifyPromptVersion
	result.ModelUsed = resp.ModelUsed
	return &result, nil
}
