package main

import (
	"context"
	"log"
	"log/slog"
	"marketlens/db"
	"marketlens/internal/analysis"
	"marketlens/internal/config"
	"marketlens/internal/model"
	"marketlens/internal/repository"
	"marketlens/pkg/llm"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	maxRetries = 3
	retryPause = 5 * time.Second
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	ctx := context.Background()

	err = db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	repo := repository.NewMarketRepository(db.DB)

	generator, err := llm.New(cfg.LLM())
	if err != nil {
		log.Fatalf("error creating LLM client: %v", err)
	}

	service := analysis.NewService(llm.RateLimited(generator, cfg.LLMRPM), cfg.LLMDeepModel, cfg.LLMFastModel)

	for {
		id, err := db.PopFromQueue(ctx, db.EnrichQueueKey, 0)
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}

		newsID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			slog.Error("invalid news id in queue", "id", id, "error", err)
			continue
		}

		enrich(ctx, repo, service, newsID)
	}
}

func enrich(ctx context.Context, repo *repository.MarketRepository, service *analysis.Service, newsID int64) {
	errorCount, err := repo.GetErrorCount(ctx, newsID)
	if err != nil {
		slog.Error("error getting error count", "error", err, "news_id", newsID)
		return
	}

	if errorCount >= maxRetries {
		slog.Warn("news exceeded max retries, marking as failed", "news_id", newsID, "error_count", errorCount)
		if err := repo.UpdateStatus(ctx, newsID, model.StatusFailed); err != nil {
			slog.Error("error updating status", "error", err, "news_id", newsID)
		}
		db.PushToQueue(ctx, db.DeadLetterKey, strconv.FormatInt(newsID, 10))
		return
	}

	item, err := repo.GetNewsForEnrichment(ctx, newsID)
	if err != nil {
		slog.Error("error getting news from DB", "error", err, "news_id", newsID)
		return
	}

	if item == nil {
		slog.Warn("news not found in DB", "news_id", newsID)
		return
	}

	if item.Status != model.StatusPending {
		slog.Info("news already processed, skipping", "news_id", newsID, "status", item.Status)
		return
	}

	result, err := service.ClassifyNews(ctx, item.Title, item.Summary)
	if err != nil {
		slog.Error("error classifying news", "error", err, "news_id", newsID)

		repo.SaveError(ctx, newsID, err.Error(), "llm_error")

		db.PushToQueue(ctx, db.EnrichQueueKey, strconv.FormatInt(newsID, 10))

		time.Sleep(retryPause)
		return
	}

	err = repo.SaveEnrichment(ctx, newsID, repository.Enrichment{
		Category:      result.Category,
		Sentiment:     result.Sentiment,
		ImpactScore:   result.ImpactScore,
		Reliability:   result.Reliability,
		IsFact:        result.IsFact,
		AssetImpact:   result.AssetImpact,
		PromptVersion: result.PromptVersion,
		ModelUsed:     result.ModelUsed,
	})
	if err != nil {
		slog.Error("error saving enrichment", "error", err, "news_id", newsID)
		return
	}

	slog.Info("news enriched successfully", "news_id", newsID, "category", result.Category, "sentiment", result.Sentiment)
}
