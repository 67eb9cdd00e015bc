package main

import (
	"context"
	"log"
	"log/slog"
	"marketlens/db"
	"marketlens/internal/config"
	"marketlens/internal/model"
	"marketlens/internal/repository"
	"marketlens/pkg/news"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const fetchLimit = 50

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	ctx := context.Background()

	err = db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	repo := repository.NewMarketRepository(db.DB)

	stocks, err := repo.Stocks(ctx)
	if err != nil {
		log.Fatalf("error loading portfolio: %v", err)
	}
	portfolio := model.Symbols(stocks)

	var clients []news.NewsClient
	var finnhub *news.FinnHubClient
	if cfg.FinnhubAPIKey != "" {
		finnhub = news.NewFinnHubClient(cfg.FinnhubAPIKey)
		clients = append(clients, finnhub)
	}
	if cfg.AlphaVantageAPIKey != "" {
		clients = append(clients, news.NewAlphaVantageClient(cfg.AlphaVantageAPIKey, portfolio))
	}
	if cfg.MassiveAPIKey != "" {
		clients = append(clients, news.NewMassiveClient(cfg.MassiveAPIKey, portfolio))
	}

	if len(clients) == 0 {
		slog.Error("no news source API keys configured")
		return
	}

	for _, client := range clients {
		fetchSource(ctx, repo, client)
	}

	requeuePending(ctx, repo)

	if finnhub != nil {
		refreshQuotes(ctx, repo, finnhub, portfolio)
	}
}

func fetchSource(ctx context.Context, repo *repository.MarketRepository, client news.NewsClient) {
	source := client.Name()

	fetchedArticles, err := client.Fetch(ctx, fetchLimit)
	if err != nil {
		slog.Error("error fetching articles", "source", source, "error", err)
		return
	}

	articles := news.Usable(fetchedArticles)
	skipped := len(fetchedArticles) - len(articles)

	var saved, duplicated, errors int

	for _, a := range articles {
		id, inserted, err := repo.SaveFetchedNews(ctx, a)
		if err != nil {
			slog.Error("error saving article", "source", source, "error", err)
			errors++
			continue
		}

		if !inserted {
			slog.Info("duplicate article skipped", "source", source, "url", a.URL)
			duplicated++
			continue
		}

		saved++

		err = db.PushToQueue(ctx, db.EnrichQueueKey, strconv.FormatInt(id, 10))
		if err != nil {
			slog.Error("error pushing to Redis queue", "source", source, "error", err, "news_id", id)
			errors++
		}
	}

	slog.Info("fetch complete", "source", source, "saved", saved, "duplicated", duplicated, "skipped", skipped, "errors", errors)
}

// requeuePending re-enqueues pending items when the queue has drained, so
// ids lost to a failed push are picked up on the next run.
func requeuePending(ctx context.Context, repo *repository.MarketRepository) {
	length, err := db.QueueLength(ctx, db.EnrichQueueKey)
	if err != nil {
		slog.Error("error reading queue length", "error", err)
		return
	}

	if length > 0 {
		return
	}

	ids, err := repo.GetPendingIDs(ctx, 100)
	if err != nil {
		slog.Error("error listing pending news", "error", err)
		return
	}

	for _, id := range ids {
		if err := db.PushToQueue(ctx, db.EnrichQueueKey, strconv.FormatInt(id, 10)); err != nil {
			slog.Error("error pushing to Redis queue", "error", err, "news_id", id)
			return
		}
	}

	if len(ids) > 0 {
		slog.Info("requeued pending news", "count", len(ids))
	}
}

func refreshQuotes(ctx context.Context, repo *repository.MarketRepository, quotes news.QuoteClient, symbols []string) {
	var updated int

	for _, symbol := range symbols {
		q, err := quotes.Quote(ctx, symbol)
		if err != nil {
			slog.Warn("error fetching quote", "symbol", symbol, "error", err)
			continue
		}

		if err := repo.UpdateQuote(ctx, *q); err != nil {
			slog.Error("error saving quote", "symbol", symbol, "error", err)
			continue
		}
		updated++
	}

	slog.Info("quotes refreshed", "updated", updated, "total", len(symbols))
}
