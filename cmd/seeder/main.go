package main

import (
	"context"
	"log"
	"log/slog"
	"marketlens/db"
	"marketlens/internal/config"
	"marketlens/internal/mock"
	"marketlens/internal/repository"
	"os"

	"github.com/joho/godotenv"
)

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

	dataset, err := mock.Load()
	if err != nil {
		log.Fatalf("error loading dataset: %v", err)
	}

	repo := repository.NewMarketRepository(db.DB)

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("error creating schema: %v", err)
	}

	inserted, err := repo.SeedDataset(ctx, dataset)
	if err != nil {
		log.Fatalf("error seeding dataset: %v", err)
	}

	slog.Info("seed complete", "stocks", len(dataset.Stocks), "news_inserted", inserted, "indicators", len(dataset.Indicators), "calendar", len(dataset.Calendar))
}
