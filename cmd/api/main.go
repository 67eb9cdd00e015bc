package main

import (
	"context"
	"log"
	"log/slog"
	"marketlens/db"
	"marketlens/internal/analysis"
	"marketlens/internal/config"
	"marketlens/internal/handler"
	"marketlens/internal/metrics"
	"marketlens/internal/mock"
	"marketlens/internal/repository"
	"marketlens/internal/state"
	"marketlens/pkg/llm"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	dataset, err := mock.Load()
	if err != nil {
		log.Fatalf("error loading dataset: %v", err)
	}
	defaults := dataset.Defaults()

	var market handler.MarketStore = mock.NewCatalog(dataset)
	if cfg.DatabaseURL != "" {
		err = db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer db.Close()

		market = repository.NewMarketRepository(db.DB)
		slog.Info("market data from postgres")
	} else {
		slog.Info("market data from embedded dataset")
	}

	var sessions state.Store = state.NewMemoryStore(defaults, cfg.SessionTTL, cfg.MaxSessions)
	if cfg.RedisURL != "" {
		err = db.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer db.CloseRedis()

		sessions = state.NewRedisStore(db.Redis, defaults, cfg.SessionTTL)
		slog.Info("dashboard sessions in redis")
	}

	generator, err := llm.New(cfg.LLM())
	if err != nil {
		log.Fatalf("error creating LLM client: %v", err)
	}
	generator = llm.RateLimited(generator, cfg.LLMRPM)

	m := metrics.New()
	service := analysis.NewService(generator, cfg.LLMDeepModel, cfg.LLMFastModel).WithRecorder(m)

	slog.Info("LLM configured", "provider", cfg.LLMProvider, "deep_model", cfg.LLMDeepModel, "fast_model", cfg.LLMFastModel)

	marketHandler := handler.NewMarketHandler(market)
	dashboardHandler := handler.NewDashboardHandler(sessions, market, service, defaults)
	socialHandler := handler.NewSocialHandler(service)

	r := gin.Default()

	allowedOrigins := cfg.AllowedOrigins()

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", handler.SessionHeader, handler.RequestIDHeader},
		ExposeHeaders:    []string{handler.SessionHeader, handler.RequestIDHeader},
		AllowCredentials: true,
	}))
	r.Use(handler.RequestID(), m.Middleware())

	r.GET("/health", marketHandler.GetHealth)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.GET("/stocks", marketHandler.GetStocks)
	r.GET("/portfolio/performance", marketHandler.GetPerformance)
	r.GET("/news", marketHandler.GetNews)
	r.GET("/news/:id", marketHandler.GetNewsItem)
	r.GET("/intelligence/macro", marketHandler.GetMacroIntelligence)
	r.GET("/intelligence/industry", marketHandler.GetIndustryIntelligence)
	r.GET("/indicators", marketHandler.GetIndicators)
	r.GET("/calendar", marketHandler.GetCalendar)

	r.GET("/social/:symbol", socialHandler.GetSignal)
	r.POST("/social/users/history", socialHandler.GetUserHistory)
	r.POST("/social/opinions/correlations", socialHandler.GetOpinionCorrelations)

	session := r.Group("/", handler.Session())
	session.GET("/dashboard", dashboardHandler.GetDashboard)
	session.GET("/views", dashboardHandler.GetViews)
	session.DELETE("/dashboard", dashboardHandler.ResetDashboard)
	session.PUT("/dashboard/view", dashboardHandler.SetView)
	session.DELETE("/dashboard/analysis", dashboardHandler.DismissAnalysis)
	session.DELETE("/dashboard/timeline", dashboardHandler.ClearTimeline)
	session.POST("/news/:id/analyze", dashboardHandler.AnalyzeNews)
	session.POST("/news/:id/history", dashboardHandler.GenerateHistory)
	session.POST("/news/:id/network", dashboardHandler.GenerateNetwork)
	session.POST("/news/:id/concepts", dashboardHandler.GetConcepts)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
