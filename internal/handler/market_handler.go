package handler

import (
	"context"
	"marketlens/internal/model"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultIntelligenceLimit = 2

type MarketStore interface {
	Stocks(ctx context.Context) ([]model.Stock, error)
	News(ctx context.Context) ([]model.NewsItem, error)
	NewsByID(ctx context.Context, id string) (*model.NewsItem, error)
	Indicators(ctx context.Context) ([]model.EconomicIndicator, error)
	Calendar(ctx context.Context) ([]model.CalendarEvent, error)
	Performance(ctx context.Context) ([]model.PerformancePoint, error)
	Ping(ctx context.Context) error
}

type MarketHandler struct {
	repository MarketStore
}

func NewMarketHandler(repository MarketStore) *MarketHandler {
	return &MarketHandler{repository: repository}
}

func (h *MarketHandler) GetStocks(c *gin.Context) {
	stocks, err := h.repository.Stocks(c.Request.Context())
	if err != nil {
		logger(c).Error("error fetching stocks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	stocks = model.FilterStocks(stocks, c.Query("sector"))

	c.JSON(http.StatusOK, StocksResponse{
		Stocks: stocks,
		Total:  len(stocks),
	})
}

func (h *MarketHandler) GetPerformance(c *gin.Context) {
	points, err := h.repository.Performance(c.Request.Context())
	if err != nil {
		logger(c).Error("error fetching performance", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, nonNil(points))
}

func (h *MarketHandler) GetNews(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	news, err := h.repository.News(c.Request.Context())
	if err != nil {
		logger(c).Error("error fetching news", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	filtered := model.FilterNews(news, model.NewsFilter{
		Category:  c.Query("category"),
		Symbol:    c.Query("symbol"),
		Sentiment: c.Query("sentiment"),
	})

	c.JSON(http.StatusOK, NewsFeedResponse{
		News:   model.Paginate(filtered, limit, offset),
		Total:  len(filtered),
		Limit:  limit,
		Offset: offset,
	})
}

func (h *MarketHandler) GetNewsItem(c *gin.Context) {
	id := c.Param("id")

	news, err := h.repository.NewsByID(c.Request.Context(), id)
	if err != nil {
		logger(c).Error("error fetching news item", "error", err, "news_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if news == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "News not found"})
		return
	}

	c.JSON(http.StatusOK, news)
}

func (h *MarketHandler) GetMacroIntelligence(c *gin.Context) {
	h.getIntelligence(c, model.CategoryMacro)
}

func (h *MarketHandler) GetIndustryIntelligence(c *gin.Context) {
	h.getIntelligence(c, model.CategoryIndustry)
}

// getIntelligence serves the first few items of one category, in feed order.
func (h *MarketHandler) getIntelligence(c *gin.Context, category string) {
	limit := getQueryInt("limit", defaultIntelligenceLimit, c)
	if limit < 1 {
		logger(c).Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultIntelligenceLimit)
		limit = defaultIntelligenceLimit
	}

	news, err := h.repository.News(c.Request.Context())
	if err != nil {
		logger(c).Error("error fetching news", "error", err, "category", category)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	filtered := model.FilterNews(news, model.NewsFilter{Category: category})
	c.JSON(http.StatusOK, model.Paginate(filtered, limit, 0))
}

func (h *MarketHandler) GetIndicators(c *gin.Context) {
	indicators, err := h.repository.Indicators(c.Request.Context())
	if err != nil {
		logger(c).Error("error fetching indicators", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, nonNil(indicators))
}

func (h *MarketHandler) GetCalendar(c *gin.Context) {
	events, err := h.repository.Calendar(c.Request.Context())
	if err != nil {
		logger(c).Error("error fetching calendar", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, nonNil(events))
}

func (h *MarketHandler) GetHealth(c *gin.Context) {
	err := h.repository.Ping(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramLimit := c.Query(name)

	if paramLimit == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramLimit)
	if err != nil {
		logger(c).Warn("invalid query parameter, using default", "param", name, "value", paramLimit, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		logger(c).Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		logger(c).Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		logger(c).Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
