package handler

import (
	"context"
	"fmt"
	"marketlens/internal/mock"
	"marketlens/internal/model"
	"marketlens/internal/state"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	analysisEmptyMessage = "Analysis failed."
	analysisErrorMessage = "An error occurred during analysis."

	settleAttempts = 2
)

type NewsAnalyzer interface {
	AnalyzeNewsImpact(ctx context.Context, news model.NewsItem, portfolio []string) (string, error)
	GenerateTimeline(ctx context.Context, topic string) ([]model.TimelineEvent, error)
	FactorCorrelations(ctx context.Context, text string) (*model.CorrelationGraph, error)
	HistoricalAnalogy(ctx context.Context, newsTitle string) ([]model.ConceptIntelligence, error)
}

// DashboardHandler drives the per-session view state. Model calls run to
// completion even if the client goes away, and overlapping calls are not
// deduplicated: whichever finishes last is what the dashboard shows.
type DashboardHandler struct {
	store    state.Store
	market   MarketStore
	analyzer NewsAnalyzer
	defaults mock.Defaults
}

func NewDashboardHandler(store state.Store, market MarketStore, analyzer NewsAnalyzer, defaults mock.Defaults) *DashboardHandler {
	return &DashboardHandler{
		store:    store,
		market:   market,
		analyzer: analyzer,
		defaults: defaults,
	}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	d, err := h.store.Load(c.Request.Context(), sessionID(c))
	if err != nil {
		logger(c).Error("error loading dashboard", "error", err, "session_id", sessionID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, d)
}

func (h *DashboardHandler) GetViews(c *gin.Context) {
	c.JSON(http.StatusOK, ViewsResponse{Views: model.Views})
}

func (h *DashboardHandler) SetView(c *gin.Context) {
	var req SetViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	view, ok := model.ParseViewType(req.View)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown view"})
		return
	}

	h.update(c, func(d *state.Dashboard) { d.ActiveView = view })
}

// AnalyzeNews runs the impact analysis for one news item against the
// portfolio. The loading flag is set before the model call and cleared after
// it on every path.
func (h *DashboardHandler) AnalyzeNews(c *gin.Context) {
	news, ok := h.loadNews(c)
	if !ok {
		return
	}

	stocks, err := h.market.Stocks(c.Request.Context())
	if err != nil {
		logger(c).Error("error fetching portfolio", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	session := sessionID(c)

	if !h.begin(ctx, c, session, (*state.Dashboard).BeginAnalysis) {
		return
	}

	text, err := h.analyzer.AnalyzeNewsImpact(ctx, *news, model.Symbols(stocks))
	if err != nil {
		logger(c).Error("analysis failed", "error", err, "news_id", news.ID, "session_id", session)
		h.settle(ctx, c, session, func(d *state.Dashboard) { d.FinishAnalysis(analysisErrorMessage) })
		c.JSON(http.StatusBadGateway, gin.H{"error": analysisErrorMessage})
		return
	}

	if text == "" {
		text = analysisEmptyMessage
	}

	d, err := h.settle(ctx, c, session, func(d *state.Dashboard) { d.FinishAnalysis(text) })
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, d)
}

func (h *DashboardHandler) DismissAnalysis(c *gin.Context) {
	h.update(c, (*state.Dashboard).DismissAnalysis)
}

// ResetDashboard forgets the session's state. The response is the fresh
// dashboard the next read will return.
func (h *DashboardHandler) ResetDashboard(c *gin.Context) {
	session := sessionID(c)

	if err := h.store.Reset(context.WithoutCancel(c.Request.Context()), session); err != nil {
		logger(c).Error("error resetting dashboard", "error", err, "session_id", session)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, state.NewDashboard(h.defaults))
}

// GenerateHistory replaces the timeline with a generated history of the
// item's first related stock. The loading flag is up during the model call.
// A failure clears the flag and leaves the rest of the dashboard untouched.
func (h *DashboardHandler) GenerateHistory(c *gin.Context) {
	news, ok := h.loadNews(c)
	if !ok {
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	session := sessionID(c)

	if !h.begin(ctx, c, session, (*state.Dashboard).BeginLoading) {
		return
	}

	events, err := h.analyzer.GenerateTimeline(ctx, historyTopic(*news))
	if err != nil {
		logger(c).Error("failed to generate history", "error", err, "news_id", news.ID)
		h.settle(ctx, c, session, (*state.Dashboard).EndLoading)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate history"})
		return
	}

	d, err := h.settle(ctx, c, session, func(d *state.Dashboard) {
		d.ShowTimeline(news.Title, nonNil(events))
		d.EndLoading()
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, d)
}

func (h *DashboardHandler) ClearTimeline(c *gin.Context) {
	h.update(c, func(d *state.Dashboard) { d.ClearTimeline(h.defaults) })
}

// GenerateNetwork replaces the correlation graph. Links naming no node are
// kept and also listed in danglingLinks.
func (h *DashboardHandler) GenerateNetwork(c *gin.Context) {
	news, ok := h.loadNews(c)
	if !ok {
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	session := sessionID(c)

	if !h.begin(ctx, c, session, (*state.Dashboard).BeginLoading) {
		return
	}

	text := news.Title + " - " + news.Summary
	graph, err := h.analyzer.FactorCorrelations(ctx, text)
	if err != nil {
		logger(c).Error("failed to generate correlation network", "error", err, "news_id", news.ID)
		h.settle(ctx, c, session, (*state.Dashboard).EndLoading)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate correlation network"})
		return
	}

	d, err := h.settle(ctx, c, session, func(d *state.Dashboard) {
		d.ShowCorrelations(news.Title, *graph)
		d.EndLoading()
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if n := len(d.DanglingLinks); n > 0 {
		logger(c).Warn("correlation graph has dangling links", "news_id", news.ID, "count", n)
	}

	c.JSON(http.StatusOK, d)
}

// GetConcepts returns the historical analogy for a news item. Nothing is
// kept in the dashboard, so unlike the other model calls this one is
// cancelled when the client goes away.
func (h *DashboardHandler) GetConcepts(c *gin.Context) {
	news, ok := h.loadNews(c)
	if !ok {
		return
	}

	concepts, err := h.analyzer.HistoricalAnalogy(c.Request.Context(), news.Title)
	if err != nil {
		logger(c).Error("failed to generate concepts", "error", err, "news_id", news.ID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate concepts"})
		return
	}

	c.JSON(http.StatusOK, ConceptsResponse{
		NewsID:   news.ID,
		Concepts: nonNil(concepts),
	})
}

// begin raises the loading flag before a model call. It answers 500 itself
// and returns false when the write fails.
func (h *DashboardHandler) begin(ctx context.Context, c *gin.Context, session string, fn func(*state.Dashboard)) bool {
	if _, err := h.store.Update(ctx, session, fn); err != nil {
		logger(c).Error("error saving dashboard", "error", err, "session_id", session)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return false
	}
	return true
}

// settle writes the state that ends a model call, clearing the loading flag.
// The write is attempted twice; if both fail the session keeps the flag up
// until its next successful update.
func (h *DashboardHandler) settle(ctx context.Context, c *gin.Context, session string, fn func(*state.Dashboard)) (*state.Dashboard, error) {
	var err error
	for attempt := 1; attempt <= settleAttempts; attempt++ {
		var d *state.Dashboard
		d, err = h.store.Update(ctx, session, fn)
		if err == nil {
			return d, nil
		}
		if attempt < settleAttempts {
			logger(c).Warn("error saving dashboard, retrying", "error", err, "session_id", session, "attempt", attempt)
		}
	}

	logger(c).Error("loading flag left set on session", "error", err, "session_id", session)
	return nil, err
}

func (h *DashboardHandler) loadNews(c *gin.Context) (*model.NewsItem, bool) {
	id := c.Param("id")

	news, err := h.market.NewsByID(c.Request.Context(), id)
	if err != nil {
		logger(c).Error("error fetching news item", "error", err, "news_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}

	if news == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "News not found"})
		return nil, false
	}

	return news, true
}

// update writes even when the client has gone away, so a finished model
// call is never lost.
func (h *DashboardHandler) update(c *gin.Context, fn func(*state.Dashboard)) {
	d, err := h.store.Update(context.WithoutCancel(c.Request.Context()), sessionID(c), fn)
	if err != nil {
		logger(c).Error("error saving dashboard", "error", err, "session_id", sessionID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, d)
}

func historyTopic(news model.NewsItem) string {
	symbol := news.PrimarySymbol()
	if symbol == "" {
		return "History of " + news.Title
	}
	return fmt.Sprintf("History of %s specifically related to %s", symbol, news.Title)
}
