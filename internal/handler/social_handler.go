package handler

import (
	"context"
	"marketlens/internal/model"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type SocialAnalyzer interface {
	SocialIntelligence(ctx context.Context, symbol string) (*model.SocialSignal, error)
	SocialUserHistory(ctx context.Context, author, platform string) (*model.SocialUserHistory, error)
	OpinionCorrelations(ctx context.Context, comment string) (*model.CorrelationGraph, error)
}

type SocialHandler struct {
	analyzer SocialAnalyzer
}

func NewSocialHandler(analyzer SocialAnalyzer) *SocialHandler {
	return &SocialHandler{analyzer: analyzer}
}

func (h *SocialHandler) GetSignal(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Symbol is required"})
		return
	}

	signal, err := h.analyzer.SocialIntelligence(c.Request.Context(), symbol)
	if err != nil {
		logger(c).Error("social intelligence failed", "error", err, "symbol", symbol)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis failed"})
		return
	}

	c.JSON(http.StatusOK, signal)
}

func (h *SocialHandler) GetUserHistory(c *gin.Context) {
	var req UserHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "author and platform are required"})
		return
	}

	history, err := h.analyzer.SocialUserHistory(c.Request.Context(), req.Author, req.Platform)
	if err != nil {
		logger(c).Error("user history failed", "error", err, "author", req.Author, "platform", req.Platform)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis failed"})
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *SocialHandler) GetOpinionCorrelations(c *gin.Context) {
	var req OpinionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Comment) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment is required"})
		return
	}

	graph, err := h.analyzer.OpinionCorrelations(c.Request.Context(), req.Comment)
	if err != nil {
		logger(c).Error("opinion correlations failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis failed"})
		return
	}

	c.JSON(http.StatusOK, GraphResponse{
		CorrelationGraph: *graph,
		DanglingLinks:    nonNil(graph.Dangling()),
	})
}
