package handler

import "marketlens/internal/model"

type StocksResponse struct {
	Stocks []model.Stock `json:"stocks"`
	Total  int           `json:"total"`
}

type NewsFeedResponse struct {
	News   []model.NewsItem `json:"news"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type ViewsResponse struct {
	Views []model.ViewType `json:"views"`
}

type SetViewRequest struct {
	View string `json:"view" binding:"required"`
}

type ConceptsResponse struct {
	NewsID   string                      `json:"newsId"`
	Concepts []model.ConceptIntelligence `json:"concepts"`
}

type UserHistoryRequest struct {
	Author   string `json:"author" binding:"required"`
	Platform string `json:"platform" binding:"required"`
}

type OpinionRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// GraphResponse is a correlation graph plus the links that name no node.
// Those links are served in Links as well.
type GraphResponse struct {
	model.CorrelationGraph
	DanglingLinks []model.CorrelationLink `json:"danglingLinks"`
}
