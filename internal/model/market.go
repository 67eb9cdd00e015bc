package model

import "strings"

type Stock struct {
	Symbol        string  `json:"symbol" yaml:"symbol"`
	Name          string  `json:"name" yaml:"name"`
	Price         float64 `json:"price" yaml:"price"`
	Change        float64 `json:"change" yaml:"change"`
	ChangePercent float64 `json:"changePercent" yaml:"changePercent"`
	Sector        string  `json:"sector" yaml:"sector"`
	Weight        float64 `json:"weight" yaml:"weight"`
}

// PerformancePoint is one sample of the intraday portfolio chart.
type PerformancePoint struct {
	Time  string  `json:"time" yaml:"time"`
	Value float64 `json:"value" yaml:"value"`
}

const (
	IndicatorBeat    = "beat"
	IndicatorMiss    = "miss"
	IndicatorNeutral = "neutral"
)

type EconomicIndicator struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Region   string `json:"region" yaml:"region"`
	Actual   string `json:"actual" yaml:"actual"`
	Forecast string `json:"forecast" yaml:"forecast"`
	Previous string `json:"previous" yaml:"previous"`
	Status   string `json:"status" yaml:"status"`
	Insight  string `json:"insight" yaml:"insight"`
}

type CalendarEvent struct {
	ID         string `json:"id" yaml:"id"`
	Date       string `json:"date" yaml:"date"`
	Name       string `json:"name" yaml:"name"`
	Importance string `json:"importance" yaml:"importance"`
	Region     string `json:"region" yaml:"region"`
	Forecast   string `json:"forecast" yaml:"forecast"`
}

func FilterStocks(stocks []Stock, sector string) []Stock {
	out := make([]Stock, 0, len(stocks))
	for _, s := range stocks {
		if sector == "" || strings.EqualFold(s.Sector, sector) {
			out = append(out, s)
		}
	}
	return out
}

// Symbols is the portfolio as handed to the impact analysis prompt.
func Symbols(stocks []Stock) []string {
	out := make([]string, len(stocks))
	for i, s := range stocks {
		out[i] = s.Symbol
	}
	return out
}
