package mock

import (
	"context"
	_ "embed"
	"fmt"
	"marketlens/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var datasetYAML []byte

type Dataset struct {
	Stocks       []model.Stock             `yaml:"stocks"`
	News         []model.NewsItem          `yaml:"news"`
	Timeline     []model.TimelineEvent     `yaml:"timeline"`
	Correlations model.CorrelationGraph    `yaml:"correlations"`
	Performance  []model.PerformancePoint  `yaml:"performance"`
	Indicators   []model.EconomicIndicator `yaml:"indicators"`
	Calendar     []model.CalendarEvent     `yaml:"calendar"`
}

// Defaults is what a fresh or cleared dashboard shows.
type Defaults struct {
	Timeline     []model.TimelineEvent
	Correlations model.CorrelationGraph
}

func Load() (*Dataset, error) {
	return Parse(datasetYAML)
}

func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return &ds, nil
}

func (d *Dataset) Defaults() Defaults {
	return Defaults{
		Timeline: append([]model.TimelineEvent(nil), d.Timeline...),
		Correlations: model.CorrelationGraph{
			Nodes: append([]model.CorrelationNode(nil), d.Correlations.Nodes...),
			Links: append([]model.CorrelationLink(nil), d.Correlations.Links...),
		},
	}
}

// Catalog serves the dataset as a read-only market store.
type Catalog struct {
	ds *Dataset
}

func NewCatalog(ds *Dataset) *Catalog {
	return &Catalog{ds: ds}
}

func (c *Catalog) Stocks(ctx context.Context) ([]model.Stock, error) {
	return append([]model.Stock(nil), c.ds.Stocks...), nil
}

func (c *Catalog) News(ctx context.Context) ([]model.NewsItem, error) {
	return append([]model.NewsItem(nil), c.ds.News...), nil
}

func (c *Catalog) NewsByID(ctx context.Context, id string) (*model.NewsItem, error) {
	for _, n := range c.ds.News {
		if n.ID == id {
			item := n
			return &item, nil
		}
	}
	return nil, nil
}

func (c *Catalog) Indicators(ctx context.Context) ([]model.EconomicIndicator, error) {
	return append([]model.EconomicIndicator(nil), c.ds.Indicators...), nil
}

func (c *Catalog) Calendar(ctx context.Context) ([]model.CalendarEvent, error) {
	return append([]model.CalendarEvent(nil), c.ds.Calendar...), nil
}

func (c *Catalog) Performance(ctx context.Context) ([]model.PerformancePoint, error) {
	return append([]model.PerformancePoint(nil), c.ds.Performance...), nil
}

func (c *Catalog) Ping(ctx context.Context) error {
	return nil
}
