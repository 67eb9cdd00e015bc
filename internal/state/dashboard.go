package state

import (
	"context"
	"marketlens/internal/mock"
	"marketlens/internal/model"
	"time"
)

// Dashboard is the view state of one browser session.
type Dashboard struct {
	ActiveView       model.ViewType          `json:"activeView"`
	AnalysisResult   string                  `json:"analysisResult,omitempty"`
	IsAnalyzing      bool                    `json:"isAnalyzing"`
	TimelineTopic    string                  `json:"timelineTopic,omitempty"`
	Timeline         []model.TimelineEvent   `json:"timeline"`
	CorrelationTopic string                  `json:"correlationTopic,omitempty"`
	Correlations     model.CorrelationGraph  `json:"correlations"`
	DanglingLinks    []model.CorrelationLink `json:"danglingLinks,omitempty"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// Store holds dashboards by session id. The loading flag is advisory: Update
// never blocks on it, and concurrent updates resolve as last write wins.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Dashboard, error)
	Update(ctx context.Context, sessionID string, fn func(*Dashboard)) (*Dashboard, error)
	Reset(ctx context.Context, sessionID string) error
}

func NewDashboard(defaults mock.Defaults) *Dashboard {
	d := &Dashboard{ActiveView: model.ViewDashboard}
	d.ClearTimeline(defaults)
	d.Correlations = cloneGraph(defaults.Correlations)
	return d
}

// BeginAnalysis sets the loading flag and drops any previous result.
func (d *Dashboard) BeginAnalysis() {
	d.IsAnalyzing = true
	d.AnalysisResult = ""
}

func (d *Dashboard) FinishAnalysis(result string) {
	d.AnalysisResult = result
	d.IsAnalyzing = false
}

// BeginLoading sets the loading flag for a model call that does not produce
// an analysis result. The current result is kept.
func (d *Dashboard) BeginLoading() {
	d.IsAnalyzing = true
}

func (d *Dashboard) EndLoading() {
	d.IsAnalyzing = false
}

func (d *Dashboard) DismissAnalysis() {
	d.AnalysisResult = ""
}

func (d *Dashboard) ShowTimeline(topic string, events []model.TimelineEvent) {
	d.Timeline = events
	d.TimelineTopic = topic
	d.ActiveView = model.ViewTimeline
}

func (d *Dashboard) ClearTimeline(defaults mock.Defaults) {
	d.Timeline = append([]model.TimelineEvent{}, defaults.Timeline...)
	d.TimelineTopic = ""
}

func (d *Dashboard) ShowCorrelations(topic string, graph model.CorrelationGraph) {
	d.Correlations = graph
	d.DanglingLinks = graph.Dangling()
	d.CorrelationTopic = topic
	d.ActiveView = model.ViewCorrelations
}

func (d *Dashboard) clone() *Dashboard {
	c := *d
	c.Timeline = append([]model.TimelineEvent{}, d.Timeline...)
	c.Correlations = cloneGraph(d.Correlations)
	c.DanglingLinks = append([]model.CorrelationLink(nil), d.DanglingLinks...)
	return &c
}

func cloneGraph(g model.CorrelationGraph) model.CorrelationGraph {
	return model.CorrelationGraph{
		Nodes: append([]model.CorrelationNode{}, g.Nodes...),
		Links: append([]model.CorrelationLink{}, g.Links...),
	}
}
