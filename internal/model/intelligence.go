package model

type TimelineEvent struct {
	Date         string `json:"date" yaml:"date"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	Significance string `json:"significance" yaml:"significance"`
	URL          string `json:"url,omitempty" yaml:"url,omitempty"`
}

type TrendPoint struct {
	Date      string  `json:"date" yaml:"date"`
	Volume    float64 `json:"volume" yaml:"volume"`
	Sentiment float64 `json:"sentiment" yaml:"sentiment"`
}

type ConceptIntelligence struct {
	Concept     string          `json:"concept"`
	Description string          `json:"description"`
	History     []TimelineEvent `json:"history"`
	Trends      []TrendPoint    `json:"trends"`
}

const (
	GroupStock          = "stock"
	GroupSector         = "sector"
	GroupEvent          = "event"
	GroupCompetitor     = "competitor"
	GroupSupplier       = "supplier"
	GroupCustomer       = "customer"
	GroupMarketTrend    = "market-trend"
	GroupRegulator      = "regulator"
	GroupKOLOpinion     = "KOL-Opinion"
	GroupSupportivePost = "Supportive-Post"
	GroupOpposingPost   = "Opposing-Post"
)

var NodeGroups = []string{
	GroupStock, GroupSector, GroupEvent, GroupCompetitor, GroupSupplier, GroupCustomer,
	GroupMarketTrend, GroupRegulator, GroupKOLOpinion, GroupSupportivePost, GroupOpposingPost,
}

type CorrelationNode struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Group string `json:"group" yaml:"group"`
}

// CorrelationLink refers to nodes by label, not by id.
type CorrelationLink struct {
	Source   string  `json:"source" yaml:"source"`
	Target   string  `json:"target" yaml:"target"`
	Strength float64 `json:"strength" yaml:"strength"`
	Reason   string  `json:"reason" yaml:"reason"`
}

type CorrelationGraph struct {
	Nodes []CorrelationNode `json:"nodes" yaml:"nodes"`
	Links []CorrelationLink `json:"links" yaml:"links"`
}

// Dangling lists links whose source or target matches no node label.
// It is informational only; such links are still served.
func (g CorrelationGraph) Dangling() []CorrelationLink {
	labels := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		labels[n.Label] = struct{}{}
	}

	var out []CorrelationLink
	for _, l := range g.Links {
		_, src := labels[l.Source]
		_, dst := labels[l.Target]
		if !src || !dst {
			out = append(out, l)
		}
	}
	return out
}
