package model

type ViewType string

const (
	ViewDashboard    ViewType = "Dashboard"
	ViewTimeline     ViewType = "Timeline"
	ViewCorrelations ViewType = "Correlations"
	ViewIntelligence ViewType = "Intelligence"
	ViewRiskConfig   ViewType = "RiskConfig"
)

var Views = []ViewType{ViewDashboard, ViewTimeline, ViewCorrelations, ViewIntelligence, ViewRiskConfig}

func ParseViewType(s string) (ViewType, bool) {
	for _, v := range Views {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}
