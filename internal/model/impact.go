package model

// RiskLevel classifies how disruptive deleting or modifying a saved object
// would be, based solely on the number of dashboards that reference it.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// IsValid reports whether the risk level is a known value.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// ClassifyRisk maps an affected-dashboard count to a risk level. The
// thresholds are strict cut points on dashboard count only; indirect
// dependency counts do not move the level.
func ClassifyRisk(affectedDashboards int) RiskLevel {
	switch {
	case affectedDashboards == 0:
		return RiskLow
	case affectedDashboards <= 5:
		return RiskMedium
	case affectedDashboards <= 10:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// Recommendation returns the fixed guidance string for the risk level.
func (r RiskLevel) Recommendation() string {
	switch r {
	case RiskLow:
		return "No dashboards reference this object. It can be deleted or modified safely."
	case RiskMedium:
		return "A few dashboards reference this object. Review the affected dashboards before changing it."
	case RiskHigh:
		return "Many dashboards reference this object. Coordinate with dashboard owners before changing it."
	case RiskCritical:
		return "This object is critical infrastructure referenced by a large number of dashboards. Do not delete it without a migration plan."
	default:
		return ""
	}
}

// ImpactAnalysis is the result of a reverse-dependency lookup for one target
// object. Computed fresh per call; never cached.
type ImpactAnalysis struct {
	Target      ObjectKey `json:"target"`
	TargetTitle string    `json:"target_title,omitempty"`

	// DirectDependencies counts objects of any consumer type that declare
	// a reference to the target.
	DirectDependencies int `json:"direct_dependencies"`

	// IndirectDependencies counts dashboards that reference a non-dashboard
	// direct dependent. This is a one-hop transitive closure, not full
	// reachability: a target -> visualization -> lens -> dashboard chain is
	// not traced.
	IndirectDependencies int `json:"indirect_dependencies"`

	AffectedDashboards []Reference `json:"affected_dashboards"`
	Risk               RiskLevel   `json:"risk_level"`
	Recommendation     string      `json:"recommendation"`
}
