package model

import (
	"encoding/json"
	"time"
)

// Severity grades a health issue.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid reports whether the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError, SeverityCritical:
		return true
	}
	return false
}

// IsBroken reports whether the severity marks the panel as unhealthy.
func (s Severity) IsBroken() bool {
	return s == SeverityError || s == SeverityCritical
}

// IssueCategory groups health issues by cause.
type IssueCategory string

const (
	CategoryBrokenReference IssueCategory = "broken_reference"
	CategoryPerformance     IssueCategory = "performance"
	CategoryConfiguration   IssueCategory = "configuration"
	CategoryDataQuality     IssueCategory = "data_quality"
)

// String returns the string representation of the category.
func (c IssueCategory) String() string {
	return string(c)
}

// IsValid reports whether the category is a known value.
func (c IssueCategory) IsValid() bool {
	switch c {
	case CategoryBrokenReference, CategoryPerformance, CategoryConfiguration, CategoryDataQuality:
		return true
	}
	return false
}

// HealthIssue is a single finding produced by a health check.
// Issues are value objects and never mutated after creation.
type HealthIssue struct {
	Severity   Severity      `json:"severity"`
	Category   IssueCategory `json:"category"`
	Message    string        `json:"message"`
	Details    string        `json:"details,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// HealthStatus is the tri-state rollup of a panel or dashboard.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusWarning   HealthStatus = "warning"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// String returns the string representation of the status.
func (s HealthStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is a known value.
func (s HealthStatus) IsValid() bool {
	switch s {
	case StatusHealthy, StatusWarning, StatusUnhealthy:
		return true
	}
	return false
}

// DeriveStatus rolls a set of issues up into a status: unhealthy if any issue
// is error or critical, warning if any issue exists at all, healthy otherwise.
func DeriveStatus(issues []HealthIssue) HealthStatus {
	status := StatusHealthy
	for _, issue := range issues {
		if issue.Severity.IsBroken() {
			return StatusUnhealthy
		}
		status = StatusWarning
	}
	return status
}

// PanelHealth is the health evaluation of a single dashboard panel.
// Status is derived from Issues via DeriveStatus, never stored independently.
type PanelHealth struct {
	PanelID   string        `json:"panel_id"`
	PanelType string        `json:"panel_type,omitempty"`
	Title     string        `json:"title,omitempty"`
	Issues    []HealthIssue `json:"issues"`
	Status    HealthStatus  `json:"status"`
}

// DashboardHealth aggregates per-panel results and dashboard-wide issues into
// an overall status and a 0-100 score.
type DashboardHealth struct {
	ID            string        `json:"id"`
	Title         string        `json:"title,omitempty"`
	Panels        []PanelHealth `json:"panels"`
	GlobalIssues  []HealthIssue `json:"global_issues"`
	OverallStatus HealthStatus  `json:"overall_status"`
	Score         int           `json:"overall_score"`

	HealthyPanels   int `json:"healthy_panels"`
	WarningPanels   int `json:"warning_panels"`
	UnhealthyPanels int `json:"unhealthy_panels"`
}

// CriticalIssues counts critical-severity issues across global issues and
// every panel.
func (d *DashboardHealth) CriticalIssues() int {
	n := 0
	for _, issue := range d.GlobalIssues {
		if issue.Severity == SeverityCritical {
			n++
		}
	}
	for _, p := range d.Panels {
		for _, issue := range p.Issues {
			if issue.Severity == SeverityCritical {
				n++
			}
		}
	}
	return n
}

// BatchSummary holds space-wide counts for a batch health scan.
type BatchSummary struct {
	TotalDashboards int `json:"total_dashboards"`
	Healthy         int `json:"healthy"`
	Warning         int `json:"warning"`
	Unhealthy       int `json:"unhealthy"`
	CriticalIssues  int `json:"critical_issues"`
}

// BatchHealthReport is the aggregate result of scanning the dashboards of a
// space. Dashboards that failed analysis are omitted rather than represented,
// so Summary.TotalDashboards counts successfully analyzed dashboards only.
type BatchHealthReport struct {
	Space      string            `json:"space,omitempty"`
	Dashboards []DashboardHealth `json:"dashboards"`
	Summary    BatchSummary      `json:"summary"`
}

// ScanRecord is a persisted batch scan, as stored in the history archive.
type ScanRecord struct {
	ID              string          `json:"id"`
	Space           string          `json:"space,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	TotalDashboards int             `json:"total_dashboards"`
	Healthy         int             `json:"healthy"`
	Warning         int             `json:"warning"`
	Unhealthy       int             `json:"unhealthy"`
	CriticalIssues  int             `json:"critical_issues"`
	Report          json.RawMessage `json:"report,omitempty"`
}
