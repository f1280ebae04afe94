package events

import (
	"context"

	"github.com/groblegark/soscope/internal/model"
)

// Event topic constants
const (
	TopicScanStarted        = "soscope.scan.started"
	TopicScanCompleted      = "soscope.scan.completed"
	TopicDashboardUnhealthy = "soscope.dashboard.unhealthy"
	TopicImpactAnalyzed     = "soscope.impact.analyzed"
)

// Event types

type ScanStarted struct {
	Space         string `json:"space,omitempty"`
	MaxDashboards int    `json:"max_dashboards"`
}

type ScanCompleted struct {
	ScanID  string             `json:"scan_id,omitempty"`
	Space   string             `json:"space,omitempty"`
	Summary model.BatchSummary `json:"summary"`
}

type DashboardUnhealthy struct {
	DashboardID string             `json:"dashboard_id"`
	Title       string             `json:"title,omitempty"`
	Space       string             `json:"space,omitempty"`
	Score       int                `json:"score"`
	Status      model.HealthStatus `json:"status"`
}

type ImpactAnalyzed struct {
	Target             string          `json:"target"`
	Risk               model.RiskLevel `json:"risk"`
	AffectedDashboards int             `json:"affected_dashboards"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
