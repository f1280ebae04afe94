package analysis

import (
	"context"
	"fmt"

	"github.com/groblegark/soscope/internal/kibana"
	"github.com/groblegark/soscope/internal/model"
)

// DefaultMaxDashboards bounds a batch scan when callers do not choose a limit.
const DefaultMaxDashboards = 50

// BatchOptions holds parameters for BatchAnalyzeDashboards.
type BatchOptions struct {
	// Space selects the Kibana space; empty means the default space.
	Space string

	// MaxDashboards caps how many dashboards are scanned.
	// Zero or negative means DefaultMaxDashboards.
	MaxDashboards int
}

// BatchAnalyzeDashboards lists up to MaxDashboards dashboards in a space and
// runs the health analyzer on each, sequentially. A dashboard whose analysis
// fails is logged and omitted from the report rather than failing the scan;
// only the initial listing call is fatal. Index checks are always off here:
// they are too expensive to run at scale.
func (a *Analyzer) BatchAnalyzeDashboards(ctx context.Context, opts BatchOptions) (*model.BatchHealthReport, error) {
	if opts.MaxDashboards <= 0 {
		opts.MaxDashboards = DefaultMaxDashboards
	}

	// Title is the only attribute the listing needs.
	listing, err := a.client.FindObjects(ctx, &kibana.FindRequest{
		Types:   []model.ObjectType{model.TypeDashboard},
		Fields:  []string{"title"},
		PerPage: opts.MaxDashboards,
		Space:   opts.Space,
	})
	if err != nil {
		return nil, fmt.Errorf("listing dashboards: %w", err)
	}

	report := &model.BatchHealthReport{
		Space:      opts.Space,
		Dashboards: []model.DashboardHealth{},
	}

	for _, dash := range listing.SavedObjects {
		if dash.Error != nil {
			a.logger.Warn("dashboard listing entry unresolvable, skipping",
				"dashboard", dash.ID, "status", dash.Error.StatusCode, "message", dash.Error.Message)
			continue
		}
		health, err := a.AnalyzeDashboardHealth(ctx, dash.ID, HealthOptions{Space: opts.Space})
		if err != nil {
			a.logger.Warn("dashboard analysis failed, skipping",
				"dashboard", dash.ID, "error", err)
			continue
		}

		report.Dashboards = append(report.Dashboards, *health)
		report.Summary.TotalDashboards++
		switch health.OverallStatus {
		case model.StatusHealthy:
			report.Summary.Healthy++
		case model.StatusWarning:
			report.Summary.Warning++
		case model.StatusUnhealthy:
			report.Summary.Unhealthy++
		}
		report.Summary.CriticalIssues += health.CriticalIssues()
	}

	return report, nil
}
