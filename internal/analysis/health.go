package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/groblegark/soscope/internal/kibana"
	"github.com/groblegark/soscope/internal/model"
)

const (
	// panelAreaThreshold is the grid area (w*h) above which a panel is
	// flagged as likely too data-heavy for a single tile. A fixed
	// heuristic, not a measured render cost.
	panelAreaThreshold = 48

	// panelCountThreshold is the panel count above which a dashboard gets
	// a performance warning.
	panelCountThreshold = 20
)

// HealthOptions holds parameters for AnalyzeDashboardHealth.
type HealthOptions struct {
	// Space selects the Kibana space; empty means the default space.
	Space string

	// CheckIndices additionally resolves every index-pattern reference on
	// the dashboard. Opt-in: it costs one extra round trip per pattern.
	CheckIndices bool
}

// panelDescriptor mirrors one entry of a dashboard's panelsJSON layout.
type panelDescriptor struct {
	PanelIndex   string `json:"panelIndex"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	PanelRefName string `json:"panelRefName"`
	GridData     struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"gridData"`
}

// AnalyzeDashboardHealth inspects a dashboard's panel-to-object wiring and
// scores its structural health. It fails only when the dashboard itself
// cannot be fetched; broken panels and dangling references are reported as
// issues on a successful result.
func (a *Analyzer) AnalyzeDashboardHealth(ctx context.Context, id string, opts HealthOptions) (*model.DashboardHealth, error) {
	dash, err := a.client.GetObject(ctx, model.TypeDashboard, id, kibana.GetOptions{Space: opts.Space})
	if err != nil {
		return nil, fmt.Errorf("fetching dashboard %s: %w", id, err)
	}

	var attrs struct {
		Title      string `json:"title"`
		PanelsJSON string `json:"panelsJSON"`
	}
	// Tolerate missing or partial attributes; absent fields stay zero.
	_ = json.Unmarshal(dash.Attributes, &attrs)

	health := &model.DashboardHealth{
		ID:           id,
		Title:        attrs.Title,
		Panels:       []model.PanelHealth{},
		GlobalIssues: []model.HealthIssue{},
	}

	panels, err := parsePanels(attrs.PanelsJSON)
	if err != nil || len(panels) == 0 {
		issue := model.HealthIssue{
			Severity:   model.SeverityError,
			Category:   model.CategoryConfiguration,
			Message:    "dashboard has no panel layout",
			Suggestion: "add at least one panel, or delete the dashboard if it is no longer needed",
		}
		if err != nil {
			issue.Message = "dashboard panel layout is not valid JSON"
			issue.Details = err.Error()
		}
		health.GlobalIssues = append(health.GlobalIssues, issue)
		health.OverallStatus = model.StatusUnhealthy
		health.Score = 0
		return health, nil
	}

	for _, p := range panels {
		ph := a.checkPanel(ctx, p, dash.References, opts.Space)
		health.Panels = append(health.Panels, ph)
		switch ph.Status {
		case model.StatusHealthy:
			health.HealthyPanels++
		case model.StatusWarning:
			health.WarningPanels++
		case model.StatusUnhealthy:
			health.UnhealthyPanels++
		}
	}

	if len(panels) > panelCountThreshold {
		health.GlobalIssues = append(health.GlobalIssues, model.HealthIssue{
			Severity:   model.SeverityWarning,
			Category:   model.CategoryPerformance,
			Message:    fmt.Sprintf("dashboard has %d panels", len(panels)),
			Suggestion: fmt.Sprintf("consider splitting dashboards with more than %d panels", panelCountThreshold),
		})
	}

	if opts.CheckIndices {
		for _, ref := range dash.References {
			if ref.Type != model.TypeIndexPattern {
				continue
			}
			_, err := a.client.GetObject(ctx, ref.Type, ref.ID, kibana.GetOptions{Space: opts.Space})
			if kibana.IsNotFound(err) {
				health.GlobalIssues = append(health.GlobalIssues, model.HealthIssue{
					Severity:   model.SeverityCritical,
					Category:   model.CategoryBrokenReference,
					Message:    fmt.Sprintf("index pattern %s does not exist", ref.ID),
					Details:    "reference " + ref.Name,
					Suggestion: "recreate the data view or repoint the dashboard",
				})
			}
		}
	}

	health.Score = healthScore(health.UnhealthyPanels, health.WarningPanels, len(health.GlobalIssues))
	health.OverallStatus = overallStatus(health)
	return health, nil
}

// checkPanel runs the per-panel checks. Each check appends at most one issue;
// a panel can accumulate several.
func (a *Analyzer) checkPanel(ctx context.Context, p panelDescriptor, refs []model.Reference, space string) model.PanelHealth {
	ph := model.PanelHealth{
		PanelID:   p.PanelIndex,
		PanelType: p.Type,
		Title:     p.Title,
		Issues:    []model.HealthIssue{},
	}

	ref, ok := findReference(refs, p.PanelRefName)
	if !ok {
		// Missing wiring: the layout names a slot no reference fills.
		ph.Issues = append(ph.Issues, model.HealthIssue{
			Severity:   model.SeverityError,
			Category:   model.CategoryBrokenReference,
			Message:    "panel has no matching reference entry",
			Details:    fmt.Sprintf("panelRefName %q", p.PanelRefName),
			Suggestion: "re-save the dashboard to rebuild its references",
		})
	} else if _, err := a.client.GetObject(ctx, ref.Type, ref.ID, kibana.GetOptions{Space: space}); err != nil {
		if kibana.IsNotFound(err) {
			// Dangling wiring: the reference points at a deleted object.
			ph.Issues = append(ph.Issues, model.HealthIssue{
				Severity:   model.SeverityCritical,
				Category:   model.CategoryBrokenReference,
				Message:    fmt.Sprintf("referenced object %s does not exist", ref.Key().String()),
				Suggestion: "remove the panel or restore the referenced object",
			})
		} else {
			ph.Issues = append(ph.Issues, model.HealthIssue{
				Severity: model.SeverityWarning,
				Category: model.CategoryDataQuality,
				Message:  fmt.Sprintf("could not verify referenced object %s", ref.Key().String()),
				Details:  err.Error(),
			})
		}
	}

	if p.GridData.W*p.GridData.H > panelAreaThreshold {
		ph.Issues = append(ph.Issues, model.HealthIssue{
			Severity:   model.SeverityWarning,
			Category:   model.CategoryPerformance,
			Message:    fmt.Sprintf("panel is very large (%dx%d grid units)", p.GridData.W, p.GridData.H),
			Suggestion: "large panels often aggregate too much data for a single tile",
		})
	}

	if p.Type == "" {
		ph.Issues = append(ph.Issues, model.HealthIssue{
			Severity: model.SeverityError,
			Category: model.CategoryConfiguration,
			Message:  "panel has no declared type",
		})
	}

	ph.Status = model.DeriveStatus(ph.Issues)
	return ph
}

func parsePanels(panelsJSON string) ([]panelDescriptor, error) {
	if panelsJSON == "" {
		return nil, nil
	}
	var panels []panelDescriptor
	if err := json.Unmarshal([]byte(panelsJSON), &panels); err != nil {
		return nil, err
	}
	return panels, nil
}

func findReference(refs []model.Reference, name string) (model.Reference, bool) {
	if name == "" {
		return model.Reference{}, false
	}
	for _, r := range refs {
		if r.Name == name {
			return r, true
		}
	}
	return model.Reference{}, false
}

// healthScore applies the linear penalty model. Fixed weights, no
// normalization by panel count; clamped to [0, 100].
func healthScore(unhealthyPanels, warningPanels, globalIssues int) int {
	score := 100 - 20*unhealthyPanels - 5*warningPanels - 10*globalIssues
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func overallStatus(h *model.DashboardHealth) model.HealthStatus {
	criticalGlobal := false
	for _, issue := range h.GlobalIssues {
		if issue.Severity == model.SeverityCritical {
			criticalGlobal = true
			break
		}
	}
	switch {
	case h.UnhealthyPanels > 0 || criticalGlobal:
		return model.StatusUnhealthy
	case h.WarningPanels > 0 || len(h.GlobalIssues) > 0:
		return model.StatusWarning
	default:
		return model.StatusHealthy
	}
}
