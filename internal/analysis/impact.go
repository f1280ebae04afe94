package analysis

import (
	"context"
	"fmt"

	"github.com/groblegark/soscope/internal/kibana"
	"github.com/groblegark/soscope/internal/model"
)

// impactPerPage is the page size for reverse-dependency lookups. Dependent
// counts beyond this are still reflected via the server-side total.
const impactPerPage = 1000

// AnalyzeImpact computes what would break if the target object were deleted
// or modified. Unlike the graph builder, this is all-or-nothing: a failed
// target fetch or reverse lookup fails the whole call, since a partial answer
// to "what depends on this?" is worse than none.
func (a *Analyzer) AnalyzeImpact(ctx context.Context, target model.ObjectKey, space string) (*model.ImpactAnalysis, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("invalid target object %q", target.String())
	}

	obj, err := a.client.GetObject(ctx, target.Type, target.ID, kibana.GetOptions{Space: space})
	if err != nil {
		return nil, fmt.Errorf("fetching target %s: %w", target.String(), err)
	}

	direct, err := a.client.FindObjects(ctx, &kibana.FindRequest{
		Types:        model.ConsumerTypes,
		HasReference: &kibana.HasReference{Type: target.Type, ID: target.ID},
		PerPage:      impactPerPage,
		Space:        space,
	})
	if err != nil {
		return nil, fmt.Errorf("finding dependents of %s: %w", target.String(), err)
	}

	result := &model.ImpactAnalysis{
		Target:             target,
		TargetTitle:        obj.Title(),
		DirectDependencies: len(direct.SavedObjects),
		AffectedDashboards: []model.Reference{},
	}

	for _, dep := range direct.SavedObjects {
		if dep.Type == model.TypeDashboard {
			result.AffectedDashboards = append(result.AffectedDashboards, model.Reference{
				ID:   dep.ID,
				Type: dep.Type,
				Name: dep.Title(),
			})
			continue
		}

		// One more hop: dashboards reached through this non-dashboard
		// dependent. Deeper chains are not traced.
		indirect, err := a.client.FindObjects(ctx, &kibana.FindRequest{
			Types:        []model.ObjectType{model.TypeDashboard},
			HasReference: &kibana.HasReference{Type: dep.Type, ID: dep.ID},
			PerPage:      impactPerPage,
			Space:        space,
		})
		if err != nil {
			return nil, fmt.Errorf("finding dashboards referencing %s: %w", dep.Key().String(), err)
		}
		result.IndirectDependencies += indirect.Total
	}

	result.Risk = model.ClassifyRisk(len(result.AffectedDashboards))
	result.Recommendation = result.Risk.Recommendation()
	return result, nil
}
