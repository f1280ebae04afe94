// Package format renders analysis results as Markdown. The renderers are
// stateless; table output for the terminal lives with the CLI instead.
package format

import (
	"fmt"
	"strings"

	"github.com/groblegark/soscope/internal/model"
)

// orphanDisplayLimit caps the orphan list in a rendered tree summary. The
// full list is always available in the JSON form.
const orphanDisplayLimit = 5

// Tree renders a dependency tree as Markdown: a fenced box-drawing tree
// followed by summary bullets. Nodes reached a second time are printed once
// more with a circular-reference marker and not descended into.
func Tree(tree *model.DependencyTree) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dependency tree: %s\n\n", nodeLabel(tree.Root))

	b.WriteString("```\n")
	b.WriteString(nodeLabel(tree.Root))
	b.WriteString("\n")
	seen := map[model.ObjectKey]bool{tree.Root.Key: true}
	writeChildren(&b, tree, tree.Root, "", seen)
	b.WriteString("```\n")

	fmt.Fprintf(&b, "\n**%d objects**, max depth %d\n", tree.Summary.TotalObjects, tree.Summary.MaxDepth)

	if len(tree.Summary.MostReferenced) > 0 {
		b.WriteString("\n## Most referenced\n\n")
		for _, n := range tree.Summary.MostReferenced {
			fmt.Fprintf(&b, "- %s (%d inbound)\n", nodeLabel(n), len(n.ReferencedBy))
		}
	}

	if len(tree.Summary.Orphans) > 0 {
		b.WriteString("\n## Orphans\n\n")
		orphans := tree.Summary.Orphans
		if len(orphans) > orphanDisplayLimit {
			orphans = orphans[:orphanDisplayLimit]
		}
		for _, n := range orphans {
			fmt.Fprintf(&b, "- %s\n", nodeLabel(n))
		}
		if rest := len(tree.Summary.Orphans) - len(orphans); rest > 0 {
			fmt.Fprintf(&b, "- ... and %d more\n", rest)
		}
	}

	return b.String()
}

func writeChildren(b *strings.Builder, tree *model.DependencyTree, node *model.DependencyNode, prefix string, seen map[model.ObjectKey]bool) {
	refs := node.References
	for i, ref := range refs {
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(refs)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		child := tree.Node(ref.Key())
		if child == nil {
			fmt.Fprintf(b, "%s%s%s (not expanded)\n", prefix, connector, ref.Key().String())
			continue
		}
		if seen[child.Key] {
			fmt.Fprintf(b, "%s%s%s (circular reference)\n", prefix, connector, nodeLabel(child))
			continue
		}
		seen[child.Key] = true

		fmt.Fprintf(b, "%s%s%s\n", prefix, connector, nodeLabel(child))
		writeChildren(b, tree, child, childPrefix, seen)
	}
}

func nodeLabel(n *model.DependencyNode) string {
	if n.Title == "" {
		return n.Key.String()
	}
	return fmt.Sprintf("%s %q", n.Key.String(), n.Title)
}

// Impact renders an impact analysis as Markdown.
func Impact(result *model.ImpactAnalysis) string {
	var b strings.Builder
	target := result.Target.String()
	if result.TargetTitle != "" {
		target = fmt.Sprintf("%s %q", target, result.TargetTitle)
	}
	fmt.Fprintf(&b, "# Impact analysis: %s\n\n", target)
	fmt.Fprintf(&b, "- **Risk**: %s\n", result.Risk)
	fmt.Fprintf(&b, "- **Direct dependencies**: %d\n", result.DirectDependencies)
	fmt.Fprintf(&b, "- **Indirect dependencies**: %d\n", result.IndirectDependencies)

	if len(result.AffectedDashboards) > 0 {
		b.WriteString("\n## Affected dashboards\n\n")
		b.WriteString("| ID | Title |\n|---|---|\n")
		for _, d := range result.AffectedDashboards {
			fmt.Fprintf(&b, "| %s | %s |\n", d.ID, d.Name)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", result.Recommendation)
	return b.String()
}

// Health renders a dashboard health report as Markdown.
func Health(h *model.DashboardHealth) string {
	var b strings.Builder
	title := h.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "# Dashboard health: %s %q\n\n", h.ID, title)
	fmt.Fprintf(&b, "- **Status**: %s\n", h.OverallStatus)
	fmt.Fprintf(&b, "- **Score**: %d/100\n", h.Score)
	fmt.Fprintf(&b, "- **Panels**: %d healthy, %d warning, %d unhealthy\n",
		h.HealthyPanels, h.WarningPanels, h.UnhealthyPanels)

	if len(h.GlobalIssues) > 0 {
		b.WriteString("\n## Dashboard issues\n\n")
		for _, issue := range h.GlobalIssues {
			writeIssue(&b, issue)
		}
	}

	for _, p := range h.Panels {
		if len(p.Issues) == 0 {
			continue
		}
		name := p.Title
		if name == "" {
			name = "panel " + p.PanelID
		}
		fmt.Fprintf(&b, "\n## %s (%s)\n\n", name, p.Status)
		for _, issue := range p.Issues {
			writeIssue(&b, issue)
		}
	}

	return b.String()
}

func writeIssue(b *strings.Builder, issue model.HealthIssue) {
	fmt.Fprintf(b, "- **[%s]** %s", issue.Severity, issue.Message)
	if issue.Details != "" {
		fmt.Fprintf(b, " (%s)", issue.Details)
	}
	b.WriteString("\n")
	if issue.Suggestion != "" {
		fmt.Fprintf(b, "  - hint: %s\n", issue.Suggestion)
	}
}

// Batch renders a batch health report as Markdown: a status table followed by
// the aggregate summary line.
func Batch(report *model.BatchHealthReport) string {
	var b strings.Builder
	space := report.Space
	if space == "" {
		space = "default"
	}
	fmt.Fprintf(&b, "# Dashboard health scan: space %q\n\n", space)

	if len(report.Dashboards) > 0 {
		b.WriteString("| ID | Status | Score | Critical | Title |\n|---|---|---|---|---|\n")
		for _, d := range report.Dashboards {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %s |\n",
				d.ID, d.OverallStatus, d.Score, d.CriticalIssues(), d.Title)
		}
		b.WriteString("\n")
	}

	s := report.Summary
	fmt.Fprintf(&b, "**%d dashboards**: %d healthy, %d warning, %d unhealthy (%d critical issues)\n",
		s.TotalDashboards, s.Healthy, s.Warning, s.Unhealthy, s.CriticalIssues)
	return b.String()
}
