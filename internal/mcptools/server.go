package mcptools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/groblegark/soscope/internal/analysis"
)

// NewServer creates a fully configured MCP server with all analysis tools
// registered.
func NewServer(analyzer *analysis.Analyzer, space, version string) *mcp.Server {
	t := &AnalysisTools{Analyzer: analyzer, Space: space}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "soscope",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "dependency_tree",
		Description: "Build the forward dependency tree of a saved object (dashboard, visualization, lens, ...)",
	}, t.DependencyTree)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "impact_analysis",
		Description: "Find which dashboards would break if a saved object were deleted or changed, with a risk rating",
	}, t.ImpactAnalysis)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "dashboard_health",
		Description: "Check a dashboard for broken panel references, oversized panels, and configuration problems",
	}, t.DashboardHealth)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "batch_health",
		Description: "Scan the dashboards of a space and report aggregate health",
	}, t.BatchHealth)

	return srv
}
