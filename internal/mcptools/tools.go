// Package mcptools exposes the analysis engine as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/groblegark/soscope/internal/analysis"
	"github.com/groblegark/soscope/internal/format"
	"github.com/groblegark/soscope/internal/model"
)

// AnalysisTools holds references needed by the analysis tool handlers.
type AnalysisTools struct {
	Analyzer *analysis.Analyzer

	// Space is the default Kibana space; an input space overrides it.
	Space string
}

// --- Input types ---

type DependencyTreeInput struct {
	Type     string `json:"type" jsonschema:"Saved object type, e.g. dashboard or visualization"`
	ID       string `json:"id" jsonschema:"Saved object id"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"Maximum traversal depth (default 5)"`
	Space    string `json:"space,omitempty" jsonschema:"Kibana space (empty = default space)"`
	Format   string `json:"format,omitempty" jsonschema:"Output format: json (default) or markdown"`
}

type ImpactAnalysisInput struct {
	Type   string `json:"type" jsonschema:"Saved object type of the target"`
	ID     string `json:"id" jsonschema:"Saved object id of the target"`
	Space  string `json:"space,omitempty" jsonschema:"Kibana space (empty = default space)"`
	Format string `json:"format,omitempty" jsonschema:"Output format: json (default) or markdown"`
}

type DashboardHealthInput struct {
	ID           string `json:"id" jsonschema:"Dashboard id"`
	CheckIndices bool   `json:"check_indices,omitempty" jsonschema:"Also verify that referenced index patterns exist"`
	Space        string `json:"space,omitempty" jsonschema:"Kibana space (empty = default space)"`
	Format       string `json:"format,omitempty" jsonschema:"Output format: json (default) or markdown"`
}

type BatchHealthInput struct {
	MaxDashboards int    `json:"max_dashboards,omitempty" jsonschema:"Maximum number of dashboards to scan (default 50)"`
	Space         string `json:"space,omitempty" jsonschema:"Kibana space (empty = default space)"`
	Format        string `json:"format,omitempty" jsonschema:"Output format: json (default) or markdown"`
}

// --- Handlers ---

func (t *AnalysisTools) DependencyTree(ctx context.Context, _ *mcp.CallToolRequest, input DependencyTreeInput) (*mcp.CallToolResult, any, error) {
	key := model.ObjectKey{Type: model.ObjectType(input.Type), ID: input.ID}
	if !key.IsValid() {
		return toolError("type and id are required"), nil, nil
	}

	depth := input.MaxDepth
	if depth == 0 {
		depth = analysis.DefaultMaxDepth
	}
	tree, err := t.Analyzer.BuildDependencyTree(ctx, key, analysis.TreeOptions{
		Space:    t.space(input.Space),
		MaxDepth: depth,
	})
	if err != nil {
		return toolError("Failed to build dependency tree: %v", err), nil, nil
	}

	if input.Format == "markdown" {
		return toolText(format.Tree(tree))
	}
	return toolJSON(tree)
}

func (t *AnalysisTools) ImpactAnalysis(ctx context.Context, _ *mcp.CallToolRequest, input ImpactAnalysisInput) (*mcp.CallToolResult, any, error) {
	key := model.ObjectKey{Type: model.ObjectType(input.Type), ID: input.ID}
	if !key.IsValid() {
		return toolError("type and id are required"), nil, nil
	}

	result, err := t.Analyzer.AnalyzeImpact(ctx, key, t.space(input.Space))
	if err != nil {
		return toolError("Failed to analyze impact: %v", err), nil, nil
	}

	if input.Format == "markdown" {
		return toolText(format.Impact(result))
	}
	return toolJSON(result)
}

func (t *AnalysisTools) DashboardHealth(ctx context.Context, _ *mcp.CallToolRequest, input DashboardHealthInput) (*mcp.CallToolResult, any, error) {
	if input.ID == "" {
		return toolError("dashboard id is required"), nil, nil
	}

	health, err := t.Analyzer.AnalyzeDashboardHealth(ctx, input.ID, analysis.HealthOptions{
		Space:        t.space(input.Space),
		CheckIndices: input.CheckIndices,
	})
	if err != nil {
		return toolError("Failed to analyze dashboard: %v", err), nil, nil
	}

	if input.Format == "markdown" {
		return toolText(format.Health(health))
	}
	return toolJSON(health)
}

func (t *AnalysisTools) BatchHealth(ctx context.Context, _ *mcp.CallToolRequest, input BatchHealthInput) (*mcp.CallToolResult, any, error) {
	report, err := t.Analyzer.BatchAnalyzeDashboards(ctx, analysis.BatchOptions{
		Space:         t.space(input.Space),
		MaxDashboards: input.MaxDashboards,
	})
	if err != nil {
		return toolError("Failed to scan dashboards: %v", err), nil, nil
	}

	if input.Format == "markdown" {
		return toolText(format.Batch(report))
	}
	return toolJSON(report)
}

func (t *AnalysisTools) space(override string) string {
	if override != "" {
		return override
	}
	return t.Space
}

// --- Helpers ---

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolText(s string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: s}},
	}, nil, nil
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
