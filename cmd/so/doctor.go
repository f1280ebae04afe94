package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/soscope/internal/analysis"
	"github.com/groblegark/soscope/internal/format"
	"github.com/groblegark/soscope/internal/model"
	"github.com/groblegark/soscope/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor <dashboard-id>",
	Aliases: []string{"health"},
	Short:   "Check the structural health of a dashboard",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		checkIndices, _ := cmd.Flags().GetBool("check-indices")

		health, err := analyzer.AnalyzeDashboardHealth(cmd.Context(), args[0], analysis.HealthOptions{
			Space:        space,
			CheckIndices: checkIndices,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(health)
			return nil
		}
		if markdownOutput {
			fmt.Print(format.Health(health))
			return nil
		}

		printHealth(health)
		return nil
	},
}

func printHealth(h *model.DashboardHealth) {
	title := h.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Printf("Dashboard:  %s %q\n", h.ID, title)
	fmt.Printf("Status:     %s\n", ui.RenderStatus(h.OverallStatus))
	fmt.Printf("Score:      %d/100\n", h.Score)
	fmt.Printf("Panels:     %d healthy, %d warning, %d unhealthy\n",
		h.HealthyPanels, h.WarningPanels, h.UnhealthyPanels)

	if len(h.GlobalIssues) > 0 {
		fmt.Println("\nDashboard issues:")
		for _, issue := range h.GlobalIssues {
			printIssue("  ", issue)
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
		fmt.Printf("\n%s [%s]:\n", name, ui.RenderStatus(p.Status))
		for _, issue := range p.Issues {
			printIssue("  ", issue)
		}
	}
}

func printIssue(indent string, issue model.HealthIssue) {
	fmt.Printf("%s[%s] %s\n", indent, issue.Severity, issue.Message)
	if issue.Details != "" {
		fmt.Printf("%s  %s\n", indent, ui.RenderMuted(issue.Details))
	}
	if issue.Suggestion != "" {
		fmt.Printf("%s  %s\n", indent, ui.RenderMuted("hint: "+issue.Suggestion))
	}
}

func init() {
	doctorCmd.Flags().Bool("check-indices", false, "also verify that referenced index patterns exist")
}
