package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groblegark/soscope/internal/events"
	"github.com/groblegark/soscope/internal/format"
	"github.com/groblegark/soscope/internal/model"
	"github.com/groblegark/soscope/internal/ui"
)

var impactCmd = &cobra.Command{
	Use:   "impact <type>/<id>",
	Short: "Analyze the blast radius of deleting or changing a saved object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := model.ParseKey(args[0])
		if err != nil {
			return err
		}

		result, err := analyzer.AnalyzeImpact(cmd.Context(), target, space)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		pub := newPublisher()
		defer pub.Close()
		publish(cmd.Context(), pub, events.TopicImpactAnalyzed, events.ImpactAnalyzed{
			Target:             result.Target.String(),
			Risk:               result.Risk,
			AffectedDashboards: len(result.AffectedDashboards),
		})

		if jsonOutput {
			printJSON(result)
			return nil
		}
		if markdownOutput {
			fmt.Print(format.Impact(result))
			return nil
		}

		printImpact(result)
		return nil
	},
}

func printImpact(result *model.ImpactAnalysis) {
	fmt.Printf("Target:       %s", result.Target.String())
	if result.TargetTitle != "" {
		fmt.Printf(" %q", result.TargetTitle)
	}
	fmt.Println()
	fmt.Printf("Risk:         %s\n", ui.RenderRisk(result.Risk))
	fmt.Printf("Direct:       %d\n", result.DirectDependencies)
	fmt.Printf("Indirect:     %d\n", result.IndirectDependencies)

	if len(result.AffectedDashboards) > 0 {
		fmt.Println("\nAffected dashboards:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tTITLE")
		for _, d := range result.AffectedDashboards {
			fmt.Fprintf(w, "  %s\t%s\n", d.ID, d.Name)
		}
		w.Flush()
	}

	fmt.Printf("\n%s\n", result.Recommendation)
}
