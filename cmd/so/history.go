package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groblegark/soscope/internal/format"
	"github.com/groblegark/soscope/internal/model"
	"github.com/groblegark/soscope/internal/store"
	"github.com/groblegark/soscope/internal/store/postgres"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved scans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		allSpaces, _ := cmd.Flags().GetBool("all-spaces")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		filter := space
		if allSpaces {
			filter = ""
		}
		recs, err := st.ListScans(cmd.Context(), filter, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(recs)
			return nil
		}

		if len(recs) == 0 {
			fmt.Println("no scans recorded")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tSPACE\tDASHBOARDS\tHEALTHY\tWARNING\tUNHEALTHY\tCRITICAL")
		for _, rec := range recs {
			spaceName := rec.Space
			if spaceName == "" {
				spaceName = "default"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
				rec.ID,
				rec.CreatedAt.Format("2006-01-02 15:04"),
				spaceName,
				rec.TotalDashboards,
				rec.Healthy,
				rec.Warning,
				rec.Unhealthy,
				rec.CriticalIssues,
			)
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <scan-id>",
	Short: "Show a saved scan, including the full report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.GetScan(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(rec)
			return nil
		}

		var report model.BatchHealthReport
		if err := json.Unmarshal(rec.Report, &report); err != nil {
			return fmt.Errorf("decoding stored report: %w", err)
		}
		if markdownOutput {
			fmt.Print(format.Batch(&report))
			return nil
		}
		fmt.Printf("Scan %s (%s)\n\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"))
		printBatch(&report)
		return nil
	},
}

func openStore() (store.Store, error) {
	databaseURL := os.Getenv("SOSCOPE_DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("history requires SOSCOPE_DATABASE_URL")
	}
	return postgres.New(databaseURL)
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of scans to list")
	historyCmd.Flags().Bool("all-spaces", false, "list scans from every space")

	historyCmd.AddCommand(historyShowCmd)
}
