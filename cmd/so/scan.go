package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/soscope/internal/analysis"
	"github.com/groblegark/soscope/internal/events"
	"github.com/groblegark/soscope/internal/export"
	"github.com/groblegark/soscope/internal/format"
	"github.com/groblegark/soscope/internal/idgen"
	"github.com/groblegark/soscope/internal/model"
	"github.com/groblegark/soscope/internal/store/postgres"
	"github.com/groblegark/soscope/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the dashboards of a space for health issues",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		maxDashboards, _ := cmd.Flags().GetInt("max")
		save, _ := cmd.Flags().GetBool("save")
		s3Export, _ := cmd.Flags().GetBool("export")
		s3Bucket, _ := cmd.Flags().GetString("s3-bucket")
		if s3Bucket != "" {
			s3Export = true
		}

		ctx := cmd.Context()
		pub := newPublisher()
		defer pub.Close()

		publish(ctx, pub, events.TopicScanStarted, events.ScanStarted{
			Space:         space,
			MaxDashboards: maxDashboards,
		})

		report, err := analyzer.BatchAnalyzeDashboards(ctx, analysis.BatchOptions{
			Space:         space,
			MaxDashboards: maxDashboards,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		for _, d := range report.Dashboards {
			if d.OverallStatus != model.StatusUnhealthy {
				continue
			}
			publish(ctx, pub, events.TopicDashboardUnhealthy, events.DashboardUnhealthy{
				DashboardID: d.ID,
				Title:       d.Title,
				Space:       space,
				Score:       d.Score,
				Status:      d.OverallStatus,
			})
		}

		rec, err := newScanRecord(report)
		if err != nil {
			return err
		}

		if save {
			if err := saveScan(ctx, rec); err != nil {
				return err
			}
		}
		if s3Export {
			if err := exportScan(ctx, rec, s3Bucket); err != nil {
				return err
			}
		}

		publish(ctx, pub, events.TopicScanCompleted, events.ScanCompleted{
			ScanID:  rec.ID,
			Space:   space,
			Summary: report.Summary,
		})

		if jsonOutput {
			printJSON(report)
			return nil
		}
		if markdownOutput {
			fmt.Print(format.Batch(report))
			return nil
		}

		printBatch(report)
		if save {
			fmt.Printf("\nsaved as %s\n", rec.ID)
		}
		return nil
	},
}

// newPublisher connects to NATS when a URL is configured, otherwise events
// are dropped.
func newPublisher() events.Publisher {
	url := os.Getenv("SOSCOPE_NATS_URL")
	if url == "" {
		url = activeRemoteNATSURL()
	}
	if url == "" {
		return &events.NoopPublisher{}
	}
	pub, err := events.NewNATSPublisher(url)
	if err != nil {
		logger.Warn("NATS unavailable, events disabled", "url", url, "error", err)
		return &events.NoopPublisher{}
	}
	return pub
}

// publish emits an event on a best-effort basis; a scan never fails because
// the event bus is down.
func publish(ctx context.Context, pub events.Publisher, topic string, event any) {
	if err := pub.Publish(ctx, topic, event); err != nil {
		logger.Warn("publishing event failed", "topic", topic, "error", err)
	}
}

func newScanRecord(report *model.BatchHealthReport) (*model.ScanRecord, error) {
	id, err := idgen.Generate()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return &model.ScanRecord{
		ID:              id,
		Space:           report.Space,
		CreatedAt:       time.Now().UTC(),
		TotalDashboards: report.Summary.TotalDashboards,
		Healthy:         report.Summary.Healthy,
		Warning:         report.Summary.Warning,
		Unhealthy:       report.Summary.Unhealthy,
		CriticalIssues:  report.Summary.CriticalIssues,
		Report:          payload,
	}, nil
}

func saveScan(ctx context.Context, rec *model.ScanRecord) error {
	databaseURL := os.Getenv("SOSCOPE_DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("--save requires SOSCOPE_DATABASE_URL")
	}
	st, err := postgres.New(databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.SaveScan(ctx, rec)
}

func exportScan(ctx context.Context, rec *model.ScanRecord, bucket string) error {
	if bucket == "" {
		bucket = os.Getenv("SOSCOPE_EXPORT_S3_BUCKET")
	}
	if bucket == "" {
		return fmt.Errorf("--export requires --s3-bucket or SOSCOPE_EXPORT_S3_BUCKET")
	}
	prefix := envOrDefault("SOSCOPE_EXPORT_S3_PREFIX", "soscope/scans")
	region := envOrDefault("SOSCOPE_EXPORT_S3_REGION", "us-east-1")
	endpoint := os.Getenv("SOSCOPE_EXPORT_S3_ENDPOINT")

	dest, err := export.NewS3Destination(ctx, bucket, prefix, region, endpoint)
	if err != nil {
		return err
	}
	return export.WriteScan(ctx, dest, rec)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printBatch(report *model.BatchHealthReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSCORE\tCRITICAL\tTITLE")
	for _, d := range report.Dashboards {
		title := d.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			d.ID,
			ui.RenderStatus(d.OverallStatus),
			d.Score,
			d.CriticalIssues(),
			title,
		)
	}
	w.Flush()

	s := report.Summary
	fmt.Printf("\n%d dashboards: %d healthy, %d warning, %d unhealthy (%d critical issues)\n",
		s.TotalDashboards, s.Healthy, s.Warning, s.Unhealthy, s.CriticalIssues)
}

func init() {
	scanCmd.Flags().Int("max", analysis.DefaultMaxDashboards, "maximum number of dashboards to scan")
	scanCmd.Flags().Bool("save", false, "persist the scan to the history database")
	scanCmd.Flags().Bool("export", false, "upload the scan report to S3")
	scanCmd.Flags().String("s3-bucket", "", "S3 bucket for the report (implies --export)")
}
