package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/soscope/internal/analysis"
	"github.com/groblegark/soscope/internal/kibana"
	"github.com/groblegark/soscope/internal/ui"
)

var (
	kibanaURL  string
	apiKey     string
	space      string
	timeout        time.Duration
	jsonOutput     bool
	markdownOutput bool

	client   kibana.Client
	analyzer *analysis.Analyzer
	logger   *slog.Logger
)

func defaultKibanaURL() string {
	if s := os.Getenv("SOSCOPE_KIBANA_URL"); s != "" {
		return s
	}
	if s := activeRemoteURL(); s != "" {
		return s
	}
	return "http://localhost:5601"
}

func defaultAPIKey() string {
	if s := os.Getenv("SOSCOPE_API_KEY"); s != "" {
		return s
	}
	return activeRemoteAPIKey()
}

func defaultSpace() string {
	if s := os.Getenv("SOSCOPE_SPACE"); s != "" {
		return s
	}
	return activeRemoteSpace()
}

var rootCmd = &cobra.Command{
	Use:   "so",
	Short: "Dependency and health analysis for Kibana saved objects",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
		client = kibana.NewHTTPClient(kibanaURL, apiKey, timeout)
		analyzer = analysis.New(client, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			client.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&kibanaURL, "kibana-url", defaultKibanaURL(), "Kibana base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", defaultAPIKey(), "Kibana API key")
	rootCmd.PersistentFlags().StringVar(&space, "space", defaultSpace(), "Kibana space (empty = default space)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&markdownOutput, "markdown", false, "output as Markdown")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
