package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/groblegark/soscope/internal/analysis"
	"github.com/groblegark/soscope/internal/config"
	"github.com/groblegark/soscope/internal/kibana"
	"github.com/groblegark/soscope/internal/mcptools"
)

const version = "0.1.0"

func main() {
	transport := flag.String("transport", "stdio", "Transport mode: stdio or http")
	port := flag.String("port", "8081", "HTTP port (only used with --transport http)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	client := kibana.NewHTTPClient(cfg.KibanaURL, cfg.APIKey, cfg.HTTPTimeout)
	defer client.Close()

	analyzer := analysis.New(client, logger)
	srv := mcptools.NewServer(analyzer, cfg.Space, version)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch *transport {
	case "stdio":
		logger.Info("soscope MCP server starting", "transport", "stdio")
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case "http":
		addr := ":" + *port
		handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return srv
		}, nil)
		logger.Info("soscope MCP server listening", "addr", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("unknown transport, use stdio or http", "transport", *transport)
		os.Exit(1)
	}
}
