// Package analysis implements the saved-object dependency and health engine:
// forward-reference graph construction, reverse-dependency impact analysis,
// dashboard panel health checks, and space-wide batch scanning.
//
// The engine is read-only and stateless across calls: every invocation
// allocates its own visited sets and node maps, issues at most one outstanding
// request to the saved-objects API at a time, and performs no retries.
package analysis

import (
	"log/slog"

	"github.com/groblegark/soscope/internal/kibana"
)

// Analyzer runs analyses against a saved-objects client.
type Analyzer struct {
	client kibana.Client
	logger *slog.Logger
}

// New creates an Analyzer. A nil logger falls back to slog.Default.
func New(client kibana.Client, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{client: client, logger: logger}
}
