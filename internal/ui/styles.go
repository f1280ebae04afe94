package ui

import (
	"fmt"

	"github.com/groblegark/soscope/internal/model"
)

// ANSI256 color codes.
const (
	colorHealthy  = 70  // green
	colorWarning  = 178 // yellow
	colorCritical = 160 // red
	colorAccent   = 74  // blue
	colorMuted    = 245 // medium gray
)

var noColor bool

func colored(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderStatus returns the health status colored green, yellow, or red.
func RenderStatus(s model.HealthStatus) string {
	switch s {
	case model.StatusHealthy:
		return colored(colorHealthy, string(s))
	case model.StatusWarning:
		return colored(colorWarning, string(s))
	case model.StatusUnhealthy:
		return colored(colorCritical, string(s))
	}
	return string(s)
}

// RenderRisk returns the risk level colored by severity.
func RenderRisk(r model.RiskLevel) string {
	switch r {
	case model.RiskLow:
		return colored(colorHealthy, string(r))
	case model.RiskMedium:
		return colored(colorWarning, string(r))
	case model.RiskHigh, model.RiskCritical:
		return colored(colorCritical, string(r))
	}
	return string(r)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return colored(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return colored(colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
