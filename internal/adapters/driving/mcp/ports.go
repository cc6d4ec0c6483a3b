package mcp

import (
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis runs page analyses.
	Analysis driving.AnalysisService

	// Suggestion generates fix suggestions. Optional.
	Suggestion driving.SuggestionService

	// Settings exposes the active thresholds. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
