// Package tui provides an interactive terminal report viewer for ccv.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"os"

	"github.com/custodia-labs/ccv-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis runs page analyses.
	Analysis driving.AnalysisService

	// Suggestion generates fix suggestions. Optional; without it the
	// suggest key is disabled.
	Suggestion driving.SuggestionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}

// Document is the page shown in the viewer. Read is called for every
// (re-)analysis so edits on disk are picked up.
type Document struct {
	// Label is shown in the header, usually the file path.
	Label string

	// Hint selects the parser: a format name, MIME type or file path.
	Hint string

	// Read returns the current page bytes.
	Read func() ([]byte, error)
}

// FileDocument returns a Document that reads path from disk.
func FileDocument(path, format string) Document {
	hint := format
	if hint == "" {
		hint = path
	}
	return Document{
		Label: path,
		Hint:  hint,
		Read:  func() ([]byte, error) { return os.ReadFile(path) },
	}
}
