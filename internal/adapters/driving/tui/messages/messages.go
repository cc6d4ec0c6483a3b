// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// AnalysisRequested asks the app to (re-)analyse the document.
type AnalysisRequested struct{}

// AnalysisCompleted carries an analysis result back to the model.
type AnalysisCompleted struct {
	Result *domain.AnalysisResult
	Err    error
}

// SuggestionRequested asks for a fix suggestion for one checklist item.
type SuggestionRequested struct {
	Code string
}

// SuggestionCompleted carries a generated suggestion back to the model.
type SuggestionCompleted struct {
	Code       string
	Suggestion domain.Suggestion
	Err        error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred is sent when an error occurs outside a request flow.
type ErrorOccurred struct {
	Err error
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewReport is the checklist and detail view.
	ViewReport ViewType = iota
	// ViewMatrix is the similarity heatmap.
	ViewMatrix
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewReport:
		return "report"
	case ViewMatrix:
		return "matrix"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
