// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back returns to the report.
	Back key.Binding

	// Up navigates up in the checklist.
	Up key.Binding

	// Down navigates down in the checklist.
	Down key.Binding

	// Suggest asks the LLM for a fix for the selected item.
	Suggest key.Binding

	// Reanalyze reads the document again and re-runs the analysis.
	Reanalyze key.Binding

	// Matrix toggles the similarity matrix.
	Matrix key.Binding

	// ProblemsOnly hides passing checklist items.
	ProblemsOnly key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "suggest fix"),
		),
		Reanalyze: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-analyze"),
		),
		Matrix: key.NewBinding(
			key.WithKeys("m", "tab"),
			key.WithHelp("m", "matrix"),
		),
		ProblemsOnly: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "problems only"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// ReportHelp returns keybindings for the report view.
func (k *KeyMap) ReportHelp() []key.Binding {
	return []key.Binding{k.Suggest, k.Matrix, k.Reanalyze, k.Help, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.ProblemsOnly},
		{k.Suggest, k.Reanalyze, k.Matrix},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
