package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui"
)

var tuiFormat string

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui <file>",
	Short: "Browse an analysis in the interactive terminal UI",
	Long: `Analyze a page and browse the checklist interactively.

The file is read again on every re-analysis, so it can be edited in
another window while the viewer is open.

Controls:
  ↑/k, ↓/j - Move through the checklist
  s, Enter - Generate a fix for the selected problem
  f        - Show problems only
  m, Tab   - Similarity matrix
  r        - Re-analyze
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiFormat, "format", "f", "", "input format (html, markdown)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if err := requireAnalysis(); err != nil {
		return err
	}
	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}

	ports := &tui.Ports{
		Analysis:   analysisService,
		Suggestion: suggestionService,
	}

	app, err := tui.NewApp(ports, tui.FileDocument(args[0], tuiFormat))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
