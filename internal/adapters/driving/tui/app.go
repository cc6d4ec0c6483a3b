package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/views/matrix"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/views/report"
	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// doc is the page being analysed.
	doc Document

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	reportView *report.View
	matrixView *matrix.View
	statusBar  *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help is closed.
	previousView messages.ViewType

	// analyzing is true while an analysis is in flight.
	analyzing bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application showing doc.
func NewApp(ports *Ports, doc Document) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingAnalysisService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if doc.Read == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingDocument)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		doc:         doc,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		reportView:  report.NewView(s, km, doc.Label, ports.Suggestion != nil),
		matrixView:  matrix.NewView(s, km),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewReport,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model. It sets the window title and starts the
// first analysis.
func (a *App) Init() tea.Cmd {
	title := "ccv"
	if a.doc.Label != "" {
		title += " - " + a.doc.Label
	}
	return tea.Batch(
		tea.SetWindowTitle(title),
		a.startAnalysis(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnalysisRequested:
		return a, a.startAnalysis()

	case messages.AnalysisCompleted:
		a.analyzing = false
		a.err = msg.Err
		a.reportView, cmd = a.reportView.Update(msg)
		if msg.Err != nil {
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, cmd
		}
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage("")
		a.statusBar.SetScore(msg.Result.OverallScore)
		a.matrixView.SetMatrix(msg.Result.Structure, a.ports.Analysis.Matrix(msg.Result))
		return a, cmd

	case messages.SuggestionRequested:
		a.statusBar.SetState(status.StateSuggesting)
		a.statusBar.SetMessage(msg.Code)
		return a, a.suggest(msg.Code)

	case messages.SuggestionCompleted:
		a.reportView, cmd = a.reportView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage("")
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	k := msg.String()

	if k == "ctrl+c" {
		return a, tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		if keymap.Matches(k, a.keymap.Back) || keymap.Matches(k, a.keymap.Help) {
			a.currentView = a.previousView
			a.statusBar.SetState(status.StateReady)
			return a, nil
		}
		if keymap.Matches(k, a.keymap.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(k, a.keymap.Help):
		a.previousView = a.currentView
		a.currentView = messages.ViewHelp
		return a, nil
	}

	switch a.currentView {
	case messages.ViewMatrix:
		a.matrixView, cmd = a.matrixView.Update(msg)
	case messages.ViewReport:
		if a.analyzing && keymap.Matches(k, a.keymap.Reanalyze) {
			return a, nil
		}
		a.reportView, cmd = a.reportView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// startAnalysis reads the document and analyses it in the background.
func (a *App) startAnalysis() tea.Cmd {
	a.analyzing = true
	a.statusBar.SetState(status.StateAnalyzing)

	ctx := a.ctx
	svc := a.ports.Analysis
	doc := a.doc
	return func() tea.Msg {
		raw, err := doc.Read()
		if err != nil {
			return messages.AnalysisCompleted{Err: fmt.Errorf("reading %s: %w", doc.Label, err)}
		}
		res, err := svc.Analyze(ctx, raw, doc.Hint)
		return messages.AnalysisCompleted{Result: res, Err: err}
	}
}

// suggest generates a fix for code against the current result.
func (a *App) suggest(code string) tea.Cmd {
	result := a.reportView.Result()
	if a.ports.Suggestion == nil || result == nil {
		return func() tea.Msg {
			return messages.SuggestionCompleted{Code: code, Err: domain.ErrLLMUnavailable}
		}
	}

	ctx := a.ctx
	svc := a.ports.Suggestion
	return func() tea.Msg {
		sug, err := svc.Suggest(ctx, result, code)
		return messages.SuggestionCompleted{Code: code, Suggestion: sug, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewMatrix:
		body = a.matrixView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.reportView.View()
	}
	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Result returns the current analysis result.
func (a *App) Result() *domain.AnalysisResult {
	return a.reportView.Result()
}

// Analyzing reports whether an analysis is in flight.
func (a *App) Analyzing() bool {
	return a.analyzing
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.reportView.SetDimensions(width, height-1)
	a.matrixView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
