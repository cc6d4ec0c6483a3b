// Package report provides the checklist report view for the TUI.
package report

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// listWidth is the width of the checklist column.
const listWidth = 44

// View shows the checklist of an analysis next to the selected item's detail.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	list        *list.ChecklistList
	label       string
	result      *domain.AnalysisResult
	suggestions map[string]domain.Suggestion
	pending     string
	canSuggest  bool
	err         error
	width       int
	height      int
}

// NewView creates a new report view. canSuggest enables the suggest key.
func NewView(s *styles.Styles, km *keymap.KeyMap, label string, canSuggest bool) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:      s,
		keymap:      km,
		list:        list.NewChecklistList(s),
		label:       label,
		suggestions: make(map[string]domain.Suggestion),
		canSuggest:  canSuggest,
		width:       80,
		height:      24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the report view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.AnalysisCompleted:
		v.err = msg.Err
		if msg.Err == nil {
			v.SetResult(msg.Result)
		}
		return v, nil

	case messages.SuggestionCompleted:
		if msg.Code == v.pending {
			v.pending = ""
		}
		if msg.Err != nil {
			v.suggestions[msg.Code] = domain.Suggestion{Code: msg.Code, Body: msg.Err.Error(), Failed: true}
			return v, nil
		}
		v.suggestions[msg.Code] = msg.Suggestion
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Matrix):
		if v.result == nil {
			return v, nil
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMatrix} }

	case keymap.Matches(k, v.keymap.Reanalyze):
		if v.pending != "" {
			return v, nil
		}
		return v, func() tea.Msg { return messages.AnalysisRequested{} }

	case keymap.Matches(k, v.keymap.ProblemsOnly):
		v.list.ToggleProblemsOnly()
		return v, nil

	case keymap.Matches(k, v.keymap.Suggest):
		item := v.list.SelectedItem()
		if !v.canSuggest || item == nil || !item.Status.IsProblem() || v.pending != "" {
			return v, nil
		}
		if _, done := v.suggestions[item.Code]; done {
			return v, nil
		}
		v.pending = item.Code
		code := item.Code
		return v, func() tea.Msg { return messages.SuggestionRequested{Code: code} }
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View renders the report.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Content Context Vector Analysis"))
	if v.label != "" {
		b.WriteString("  " + v.styles.Muted.Render(v.label))
	}
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString("\n" + v.styles.Error.Render("Analysis failed: "+v.err.Error()) + "\n")
		b.WriteString(v.styles.Muted.Render("Press r to retry."))
		return b.String()
	}
	if v.result == nil {
		b.WriteString("\n" + v.styles.Muted.Render("Analyzing..."))
		return b.String()
	}

	b.WriteString(v.renderSummary())
	b.WriteString("\n\n")

	bodyHeight := v.height - 5
	v.list.SetDimensions(listWidth, bodyHeight)
	left := lipgloss.NewStyle().Width(listWidth).Render(v.list.View())

	detailWidth := v.width - listWidth - 3
	if detailWidth < 20 {
		detailWidth = 20
	}
	right := v.styles.Panel.Width(detailWidth).Render(v.renderDetail(detailWidth - 2))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	return b.String()
}

func (v *View) renderSummary() string {
	r := v.result
	s := r.Structure
	score := v.styles.Score(r.OverallScore).Render(fmt.Sprintf("%.1f/100", r.OverallScore))
	counts := fmt.Sprintf("%d critical · %d failed · %d warnings",
		len(r.CriticalIssues()), len(r.Failures()), len(r.Warnings()))
	line := fmt.Sprintf("Score %s  %s  %s", score, v.styles.Muted.Render(counts),
		v.styles.Muted.Render(fmt.Sprintf("H1 %d · H2 %d · H3 %d", s.H1Count(), s.H2Count(), s.H3Count())))
	if issues := s.HeadingIssues(); len(issues) > 0 {
		line += "\n" + v.styles.Warning.Render("! "+strings.Join(issues, "; "))
	}
	return line
}

func (v *View) renderDetail(width int) string {
	item := v.list.SelectedItem()
	if item == nil {
		return ""
	}

	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(item.Code+" "+item.Name) + "\n")
	b.WriteString(v.styles.Status(item.Status).Render(item.Status.String()))
	b.WriteString(v.styles.Muted.Render("  " + item.Priority.String()))
	b.WriteString("\n\n")
	b.WriteString(wrap.Render(item.Description) + "\n")

	if item.Value != "" {
		b.WriteString("\nValue:  " + item.Value)
	}
	if item.Target != "" {
		b.WriteString("\nTarget: " + item.Target)
	}
	if item.Message != "" {
		b.WriteString("\n\n" + wrap.Render(v.styles.Warning.Render(item.Message)))
	}
	if item.Code == domain.CodeNoTopicDrift {
		b.WriteString(v.renderDrifts())
	}
	b.WriteString("\n")

	switch sug, ok := v.suggestions[item.Code]; {
	case v.pending == item.Code:
		b.WriteString("\n" + v.styles.Muted.Render("Generating suggestion..."))
	case ok && sug.Failed:
		b.WriteString("\n" + wrap.Render(v.styles.Error.Render(sug.Body)))
	case ok:
		b.WriteString("\n" + v.styles.Subtitle.Render("Suggestion") + "\n")
		b.WriteString(wrap.Render(sug.Body))
	case item.Status.IsProblem() && v.canSuggest:
		b.WriteString("\n" + v.styles.Help.Render("Press s for a fix suggestion."))
	}
	return b.String()
}

func (v *View) renderDrifts() string {
	if len(v.result.TopicDrifts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, d := range v.result.TopicDrifts {
		b.WriteString(fmt.Sprintf("\n  %s %s",
			styles.Similarity(d.Score).Render(fmt.Sprintf("%.2f", d.Score)),
			v.result.Structure.DisplayName(d.Element)))
	}
	return b.String()
}

// SetResult shows a new analysis. Suggestions of the previous run are dropped.
func (v *View) SetResult(r *domain.AnalysisResult) {
	v.result = r
	v.err = nil
	v.pending = ""
	v.suggestions = make(map[string]domain.Suggestion)
	if r != nil {
		v.list.SetItems(r.ChecklistResults)
	}
}

// Result returns the current analysis result.
func (v *View) Result() *domain.AnalysisResult {
	return v.result
}

// Suggestion returns the suggestion generated for code.
func (v *View) Suggestion(code string) (domain.Suggestion, bool) {
	s, ok := v.suggestions[code]
	return s, ok
}

// Pending returns the code whose suggestion is being generated.
func (v *View) Pending() string {
	return v.pending
}

// SelectedItem returns the selected checklist item.
func (v *View) SelectedItem() *domain.ChecklistItem {
	return v.list.SelectedItem()
}

// List returns the checklist component.
func (v *View) List() *list.ChecklistList {
	return v.list
}

// Err returns the last analysis error.
func (v *View) Err() error {
	return v.err
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
