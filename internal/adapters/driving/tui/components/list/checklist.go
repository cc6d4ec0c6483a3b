// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// ChecklistList displays checklist items in a navigable list.
type ChecklistList struct {
	all          []domain.ChecklistItem
	items        []domain.ChecklistItem
	problemsOnly bool
	selected     int
	styles       *styles.Styles
	width        int
	height       int
}

// NewChecklistList creates a new checklist component.
func NewChecklistList(s *styles.Styles) *ChecklistList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ChecklistList{
		styles: s,
		width:  40,
		height: 10,
	}
}

// Init initialises the list.
func (l *ChecklistList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *ChecklistList) Update(msg tea.Msg) (*ChecklistList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.items) > 0 {
				l.selected = len(l.items) - 1
			}
		}
	}
	return l, nil
}

// View renders the checklist.
func (l *ChecklistList) View() string {
	if len(l.items) == 0 {
		if l.problemsOnly && len(l.all) > 0 {
			return l.styles.Success.Render("All checks pass")
		}
		return l.styles.Muted.Render("No checklist items")
	}

	header := fmt.Sprintf("Checklist (%d)", len(l.items))
	if l.problemsOnly {
		header = fmt.Sprintf("Problems (%d of %d)", len(l.items), len(l.all))
	}
	lines := make([]string, 0, len(l.items)+2)
	lines = append(lines, l.styles.Subtitle.Render(header), "")

	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.items) {
		end = len(l.items)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i, l.items[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *ChecklistList) renderItem(index int, item domain.ChecklistItem) string {
	mark := statusMark(item.Status)
	name := item.Name
	maxName := l.width - 12
	if maxName < 8 {
		maxName = 8
	}
	if r := []rune(name); len(r) > maxName {
		name = string(r[:maxName-3]) + "..."
	}

	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("> %s %s %-*s", mark, item.Code, maxName, name))
	}
	return "  " + l.styles.Status(item.Status).Render(mark) + " " +
		l.styles.Muted.Render(item.Code) + " " + l.styles.Normal.Render(name)
}

func statusMark(s domain.CheckStatus) string {
	switch s {
	case domain.StatusPass:
		return "✓"
	case domain.StatusWarning:
		return "!"
	default:
		return "✗"
	}
}

// SetItems replaces the checklist, keeping the selection on the same code
// when it is still shown.
func (l *ChecklistList) SetItems(items []domain.ChecklistItem) {
	code := ""
	if cur := l.SelectedItem(); cur != nil {
		code = cur.Code
	}
	l.all = items
	l.refilter(code)
}

// ToggleProblemsOnly hides or shows passing items.
func (l *ChecklistList) ToggleProblemsOnly() {
	code := ""
	if cur := l.SelectedItem(); cur != nil {
		code = cur.Code
	}
	l.problemsOnly = !l.problemsOnly
	l.refilter(code)
}

// ProblemsOnly reports whether passing items are hidden.
func (l *ChecklistList) ProblemsOnly() bool {
	return l.problemsOnly
}

func (l *ChecklistList) refilter(keepCode string) {
	l.items = l.items[:0:0]
	for _, item := range l.all {
		if l.problemsOnly && !item.Status.IsProblem() {
			continue
		}
		l.items = append(l.items, item)
	}
	l.selected = 0
	for i, item := range l.items {
		if item.Code == keepCode {
			l.selected = i
			break
		}
	}
}

// Items returns the visible items.
func (l *ChecklistList) Items() []domain.ChecklistItem {
	return l.items
}

// Selected returns the index of the selected item.
func (l *ChecklistList) Selected() int {
	return l.selected
}

// SelectedItem returns the currently selected item, or nil if none.
func (l *ChecklistList) SelectedItem() *domain.ChecklistItem {
	if len(l.items) == 0 || l.selected < 0 || l.selected >= len(l.items) {
		return nil
	}
	return &l.items[l.selected]
}

// MoveUp moves selection up.
func (l *ChecklistList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *ChecklistList) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *ChecklistList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of visible items.
func (l *ChecklistList) Count() int {
	return len(l.items)
}
