package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

func sampleItems() []domain.ChecklistItem {
	return []domain.ChecklistItem{
		{Code: "CV-001", Name: "Title has content", Status: domain.StatusPass},
		{Code: "CV-002", Name: "Title length", Status: domain.StatusFail},
		{Code: "CV-003", Name: "Title is unique", Status: domain.StatusPass},
		{Code: "CV-006", Name: "Meta length", Status: domain.StatusWarning},
	}
}

func TestNewChecklistList(t *testing.T) {
	l := NewChecklistList(nil)

	require.NotNil(t, l)
	assert.Nil(t, l.Init())
	assert.Zero(t, l.Count())
	assert.Nil(t, l.SelectedItem())
}

func TestChecklistList_Navigation(t *testing.T) {
	l := NewChecklistList(nil)
	l.SetItems(sampleItems())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, "CV-003", l.SelectedItem().Code)

	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 3, l.Selected())
}

func TestChecklistList_UpdateKeys(t *testing.T) {
	l := NewChecklistList(nil)
	l.SetItems(sampleItems())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.Equal(t, 3, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 2, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Equal(t, 0, l.Selected())
}

func TestChecklistList_ProblemsOnly(t *testing.T) {
	l := NewChecklistList(nil)
	l.SetItems(sampleItems())
	l.MoveDown() // CV-002

	l.ToggleProblemsOnly()

	assert.True(t, l.ProblemsOnly())
	require.Equal(t, 2, l.Count())
	assert.Equal(t, "CV-002", l.SelectedItem().Code)
	assert.Equal(t, "CV-006", l.Items()[1].Code)

	l.ToggleProblemsOnly()
	assert.Equal(t, 4, l.Count())
	assert.Equal(t, "CV-002", l.SelectedItem().Code)
}

func TestChecklistList_SetItemsKeepsSelection(t *testing.T) {
	l := NewChecklistList(nil)
	l.SetItems(sampleItems())
	l.MoveDown()
	l.MoveDown() // CV-003

	items := sampleItems()[1:]
	l.SetItems(items)

	assert.Equal(t, "CV-003", l.SelectedItem().Code)

	l.SetItems(sampleItems()[:1])
	assert.Equal(t, 0, l.Selected())
}

func TestChecklistList_View(t *testing.T) {
	l := NewChecklistList(nil)
	l.SetDimensions(60, 20)
	l.SetItems(sampleItems())

	view := l.View()

	assert.Contains(t, view, "Checklist (4)")
	assert.Contains(t, view, "CV-001")
	assert.Contains(t, view, "Meta length")
}

func TestChecklistList_View_Empty(t *testing.T) {
	l := NewChecklistList(nil)

	assert.Contains(t, l.View(), "No checklist items")
}

func TestChecklistList_View_AllPassing(t *testing.T) {
	l := NewChecklistList(nil)
	l.SetItems([]domain.ChecklistItem{{Code: "CV-001", Name: "Title has content", Status: domain.StatusPass}})
	l.ToggleProblemsOnly()

	assert.Contains(t, l.View(), "All checks pass")
}

func TestChecklistList_View_Scrolls(t *testing.T) {
	l := NewChecklistList(nil)
	l.SetDimensions(60, 4) // two visible rows
	l.SetItems(sampleItems())
	l.MoveDown()
	l.MoveDown()
	l.MoveDown()

	view := l.View()

	assert.NotContains(t, view, "CV-001")
	assert.Contains(t, view, "CV-006")
}

func TestChecklistList_TruncatesLongNames(t *testing.T) {
	l := NewChecklistList(nil)
	l.SetDimensions(24, 10)
	l.SetItems([]domain.ChecklistItem{
		{Code: "CV-099", Name: "A very long rule name that does not fit", Status: domain.StatusFail},
	})

	assert.Contains(t, l.View(), "...")
}
