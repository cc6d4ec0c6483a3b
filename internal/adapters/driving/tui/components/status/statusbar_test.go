package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	_, ok := bar.Score()
	assert.False(t, ok)
}

func TestBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())
	updated, cmd := bar.Update(nil)
	assert.Same(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_View_Ready(t *testing.T) {
	bar := NewBar(nil, nil)

	view := bar.View()

	assert.Contains(t, view, "Ready")
	assert.Contains(t, view, "quit")
}

func TestBar_View_Score(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetScore(72.5)

	view := bar.View()

	assert.Contains(t, view, "Score 72.5/100")
	assert.Contains(t, view, "suggest fix")
}

func TestBar_View_States(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		want    string
	}{
		{"analyzing", StateAnalyzing, "", "Analyzing..."},
		{"suggesting", StateSuggesting, "CV-002", "Generating suggestion for CV-002..."},
		{"suggesting without code", StateSuggesting, "", "Generating suggestion..."},
		{"error", StateError, "backend down", "Error: backend down"},
		{"error without message", StateError, "", "Error"},
		{"help", StateHelp, "", "Help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)

			assert.Contains(t, bar.View(), tt.want)
			assert.Equal(t, tt.message, bar.Message())
		})
	}
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("oops")
	bar.SetScore(10)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	_, ok := bar.Score()
	assert.False(t, ok)
}

func TestBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(10)

	assert.NotEmpty(t, bar.View())
}
