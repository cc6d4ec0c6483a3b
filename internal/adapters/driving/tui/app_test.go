package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

func newTestApp(t *testing.T) (*App, *mockAnalysisService, *mockSuggestionService) {
	t.Helper()
	analysis := &mockAnalysisService{
		result: sampleResult(),
		matrix: domain.SimilarityMatrix{
			Labels: []domain.ElementKey{domain.KeyTitle, domain.KeyH1},
			Values: [][]float64{{1, 0.8}, {0.8, 1}},
		},
	}
	suggestion := &mockSuggestionService{}
	app, err := NewApp(&Ports{Analysis: analysis, Suggestion: suggestion}, staticDocument("<title>Cold Brew</title>"))
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	return app, analysis, suggestion
}

func runes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// loaded runs the first analysis to completion.
func loaded(t *testing.T) (*App, *mockAnalysisService, *mockSuggestionService) {
	t.Helper()
	app, analysis, suggestion := newTestApp(t)
	app.Update(app.startAnalysis()())
	require.NotNil(t, app.Result())
	return app, analysis, suggestion
}

func TestNewApp_Success(t *testing.T) {
	app, _, _ := newTestApp(t)

	assert.Equal(t, messages.ViewReport, app.CurrentView())
	assert.Nil(t, app.Result())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{}, staticDocument(""))

	assert.ErrorIs(t, err, ErrMissingAnalysisService)
	assert.Nil(t, app)

	app, err = NewApp(nil, staticDocument(""))
	assert.ErrorIs(t, err, ErrMissingAnalysisService)
	assert.Nil(t, app)
}

func TestNewApp_MissingDocument(t *testing.T) {
	app, err := NewApp(&Ports{Analysis: &mockAnalysisService{}}, Document{Label: "x"})

	assert.ErrorIs(t, err, ErrMissingDocument)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _, _ := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, _, _ := newTestApp(t)

	cmd := app.Init()

	assert.NotNil(t, cmd)
	assert.True(t, app.Analyzing())
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(&Ports{Analysis: &mockAnalysisService{}}, staticDocument(""))
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Analysis: &mockAnalysisService{}}, staticDocument(""))
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_AnalysisFlow(t *testing.T) {
	app, analysis, _ := newTestApp(t)

	msg := app.startAnalysis()()
	assert.Equal(t, status.StateAnalyzing, app.statusBar.State())

	completed, ok := msg.(messages.AnalysisCompleted)
	require.True(t, ok)
	require.NoError(t, completed.Err)
	assert.Equal(t, "<title>Cold Brew</title>", analysis.gotRaw)
	assert.Equal(t, "html", analysis.gotHint)

	app.Update(completed)

	assert.False(t, app.Analyzing())
	assert.NoError(t, app.Err())
	assert.Equal(t, 64.5, app.Result().OverallScore)
	score, hasScore := app.statusBar.Score()
	assert.True(t, hasScore)
	assert.Equal(t, 64.5, score)
	assert.Len(t, app.matrixView.Matrix().Labels, 2)
	assert.Contains(t, app.View(), "Score 64.5/100")
}

func TestApp_AnalysisError(t *testing.T) {
	app, analysis, _ := newTestApp(t)
	analysis.err = domain.ErrEmbeddingUnavailable

	app.Update(app.startAnalysis()())

	assert.ErrorIs(t, app.Err(), domain.ErrEmbeddingUnavailable)
	assert.Equal(t, status.StateError, app.statusBar.State())
	assert.Contains(t, app.View(), "Analysis failed")
}

func TestApp_ReadError(t *testing.T) {
	doc := Document{
		Label: "gone.html",
		Read:  func() ([]byte, error) { return nil, errors.New("no such file") },
	}
	analysis := &mockAnalysisService{}
	app, err := NewApp(&Ports{Analysis: analysis}, doc)
	require.NoError(t, err)

	msg := app.startAnalysis()()

	completed := msg.(messages.AnalysisCompleted)
	assert.ErrorContains(t, completed.Err, "reading gone.html")
	assert.Zero(t, analysis.calls)
}

func TestApp_ReanalyzeKey(t *testing.T) {
	app, analysis, _ := loaded(t)

	_, cmd := app.Update(runes('r'))
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, 2, analysis.calls)
}

func TestApp_ReanalyzeIgnoredWhileAnalyzing(t *testing.T) {
	app, _, _ := loaded(t)
	app.startAnalysis()

	_, cmd := app.Update(runes('r'))

	assert.Nil(t, cmd)
}

func TestApp_SuggestionFlow(t *testing.T) {
	app, _, suggestion := loaded(t)

	app.Update(runes('j'))
	_, cmd := app.Update(runes('s'))
	require.NotNil(t, cmd)

	requested := cmd()
	assert.Equal(t, messages.SuggestionRequested{Code: "CV-002"}, requested)

	_, cmd = app.Update(requested)
	require.NotNil(t, cmd)
	assert.Equal(t, status.StateSuggesting, app.statusBar.State())

	app.Update(cmd())

	assert.Equal(t, "CV-002", suggestion.gotCode)
	assert.Equal(t, status.StateReady, app.statusBar.State())
	sug, ok := app.reportView.Suggestion("CV-002")
	require.True(t, ok)
	assert.Equal(t, "fix CV-002", sug.Body)
}

func TestApp_SuggestionError(t *testing.T) {
	app, _, suggestion := loaded(t)
	suggestion.err = domain.ErrLLMUnavailable

	_, cmd := app.Update(messages.SuggestionRequested{Code: "CV-002"})
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrLLMUnavailable)
}

func TestApp_SuggestWithoutService(t *testing.T) {
	analysis := &mockAnalysisService{result: sampleResult()}
	app, err := NewApp(&Ports{Analysis: analysis}, staticDocument("x"))
	require.NoError(t, err)
	app.Update(app.startAnalysis()())

	msg := app.suggest("CV-002")()

	completed := msg.(messages.SuggestionCompleted)
	assert.ErrorIs(t, completed.Err, domain.ErrLLMUnavailable)
}

func TestApp_MatrixNavigation(t *testing.T) {
	app, _, _ := loaded(t)

	_, cmd := app.Update(runes('m'))
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewMatrix, app.CurrentView())
	assert.Contains(t, app.View(), "Similarity Matrix")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewReport, app.CurrentView())
}

func TestApp_HelpToggle(t *testing.T) {
	app, _, _ := loaded(t)

	app.Update(runes('?'))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "suggest fix")

	// Other keys are swallowed by help.
	_, cmd := app.Update(runes('r'))
	assert.Nil(t, cmd)

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewReport, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app, _, _ := loaded(t)

	for _, msg := range []tea.KeyMsg{runes('q'), {Type: tea.KeyCtrlC}} {
		_, cmd := app.Update(msg)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _, _ := loaded(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("disk full")})

	assert.EqualError(t, app.Err(), "disk full")
	assert.Equal(t, status.StateError, app.statusBar.State())
}

func TestApp_UnknownMessage(t *testing.T) {
	app, _, _ := loaded(t)

	model, cmd := app.Update(struct{}{})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
}
