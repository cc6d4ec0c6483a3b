package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewReport, "report"},
		{ViewMatrix, "matrix"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestViewType_ReportIsDefault(t *testing.T) {
	var v ViewType
	assert.Equal(t, ViewReport, v)
}

func TestAnalysisCompleted_CarriesError(t *testing.T) {
	err := errors.New("boom")
	msg := AnalysisCompleted{Err: err}

	assert.Nil(t, msg.Result)
	assert.ErrorIs(t, msg.Err, err)
}

func TestSuggestionCompleted_Fields(t *testing.T) {
	msg := SuggestionCompleted{
		Code:       "CV-002",
		Suggestion: domain.Suggestion{Code: "CV-002", Body: "shorter title"},
	}

	assert.Equal(t, "CV-002", msg.Code)
	assert.Equal(t, "shorter title", msg.Suggestion.Body)
	assert.NoError(t, msg.Err)
}
