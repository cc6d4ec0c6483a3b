// Package matrix provides the similarity heatmap view for the TUI.
package matrix

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// View renders the pairwise similarity matrix of an analysis as a heatmap.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	structure *domain.DocumentStructure
	matrix    domain.SimilarityMatrix
	width     int
	height    int
}

// NewView creates a new matrix view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keymap: km, width: 80, height: 24}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles key messages. Matrix and back keys return to the report.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	k := keyMsg.String()
	if keymap.Matches(k, v.keymap.Matrix) || keymap.Matches(k, v.keymap.Back) {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewReport} }
	}
	return v, nil
}

// SetMatrix sets the matrix to display.
func (v *View) SetMatrix(structure *domain.DocumentStructure, m domain.SimilarityMatrix) {
	v.structure = structure
	v.matrix = m
}

// Matrix returns the displayed matrix.
func (v *View) Matrix() domain.SimilarityMatrix {
	return v.matrix
}

// View renders the heatmap.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Similarity Matrix"))
	b.WriteString("\n\n")

	n := len(v.matrix.Labels)
	if n == 0 {
		b.WriteString(v.styles.Muted.Render("No elements to compare"))
		return b.String()
	}

	// Column headers are element indices; the legend below names them.
	b.WriteString("     ")
	for j := 0; j < n; j++ {
		b.WriteString(fmt.Sprintf("%5d", j+1))
	}
	b.WriteString("\n")

	for i := 0; i < n; i++ {
		b.WriteString(fmt.Sprintf("%4d ", i+1))
		for j := 0; j < n; j++ {
			score := v.matrix.At(i, j)
			b.WriteString(styles.Similarity(score).Render(fmt.Sprintf("%5.2f", score)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for i, key := range v.matrix.Labels {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%4d ", i+1)))
		b.WriteString(v.label(key))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("m/esc: back to report"))
	return b.String()
}

func (v *View) label(key domain.ElementKey) string {
	if v.structure == nil {
		return key.String()
	}
	return v.structure.DisplayName(key)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
