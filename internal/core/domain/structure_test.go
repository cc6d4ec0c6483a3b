package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleStructure() *DocumentStructure {
	return &DocumentStructure{
		Title:           StringPtr("How to choose running shoes"),
		MetaDescription: StringPtr("A complete guide to picking running shoes for every foot type."),
		H1List:          []string{"Choosing running shoes"},
		H2List: []Heading{
			{Level: HeadingH2, Text: "What is pronation?", Position: 0},
			{Level: HeadingH2, Text: "Cushioning", Position: 2},
		},
		H3List: []Heading{
			{Level: HeadingH3, Text: "Overpronation", Position: 1, ParentIndex: ParentRef(0)},
			{Level: HeadingH3, Text: "Stray", Position: 3},
		},
		SourceType: SourceHTML,
	}
}

func TestDocumentStructure_TextElementsOrder(t *testing.T) {
	s := sampleStructure()

	var keys []string
	for _, el := range s.TextElements() {
		keys = append(keys, el.Key.String())
	}
	assert.Equal(t, []string{"title", "meta", "h1", "h2_0", "h2_1", "h3_0", "h3_1"}, keys)
}

func TestDocumentStructure_TextElementsSkipsEmpty(t *testing.T) {
	s := &DocumentStructure{
		Title:           StringPtr("  "),
		MetaDescription: nil,
		H1List:          []string{"Main"},
		H2List:          []Heading{{Level: HeadingH2, Text: ""}, {Level: HeadingH2, Text: "Second"}},
	}

	els := s.TextElements()
	if assert.Len(t, els, 2) {
		assert.Equal(t, KeyH1, els[0].Key)
		assert.Equal(t, H2Key(1), els[1].Key)
	}
}

func TestDocumentStructure_Counts(t *testing.T) {
	s := sampleStructure()

	assert.Equal(t, 1, s.H1Count())
	assert.Equal(t, 2, s.H2Count())
	assert.Equal(t, 2, s.H3Count())
	assert.Equal(t, 1, s.OrphanH3Count())
	assert.Equal(t, "Choosing running shoes", s.H1())
}

func TestDocumentStructure_Text(t *testing.T) {
	s := sampleStructure()

	text, ok := s.Text(H2Key(1))
	assert.True(t, ok)
	assert.Equal(t, "Cushioning", text)

	_, ok = s.Text(H2Key(5))
	assert.False(t, ok)

	_, ok = (&DocumentStructure{}).Text(KeyMeta)
	assert.False(t, ok)
}

func TestDocumentStructure_DisplayName(t *testing.T) {
	s := sampleStructure()
	s.Title = StringPtr(strings.Repeat("a", 45))

	assert.Equal(t, "Title: "+strings.Repeat("a", 40)+"...", s.DisplayName(KeyTitle))
	assert.Equal(t, "H1: Choosing running shoes", s.DisplayName(KeyH1))
	assert.Equal(t, "H2: What is pronation?", s.DisplayName(H2Key(0)))
	assert.Equal(t, "h2_9", s.DisplayName(H2Key(9)))
	assert.Equal(t, "Meta Description", (&DocumentStructure{}).DisplayName(KeyMeta))
}

func TestDocumentStructure_HeadingIssues(t *testing.T) {
	tests := []struct {
		name     string
		s        *DocumentStructure
		expected []string
	}{
		{
			name: "missing h1 and too few h2",
			s:    &DocumentStructure{},
			expected: []string{
				"Missing H1 heading",
				"Too few H2 headings (0, recommended 4-8)",
			},
		},
		{
			name: "multiple h1 and orphan h3",
			s: &DocumentStructure{
				H1List: []string{"a", "b"},
				H2List: make([]Heading, 5),
				H3List: []Heading{{Level: HeadingH3, Text: "x"}},
			},
			expected: []string{
				"Multiple H1 headings (2)",
				"H3 without a preceding H2 (1 occurrences)",
			},
		},
		{
			name: "too many h2",
			s: &DocumentStructure{
				H1List: []string{"a"},
				H2List: make([]Heading, 9),
			},
			expected: []string{"Too many H2 headings (9, recommended 4-8)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.s.HeadingIssues())
		})
	}
}

func TestHeading_Predicates(t *testing.T) {
	h := Heading{Level: HeadingH2, Text: "  Why does it matter?  "}
	assert.True(t, h.IsQuestion())
	assert.Equal(t, 4, h.WordCount())
	assert.True(t, h.IsOrphan())

	h.ParentIndex = ParentRef(0)
	assert.False(t, h.IsOrphan())
	assert.Equal(t, "H3", HeadingH3.String())
}
