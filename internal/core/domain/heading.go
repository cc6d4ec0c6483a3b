package domain

import "strings"

// HeadingLevel is the level of a document heading.
type HeadingLevel int

// Heading levels handled by the analyzer.
const (
	HeadingH1 HeadingLevel = 1
	HeadingH2 HeadingLevel = 2
	HeadingH3 HeadingLevel = 3
)

// String returns the HTML tag name of the level.
func (l HeadingLevel) String() string {
	switch l {
	case HeadingH1:
		return "H1"
	case HeadingH2:
		return "H2"
	case HeadingH3:
		return "H3"
	default:
		return "H?"
	}
}

// Heading is a sub-heading with its document position and parent linkage.
type Heading struct {
	// Level is H2 or H3 (H1 texts are kept separately on DocumentStructure).
	Level HeadingLevel `json:"level"`

	// Text is the trimmed heading text.
	Text string `json:"text"`

	// Position counts H2 and H3 headings together in document order.
	Position int `json:"position"`

	// ParentIndex is the index into H2List of the H2 preceding an H3.
	// Nil marks an orphan H3 (no H2 before it).
	ParentIndex *int `json:"parent_index,omitempty"`
}

// IsQuestion reports whether the heading is phrased as a question.
func (h Heading) IsQuestion() bool {
	return strings.HasSuffix(strings.TrimSpace(h.Text), "?")
}

// WordCount returns the number of whitespace separated words.
func (h Heading) WordCount() int {
	return len(strings.Fields(h.Text))
}

// IsOrphan reports whether an H3 has no parent H2.
func (h Heading) IsOrphan() bool {
	return h.ParentIndex == nil
}

// ParentRef returns a pointer to i, for building ParentIndex values.
func ParentRef(i int) *int {
	return &i
}
