package parsers

import (
	"strings"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// Outline accumulates headings in document order and links each H3 to
// the most recent preceding H2. Both parsers feed it so the hierarchy
// rules are identical across formats.
type Outline struct {
	h1       []string
	h2       []domain.Heading
	h3       []domain.Heading
	position int
}

// Add records a heading. Whitespace is collapsed; empty headings and
// levels other than 1-3 are ignored.
func (o *Outline) Add(level int, text string) {
	text = CollapseSpace(text)
	if text == "" {
		return
	}

	switch domain.HeadingLevel(level) {
	case domain.HeadingH1:
		o.h1 = append(o.h1, text)
	case domain.HeadingH2:
		o.h2 = append(o.h2, domain.Heading{Level: domain.HeadingH2, Text: text, Position: o.position})
		o.position++
	case domain.HeadingH3:
		h := domain.Heading{Level: domain.HeadingH3, Text: text, Position: o.position}
		if len(o.h2) > 0 {
			h.ParentIndex = domain.ParentRef(len(o.h2) - 1)
		}
		o.h3 = append(o.h3, h)
		o.position++
	}
}

// Apply copies the collected headings onto s.
func (o *Outline) Apply(s *domain.DocumentStructure) {
	s.H1List = o.h1
	s.H2List = o.h2
	s.H3List = o.h3
	if s.H1List == nil {
		s.H1List = []string{}
	}
	if s.H2List == nil {
		s.H2List = []domain.Heading{}
	}
	if s.H3List == nil {
		s.H3List = []domain.Heading{}
	}
}

// H1Count returns the number of H1 headings seen so far.
func (o *Outline) H1Count() int {
	return len(o.h1)
}

// CollapseSpace trims s and replaces every whitespace run with one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
