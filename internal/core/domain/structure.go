package domain

import (
	"fmt"
	"strings"
)

// SourceType identifies the markup a structure was extracted from.
type SourceType string

// Supported source types.
const (
	SourceHTML     SourceType = "html"
	SourceMarkdown SourceType = "markdown"
)

// DocumentStructure is the typed output of a structural parser: the
// elements whose semantic alignment is analysed.
type DocumentStructure struct {
	Title           *string    `json:"title,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	H1List          []string   `json:"h1_list"`
	H2List          []Heading  `json:"h2_list"`
	H3List          []Heading  `json:"h3_list"`
	RawText         string     `json:"-"`
	SourceType      SourceType `json:"source_type"`
}

// TitleText returns the title or "" when absent.
func (s *DocumentStructure) TitleText() string {
	if s.Title == nil {
		return ""
	}
	return *s.Title
}

// MetaText returns the meta description or "" when absent.
func (s *DocumentStructure) MetaText() string {
	if s.MetaDescription == nil {
		return ""
	}
	return *s.MetaDescription
}

// H1 returns the first H1 text or "" when there is none.
func (s *DocumentStructure) H1() string {
	if len(s.H1List) == 0 {
		return ""
	}
	return s.H1List[0]
}

// H1Count returns the number of H1 headings.
func (s *DocumentStructure) H1Count() int { return len(s.H1List) }

// H2Count returns the number of H2 headings.
func (s *DocumentStructure) H2Count() int { return len(s.H2List) }

// H3Count returns the number of H3 headings.
func (s *DocumentStructure) H3Count() int { return len(s.H3List) }

// OrphanH3Count returns the number of H3 headings without a parent H2.
func (s *DocumentStructure) OrphanH3Count() int {
	n := 0
	for _, h := range s.H3List {
		if h.IsOrphan() {
			n++
		}
	}
	return n
}

// TextElements returns the text elements to embed, in the fixed order
// title, meta, h1, h2_0..h2_n, h3_0..h3_n. Empty values are omitted.
func (s *DocumentStructure) TextElements() []TextElement {
	var out []TextElement
	add := func(key ElementKey, text string) {
		if strings.TrimSpace(text) != "" {
			out = append(out, TextElement{Key: key, Text: text})
		}
	}

	add(KeyTitle, s.TitleText())
	add(KeyMeta, s.MetaText())
	add(KeyH1, s.H1())
	for i, h := range s.H2List {
		add(H2Key(i), h.Text)
	}
	for i, h := range s.H3List {
		add(H3Key(i), h.Text)
	}
	return out
}

// Text returns the text of the element identified by key.
func (s *DocumentStructure) Text(key ElementKey) (string, bool) {
	switch key.Kind {
	case KindTitle:
		return s.TitleText(), s.Title != nil
	case KindMeta:
		return s.MetaText(), s.MetaDescription != nil
	case KindH1:
		return s.H1(), len(s.H1List) > 0
	case KindH2:
		if key.Index >= 0 && key.Index < len(s.H2List) {
			return s.H2List[key.Index].Text, true
		}
	case KindH3:
		if key.Index >= 0 && key.Index < len(s.H3List) {
			return s.H3List[key.Index].Text, true
		}
	}
	return "", false
}

// DisplayName converts an element key into a readable label such as
// "Title: Buy red shoes" or "H2: How does it work?".
func (s *DocumentStructure) DisplayName(key ElementKey) string {
	switch key.Kind {
	case KindTitle:
		return labelled("Title", "Title", s.TitleText(), 40)
	case KindMeta:
		return labelled("Meta", "Meta Description", s.MetaText(), 40)
	case KindH1:
		return labelled("H1", "H1", s.H1(), 40)
	case KindH2, KindH3:
		text, ok := s.Text(key)
		if !ok {
			return key.String()
		}
		return strings.ToUpper(key.Kind.String()) + ": " + preview(text, 35)
	default:
		return key.String()
	}
}

// DisplayNames returns labels for every text element, keyed by element key.
func (s *DocumentStructure) DisplayNames() map[ElementKey]string {
	names := make(map[ElementKey]string)
	for _, el := range s.TextElements() {
		names[el.Key] = s.DisplayName(el.Key)
	}
	return names
}

// HeadingIssues lists human-readable problems with the heading hierarchy.
func (s *DocumentStructure) HeadingIssues() []string {
	var issues []string

	switch {
	case s.H1Count() == 0:
		issues = append(issues, "Missing H1 heading")
	case s.H1Count() > 1:
		issues = append(issues, fmt.Sprintf("Multiple H1 headings (%d)", s.H1Count()))
	}

	if n := s.OrphanH3Count(); n > 0 {
		issues = append(issues, fmt.Sprintf("H3 without a preceding H2 (%d occurrences)", n))
	}

	switch {
	case s.H2Count() < 4:
		issues = append(issues, fmt.Sprintf("Too few H2 headings (%d, recommended 4-8)", s.H2Count()))
	case s.H2Count() > 8:
		issues = append(issues, fmt.Sprintf("Too many H2 headings (%d, recommended 4-8)", s.H2Count()))
	}

	return issues
}

func labelled(prefix, empty, text string, n int) string {
	if text == "" {
		return empty
	}
	return prefix + ": " + preview(text, n)
}

func preview(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}

// StringPtr returns a pointer to s, for building optional structure fields.
func StringPtr(s string) *string {
	return &s
}
