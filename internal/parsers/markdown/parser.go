// Package markdown provides a StructureParser for Markdown documents.
// Headings come from the goldmark AST; the title and meta description
// come from YAML frontmatter when present.
package markdown

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ccv-cli/internal/logger"
	"github.com/custodia-labs/ccv-cli/internal/parsers"
)

// Ensure Parser implements the interface.
var _ driven.StructureParser = (*Parser)(nil)

// Parser handles Markdown documents.
type Parser struct {
	md goldmark.Markdown
}

// New creates a new Markdown parser.
func New() *Parser {
	return &Parser{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Format returns domain.SourceMarkdown.
func (p *Parser) Format() domain.SourceType {
	return domain.SourceMarkdown
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *Parser) SupportedExtensions() []string {
	return []string{".md", ".markdown", ".mdx"}
}

// frontmatter holds the fields read from a YAML header.
type frontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Parse extracts the document structure. Markdown has no title or meta
// element: frontmatter title wins, else the H1 when it is the only one;
// the meta description is the frontmatter description.
func (p *Parser) Parse(ctx context.Context, raw []byte) (*domain.DocumentStructure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fm, body := splitFrontmatter(raw)

	doc := p.md.Parser().Parse(text.NewReader(body))

	var outline parsers.Outline
	var plain []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			outline.Add(node.Level, inlineText(node, body))
			return ast.WalkSkipChildren, nil
		case *ast.Image:
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			if t := parsers.CollapseSpace(inlineText(node, body)); t != "" {
				plain = append(plain, t)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	s := &domain.DocumentStructure{
		RawText:    strings.Join(plain, " "),
		SourceType: domain.SourceMarkdown,
	}
	outline.Apply(s)

	switch {
	case strings.TrimSpace(fm.Title) != "":
		s.Title = domain.StringPtr(strings.TrimSpace(fm.Title))
	case len(s.H1List) == 1:
		s.Title = domain.StringPtr(s.H1List[0])
	}
	if d := strings.TrimSpace(fm.Description); d != "" {
		s.MetaDescription = &d
	}
	return s, nil
}

// inlineText concatenates the text segments below n. Images are skipped;
// link and emphasis text is kept.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Image:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// splitFrontmatter separates a leading "---" delimited YAML block from the
// body. A block that is not valid YAML is still stripped.
func splitFrontmatter(raw []byte) (frontmatter, []byte) {
	var fm frontmatter

	src := bytes.TrimPrefix(raw, []byte("\ufeff"))
	first, rest, ok := cutLine(src)
	if !ok || strings.TrimSpace(string(first)) != "---" {
		return fm, raw
	}

	var header [][]byte
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = cutLine(rest)
		if strings.TrimSpace(string(line)) == "---" {
			if err := yaml.Unmarshal(bytes.Join(header, []byte("\n")), &fm); err != nil {
				logger.Debug("Ignoring unreadable frontmatter: %v", err)
				fm = frontmatter{}
			}
			return fm, rest
		}
		header = append(header, line)
	}
	// No closing delimiter: not frontmatter.
	return frontmatter{}, raw
}

// cutLine splits b at the first newline. ok is false when b is empty.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	if len(b) == 0 {
		return nil, nil, false
	}
	line, rest, _ = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, true
}
