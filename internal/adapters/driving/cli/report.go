package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

const defaultReportWidth = 80

// reportPrinter renders analysis output. Colours are only emitted when the
// writer is a terminal.
type reportPrinter struct {
	w     io.Writer
	r     *lipgloss.Renderer
	width int

	heading lipgloss.Style
	section lipgloss.Style
	muted   lipgloss.Style
	pass    lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
}

func newReportPrinter(w io.Writer) *reportPrinter {
	r := lipgloss.NewRenderer(w)
	return &reportPrinter{
		w:       w,
		r:       r,
		width:   terminalWidth(w),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		pass:    r.NewStyle().Foreground(lipgloss.Color("#28a745")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#ffc107")),
		fail:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#dc3545")),
	}
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultReportWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultReportWidth
	}
	return width
}

func (p *reportPrinter) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *reportPrinter) println(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *reportPrinter) rule() {
	n := p.width
	if n > defaultReportWidth {
		n = defaultReportWidth
	}
	p.println(p.muted.Render(strings.Repeat("─", n)))
}

func (p *reportPrinter) status(s domain.CheckStatus) string {
	label := fmt.Sprintf("%-7s", s)
	switch s {
	case domain.StatusPass:
		return p.pass.Render(label)
	case domain.StatusWarning:
		return p.warn.Render(label)
	default:
		return p.fail.Render(label)
	}
}

func (p *reportPrinter) score(v float64) string {
	text := fmt.Sprintf("%.1f/100", v)
	switch {
	case v >= 80:
		return p.pass.Render(text)
	case v >= 50:
		return p.warn.Render(text)
	default:
		return p.fail.Render(text)
	}
}

// Result renders a full analysis report.
func (p *reportPrinter) Result(source string, res *domain.AnalysisResult) {
	s := res.Structure

	p.println(p.heading.Render("Content Context Vector Analysis"))
	if source != "" {
		p.println(p.muted.Render(source))
	}
	p.rule()
	p.printf("Overall score: %s\n", p.score(res.OverallScore))
	p.printf("Embedding model: %s\n", orDash(res.EmbeddingModel))
	p.println("")

	p.println(p.section.Render("Structure"))
	p.printf("  Title: %s\n", quoteOrMissing(s.TitleText()))
	p.printf("  Meta:  %s\n", quoteOrMissing(s.MetaText()))
	p.printf("  H1: %d  H2: %d  H3: %d\n", s.H1Count(), s.H2Count(), s.H3Count())
	for _, issue := range s.HeadingIssues() {
		p.printf("  %s %s\n", p.warn.Render("!"), issue)
	}
	p.println("")

	if core := res.CoreScores(); len(core) > 0 {
		p.println(p.section.Render("Semantic Alignment"))
		for _, sc := range core {
			p.printf("  %-24s %.3f  %s %s\n",
				sc.ElementA.String()+" ↔ "+sc.ElementB.String(), sc.Score, p.status(sc.Status),
				p.muted.Render(fmt.Sprintf("(target %.2f-%.2f)", sc.TargetMin, sc.TargetMax)))
		}
		p.println("")
	}

	if headings := headingScores(res); len(headings) > 0 {
		p.printf("%s %s\n", p.section.Render("Heading Alignment"),
			p.muted.Render("(vs "+res.Context.String()+")"))
		for _, sc := range headings {
			p.printf("  %-44s %.3f  %s\n", s.DisplayName(sc.ElementA), sc.Score, p.status(sc.Status))
		}
		p.println("")
	}

	if len(res.TopicDrifts) > 0 {
		p.println(p.section.Render("Topic Drift"))
		for _, d := range res.TopicDrifts {
			p.printf("  %s %-44s %.3f\n", p.fail.Render("✗"), s.DisplayName(d.Element), d.Score)
		}
		p.println("")
	}

	p.println(p.section.Render("Checklist"))
	var group domain.RuleGroup
	for _, item := range res.ChecklistResults {
		if rule, ok := domain.LookupRule(item.Code); ok && rule.Group != group {
			group = rule.Group
			p.printf("  %s\n", p.muted.Render(string(group)))
		}
		p.printf("    %s %s %s", p.status(item.Status), item.Code, item.Name)
		if item.Value != "" {
			p.printf(" %s", p.muted.Render("["+item.Value+detailTarget(item.Target)+"]"))
		}
		p.println("")
		if item.Message != "" {
			p.printf("            %s\n", p.muted.Render(item.Message))
		}
	}
	p.println("")

	critical := len(res.CriticalIssues())
	p.printf("%d critical issue(s), %d failure(s), %d warning(s)\n",
		critical, len(res.Failures()), len(res.Warnings()))
}

// Matrix renders a similarity heatmap with a legend of element labels.
func (p *reportPrinter) Matrix(structure *domain.DocumentStructure, m domain.SimilarityMatrix) {
	p.println(p.section.Render("Similarity Matrix"))
	if len(m.Labels) == 0 {
		p.println("  (no elements)")
		return
	}

	p.printf("  %-7s", "")
	for _, l := range m.Labels {
		p.printf(" %6s", l.String())
	}
	p.println("")
	for i, row := range m.Labels {
		p.printf("  %-7s", row.String())
		for j := range m.Labels {
			v := m.At(i, j)
			cell := p.r.NewStyle().Foreground(lipgloss.Color(domain.SimilarityColor(v))).
				Render(fmt.Sprintf("%6.2f", v))
			p.printf(" %s", cell)
		}
		p.println("")
	}

	p.println("")
	for _, l := range m.Labels {
		p.printf("  %-7s %s\n", l.String(), p.muted.Render(structure.DisplayName(l)))
	}
}

// Suggestions renders generated suggestions.
func (p *reportPrinter) Suggestions(res *domain.AnalysisResult, sugs []domain.Suggestion) {
	p.println(p.section.Render("Suggestions"))
	if len(sugs) == 0 {
		p.println("  Nothing to fix.")
		return
	}
	for _, sug := range sugs {
		name := sug.Code
		if item, ok := res.Item(sug.Code); ok {
			name = sug.Code + " " + item.Name
		}
		p.rule()
		if sug.Failed {
			p.printf("%s %s\n", p.fail.Render("✗"), name)
		} else {
			p.println(p.heading.Render(name))
		}
		p.println(sug.Body)
	}
}

// Status renders a backend readiness report.
func (p *reportPrinter) Status(st *domain.BackendStatus) {
	p.println(p.section.Render("Embedding"))
	p.printf("  Reachable: %s\n", p.yesNo(st.EmbeddingReachable))
	p.printf("  Model:     %s %s\n", orDash(st.EmbeddingModel), p.yesNo(st.EmbeddingModelOK))
	p.println("")

	p.println(p.section.Render("LLM"))
	if !st.LLMConfigured {
		p.println("  Not configured (suggestions disabled)")
	} else {
		p.printf("  Reachable: %s\n", p.yesNo(st.LLMReachable))
		p.printf("  Model:     %s %s\n", orDash(st.LLMModel), p.yesNo(st.LLMModelOK))
	}
	p.println("")

	if len(st.AvailableModels) > 0 {
		p.println(p.section.Render("Available Models"))
		for _, m := range st.AvailableModels {
			p.printf("  - %s\n", m)
		}
		p.println("")
	}

	switch {
	case st.CanSuggest():
		p.println(p.pass.Render("Ready for analysis and suggestions."))
	case st.CanAnalyze():
		p.println(p.pass.Render("Ready for analysis."))
	default:
		p.println(p.fail.Render("Not ready for analysis."))
	}
}

func (p *reportPrinter) yesNo(ok bool) string {
	if ok {
		return p.pass.Render("✓")
	}
	return p.fail.Render("✗")
}

func headingScores(res *domain.AnalysisResult) []domain.SimilarityScore {
	var out []domain.SimilarityScore
	for _, sc := range res.SimilarityScores {
		if !sc.IsCorePair() {
			out = append(out, sc)
		}
	}
	return out
}

func detailTarget(target string) string {
	if target == "" {
		return ""
	}
	return ", target " + target
}

func quoteOrMissing(s string) string {
	if s == "" {
		return "(missing)"
	}
	return fmt.Sprintf("%q", s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
