package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/services"
	"github.com/custodia-labs/ccv-cli/internal/parsers"
	"github.com/custodia-labs/ccv-cli/internal/parsers/html"
	"github.com/custodia-labs/ccv-cli/internal/parsers/markdown"
)

func writePage(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyzeCmd_Report(t *testing.T) {
	ts := setupTestServices(t)
	path := writePage(t, "page.html", "<title>Cold Brew Coffee Guide</title>")

	out, err := executeCommand(t, "", "analyze", path)

	require.NoError(t, err)
	assert.Equal(t, "<title>Cold Brew Coffee Guide</title>", ts.analysis.gotRaw)
	assert.Equal(t, path, ts.analysis.gotHint)
	assert.Contains(t, out, "Overall score: 50.0/100")
	assert.Contains(t, out, `Title: "Cold Brew Coffee Guide"`)
	assert.Contains(t, out, "CV-002 Title length")
	assert.Contains(t, out, "[22, target 50-60]")
	assert.Contains(t, out, "0 critical issue(s), 1 failure(s), 0 warning(s)")
}

func TestAnalyzeCmd_FormatOverridesExtension(t *testing.T) {
	ts := setupTestServices(t)
	path := writePage(t, "page.txt", "# Cold Brew")

	_, err := executeCommand(t, "", "analyze", path, "--format", "markdown")

	require.NoError(t, err)
	assert.Equal(t, "markdown", ts.analysis.gotHint)
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	setupTestServices(t)
	path := writePage(t, "page.html", "<title>x</title>")

	out, err := executeCommand(t, "", "analyze", path, "--json", "--matrix")

	require.NoError(t, err)
	var decoded struct {
		Source string `json:"source"`
		Result struct {
			OverallScore float64 `json:"overall_score"`
		} `json:"result"`
		Matrix *domain.SimilarityMatrix `json:"matrix"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, path, decoded.Source)
	require.NotNil(t, decoded.Matrix)
	assert.Len(t, decoded.Matrix.Labels, 2)
}

func TestAnalyzeCmd_Matrix(t *testing.T) {
	setupTestServices(t)
	path := writePage(t, "page.html", "<title>x</title>")

	out, err := executeCommand(t, "", "analyze", path, "--matrix")

	require.NoError(t, err)
	assert.Contains(t, out, "Similarity Matrix")
	assert.Contains(t, out, "0.86")
	assert.Contains(t, out, "H1: Cold Brew Coffee")
}

func TestAnalyzeCmd_Suggest(t *testing.T) {
	setupTestServices(t)
	path := writePage(t, "page.html", "<title>x</title>")

	out, err := executeCommand(t, "", "analyze", path, "--suggest")

	require.NoError(t, err)
	assert.Contains(t, out, "Suggestions")
	assert.Contains(t, out, "fix CV-002")
}

func TestAnalyzeCmd_SuggestRequiresLLM(t *testing.T) {
	ts := setupTestServices(t)
	SetServices(ts.analysis, nil, ts.settings)
	path := writePage(t, "page.html", "<title>x</title>")

	_, err := executeCommand(t, "", "analyze", path, "--suggest")

	assert.ErrorContains(t, err, "suggestion service not configured")
}

func TestAnalyzeCmd_Stdin(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "# Cold Brew\n", "analyze", "-", "--format", "markdown")

	require.NoError(t, err)
	assert.Equal(t, "# Cold Brew\n", ts.analysis.gotRaw)
	assert.Equal(t, "markdown", ts.analysis.gotHint)
	assert.Contains(t, out, "stdin")
}

func TestAnalyzeCmd_NoArgumentReadsStdin(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "<title>Piped</title>", "analyze")

	require.NoError(t, err)
	assert.Equal(t, "<title>Piped</title>", ts.analysis.gotRaw)
	assert.Equal(t, []string{"html"}, ts.analysis.gotHints)
	assert.Contains(t, out, "stdin")
}

func TestAnalyzeCmd_StdinDefaultsToHTML(t *testing.T) {
	ts := setupTestServices(t)

	_, err := executeCommand(t, "<h1>x</h1>", "analyze", "-")

	require.NoError(t, err)
	assert.Equal(t, "html", ts.analysis.gotHint)
}

func TestAnalyzeCmd_URL(t *testing.T) {
	ts := setupTestServices(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "ccv/")
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte("# Cold Brew"))
	}))
	defer srv.Close()

	_, err := executeCommand(t, "", "analyze", "--url", srv.URL+"/post")

	require.NoError(t, err)
	assert.Equal(t, "# Cold Brew", ts.analysis.gotRaw)
	assert.Equal(t, []string{"text/markdown; charset=utf-8", "/post"}, ts.analysis.gotHints)
}

func TestAnalyzeCmd_URLFormatFlagIsUsedAlone(t *testing.T) {
	ts := setupTestServices(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("# Cold Brew"))
	}))
	defer srv.Close()

	_, err := executeCommand(t, "", "analyze", "--format", "markdown", "--url", srv.URL+"/post.html")

	require.NoError(t, err)
	assert.Equal(t, []string{"markdown"}, ts.analysis.gotHints)
}

func TestAnalyzeCmd_URLUnknownContentTypeUsesExtension(t *testing.T) {
	setupTestServices(t)
	svc := services.NewAnalysisService(
		services.NewEmbeddingGateway(stubEmbedder{}, nil, nil, services.GatewayConfig{}),
		services.NewSimilarityAnalyzer(domain.DefaultSimilarityThresholds()),
		services.NewChecklistEvaluator(domain.DefaultStructureThresholds()),
		parsers.NewRegistry(html.New(), markdown.New()),
	)
	SetServices(svc, nil, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Raw file hosts serve Markdown as plain text.
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("---\ntitle: Cold Brew Guide\n---\n# Cold Brew\n\n## Grind size\n"))
	}))
	defer srv.Close()

	out, err := executeCommand(t, "", "analyze", "--json", "--url", srv.URL+"/o/r/main/README.md")

	require.NoError(t, err)
	var parsed struct {
		Result struct {
			Structure struct {
				Title      string `json:"title"`
				SourceType string `json:"source_type"`
			} `json:"structure"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "markdown", parsed.Result.Structure.SourceType)
	assert.Equal(t, "Cold Brew Guide", parsed.Result.Structure.Title)
}

func TestAnalyzeCmd_URLErrorStatus(t *testing.T) {
	ts := setupTestServices(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := executeCommand(t, "", "analyze", "--url", srv.URL)

	assert.ErrorContains(t, err, "HTTP 404")
	assert.Zero(t, ts.analysis.calls)
}

func TestAnalyzeCmd_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"watch without file", []string{"analyze", "--watch"}, "--watch requires a file argument"},
		{"file and url", []string{"analyze", "a.html", "--url", "http://x"}, "not both"},
		{"watch stdin", []string{"analyze", "-", "--watch"}, "--watch requires a file argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)

			_, err := executeCommand(t, "", tt.args...)

			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestAnalyzeCmd_NotReady(t *testing.T) {
	ts := setupTestServices(t)
	ts.analysis.readyErr = &domain.PreconditionError{Err: domain.ErrServiceUnreachable, Hint: "start it"}
	path := writePage(t, "page.html", "x")

	_, err := executeCommand(t, "", "analyze", path)

	assert.ErrorIs(t, err, domain.ErrServiceUnreachable)
	assert.Zero(t, ts.analysis.calls)
}

func TestAnalyzeCmd_AnalysisError(t *testing.T) {
	ts := setupTestServices(t)
	ts.analysis.err = domain.ErrEmptyDocument
	path := writePage(t, "page.html", "x")

	_, err := executeCommand(t, "", "analyze", path)

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestAnalyzeCmd_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "", "analyze", filepath.Join(t.TempDir(), "missing.html"))

	assert.ErrorContains(t, err, "failed to read")
}

func TestAnalyzeCmd_NoService(t *testing.T) {
	setupTestServices(t)
	SetServices(nil, nil, nil)

	_, err := executeCommand(t, "", "analyze", "page.html")

	assert.ErrorContains(t, err, "analysis service not configured")
}

func TestParserHints(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		fallbacks []string
		want      []string
	}{
		{"format wins alone", "markdown", []string{"text/html", "/a.html"}, []string{"markdown"}},
		{"fallbacks in order", "", []string{"text/plain", "/README.md"}, []string{"text/plain", "/README.md"}},
		{"empty fallbacks dropped", "", []string{"", "/a.md", ""}, []string{"/a.md"}},
		{"nothing", "", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parserHints(tt.format, tt.fallbacks...))
		})
	}
}

func TestURLPath(t *testing.T) {
	assert.Equal(t, "/blog/post.md", urlPath("https://example.com/blog/post.md?x=1"))
	assert.Equal(t, "", urlPath("://bad"))
}
