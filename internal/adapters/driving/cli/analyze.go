package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/logger"
)

const (
	fetchTimeout = 30 * time.Second
	maxFetchSize = 10 << 20
)

var (
	analyzeURL     string
	analyzeFormat  string
	analyzeJSON    bool
	analyzeMatrix  bool
	analyzeSuggest bool
	analyzeWatch   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a page's semantic structure",
	Long: `Parses an HTML or Markdown page, embeds its title, meta description and
headings, and grades their semantic alignment against the CV-001..CV-019
checklist.

The input is a file path, a page fetched with --url, or stdin when the
argument is "-" or missing.
The parser is chosen from --format, the response Content-Type or the file
extension, in that order.

Examples:
  ccv analyze index.html
  ccv analyze README.md --matrix
  ccv analyze --url https://example.com/post --json
  cat page.html | ccv analyze - --format html
  ccv analyze draft.md --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "fetch the page from a URL")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "", "input format (html, markdown)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the result as JSON")
	analyzeCmd.Flags().BoolVarP(&analyzeMatrix, "matrix", "m", false, "include the pairwise similarity matrix")
	analyzeCmd.Flags().BoolVarP(&analyzeSuggest, "suggest", "s", false, "generate fix suggestions for problems")
	analyzeCmd.Flags().BoolVarP(&analyzeWatch, "watch", "w", false, "re-analyze whenever the file changes")
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeOutput is the JSON document written by --json.
type analyzeOutput struct {
	Source      string                   `json:"source"`
	Result      *domain.AnalysisResult   `json:"result"`
	Matrix      *domain.SimilarityMatrix `json:"matrix,omitempty"`
	Suggestions []domain.Suggestion      `json:"suggestions,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" && analyzeURL == "" {
		path = "-"
	}
	switch {
	case path != "" && analyzeURL != "":
		return errors.New("give either a file argument or --url, not both")
	case analyzeWatch && (analyzeURL != "" || path == "-"):
		return errors.New("--watch requires a file argument")
	}
	if analyzeSuggest {
		if err := requireSuggestions(); err != nil {
			return err
		}
	}

	ctx := commandContext(cmd)
	if err := analysisService.CheckReady(ctx); err != nil {
		return err
	}
	if analyzeSuggest {
		if err := suggestionService.CheckReady(ctx); err != nil {
			return err
		}
	}

	if analyzeWatch {
		return watchFile(ctx, path, func() error {
			cmd.Println()
			cmd.Printf("[%s] %s changed, re-analyzing\n", time.Now().Format(time.TimeOnly), path)
			return analyzeOnce(ctx, cmd, path)
		}, func() error {
			return analyzeOnce(ctx, cmd, path)
		})
	}
	return analyzeOnce(ctx, cmd, path)
}

func analyzeOnce(ctx context.Context, cmd *cobra.Command, path string) error {
	raw, hints, source, err := loadInput(ctx, cmd, path)
	if err != nil {
		return err
	}
	logger.Debug("Loaded %d bytes from %s (hints %q)", len(raw), source, hints)

	result, err := analysisService.Analyze(ctx, raw, hints...)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	var suggestions []domain.Suggestion
	if analyzeSuggest {
		suggestions, err = suggestionService.SuggestAll(ctx, result)
		if err != nil {
			return fmt.Errorf("suggestions failed: %w", err)
		}
	}

	if analyzeJSON {
		out := analyzeOutput{Source: source, Result: result, Suggestions: suggestions}
		if analyzeMatrix {
			m := analysisService.Matrix(result)
			out.Matrix = &m
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	p := newReportPrinter(cmd.OutOrStdout())
	p.Result(source, result)
	if analyzeMatrix {
		p.println("")
		p.Matrix(result.Structure, analysisService.Matrix(result))
	}
	if analyzeSuggest {
		p.println("")
		p.Suggestions(result, suggestions)
	}
	return nil
}

// loadInput reads the page and returns its bytes, the parser hints in
// order of preference and a label for the source.
func loadInput(ctx context.Context, cmd *cobra.Command, path string) ([]byte, []string, string, error) {
	switch {
	case analyzeURL != "":
		raw, contentType, err := fetchURL(ctx, analyzeURL)
		if err != nil {
			return nil, nil, "", err
		}
		return raw, parserHints(analyzeFormat, contentType, urlPath(analyzeURL)), analyzeURL, nil
	case path == "-":
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, parserHints(analyzeFormat, "html"), "stdin", nil
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return raw, parserHints(analyzeFormat, path), path, nil
	}
}

// fetchURL downloads a page and returns its body and Content-Type.
func fetchURL(ctx context.Context, rawURL string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("invalid url: %w", err)
	}
	req.Header.Set("User-Agent", "ccv/"+version)
	req.Header.Set("Accept", "text/html, text/markdown;q=0.9, */*;q=0.5")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", rawURL, err)
	}
	return raw, resp.Header.Get("Content-Type"), nil
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}

// parserHints returns the hints the analysis service tries in order. An
// explicit format is used alone; otherwise every non-empty fallback is kept
// so an unknown Content-Type can still resolve by extension.
func parserHints(format string, fallbacks ...string) []string {
	if format != "" {
		return []string{format}
	}
	hints := make([]string, 0, len(fallbacks))
	for _, h := range fallbacks {
		if h != "" {
			hints = append(hints, h)
		}
	}
	return hints
}
