package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	suggestFormat string
	suggestJSON   bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <file> [code]",
	Short: "Generate fix suggestions for a page",
	Long: `Analyzes the page and asks the configured LLM for a fix for each failed or
warning checklist item. Give a rule code (for example CV-002) to get a
suggestion for that item only.

Title and meta description length problems get several rewritten variants
that are checked against the target length.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestFormat, "format", "f", "", "input format (html, markdown)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "output suggestions as JSON")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	if err := requireSuggestions(); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if err := analysisService.CheckReady(ctx); err != nil {
		return err
	}
	if err := suggestionService.CheckReady(ctx); err != nil {
		return err
	}

	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := analysisService.Analyze(ctx, raw, parserHints(suggestFormat, path)...)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	p := newReportPrinter(cmd.OutOrStdout())
	if len(args) == 2 {
		code := strings.ToUpper(args[1])
		sug, err := suggestionService.Suggest(ctx, result, code)
		if err != nil {
			return err
		}
		if suggestJSON {
			return printJSON(cmd, sug)
		}
		item, _ := result.Item(code)
		p.printf("%s %s: %s\n\n", p.status(item.Status), code, item.Name)
		p.println(sug.Body)
		return nil
	}

	suggestions, err := suggestionService.SuggestAll(ctx, result)
	if err != nil {
		return fmt.Errorf("suggestions failed: %w", err)
	}
	if suggestJSON {
		return printJSON(cmd, suggestions)
	}
	p.printf("Overall score: %s\n\n", p.score(result.OverallScore))
	p.Suggestions(result, suggestions)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
