// Package cli provides the cobra command tree of the ccv binary.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ccv-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ccv-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// startupLog is a message raised while wiring services, before flags are parsed.
type startupLog struct {
	warn bool
	msg  string
}

var startupLogs []startupLog

// Services wired by main.
var (
	analysisService   driving.AnalysisService
	suggestionService driving.SuggestionService
	settingsService   driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "ccv",
	Short: "Content Context Vector analyzer",
	Long: `ccv checks how well the title, meta description and headings of a page
agree with each other semantically.

Each text element is embedded with a local or hosted embedding model, pairs
are scored with cosine similarity and the page is graded against a 19-point
checklist. Failed checks can be turned into rewrite suggestions by an LLM.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		flushStartupLogs()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline stages to stderr")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices sets the driving services used by the commands.
// Any of them may be nil; commands that need a missing service fail.
func SetServices(analysis driving.AnalysisService, suggestion driving.SuggestionService, settings driving.SettingsService) {
	analysisService = analysis
	suggestionService = suggestion
	settingsService = settings
}

// StartupWarn queues a warning raised before the command line is parsed.
// It is logged once --verbose is known.
func StartupWarn(format string, args ...any) {
	startupLogs = append(startupLogs, startupLog{warn: true, msg: fmt.Sprintf(format, args...)})
}

// StartupDebug queues a debug message raised before the command line is parsed.
func StartupDebug(format string, args ...any) {
	startupLogs = append(startupLogs, startupLog{msg: fmt.Sprintf(format, args...)})
}

func flushStartupLogs() {
	logs := startupLogs
	startupLogs = nil
	for _, l := range logs {
		if l.warn {
			logger.Warn("%s", l.msg)
		} else {
			logger.Debug("%s", l.msg)
		}
	}
}

// LoadEnv loads a .env file from the working directory if one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		StartupDebug("No .env file loaded: %v", err)
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func requireAnalysis() error {
	if analysisService == nil {
		return errors.New("analysis service not configured (run 'ccv settings embedding')")
	}
	return nil
}

func requireSuggestions() error {
	if suggestionService == nil {
		return errors.New("suggestion service not configured (run 'ccv settings llm')")
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
