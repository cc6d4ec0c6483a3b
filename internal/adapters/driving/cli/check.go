package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the AI backends are ready",
	Long: `Checks that the embedding backend is reachable and the embedding model is
installed, and does the same for the LLM when one is configured. Lists the
models the embedding backend offers.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}

	st, err := analysisService.Status(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if checkJSON {
		if err := printJSON(cmd, st); err != nil {
			return err
		}
	} else {
		newReportPrinter(cmd.OutOrStdout()).Status(st)
	}

	if !st.CanAnalyze() {
		return errors.New("embedding backend is not ready")
	}
	return nil
}
