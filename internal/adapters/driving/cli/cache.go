package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the embedding cache",
	Long: `Embeddings are cached per model and text so unchanged headings are not
embedded again. Use 'ccv settings cache' to choose the backend.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached embeddings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireAnalysis(); err != nil {
			return err
		}
		if err := analysisService.ClearCache(commandContext(cmd)); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		cmd.Println("Embedding cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
