package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding and LLM providers, the embedding cache
and the similarity thresholds.

Use subcommands to configure specific settings or run the interactive wizard.
Settings are stored in ~/.ccv/config.toml. CCV_OLLAMA_URL,
CCV_EMBEDDING_MODEL and CCV_LLM_MODEL override them for a single run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used to vectorise page elements.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used to generate fix suggestions.`,
	RunE:  runSettingsLLM,
}

var settingsCacheCmd = &cobra.Command{
	Use:   "cache <memory|sqlite|off>",
	Short: "Set embedding cache backend",
	Long: `Set where embeddings are cached between requests.

Available backends:
  memory - In-process cache, lost when ccv exits (default)
  sqlite - Persistent cache in ~/.ccv/data/cache.db
  off    - No caching`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsCache,
}

var settingsThresholdCmd = &cobra.Command{
	Use:   "threshold <name> <min> <target_min> <target_max> <max>",
	Short: "Override a similarity band",
	Long: `Override one similarity band. Names: title_meta, title_h1, meta_h1, h2.

Scores inside [target_min, target_max] pass, scores inside [min, max] warn
and everything else fails. Values must be non-decreasing within [-1, 1].

Example:
  ccv settings threshold title_h1 0.75 0.80 0.90 0.95`,
	Args: cobra.ExactArgs(5),
	RunE: runSettingsThreshold,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsCacheCmd)
	settingsCmd.AddCommand(settingsThresholdCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	printAPIKey(cmd, settings.Embedding.Provider, settings.Embedding.APIKey)
	cmd.Printf("  Timeout: %s\n", settings.Embedding.Timeout)
	cmd.Printf("  Status: %s\n", configuredLabel(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	printAPIKey(cmd, settings.LLM.Provider, settings.LLM.APIKey)
	cmd.Printf("  Timeout: %s\n", settings.LLM.Timeout)
	cmd.Printf("  Status: %s\n", configuredLabel(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Backend: %s\n", settings.Cache.Backend)
	cmd.Printf("  TTL: %s\n", settings.Cache.TTL)
	if settings.Cache.Backend == domain.CacheBackendSQLite && settings.Cache.Path != "" {
		cmd.Printf("  Path: %s\n", settings.Cache.Path)
	}
	cmd.Println()

	cmd.Println("[Gateway]")
	cmd.Printf("  Concurrency: %d\n", settings.Gateway.Concurrency)
	if settings.Gateway.RequestsPerSecond > 0 {
		cmd.Printf("  Requests/second: %.1f\n", settings.Gateway.RequestsPerSecond)
	} else {
		cmd.Printf("  Requests/second: unlimited\n")
	}
	cmd.Printf("  Max attempts: %d\n", settings.Gateway.MaxAttempts)
	cmd.Println()

	cmd.Println("[Thresholds]")
	bands := []struct {
		name string
		band domain.ThresholdBand
	}{
		{"title_meta", settings.Thresholds.TitleMeta},
		{"title_h1", settings.Thresholds.TitleH1},
		{"meta_h1", settings.Thresholds.MetaH1},
		{"h2", settings.Thresholds.H2},
	}
	for _, b := range bands {
		cmd.Printf("  %-10s %s\n", b.name+":", formatBand(b.band))
	}
	cmd.Printf("  %-10s %.2f\n", "drift:", settings.Thresholds.TopicDrift)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'ccv settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("ccv Settings Wizard")
	cmd.Println("===================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Configure Embedding Provider")
	cmd.Println("------------------------------------")
	cmd.Println("Every analysis embeds the page's title, meta description and headings.")
	cmd.Println()
	if err := configureEmbeddingProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Configure LLM Provider")
	cmd.Println("------------------------------")
	cmd.Print("Configure an LLM for fix suggestions? [Y/n]: ")
	if answer := strings.ToLower(readLine(reader)); answer == "n" || answer == "no" {
		cmd.Println("Skipped. Suggestions stay disabled until an LLM is configured.")
		cmd.Println()
	} else if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 3: Select Embedding Cache")
	cmd.Println("------------------------------")
	backends := []domain.CacheBackend{domain.CacheBackendMemory, domain.CacheBackendSQLite, domain.CacheBackendOff}
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b)
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(backends), 1)
	if err := settingsService.SetCacheBackend(backends[idx-1]); err != nil {
		return fmt.Errorf("failed to set cache backend: %w", err)
	}
	cmd.Printf("Cache backend set to: %s\n\n", backends[idx-1])

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runSettingsCache(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	backend := domain.CacheBackend(strings.ToLower(args[0]))
	if err := settingsService.SetCacheBackend(backend); err != nil {
		return fmt.Errorf("failed to set cache backend: %w", err)
	}
	cmd.Printf("Cache backend set to: %s\n", backend)
	return nil
}

func runSettingsThreshold(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	values := make([]float64, 0, 4)
	for _, arg := range args[1:] {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid threshold value %q", arg)
		}
		values = append(values, v)
	}
	band := domain.ThresholdBand{Min: values[0], TargetMin: values[1], TargetMax: values[2], Max: values[3]}

	if err := settingsService.SetThreshold(args[0], band); err != nil {
		return fmt.Errorf("failed to set threshold: %w", err)
	}
	cmd.Printf("Threshold %s set to: %s\n", args[0], formatBand(band))
	return nil
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

func printAPIKey(cmd *cobra.Command, provider domain.AIProvider, key string) {
	if !provider.RequiresAPIKey() {
		return
	}
	if key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func formatBand(b domain.ThresholdBand) string {
	return fmt.Sprintf("pass %.2f-%.2f, warn %.2f-%.2f", b.TargetMin, b.TargetMax, b.Min, b.Max)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo on a terminal and falls back to reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
