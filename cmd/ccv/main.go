// Command ccv grades the semantic alignment of a page's title, meta
// description and headings.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/ccv-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ccv-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ccv-cli/internal/core/services"
	"github.com/custodia-labs/ccv-cli/internal/parsers"
	"github.com/custodia-labs/ccv-cli/internal/parsers/html"
	"github.com/custodia-labs/ccv-cli/internal/parsers/markdown"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cli.LoadEnv()
	cli.SetVersion(version)

	var configStore driven.ConfigStore
	configStore, err := file.NewConfigStore("")
	if err != nil {
		cli.StartupWarn("Config directory unavailable, settings will not persist: %v", err)
		configStore = memory.NewConfigStore()
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		cli.StartupWarn("Failed to load settings, using defaults: %v", err)
		defaults := settingsService.GetDefaults()
		settings = &defaults
	}

	var embedder driven.EmbeddingService
	var llm driven.LLMService
	backends, err := ai.Init(settings)
	if err != nil {
		cli.StartupWarn("Analysis disabled: %v", err)
	} else {
		defer backends.Close()
		embedder, llm = backends.EmbeddingService, backends.LLMService
		for _, w := range backends.Warnings {
			cli.StartupDebug("%s", w)
		}
	}

	cache, err := openCache(ctx, settings.Cache)
	if err != nil {
		cli.StartupWarn("Embedding cache disabled: %v", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	gateway := services.NewEmbeddingGateway(embedder, llm, cache, services.GatewayConfigFromSettings(settings))
	structure := domain.DefaultStructureThresholds()
	analysis := services.NewAnalysisService(
		gateway,
		services.NewSimilarityAnalyzer(settings.Thresholds),
		services.NewChecklistEvaluator(structure),
		parsers.NewRegistry(html.New(), markdown.New()),
	)

	var suggestion *services.SuggestionService
	if llm != nil {
		prompts, err := file.NewPromptStore("")
		if err != nil {
			cli.StartupWarn("Suggestions disabled: %v", err)
		} else {
			suggestion = services.NewSuggestionService(gateway, prompts, structure)
		}
	}

	if suggestion != nil {
		cli.SetServices(analysis, suggestion, settingsService)
	} else {
		cli.SetServices(analysis, nil, settingsService)
	}

	return cli.Execute(ctx)
}

// openCache builds the embedding cache selected in settings. It returns a
// nil cache when caching is off.
func openCache(ctx context.Context, cfg domain.CacheSettings) (driven.EmbeddingCache, error) {
	switch cfg.Backend {
	case domain.CacheBackendOff:
		return nil, nil
	case domain.CacheBackendSQLite:
		store, err := sqlite.NewStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		if n, err := store.Prune(ctx); err != nil {
			cli.StartupWarn("Failed to prune embedding cache: %v", err)
		} else if n > 0 {
			cli.StartupDebug("Pruned %d expired embeddings from %s", n, store.Path())
		}
		return store, nil
	default:
		return memory.NewEmbeddingCache(), nil
	}
}
