package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// checkBackend verifies one backend is reachable and offers model.
// Failures are returned as *domain.PreconditionError with a hint.
func checkBackend(
	ctx context.Context,
	provider domain.AIProvider,
	model string,
	reachable func(context.Context) bool,
	has func(context.Context, string) (bool, error),
) error {
	if !reachable(ctx) {
		return &domain.PreconditionError{
			Err:  fmt.Errorf("%w: %s", domain.ErrServiceUnreachable, provider.Description()),
			Hint: unreachableHint(provider),
		}
	}

	ok, err := has(ctx, model)
	if err != nil {
		return &domain.PreconditionError{
			Err:  fmt.Errorf("%w: list models: %w", domain.ErrServiceUnreachable, err),
			Hint: unreachableHint(provider),
		}
	}
	if !ok {
		return &domain.PreconditionError{
			Err:  fmt.Errorf("%w: %s", domain.ErrModelMissing, model),
			Hint: missingModelHint(provider, model),
		}
	}
	return nil
}

func unreachableHint(provider domain.AIProvider) string {
	if provider == domain.AIProviderOllama {
		return "Make sure Ollama is running: ollama serve"
	}
	return fmt.Sprintf("Check the %s API key and base URL: ccv settings", provider)
}

func missingModelHint(provider domain.AIProvider, model string) string {
	if provider == domain.AIProviderOllama {
		return "Install it with: ollama pull " + model
	}
	return fmt.Sprintf("Choose a model offered by %s: ccv settings", provider)
}
