// Package ai provides factory functions for creating LLM service adapters.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	ollamallm "github.com/guavabuy/secondbrain/internal/adapters/driven/llm/ollama"
	openaillm "github.com/guavabuy/secondbrain/internal/adapters/driven/llm/openai"
	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Supported LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Settings selects and configures an LLM provider.
type Settings struct {
	// Provider is "openai" or "ollama". Empty means no LLM: the profile
	// updater and persona are disabled, friend mode keeps working.
	Provider string

	// APIKey is required for the openai provider.
	APIKey string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// Model is the chat model; each provider has its own default.
	Model string
}

// IsConfigured reports whether a provider is selected.
func (s Settings) IsConfigured() bool {
	return strings.TrimSpace(s.Provider) != ""
}

// pinger is implemented by adapters that support a connectivity check.
type pinger interface {
	Ping(ctx context.Context) error
}

// CreateLLMService creates the configured LLM adapter. Unconfigured
// settings yield a nil service and no error.
func CreateLLMService(settings Settings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch strings.ToLower(strings.TrimSpace(settings.Provider)) {
	case ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", settings.Provider)
	}
}

// CreateAndValidateLLMService creates an LLM service and validates
// connectivity. Returns the service if successful, or an error with
// guidance.
func CreateAndValidateLLMService(settings Settings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	if p, ok := svc.(pinger); ok {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
		}
	}
	return svc, nil
}
