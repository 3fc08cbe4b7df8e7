package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai/deepseek"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai/gemini"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai/openai"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/headhunter"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/input"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/scoring"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/secrets"
)

var providers = []string{deepseek.ProviderName, openai.ProviderName, gemini.ProviderName}

func newCompleter(ctx context.Context, cfg *Config) (ai.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", deepseek.ProviderName:
		apiKey, err := proxyAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		return deepseek.New(cfg.DeepSeek.URL, apiKey, cfg.DeepSeek.Model, nil)

	case openai.ProviderName:
		apiKey, err := proxyAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		return openai.New(openai.Config{
			BaseURL:     cfg.OpenAI.BaseURL,
			APIKey:      apiKey,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
		}, nil)

	case gemini.ProviderName:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (or set gemini.api-key-file)", err)
		}
		return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s (expected one of %s)", cfg.Provider, strings.Join(providers, ", "))
	}
}

func proxyAPIKey(cfg *Config) (string, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "proxy api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "PROXY_API_KEY",
	})
	if err != nil {
		return "", fmt.Errorf("%w (or set api-key-file)", err)
	}

	return apiKey, nil
}

func newHeadHunter(cfg *HeadHunterConfig, logger *zap.Logger) *headhunter.Client {
	hh := headhunter.New(logger.Named("headhunter"))
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		hh.UserAgent = ua
	}
	if cfg.Timeout > 0 {
		hh.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	hh.UseAPI = cfg.UseAPI

	return hh
}

// newScoringService wires the hh.ru fetcher, the input resolver and the configured LLM.
func newScoringService(ctx context.Context, cfg *Config, logger *zap.Logger) (*scoring.Service, error) {
	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resolver := input.NewResolver(newHeadHunter(cfg.HeadHunter, logger), logger.Named("input"))

	return scoring.NewService(resolver, completer, logger.Named("scoring"), cfg.LogMaxLength)
}
