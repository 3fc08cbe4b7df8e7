package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func testConfig(t *testing.T, yaml string) *Config {
	t.Helper()

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatalf("read config: %v", err)
	}

	cfg, err := decodeConfig(v)
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return cfg
}

func TestDecodeConfigDefaults(t *testing.T) {
	cfg := testConfig(t, "")

	if cfg.Provider != "deepseek" {
		t.Fatalf("expected deepseek provider by default, got %q", cfg.Provider)
	}
	if cfg.DeepSeek.URL != "https://api.proxyapi.ru/deepseek/chat/completions" || cfg.DeepSeek.Model != "deepseek-chat" {
		t.Fatalf("unexpected deepseek defaults %+v", cfg.DeepSeek)
	}
	if cfg.OpenAI.Model != "gpt-4o" || cfg.OpenAI.MaxTokens != 1000 || cfg.OpenAI.Temperature != 0 {
		t.Fatalf("unexpected openai defaults %+v", cfg.OpenAI)
	}
	if !cfg.HeadHunter.UseAPI || cfg.HeadHunter.Timeout != 15*time.Second {
		t.Fatalf("unexpected headhunter defaults %+v", cfg.HeadHunter)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Fatalf("unexpected serve addr %q", cfg.Serve.Addr)
	}
}

func TestDecodeConfigOverrides(t *testing.T) {
	cfg := testConfig(t, `
provider: openai
log-max-length: 50
openai:
  model: gpt-4o-mini
  temperature: 0.2
headhunter:
  use-api: false
  timeout: 3s
`)

	if cfg.Provider != "openai" || cfg.LogMaxLength != 50 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" || cfg.OpenAI.Temperature != 0.2 {
		t.Fatalf("unexpected openai config %+v", cfg.OpenAI)
	}
	if cfg.OpenAI.BaseURL != "https://api.proxyapi.ru/openai/v1" {
		t.Fatalf("expected default base url to survive partial override, got %q", cfg.OpenAI.BaseURL)
	}
	if cfg.HeadHunter.UseAPI || cfg.HeadHunter.Timeout != 3*time.Second {
		t.Fatalf("unexpected headhunter config %+v", cfg.HeadHunter)
	}
}

func TestNewCompleter(t *testing.T) {
	t.Setenv("PROXY_API_KEY", "proxy-key")
	t.Setenv("GEMINI_API_KEY", "")

	tests := []struct {
		name         string
		provider     string
		wantProvider string
		wantModel    string
		wantErr      string
	}{
		{name: "default", provider: "", wantProvider: "deepseek", wantModel: "deepseek-chat"},
		{name: "deepseek", provider: "DeepSeek", wantProvider: "deepseek", wantModel: "deepseek-chat"},
		{name: "openai", provider: "openai", wantProvider: "openai", wantModel: "gpt-4o"},
		{name: "gemini without key", provider: "gemini", wantErr: "GEMINI_API_KEY"},
		{name: "unknown", provider: "claude", wantErr: "unsupported llm provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, "")
			cfg.Provider = tt.provider

			completer, err := newCompleter(context.Background(), cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("newCompleter returned error: %v", err)
			}
			if completer.Provider() != tt.wantProvider || completer.Model() != tt.wantModel {
				t.Fatalf("unexpected completer %s/%s", completer.Provider(), completer.Model())
			}
		})
	}
}

func TestProxyAPIKeyFromFile(t *testing.T) {
	t.Setenv("PROXY_API_KEY", "from-env")

	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("from-file\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	cfg := testConfig(t, "")
	cfg.APIKeyFile = path

	key, err := proxyAPIKey(cfg)
	if err != nil {
		t.Fatalf("proxyAPIKey returned error: %v", err)
	}
	if key != "from-file" {
		t.Fatalf("expected key file to win, got %q", key)
	}
}

func TestProxyAPIKeyMissing(t *testing.T) {
	t.Setenv("PROXY_API_KEY", "")

	_, err := proxyAPIKey(testConfig(t, ""))
	if err == nil || !strings.Contains(err.Error(), "PROXY_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestNewHeadHunterAppliesConfig(t *testing.T) {
	hh := newHeadHunter(&HeadHunterConfig{UserAgent: "custom", Timeout: 2 * time.Second}, zap.NewNop())

	if hh.UserAgent != "custom" || hh.UseAPI || hh.HTTPClient.Timeout != 2*time.Second {
		t.Fatalf("unexpected client settings: ua=%q api=%v timeout=%s", hh.UserAgent, hh.UseAPI, hh.HTTPClient.Timeout)
	}
}
