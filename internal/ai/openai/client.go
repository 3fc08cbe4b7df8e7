package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai"
)

const (
	ProviderName = "openai"

	DefaultBaseURL   = "https://api.proxyapi.ru/openai/v1"
	DefaultModel     = "gpt-4o"
	DefaultMaxTokens = 1000
)

// Config holds the request settings of the chat-completions call.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client calls an OpenAI-compatible chat-completions endpoint through the official SDK.
type Client struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

// New creates a client. SDK retries are disabled: one request per Complete call.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &Client{
		client:      openai.NewClient(opts...),
		model:       model,
		maxTokens:   int64(maxTokens),
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends the system and user messages and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		MaxTokens:   openai.Int(c.maxTokens),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &ai.StatusError{
				Provider:   ProviderName,
				StatusCode: apiErr.StatusCode,
				Body:       errorBody(apiErr),
			}
		}
		return "", fmt.Errorf("openai request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

// errorBody returns the raw response body, which the SDK restores on the error.
// RawJSON only holds the inner "error" object and is empty for non-JSON bodies.
func errorBody(apiErr *openai.Error) string {
	if apiErr.Response != nil && apiErr.Response.Body != nil {
		if b, err := io.ReadAll(apiErr.Response.Body); err == nil && len(b) > 0 {
			return string(b)
		}
	}
	return apiErr.RawJSON()
}

func (c *Client) Provider() string { return ProviderName }

func (c *Client) Model() string { return c.model }
