package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai"
)

const (
	ProviderName = "deepseek"

	DefaultURL   = "https://api.proxyapi.ru/deepseek/chat/completions"
	DefaultModel = "deepseek-chat"
)

// Client calls a DeepSeek chat-completions endpoint.
type Client struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

// New creates a client. Empty url and model fall back to the proxyapi.ru endpoint and
// deepseek-chat. A nil httpClient means http.DefaultClient.
func New(url, apiKey, model string, httpClient *http.Client) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("deepseek api key is required")
	}

	if url = strings.TrimSpace(url); url == "" {
		url = DefaultURL
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		url:        url,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete posts the system and user messages and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal deepseek request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create deepseek request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepseek request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read deepseek response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ai.StatusError{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode,
			Body:       string(respBytes),
		}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", fmt.Errorf("parse deepseek response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (c *Client) Provider() string { return ProviderName }

func (c *Client) Model() string { return c.model }
