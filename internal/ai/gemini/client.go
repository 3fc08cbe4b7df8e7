package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai"
)

const (
	ProviderName = "gemini"

	DefaultModel = "gemini-2.5-pro"
)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator wraps the Google GenAI client. Every Complete call opens a fresh chat
// with the system prompt as its system instruction.
type Generator struct {
	chats chatCreator
	model string
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	return &Generator{chats: genaiChats{chats: client.Chats}, model: model}, nil
}

// Complete sends the user prompt and returns the text of the first candidate.
func (g *Generator) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
	}

	chat, err := g.chats.Create(ctx, g.model, cfg, nil)
	if err != nil {
		return "", fmt.Errorf("create gemini chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: userPrompt})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &ai.StatusError{
				Provider:   ProviderName,
				StatusCode: apiErr.Code,
				Body:       strings.TrimSpace(apiErr.Status + " " + apiErr.Message),
			}
		}
		return "", fmt.Errorf("gemini send message: %w", err)
	}

	return firstCandidateText(resp)
}

func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ai.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", ai.ErrEmptyResponse
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		builder.WriteString(part.Text)
	}

	if strings.TrimSpace(builder.String()) == "" {
		return "", ai.ErrEmptyResponse
	}

	return builder.String(), nil
}

func (g *Generator) Provider() string { return ProviderName }

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
