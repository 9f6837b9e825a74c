package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type VertexClient struct {
	client    *genai.Client
	modelName string
	maxTokens int32
}

type VertexConfig struct {
	Project   string
	Location  string
	Model     string
	MaxTokens int
}

// NewVertexClient creates a domain.TextGenerator backed by Vertex AI (Gemini).
func NewVertexClient(ctx context.Context, cfg VertexConfig) (*VertexClient, error) {
	if cfg.Project == "" || cfg.Location == "" {
		return nil, fmt.Errorf("vertex project and location must be set")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClient{
		client:    client,
		modelName: modelName,
		maxTokens: int32(cfg.MaxTokens),
	}, nil
}

// Complete implements domain.TextGenerator using Vertex AI.
func (v *VertexClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(userMessage, genai.RoleUser),
	}

	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		// System instructions are sent with the user role
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   v.maxTokens,
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("vertex returned empty text")
	}

	return text, nil
}
