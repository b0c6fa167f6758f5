package adapter

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// GeminiClient implements LLM via the Gemini API on Vertex AI.
type GeminiClient struct {
	client *genai.Client
	model  string
}

type GeminiOption func(*GeminiClient)

func WithGeminiModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.model = model
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiClient{
		client: client,
		model:  "gemini-2.5-flash",
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", goerr.New("no completion generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
