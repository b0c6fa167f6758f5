package adapter

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"
)

const defaultClaudeModel = "claude-sonnet-4-5"

// claudeClient implements LLM via the Anthropic Messages API
type claudeClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

type ClaudeOption func(*claudeClient)

func WithClaudeModel(model string) ClaudeOption {
	return func(c *claudeClient) {
		c.model = anthropic.Model(model)
	}
}

// NewClaude creates a new Claude API client
func NewClaude(apiKey string, opts ...ClaudeOption) LLM {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	c := &claudeClient{
		client: &client,
		model:  defaultClaudeModel,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *claudeClient) Generate(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate completion")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
