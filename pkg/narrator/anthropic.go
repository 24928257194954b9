package narrator

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/zen-systems/burngate/pkg/evidence"
)

const anthropicModel = "claude-sonnet-4-20250514"

// AnthropicNarrator summarizes verdicts with Claude.
type AnthropicNarrator struct {
	client anthropic.Client
	model  string
}

// NewAnthropicNarrator creates a Claude-backed narrator.
func NewAnthropicNarrator(apiKey string) (*AnthropicNarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient()
	return &AnthropicNarrator{client: client, model: anthropicModel}, nil
}

// Name returns the backend identifier.
func (n *AnthropicNarrator) Name() string {
	return "anthropic"
}

// Narrate sends the verdict prompt to Claude.
func (n *AnthropicNarrator) Narrate(ctx context.Context, verdict *evidence.StudyVerdict) (string, error) {
	resp, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(n.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(verdict))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	return content, nil
}
