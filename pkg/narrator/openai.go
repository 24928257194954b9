package narrator

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/zen-systems/burngate/pkg/evidence"
)

const openAIModel = "gpt-5.2-instant"

// OpenAINarrator summarizes verdicts with OpenAI models.
type OpenAINarrator struct {
	client openai.Client
	model  string
}

// NewOpenAINarrator creates an OpenAI-backed narrator.
func NewOpenAINarrator(apiKey string) (*OpenAINarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient()
	return &OpenAINarrator{client: client, model: openAIModel}, nil
}

// Name returns the backend identifier.
func (n *OpenAINarrator) Name() string {
	return "openai"
}

// Narrate sends the verdict prompt to OpenAI.
func (n *OpenAINarrator) Narrate(ctx context.Context, verdict *evidence.StudyVerdict) (string, error) {
	resp, err := n.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(n.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(BuildPrompt(verdict)),
		},
		MaxCompletionTokens: openai.Int(1024),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
