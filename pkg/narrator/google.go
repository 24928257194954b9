package narrator

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/zen-systems/burngate/pkg/evidence"
)

const googleModel = "gemini-2.0-pro"

// GoogleNarrator summarizes verdicts with Gemini.
type GoogleNarrator struct {
	client *genai.Client
	model  string
}

// NewGoogleNarrator creates a Gemini-backed narrator.
func NewGoogleNarrator(apiKey string) (*GoogleNarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleNarrator{client: client, model: googleModel}, nil
}

// Name returns the backend identifier.
func (n *GoogleNarrator) Name() string {
	return "google"
}

// Narrate sends the verdict prompt to Gemini.
func (n *GoogleNarrator) Narrate(ctx context.Context, verdict *evidence.StudyVerdict) (string, error) {
	resp, err := n.client.Models.GenerateContent(ctx, n.model, genai.Text(BuildPrompt(verdict)), nil)
	if err != nil {
		return "", fmt.Errorf("google API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("google returned no candidates")
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}
	return content, nil
}
