package narrator

import (
	"context"
	"fmt"

	"github.com/zen-systems/burngate/pkg/evidence"
)

// MockNarrator returns a deterministic summary for local runs and tests.
type MockNarrator struct {
	// Response overrides the generated summary when non-empty.
	Response string
	// LastPrompt records the prompt from the most recent call.
	LastPrompt string
}

// NewMockNarrator creates a mock narrator.
func NewMockNarrator() *MockNarrator {
	return &MockNarrator{}
}

// Name returns the backend identifier.
func (n *MockNarrator) Name() string {
	return "mock"
}

// Narrate returns a canned summary derived from the verdict.
func (n *MockNarrator) Narrate(_ context.Context, verdict *evidence.StudyVerdict) (string, error) {
	n.LastPrompt = BuildPrompt(verdict)
	if n.Response != "" {
		return n.Response, nil
	}
	return fmt.Sprintf("Run %s: burn reduction %.1f%% over %d pairs (p=%.4f).",
		verdict.RunID, verdict.BurnReductionPercent, verdict.Pairs, verdict.PValue), nil
}
