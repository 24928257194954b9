package narrator

import (
	"context"
	"strings"
	"testing"

	"github.com/zen-systems/burngate/pkg/evidence"
)

func verdictFixture() *evidence.StudyVerdict {
	return &evidence.StudyVerdict{
		RunID:                "run-007",
		State:                evidence.StateBudgetExhausted,
		Partial:              true,
		Pairs:                6,
		NoZauth:              evidence.ConditionResults{MeanBurnRate: 0.30},
		WithZauth:            evidence.ConditionResults{MeanBurnRate: 0.04},
		BurnReductionPercent: 86.7,
		TStatistic:           4.2,
		PValue:               0.01,
		EffectSize:           1.1,
		EffectInterpretation: "large",
		NetSavingsPerCycle:   0.012,
		BreakEvenFailureRate: 0.1,
	}
}

func TestBuildPromptIncludesKeyNumbers(t *testing.T) {
	prompt := BuildPrompt(verdictFixture())
	for _, want := range []string{
		"run-007",
		"partial, state budget-exhausted",
		"6 matched pairs",
		"Burn reduction: 86.7%",
		"t=4.200, p=0.0100",
		"large",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptOmitsPartialForCompletedRun(t *testing.T) {
	verdict := verdictFixture()
	verdict.Partial = false
	verdict.State = evidence.StateCompleted
	if strings.Contains(BuildPrompt(verdict), "partial") {
		t.Fatalf("completed run flagged as partial")
	}
}

func TestMockNarrator(t *testing.T) {
	mock := NewMockNarrator()
	summary, err := mock.Narrate(context.Background(), verdictFixture())
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if !strings.Contains(summary, "run-007") || !strings.Contains(summary, "86.7%") {
		t.Fatalf("summary = %q", summary)
	}
	if mock.LastPrompt == "" {
		t.Fatalf("prompt not recorded")
	}

	mock.Response = "canned"
	summary, err = mock.Narrate(context.Background(), verdictFixture())
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if summary != "canned" {
		t.Fatalf("summary = %q, want canned", summary)
	}
}

func TestNarratorConstructorsRequireKeys(t *testing.T) {
	if _, err := NewAnthropicNarrator(""); err == nil {
		t.Fatalf("expected error for empty anthropic key")
	}
	if _, err := NewOpenAINarrator(""); err == nil {
		t.Fatalf("expected error for empty openai key")
	}
	if _, err := NewGoogleNarrator(""); err == nil {
		t.Fatalf("expected error for empty google key")
	}
}
