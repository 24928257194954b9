// Package narrator turns a study verdict into a short plain-language
// summary via an LLM backend. The numbers always stand on their own; the
// narrative is a convenience layer for writeups.
package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/zen-systems/burngate/pkg/evidence"
)

// Narrator produces a prose summary of a verdict.
type Narrator interface {
	// Narrate sends the verdict to the model and returns its summary.
	Narrate(ctx context.Context, verdict *evidence.StudyVerdict) (string, error)

	// Name returns the backend's identifier.
	Name() string
}

// BuildPrompt renders the fixed prompt all backends share. Keeping the
// prompt identical across backends makes their outputs comparable.
func BuildPrompt(verdict *evidence.StudyVerdict) string {
	var b strings.Builder
	b.WriteString("You are summarizing the result of a paid-API reliability experiment.\n")
	b.WriteString("An agent paid per request to crypto data endpoints under two conditions:\n")
	b.WriteString("without a reliability pre-check, and with a paid pre-check (Zauth) that\n")
	b.WriteString("skips endpoints reported as unreliable. Wasted spend on failed or invalid\n")
	b.WriteString("responses is called burn.\n\n")

	fmt.Fprintf(&b, "Run %s", verdict.RunID)
	if verdict.Partial {
		fmt.Fprintf(&b, " (partial, state %s)", verdict.State)
	}
	fmt.Fprintf(&b, ", %d matched pairs.\n", verdict.Pairs)
	fmt.Fprintf(&b, "Mean burn rate without pre-check: %.4f\n", verdict.NoZauth.MeanBurnRate)
	fmt.Fprintf(&b, "Mean burn rate with pre-check: %.4f\n", verdict.WithZauth.MeanBurnRate)
	fmt.Fprintf(&b, "Burn reduction: %.1f%%\n", verdict.BurnReductionPercent)
	fmt.Fprintf(&b, "Paired t-test: t=%.3f, p=%.4f\n", verdict.TStatistic, verdict.PValue)
	fmt.Fprintf(&b, "Effect size (Cohen's d): %.3f (%s)\n", verdict.EffectSize, verdict.EffectInterpretation)
	fmt.Fprintf(&b, "Net savings per cycle after check fees: %.4f USDC\n", verdict.NetSavingsPerCycle)
	fmt.Fprintf(&b, "Break-even failure rate: %.4f\n", verdict.BreakEvenFailureRate)

	b.WriteString("\nWrite three to five sentences for a technical reader: whether the\n")
	b.WriteString("pre-check paid for itself, how strong the evidence is, and any caveat a\n")
	b.WriteString("partial run implies. Do not restate every number.\n")
	return b.String()
}
