// Package report renders verdicts and comparison summaries for humans and
// downstream tools. Table output targets the terminal; json, csv and
// markdown exist for piping into notebooks and writeups.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/zen-systems/burngate/pkg/evidence"
)

// Format names a renderer.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatCSV, FormatMarkdown:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json, csv or markdown)", s)
	}
}

// RenderStudy writes a study verdict in the requested format.
func RenderStudy(w io.Writer, verdict *evidence.StudyVerdict, format Format) error {
	if verdict == nil {
		return fmt.Errorf("verdict is required")
	}
	switch format {
	case FormatJSON:
		return renderJSON(w, verdict)
	case FormatCSV:
		return studyCSV(w, verdict)
	case FormatMarkdown:
		return studyMarkdown(w, verdict)
	default:
		return studyTable(w, verdict)
	}
}

// RenderComparison writes a comparison summary in the requested format.
func RenderComparison(w io.Writer, summary *evidence.ComparisonSummary, format Format) error {
	if summary == nil {
		return fmt.Errorf("summary is required")
	}
	switch format {
	case FormatJSON:
		return renderJSON(w, summary)
	case FormatCSV:
		return comparisonCSV(w, summary)
	case FormatMarkdown:
		return comparisonMarkdown(w, summary)
	default:
		return comparisonTable(w, summary)
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// partialMarker flags results from runs that stopped early. Partial numbers
// are real money spent and are always reported, just never presented as a
// full experiment.
func partialMarker(state evidence.RunState, partial bool) string {
	if !partial {
		return ""
	}
	return fmt.Sprintf(" (PARTIAL: %s)", state)
}

func studyTable(w io.Writer, v *evidence.StudyVerdict) error {
	fmt.Fprintf(w, "Matched-pair study %s%s\n\n", v.RunID, partialMarker(v.State, v.Partial))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONDITION\tTRIALS\tMEAN BURN RATE\tMEAN SPENT\tMEAN BURN\tMEAN ZAUTH")
	for _, c := range []evidence.ConditionResults{v.NoZauth, v.WithZauth} {
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\n",
			c.Condition, c.Trials, c.MeanBurnRate, c.MeanSpent, c.MeanBurn, c.MeanZauthCost)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nPairs:                 %d\n", v.Pairs)
	fmt.Fprintf(w, "Burn reduction:        %.1f%%\n", v.BurnReductionPercent)
	fmt.Fprintf(w, "95%% CI (burn rate):    [%.4f, %.4f]\n", v.CI95Low, v.CI95High)
	fmt.Fprintf(w, "t-statistic:           %.3f\n", v.TStatistic)
	fmt.Fprintf(w, "p-value:               %.4f\n", v.PValue)
	fmt.Fprintf(w, "Effect size:           %.3f (%s)\n", v.EffectSize, v.EffectInterpretation)
	fmt.Fprintf(w, "Net savings per cycle: %.4f USDC\n", v.NetSavingsPerCycle)
	fmt.Fprintf(w, "Break-even fail rate:  %.4f\n", v.BreakEvenFailureRate)
	return nil
}

func studyCSV(w io.Writer, v *evidence.StudyVerdict) error {
	cw := csv.NewWriter(w)
	header := []string{
		"run_id", "state", "partial", "pairs",
		"condition", "trials", "mean_burn_rate", "mean_spent", "mean_burn", "mean_zauth_cost",
		"burn_reduction_percent", "p_value", "effect_size", "net_savings_per_cycle",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range []evidence.ConditionResults{v.NoZauth, v.WithZauth} {
		row := []string{
			v.RunID, string(v.State), strconv.FormatBool(v.Partial), strconv.Itoa(v.Pairs),
			string(c.Condition), strconv.Itoa(c.Trials),
			formatFloat(c.MeanBurnRate), formatFloat(c.MeanSpent),
			formatFloat(c.MeanBurn), formatFloat(c.MeanZauthCost),
			formatFloat(v.BurnReductionPercent), formatFloat(v.PValue),
			formatFloat(v.EffectSize), formatFloat(v.NetSavingsPerCycle),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func studyMarkdown(w io.Writer, v *evidence.StudyVerdict) error {
	fmt.Fprintf(w, "## Matched-pair study `%s`%s\n\n", v.RunID, partialMarker(v.State, v.Partial))
	fmt.Fprintln(w, "| Condition | Trials | Mean burn rate | Mean spent | Mean burn | Mean Zauth |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, c := range []evidence.ConditionResults{v.NoZauth, v.WithZauth} {
		fmt.Fprintf(w, "| %s | %d | %.4f | %.4f | %.4f | %.4f |\n",
			c.Condition, c.Trials, c.MeanBurnRate, c.MeanSpent, c.MeanBurn, c.MeanZauthCost)
	}
	fmt.Fprintf(w, "\n- Pairs: %d\n", v.Pairs)
	fmt.Fprintf(w, "- Burn reduction: %.1f%%\n", v.BurnReductionPercent)
	fmt.Fprintf(w, "- 95%% CI on burn rate: [%.4f, %.4f]\n", v.CI95Low, v.CI95High)
	fmt.Fprintf(w, "- t = %.3f, p = %.4f\n", v.TStatistic, v.PValue)
	fmt.Fprintf(w, "- Effect size: %.3f (%s)\n", v.EffectSize, v.EffectInterpretation)
	fmt.Fprintf(w, "- Net savings per cycle: %.4f USDC\n", v.NetSavingsPerCycle)
	fmt.Fprintf(w, "- Break-even failure rate: %.4f\n", v.BreakEvenFailureRate)
	return nil
}

func comparisonTable(w io.Writer, s *evidence.ComparisonSummary) error {
	fmt.Fprintf(w, "Interleaved comparison %s%s\n\n", s.RunID, partialMarker(s.State, s.Partial))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONDITION\tSPENT\tBURN\tZAUTH\tATTEMPTED\tFAILED\tSKIPPED")
	for _, row := range []struct {
		name   string
		totals evidence.ConditionTotals
	}{
		{"no-zauth", s.NoZauth},
		{"with-zauth", s.WithZauth},
	} {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%d\t%d\t%d\n",
			row.name, row.totals.Spent, row.totals.Burn, row.totals.ZauthCost,
			row.totals.Attempted, row.totals.Failed, row.totals.Skipped)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nComparisons:    %d\n", s.Comparisons)
	fmt.Fprintf(w, "Burn reduction: %.1f%%\n", s.BurnReductionPercent)
	fmt.Fprintf(w, "Net savings:    %.4f USDC\n", s.NetSavings)
	fmt.Fprintf(w, "Budget:         %.4f / %.4f USDC\n", s.BudgetUsed, s.BudgetCap)
	writeAllocation(w, "Best pool (no-zauth)", s.BestNoZauth)
	writeAllocation(w, "Best pool (with-zauth)", s.BestWithZauth)
	return nil
}

func writeAllocation(w io.Writer, label string, a *evidence.Allocation) {
	if a == nil {
		fmt.Fprintf(w, "%s: none surfaced\n", label)
		return
	}
	fmt.Fprintf(w, "%s: %s/%s (%s) at %.2f%% APY\n", label, a.TokenA, a.TokenB, a.PoolID, a.APY*100)
}

func comparisonCSV(w io.Writer, s *evidence.ComparisonSummary) error {
	cw := csv.NewWriter(w)
	header := []string{
		"run_id", "state", "partial", "condition",
		"spent", "burn", "zauth_cost", "attempted", "failed", "skipped",
		"burn_reduction_percent", "net_savings",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range []struct {
		name   string
		totals evidence.ConditionTotals
	}{
		{"no-zauth", s.NoZauth},
		{"with-zauth", s.WithZauth},
	} {
		record := []string{
			s.RunID, string(s.State), strconv.FormatBool(s.Partial), row.name,
			formatFloat(row.totals.Spent), formatFloat(row.totals.Burn), formatFloat(row.totals.ZauthCost),
			strconv.Itoa(row.totals.Attempted), strconv.Itoa(row.totals.Failed), strconv.Itoa(row.totals.Skipped),
			formatFloat(s.BurnReductionPercent), formatFloat(s.NetSavings),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func comparisonMarkdown(w io.Writer, s *evidence.ComparisonSummary) error {
	fmt.Fprintf(w, "## Interleaved comparison `%s`%s\n\n", s.RunID, partialMarker(s.State, s.Partial))
	fmt.Fprintln(w, "| Condition | Spent | Burn | Zauth | Attempted | Failed | Skipped |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|")
	for _, row := range []struct {
		name   string
		totals evidence.ConditionTotals
	}{
		{"no-zauth", s.NoZauth},
		{"with-zauth", s.WithZauth},
	} {
		fmt.Fprintf(w, "| %s | %.4f | %.4f | %.4f | %d | %d | %d |\n",
			row.name, row.totals.Spent, row.totals.Burn, row.totals.ZauthCost,
			row.totals.Attempted, row.totals.Failed, row.totals.Skipped)
	}
	fmt.Fprintf(w, "\n- Comparisons: %d\n", s.Comparisons)
	fmt.Fprintf(w, "- Burn reduction: %.1f%%\n", s.BurnReductionPercent)
	fmt.Fprintf(w, "- Net savings: %.4f USDC\n", s.NetSavings)
	fmt.Fprintf(w, "- Budget used: %.4f of %.4f USDC\n", s.BudgetUsed, s.BudgetCap)
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
