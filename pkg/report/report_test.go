package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/zen-systems/burngate/pkg/evidence"
)

func sampleVerdict() *evidence.StudyVerdict {
	return &evidence.StudyVerdict{
		RunID: "run-abc",
		State: evidence.StateCompleted,
		Pairs: 10,
		NoZauth: evidence.ConditionResults{
			Condition:    evidence.ConditionNoZauth,
			Trials:       10,
			MeanBurnRate: 0.31,
			MeanSpent:    0.10,
			MeanBurn:     0.031,
		},
		WithZauth: evidence.ConditionResults{
			Condition:     evidence.ConditionWithZauth,
			Trials:        10,
			MeanBurnRate:  0.05,
			MeanSpent:     0.07,
			MeanBurn:      0.0035,
			MeanZauthCost: 0.01,
		},
		BurnReductionPercent: 83.9,
		CI95Low:              0.18,
		CI95High:             0.34,
		TStatistic:           6.44,
		PValue:               0.0001,
		EffectSize:           1.9,
		EffectInterpretation: "large",
		NetSavingsPerCycle:   0.0175,
		BreakEvenFailureRate: 0.1,
	}
}

func sampleSummary() *evidence.ComparisonSummary {
	return &evidence.ComparisonSummary{
		RunID:       "cmp-xyz",
		State:       evidence.StateInterrupted,
		Partial:     true,
		Comparisons: 4,
		NoZauth:     evidence.ConditionTotals{Spent: 0.20, Burn: 0.08, Attempted: 4, Failed: 2},
		WithZauth:   evidence.ConditionTotals{Spent: 0.12, Burn: 0.01, ZauthCost: 0.004, Attempted: 3, Failed: 1, Skipped: 1},
		BestNoZauth: &evidence.Allocation{PoolID: "hp", TokenA: "ETH", TokenB: "USDC", APY: 0.317},
		BurnReductionPercent: 87.5,
		NetSavings:           0.066,
		BudgetCap:            1.00,
		BudgetUsed:           0.324,
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"table", "json", "csv", "markdown"} {
		if _, err := ParseFormat(valid); err != nil {
			t.Fatalf("ParseFormat(%q): %v", valid, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestStudyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderStudy(&buf, sampleVerdict(), FormatTable); err != nil {
		t.Fatalf("RenderStudy: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"run-abc", "no-zauth", "with-zauth", "83.9%", "0.0001", "large"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "PARTIAL") {
		t.Fatalf("completed run marked partial:\n%s", out)
	}
}

func TestStudyJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderStudy(&buf, sampleVerdict(), FormatJSON); err != nil {
		t.Fatalf("RenderStudy: %v", err)
	}
	var decoded evidence.StudyVerdict
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.RunID != "run-abc" || decoded.Pairs != 10 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestStudyCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderStudy(&buf, sampleVerdict(), FormatCSV); err != nil {
		t.Fatalf("RenderStudy: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// Header plus one row per condition.
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 3", len(records))
	}
	if records[1][4] != "no-zauth" || records[2][4] != "with-zauth" {
		t.Fatalf("condition columns = %q, %q", records[1][4], records[2][4])
	}
}

func TestComparisonPartialMarker(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderComparison(&buf, sampleSummary(), FormatTable); err != nil {
		t.Fatalf("RenderComparison: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "PARTIAL: interrupted") {
		t.Fatalf("partial run not marked:\n%s", out)
	}
	if !strings.Contains(out, "ETH/USDC") {
		t.Fatalf("best allocation missing:\n%s", out)
	}
	if !strings.Contains(out, "none surfaced") {
		t.Fatalf("missing placeholder for absent with-zauth allocation:\n%s", out)
	}
}

func TestComparisonMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderComparison(&buf, sampleSummary(), FormatMarkdown); err != nil {
		t.Fatalf("RenderComparison: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "| no-zauth |") || !strings.Contains(out, "| with-zauth |") {
		t.Fatalf("markdown rows missing:\n%s", out)
	}
	if !strings.Contains(out, "(PARTIAL: interrupted)") {
		t.Fatalf("markdown partial marker missing:\n%s", out)
	}
}

func TestRenderNilInputs(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderStudy(&buf, nil, FormatTable); err == nil {
		t.Fatalf("expected error for nil verdict")
	}
	if err := RenderComparison(&buf, nil, FormatJSON); err == nil {
		t.Fatalf("expected error for nil summary")
	}
}
