package stats

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeanAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Mean(values); !approxEqual(got, 5) {
		t.Fatalf("mean = %v, want 5", got)
	}
	// Population stddev of the classic example is exactly 2.
	if got := StdDev(values); !approxEqual(got, 2) {
		t.Fatalf("stddev = %v, want 2", got)
	}

	if got := Mean(nil); got != 0 {
		t.Fatalf("mean of empty = %v, want 0", got)
	}
	if got := StdDev(nil); got != 0 {
		t.Fatalf("stddev of empty = %v, want 0", got)
	}
}

func TestConfidenceIntervalBuckets(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	low, high, err := ConfidenceInterval(values, 0.95)
	if err != nil {
		t.Fatalf("ConfidenceInterval: %v", err)
	}
	// n=5 bucket uses t*=2.776; stddev is population sqrt(2).
	margin := 2.776 * (math.Sqrt(2) / math.Sqrt(5))
	if !approxEqual(low, 3-margin) || !approxEqual(high, 3+margin) {
		t.Fatalf("interval = [%v, %v], want [%v, %v]", low, high, 3-margin, 3+margin)
	}

	if _, _, err := ConfidenceInterval(values, 0.90); err == nil {
		t.Fatalf("expected error for unsupported confidence level")
	}
	if _, _, err := ConfidenceInterval(nil, 0.95); err == nil {
		t.Fatalf("expected error for empty sample")
	}
}

func TestConfidenceIntervalLargeSampleUsesZ(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i % 2) // mean 0.5, stddev 0.5
	}
	low, high, err := ConfidenceInterval(values, 0.95)
	if err != nil {
		t.Fatalf("ConfidenceInterval: %v", err)
	}
	margin := 1.960 * (0.5 / 10)
	if !approxEqual(low, 0.5-margin) || !approxEqual(high, 0.5+margin) {
		t.Fatalf("interval = [%v, %v], want z-based margin %v", low, high, margin)
	}
}

func TestPairedTTestZeroMeanDiff(t *testing.T) {
	a := []float64{0.5, 0.5, 0.5}
	b := []float64{0.5, 0.5, 0.5}
	result, err := PairedTTest(a, b)
	if err != nil {
		t.Fatalf("PairedTTest: %v", err)
	}
	if result.PValue != 1 {
		t.Fatalf("p-value = %v, want 1 for identical samples", result.PValue)
	}
}

func TestPairedTTestConstantDifference(t *testing.T) {
	a := []float64{0.6, 0.7, 0.8}
	b := []float64{0.5, 0.6, 0.7}
	result, err := PairedTTest(a, b)
	if err != nil {
		t.Fatalf("PairedTTest: %v", err)
	}
	if result.PValue != 0.0001 {
		t.Fatalf("p-value = %v, want 0.0001 for zero-variance nonzero diff", result.PValue)
	}
	if !approxEqual(result.MeanDiff, 0.1) {
		t.Fatalf("mean diff = %v, want 0.1", result.MeanDiff)
	}
}

func TestPairedTTestBuckets(t *testing.T) {
	// diffs = {0.1, -0.1, 0.1, -0.1, 0.1}: mean 0.02, small |t| < 1.96.
	a := []float64{0.6, 0.4, 0.6, 0.4, 0.6}
	b := []float64{0.5, 0.5, 0.5, 0.5, 0.5}
	result, err := PairedTTest(a, b)
	if err != nil {
		t.Fatalf("PairedTTest: %v", err)
	}
	if result.PValue != 0.05 {
		t.Fatalf("p-value = %v, want 0.05 bucket", result.PValue)
	}
}

func TestPairedTTestRejectsUnequalLengths(t *testing.T) {
	if _, err := PairedTTest([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatalf("expected error for unequal sample sizes")
	}
	if _, err := PairedTTest(nil, nil); err == nil {
		t.Fatalf("expected error for empty samples")
	}
}

func TestCohensD(t *testing.T) {
	a := []float64{2, 4, 6}
	b := []float64{1, 3, 5}
	// Both groups have population variance 8/3; pooled sd = sqrt(8/3).
	want := 1.0 / math.Sqrt(8.0/3.0)
	if got := CohensD(a, b); !approxEqual(got, want) {
		t.Fatalf("d = %v, want %v", got, want)
	}
	if got := CohensD([]float64{1, 1}, []float64{1, 1}); got != 0 {
		t.Fatalf("d = %v, want 0 for zero pooled variance", got)
	}
}

func TestInterpretEffectSize(t *testing.T) {
	cases := []struct {
		d    float64
		want string
	}{
		{0.1, "negligible"},
		{-0.1, "negligible"},
		{0.3, "small"},
		{0.6, "medium"},
		{-0.9, "large"},
		{2.5, "large"},
	}
	for _, tc := range cases {
		if got := InterpretEffectSize(tc.d); got != tc.want {
			t.Fatalf("InterpretEffectSize(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestBreakEvenFailureRate(t *testing.T) {
	if got := BreakEvenFailureRate(0.01, 0.01); !approxEqual(got, 1.0) {
		t.Fatalf("break-even = %v, want 1.0", got)
	}
	if got := BreakEvenFailureRate(0.01, 0); got != 0 {
		t.Fatalf("break-even with zero query cost = %v, want 0", got)
	}
}
