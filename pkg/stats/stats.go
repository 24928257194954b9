// Package stats provides the descriptive and inferential statistics used to
// turn raw burn measurements into a verdict. All functions are pure.
//
// The inferential functions trade precision for zero dependencies: confidence
// intervals use a bucketed critical-t lookup and PairedTTest reports a
// bucketed p-value rather than an exact t-distribution CDF. Callers must
// treat both as approximations.
package stats

import (
	"fmt"
	"math"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation (divisor n, not n-1).
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// criticalT returns an approximate two-tailed critical t-value bucketed by
// sample size. Only the 0.95 and 0.99 confidence levels are supported; the
// buckets converge to the z-score for large n.
func criticalT(n int, confidence float64) (float64, error) {
	type bucket struct {
		maxN int
		t95  float64
		t99  float64
	}
	buckets := []bucket{
		{5, 2.776, 4.604},
		{10, 2.262, 3.250},
		{20, 2.093, 2.861},
		{30, 2.045, 2.756},
	}

	t95, t99 := 1.960, 2.576
	for _, b := range buckets {
		if n <= b.maxN {
			t95, t99 = b.t95, b.t99
			break
		}
	}

	switch confidence {
	case 0.95:
		return t95, nil
	case 0.99:
		return t99, nil
	default:
		return 0, fmt.Errorf("unsupported confidence level %.2f (want 0.95 or 0.99)", confidence)
	}
}

// ConfidenceInterval returns [low, high] = mean ± t*·(stddev/√n) using the
// bucketed critical-t table, not an exact Student's-t inverse CDF.
func ConfidenceInterval(values []float64, confidence float64) (low, high float64, err error) {
	if len(values) == 0 {
		return 0, 0, fmt.Errorf("confidence interval of empty sample")
	}
	crit, err := criticalT(len(values), confidence)
	if err != nil {
		return 0, 0, err
	}
	mean := Mean(values)
	margin := crit * (StdDev(values) / math.Sqrt(float64(len(values))))
	return mean - margin, mean + margin, nil
}

// TTestResult holds the outcome of a paired t-test.
type TTestResult struct {
	TStatistic float64 `json:"t_statistic"`
	PValue     float64 `json:"p_value"`
	MeanDiff   float64 `json:"mean_diff"`
	N          int     `json:"n"`
}

// PairedTTest runs a one-sample t-test on the per-pair differences of two
// equal-length matched samples. The p-value is a coarse bucket keyed on |t|
// (1.96 / 2.576 / 3.291 thresholds), not an exact CDF; identical samples
// yield p=1 rather than a division by zero.
func PairedTTest(groupA, groupB []float64) (*TTestResult, error) {
	if len(groupA) != len(groupB) {
		return nil, fmt.Errorf("paired t-test requires equal sample sizes, got %d and %d", len(groupA), len(groupB))
	}
	if len(groupA) == 0 {
		return nil, fmt.Errorf("paired t-test of empty samples")
	}

	diffs := make([]float64, len(groupA))
	for i := range groupA {
		diffs[i] = groupA[i] - groupB[i]
	}

	meanDiff := Mean(diffs)
	result := &TTestResult{MeanDiff: meanDiff, N: len(diffs)}

	if meanDiff == 0 {
		result.PValue = 1
		return result, nil
	}

	sd := StdDev(diffs)
	if sd == 0 {
		// Constant nonzero difference: arbitrarily strong evidence. The
		// t-statistic stays finite so results remain JSON-serializable.
		result.TStatistic = sign(meanDiff) * math.MaxFloat64
		result.PValue = 0.0001
		return result, nil
	}

	t := meanDiff / (sd / math.Sqrt(float64(len(diffs))))
	result.TStatistic = t

	switch abs := math.Abs(t); {
	case abs < 1.96:
		result.PValue = 0.05
	case abs < 2.576:
		result.PValue = 0.01
	case abs < 3.291:
		result.PValue = 0.001
	default:
		result.PValue = 0.0001
	}
	return result, nil
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// CohensD computes the effect size using pooled variance across independent
// samples. The samples fed to it are in fact paired; keeping the
// independent-sample pooling is a deliberate carry-over from the original
// design so that reported effect sizes stay comparable across versions.
func CohensD(groupA, groupB []float64) float64 {
	if len(groupA) == 0 || len(groupB) == 0 {
		return 0
	}
	varA := variance(groupA)
	varB := variance(groupB)
	pooled := math.Sqrt((varA + varB) / 2)
	if pooled == 0 {
		return 0
	}
	return (Mean(groupA) - Mean(groupB)) / pooled
}

func variance(values []float64) float64 {
	sd := StdDev(values)
	return sd * sd
}

// InterpretEffectSize buckets |d| into the conventional Cohen labels.
func InterpretEffectSize(d float64) string {
	switch abs := math.Abs(d); {
	case abs < 0.2:
		return "negligible"
	case abs < 0.5:
		return "small"
	case abs < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// BreakEvenFailureRate returns the endpoint failure rate above which the
// reliability check pays for itself: the check cost incurred per cycle divided
// by the average cost of one query. Both inputs are operator-tunable
// estimates, not measured quantities.
func BreakEvenFailureRate(zauthCostPerCycle, avgQueryCost float64) float64 {
	if avgQueryCost <= 0 {
		return 0
	}
	return zauthCostPerCycle / avgQueryCost
}
