package study

import (
	"fmt"

	"github.com/zen-systems/burngate/pkg/evidence"
	"github.com/zen-systems/burngate/pkg/stats"
)

// buildVerdict reduces the matched trial pairs into a StudyVerdict. The
// caller guarantees at least one pair on each side.
func (r *Runner) buildVerdict(result *Result) (*evidence.StudyVerdict, error) {
	noZauth := conditionResults(evidence.ConditionNoZauth, result.NoZauth)
	withZauth := conditionResults(evidence.ConditionWithZauth, result.WithZauth)

	noRates := burnRates(result.NoZauth)
	withRates := burnRates(result.WithZauth)

	tTest, err := stats.PairedTTest(noRates, withRates)
	if err != nil {
		return nil, fmt.Errorf("paired t-test: %w", err)
	}

	diffs := make([]float64, len(noRates))
	for i := range noRates {
		diffs[i] = noRates[i] - withRates[i]
	}
	ciLow, ciHigh, err := stats.ConfidenceInterval(diffs, 0.95)
	if err != nil {
		return nil, fmt.Errorf("confidence interval: %w", err)
	}

	effect := stats.CohensD(noRates, withRates)
	p := r.opts.Stats

	verdict := &evidence.StudyVerdict{
		State:                result.State,
		Partial:              result.State != evidence.StateCompleted,
		Pairs:                len(result.NoZauth),
		NoZauth:              noZauth,
		WithZauth:            withZauth,
		BurnReductionPercent: evidence.BurnReductionPercent(noZauth.MeanBurn, withZauth.MeanBurn),
		CI95Low:              ciLow,
		CI95High:             ciHigh,
		TStatistic:           tTest.TStatistic,
		PValue:               tTest.PValue,
		EffectSize:           effect,
		EffectInterpretation: stats.InterpretEffectSize(effect),
		NetSavingsPerCycle:   netSavingsPerCycle(result.NoZauth, result.WithZauth),
		BreakEvenFailureRate: stats.BreakEvenFailureRate(p.ZauthCheckCost*float64(p.ChecksPerCycle), p.AvgQueryCost),
	}
	return verdict, nil
}

func conditionResults(cond evidence.Condition, trials []evidence.TrialResult) evidence.ConditionResults {
	rates := burnRates(trials)
	var spent, burn, zauth, attempted, failed []float64
	for _, t := range trials {
		spent = append(spent, t.TotalSpent)
		burn = append(burn, t.TotalBurn)
		zauth = append(zauth, t.TotalZauthCost)
		attempted = append(attempted, float64(t.Attempted))
		failed = append(failed, float64(t.Failed))
	}
	return evidence.ConditionResults{
		Condition:      cond,
		Trials:         len(trials),
		MeanBurnRate:   stats.Mean(rates),
		StdDevBurnRate: stats.StdDev(rates),
		MeanSpent:      stats.Mean(spent),
		MeanBurn:       stats.Mean(burn),
		MeanZauthCost:  stats.Mean(zauth),
		MeanAttempted:  stats.Mean(attempted),
		MeanFailed:     stats.Mean(failed),
	}
}

func burnRates(trials []evidence.TrialResult) []float64 {
	rates := make([]float64, len(trials))
	for i, t := range trials {
		rates[i] = t.BurnRate
	}
	return rates
}

// netSavingsPerCycle is the mean per-cycle burn avoided by gating, minus the
// mean per-cycle check cost paid for it.
func netSavingsPerCycle(noZauth, withZauth []evidence.TrialResult) float64 {
	return perCycleMean(noZauth, burnOf) - perCycleMean(withZauth, burnOf) - perCycleMean(withZauth, zauthOf)
}

func burnOf(t evidence.TrialResult) float64  { return t.TotalBurn }
func zauthOf(t evidence.TrialResult) float64 { return t.TotalZauthCost }

func perCycleMean(trials []evidence.TrialResult, value func(evidence.TrialResult) float64) float64 {
	if len(trials) == 0 {
		return 0
	}
	var sum float64
	var n int
	for _, t := range trials {
		if len(t.Cycles) == 0 {
			continue
		}
		sum += value(t)
		n += len(t.Cycles)
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
