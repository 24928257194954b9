// Package evidence defines the measurement records a run produces and writes
// them to disk as a per-run bundle. Partial results from interrupted or
// budget-exhausted runs are first-class: real money spent always leaves a
// matching record behind.
package evidence

import (
	"time"

	"github.com/zen-systems/burngate/pkg/x402"
)

// Condition is one of the two experiment arms.
type Condition string

const (
	ConditionNoZauth   Condition = "no-zauth"
	ConditionWithZauth Condition = "with-zauth"
)

// RunState is the orchestrator state machine value. Runs start Running and
// end in exactly one of the other three.
type RunState string

const (
	StateRunning         RunState = "running"
	StateInterrupted     RunState = "interrupted"
	StateBudgetExhausted RunState = "budget-exhausted"
	StateCompleted       RunState = "completed"
)

// QueryAttempt is one paid call under one condition. Burn equals Spent when
// the call failed or its payload was unusable, else zero. Never mutated
// after creation.
type QueryAttempt struct {
	Endpoint     string    `json:"endpoint"`
	Condition    Condition `json:"condition"`
	Success      bool      `json:"success"`
	Spent        float64   `json:"spent"`
	Burn         float64   `json:"burn"`
	ZauthCost    float64   `json:"zauth_cost"`
	LatencyMs    int64     `json:"latency_ms"`
	Skipped      bool      `json:"skipped_by_reliability_check"`
	Valid        bool      `json:"valid"`
	SchemaSource string    `json:"schema_source"`
	RecordCount  int       `json:"record_count"`
	Error        string    `json:"error,omitempty"`
}

// NewQueryAttempt builds an attempt from a transport result and the
// validation summary of its payload. An unusable response after payment is
// burn regardless of whether transport or validation failed.
func NewQueryAttempt(endpoint string, cond Condition, result *x402.QueryResult, valid bool, schemaSource string, recordCount int, validationErr string) QueryAttempt {
	attempt := QueryAttempt{
		Endpoint:     endpoint,
		Condition:    cond,
		Spent:        result.Spent,
		LatencyMs:    result.LatencyMs,
		Valid:        valid,
		SchemaSource: schemaSource,
		RecordCount:  recordCount,
	}
	attempt.Success = result.Success && valid
	if !attempt.Success {
		attempt.Burn = result.Spent
	}
	switch {
	case result.Err != "":
		attempt.Error = result.Err
	case !valid:
		attempt.Error = validationErr
	}
	return attempt
}

// SkippedAttempt records an endpoint the reliability check excluded: no
// query, no spend, no burn.
func SkippedAttempt(endpoint string, cond Condition, zauthCost float64) QueryAttempt {
	return QueryAttempt{
		Endpoint:     endpoint,
		Condition:    cond,
		Skipped:      true,
		ZauthCost:    zauthCost,
		SchemaSource: "none",
	}
}

// CycleMetrics aggregates one optimization cycle of a trial.
type CycleMetrics struct {
	Cycle     int     `json:"cycle"`
	Spent     float64 `json:"spent"`
	Burn      float64 `json:"burn"`
	ZauthCost float64 `json:"zauth_cost"`
	Attempted int     `json:"attempted"`
	Failed    int     `json:"failed"`
	Skipped   int     `json:"skipped"`
	LatencyMs int64   `json:"latency_ms"`
}

// TrialResult is one full run of the cyclical agent under one condition with
// one seed.
type TrialResult struct {
	Condition Condition      `json:"condition"`
	Seed      int64          `json:"seed"`
	Cycles    []CycleMetrics `json:"cycles"`

	TotalSpent     float64 `json:"total_spent"`
	TotalBurn      float64 `json:"total_burn"`
	TotalZauthCost float64 `json:"total_zauth_cost"`
	Attempted      int     `json:"attempted"`
	Failed         int     `json:"failed"`
	BurnRate       float64 `json:"burn_rate"`
}

// Finalize derives the trial totals from its cycles.
func (t *TrialResult) Finalize() {
	t.TotalSpent, t.TotalBurn, t.TotalZauthCost = 0, 0, 0
	t.Attempted, t.Failed = 0, 0
	for _, c := range t.Cycles {
		t.TotalSpent += c.Spent
		t.TotalBurn += c.Burn
		t.TotalZauthCost += c.ZauthCost
		t.Attempted += c.Attempted
		t.Failed += c.Failed
	}
	if t.TotalSpent > 0 {
		t.BurnRate = t.TotalBurn / t.TotalSpent
	} else {
		t.BurnRate = 0
	}
}

// ConditionResults aggregates all trials of one condition.
type ConditionResults struct {
	Condition      Condition `json:"condition"`
	Trials         int       `json:"trials"`
	MeanBurnRate   float64   `json:"mean_burn_rate"`
	StdDevBurnRate float64   `json:"stddev_burn_rate"`
	MeanSpent      float64   `json:"mean_spent"`
	MeanBurn       float64   `json:"mean_burn"`
	MeanZauthCost  float64   `json:"mean_zauth_cost"`
	MeanAttempted  float64   `json:"mean_attempted"`
	MeanFailed     float64   `json:"mean_failed"`
}

// EndpointComparison is one endpoint queried under both conditions in the
// same pass.
type EndpointComparison struct {
	Endpoint    x402.Endpoint `json:"endpoint"`
	NoZauth     QueryAttempt  `json:"no_zauth"`
	WithZauth   QueryAttempt  `json:"with_zauth"`
	BurnSavings float64       `json:"burn_savings"`
	NetSavings  float64       `json:"net_savings"`
}

// NewEndpointComparison derives the savings fields from the two attempts.
func NewEndpointComparison(endpoint x402.Endpoint, noZauth, withZauth QueryAttempt) EndpointComparison {
	burnSavings := noZauth.Burn - withZauth.Burn
	return EndpointComparison{
		Endpoint:    endpoint,
		NoZauth:     noZauth,
		WithZauth:   withZauth,
		BurnSavings: burnSavings,
		NetSavings:  burnSavings - withZauth.ZauthCost,
	}
}

// StudyVerdict is the final output of a matched-pair study.
type StudyVerdict struct {
	RunID   string   `json:"run_id"`
	State   RunState `json:"state"`
	Partial bool     `json:"partial"`
	Pairs   int      `json:"pairs"`

	NoZauth   ConditionResults `json:"no_zauth"`
	WithZauth ConditionResults `json:"with_zauth"`

	BurnReductionPercent float64 `json:"burn_reduction_percent"`
	CI95Low              float64 `json:"ci95_low"`
	CI95High             float64 `json:"ci95_high"`
	TStatistic           float64 `json:"t_statistic"`
	PValue               float64 `json:"p_value"`
	EffectSize           float64 `json:"effect_size"`
	EffectInterpretation string  `json:"effect_interpretation"`
	NetSavingsPerCycle   float64 `json:"net_savings_per_cycle"`
	BreakEvenFailureRate float64 `json:"break_even_failure_rate"`
}

// ConditionTotals sums one condition's side of an interleaved comparison.
type ConditionTotals struct {
	Spent     float64 `json:"spent"`
	Burn      float64 `json:"burn"`
	ZauthCost float64 `json:"zauth_cost"`
	Attempted int     `json:"attempted"`
	Failed    int     `json:"failed"`
	Skipped   int     `json:"skipped"`
}

// Allocation is the best-scoring pool a condition surfaced.
type Allocation struct {
	PoolID string  `json:"pool_id"`
	TokenA string  `json:"token_a"`
	TokenB string  `json:"token_b"`
	APY    float64 `json:"apy"`
}

// ComparisonSummary is the top-level output of an interleaved comparison.
type ComparisonSummary struct {
	RunID   string   `json:"run_id"`
	State   RunState `json:"state"`
	Partial bool     `json:"partial"`

	NoZauth   ConditionTotals `json:"no_zauth"`
	WithZauth ConditionTotals `json:"with_zauth"`

	BestNoZauth   *Allocation `json:"best_no_zauth,omitempty"`
	BestWithZauth *Allocation `json:"best_with_zauth,omitempty"`

	BurnReductionPercent float64 `json:"burn_reduction_percent"`
	NetSavings           float64 `json:"net_savings"`
	BudgetCap            float64 `json:"budget_cap"`
	BudgetUsed           float64 `json:"budget_used"`
	Comparisons          int     `json:"comparisons"`
}

// BurnReductionPercent returns how much burn the gated condition saved, as a
// percentage of ungated burn. Zero ungated burn yields zero.
func BurnReductionPercent(noZauthBurn, withZauthBurn float64) float64 {
	if noZauthBurn <= 0 {
		return 0
	}
	return (noZauthBurn - withZauthBurn) / noZauthBurn * 100
}

// RunRecord captures run-level metadata for the bundle.
type RunRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Mode      string    `json:"mode"`
	BaseSeed  int64     `json:"base_seed,omitempty"`
	BudgetCap float64   `json:"budget_cap"`
}
