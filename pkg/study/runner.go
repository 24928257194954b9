// Package study runs matched-pair experiments: for each trial index, one
// full agent run without the reliability check and one with it, both fed the
// same seed so the pair faces identical stochastic inputs.
package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/zen-systems/burngate/pkg/budget"
	"github.com/zen-systems/burngate/pkg/evidence"
	"github.com/zen-systems/burngate/pkg/normalize"
	"github.com/zen-systems/burngate/pkg/x402"
)

// ErrInsufficientSample means truncation to matched pairs left zero trials on
// a side; no verdict can be computed from an empty sample.
var ErrInsufficientSample = errors.New("no matched trial pairs completed")

// Transport bundles the collaborators one trial queries through.
type Transport struct {
	Payment x402.PaymentClient
	Checker x402.ReliabilityChecker
}

// TransportFactory builds the transport for one trial. The factory is called
// with the same seed for both conditions of a pair; deterministic
// implementations must honor it, live ones are free to ignore it.
type TransportFactory func(seed int64) Transport

// StatsParams are the tunable constants behind the derived verdict numbers.
type StatsParams struct {
	ZauthCheckCost float64
	ChecksPerCycle int
	AvgQueryCost   float64
}

// DefaultStatsParams returns the stock estimates.
func DefaultStatsParams() StatsParams {
	return StatsParams{ZauthCheckCost: 0.001, ChecksPerCycle: 10, AvgQueryCost: 0.01}
}

// Options configures a study run.
type Options struct {
	TrialsPerCondition int
	CyclesPerTrial     int
	BaseSeed           int64
	// Endpoints is the roster the agent queries once per cycle.
	Endpoints []x402.Endpoint
	// Budget optionally caps total spend; nil means uncapped.
	Budget *budget.Tracker
	// PerCycleEstimate is the pre-flight cost checked before each cycle.
	// Zero means "sum of roster effective prices".
	PerCycleEstimate float64
	// PriceFloor backs EffectivePrice for priceless endpoints.
	PriceFloor float64
	Heuristics normalize.Heuristics
	Stats      StatsParams
	Logger     func(format string, args ...any)
}

// Result carries everything a run produced, including partial trial sets
// from interrupted or budget-exhausted runs.
type Result struct {
	State     evidence.RunState
	NoZauth   []evidence.TrialResult
	WithZauth []evidence.TrialResult
	Verdict   *evidence.StudyVerdict
}

// Runner orchestrates matched-pair trials.
type Runner struct {
	factory TransportFactory
	opts    Options
}

// NewRunner validates the options and builds a runner.
func NewRunner(factory TransportFactory, opts Options) (*Runner, error) {
	if factory == nil {
		return nil, fmt.Errorf("transport factory is required")
	}
	if opts.TrialsPerCondition < 1 {
		return nil, fmt.Errorf("trials per condition must be at least 1, got %d", opts.TrialsPerCondition)
	}
	if opts.CyclesPerTrial < 1 {
		return nil, fmt.Errorf("cycles per trial must be at least 1, got %d", opts.CyclesPerTrial)
	}
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("endpoint roster is empty")
	}
	if opts.PriceFloor <= 0 {
		opts.PriceFloor = 0.001
	}
	if opts.PerCycleEstimate <= 0 {
		for _, ep := range opts.Endpoints {
			opts.PerCycleEstimate += ep.EffectivePrice(opts.PriceFloor)
		}
	}
	if opts.Stats == (StatsParams{}) {
		opts.Stats = DefaultStatsParams()
	}
	return &Runner{factory: factory, opts: opts}, nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger(format, args...)
	}
}

// Run executes the study. Cancellation of ctx is sampled only at trial
// boundaries; an in-flight paid request always finishes. On interrupt or
// budget exhaustion the completed trials are truncated to matched pairs and
// analyzed anyway. ErrInsufficientSample comes back with the partial Result
// still populated so nothing spent goes unreported.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{State: evidence.StateRunning}
	conditions := []evidence.Condition{evidence.ConditionNoZauth, evidence.ConditionWithZauth}

trials:
	for trialIndex := 0; trialIndex < r.opts.TrialsPerCondition; trialIndex++ {
		seed := r.opts.BaseSeed + int64(trialIndex)
		for _, cond := range conditions {
			if ctx.Err() != nil {
				result.State = evidence.StateInterrupted
				r.logf("interrupted before trial %d (%s)", trialIndex, cond)
				break trials
			}

			trial, terminal := r.runTrial(ctx, cond, seed)
			if len(trial.Cycles) > 0 {
				r.appendTrial(result, trial)
			}
			if terminal != "" {
				result.State = terminal
				r.logf("stopping after trial %d (%s): %s", trialIndex, cond, terminal)
				break trials
			}
			r.logf("trial %d (%s): burn rate %.4f over %d cycles", trialIndex, cond, trial.BurnRate, len(trial.Cycles))
		}
	}

	if result.State == evidence.StateRunning {
		result.State = evidence.StateCompleted
	}

	// Keep only matched pairs; an odd trailing unpaired trial is discarded,
	// never analyzed.
	pairs := len(result.NoZauth)
	if len(result.WithZauth) < pairs {
		pairs = len(result.WithZauth)
	}
	result.NoZauth = result.NoZauth[:pairs]
	result.WithZauth = result.WithZauth[:pairs]

	if pairs == 0 {
		return result, ErrInsufficientSample
	}

	verdict, err := r.buildVerdict(result)
	if err != nil {
		return result, err
	}
	result.Verdict = verdict
	return result, nil
}

func (r *Runner) appendTrial(result *Result, trial evidence.TrialResult) {
	if trial.Condition == evidence.ConditionNoZauth {
		result.NoZauth = append(result.NoZauth, trial)
	} else {
		result.WithZauth = append(result.WithZauth, trial)
	}
}

// runTrial executes one condition's cycles. A non-empty returned state is
// terminal for the whole run.
func (r *Runner) runTrial(ctx context.Context, cond evidence.Condition, seed int64) (evidence.TrialResult, evidence.RunState) {
	transport := r.factory(seed)
	trial := evidence.TrialResult{Condition: cond, Seed: seed}

	for cycle := 0; cycle < r.opts.CyclesPerTrial; cycle++ {
		if !r.opts.Budget.CanSpend(r.opts.PerCycleEstimate) {
			trial.Finalize()
			return trial, evidence.StateBudgetExhausted
		}
		metrics := r.runCycle(ctx, cond, transport, cycle)
		trial.Cycles = append(trial.Cycles, metrics)
	}

	trial.Finalize()
	return trial, ""
}

func (r *Runner) runCycle(ctx context.Context, cond evidence.Condition, transport Transport, cycle int) evidence.CycleMetrics {
	metrics := evidence.CycleMetrics{Cycle: cycle}

	for _, endpoint := range r.opts.Endpoints {
		var checkCost float64
		if cond == evidence.ConditionWithZauth && transport.Checker != nil {
			check, err := transport.Checker.Check(ctx, endpoint)
			if err != nil || check == nil {
				// Fail open: an unanswered check never excludes an endpoint.
				check = &x402.CheckResult{Working: true, ShouldSkip: false}
			}
			checkCost = check.Cost
			r.opts.Budget.RecordSpend(check.Cost)
			if check.ShouldSkip {
				metrics.ZauthCost += check.Cost
				metrics.Skipped++
				continue
			}
		}

		attempt := r.queryOnce(ctx, cond, transport, endpoint)
		attempt.ZauthCost = checkCost
		r.opts.Budget.RecordSpend(attempt.Spent)

		metrics.Spent += attempt.Spent
		metrics.Burn += attempt.Burn
		metrics.ZauthCost += checkCost
		metrics.LatencyMs += attempt.LatencyMs
		metrics.Attempted++
		if !attempt.Success {
			metrics.Failed++
		}
	}

	return metrics
}

func (r *Runner) queryOnce(ctx context.Context, cond evidence.Condition, transport Transport, endpoint x402.Endpoint) evidence.QueryAttempt {
	result, err := transport.Payment.Query(ctx, endpoint)
	if err != nil || result == nil {
		errMsg := "transport returned no result"
		if err != nil {
			errMsg = err.Error()
		}
		return evidence.NewQueryAttempt(endpoint.Name, cond, &x402.QueryResult{Err: errMsg}, false, normalize.SourceNone, 0, "")
	}

	outcome := normalize.ValidateResponse(result.Payload, endpoint.Schema)
	return evidence.NewQueryAttempt(endpoint.Name, cond, result, outcome.Valid, outcome.SchemaSource, len(outcome.Records), outcome.Err)
}
