// Package compare runs the interleaved live comparison: each real endpoint
// is queried under both conditions back to back, so both arms see the same
// endpoint at nearly the same moment. The interleaving is a sequencing
// policy, not concurrency: nothing here runs in parallel.
package compare

import (
	"context"
	"fmt"
	"sort"

	"github.com/zen-systems/burngate/pkg/budget"
	"github.com/zen-systems/burngate/pkg/evidence"
	"github.com/zen-systems/burngate/pkg/normalize"
	"github.com/zen-systems/burngate/pkg/x402"
)

// Options configures an interleaved comparison.
type Options struct {
	// Budget caps total spend across all categories; required.
	Budget *budget.Tracker
	// CategoryWeights partitions the cap across categories. Defaults to
	// 33% / 33% / 34% for pool / whale / sentiment.
	CategoryWeights map[x402.Category]float64
	// PriceFloor backs EffectivePrice for endpoints without any price.
	PriceFloor float64
	Heuristics normalize.Heuristics
	Logger     func(format string, args ...any)
}

func defaultWeights() map[x402.Category]float64 {
	return map[x402.Category]float64{
		x402.CategoryPool:      0.33,
		x402.CategoryWhale:     0.33,
		x402.CategorySentiment: 0.34,
	}
}

// Result carries the comparisons and their summary. Both survive an
// interrupt: money already spent always has a matching record.
type Result struct {
	State       evidence.RunState
	Comparisons []evidence.EndpointComparison
	Summary     *evidence.ComparisonSummary
}

// Engine compares endpoints pairwise under category sub-budgets.
type Engine struct {
	payment x402.PaymentClient
	checker x402.ReliabilityChecker
	opts    Options
}

// NewEngine validates the options and builds an engine.
func NewEngine(payment x402.PaymentClient, checker x402.ReliabilityChecker, opts Options) (*Engine, error) {
	if payment == nil {
		return nil, fmt.Errorf("payment client is required")
	}
	if checker == nil {
		return nil, fmt.Errorf("reliability checker is required")
	}
	if opts.Budget == nil {
		return nil, fmt.Errorf("budget tracker is required")
	}
	if opts.CategoryWeights == nil {
		opts.CategoryWeights = defaultWeights()
	}
	if opts.PriceFloor <= 0 {
		opts.PriceFloor = 0.001
	}
	if opts.Heuristics == (normalize.Heuristics{}) {
		opts.Heuristics = normalize.DefaultHeuristics()
	}
	return &Engine{payment: payment, checker: checker, opts: opts}, nil
}

func (e *Engine) logf(format string, args ...any) {
	if e.opts.Logger != nil {
		e.opts.Logger(format, args...)
	}
}

// Run compares the given endpoints, which should already be filtered to ones
// confirmed to require payment. Cancellation is sampled at category
// boundaries only; in-flight paid pairs always finish.
func (e *Engine) Run(ctx context.Context, endpoints []x402.Endpoint) (*Result, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints to compare")
	}

	byCategory := make(map[x402.Category][]x402.Endpoint)
	for _, ep := range endpoints {
		byCategory[ep.Category] = append(byCategory[ep.Category], ep)
	}

	result := &Result{State: evidence.StateRunning}
	var bestNoZauth, bestWithZauth *evidence.Allocation

	for _, category := range x402.Categories() {
		if ctx.Err() != nil {
			result.State = evidence.StateInterrupted
			e.logf("interrupted before %s category", category)
			break
		}

		candidates := byCategory[category]
		if len(candidates) == 0 {
			continue
		}
		subBudget := e.opts.Budget.Cap() * e.opts.CategoryWeights[category]
		e.runCategory(ctx, category, candidates, subBudget, result, &bestNoZauth, &bestWithZauth)
	}

	if result.State == evidence.StateRunning {
		result.State = evidence.StateCompleted
	}

	result.Summary = e.summarize(result, bestNoZauth, bestWithZauth)
	return result, nil
}

// runCategory walks the category's endpoints cheapest-first, front-loading
// inexpensive comparisons to maximize sample count per dollar. The first
// endpoint whose pair cost over-runs the sub-budget stops the category;
// remaining endpoints are skipped, not deferred.
func (e *Engine) runCategory(
	ctx context.Context,
	category x402.Category,
	candidates []x402.Endpoint,
	subBudget float64,
	result *Result,
	bestNoZauth, bestWithZauth **evidence.Allocation,
) {
	sorted := make([]x402.Endpoint, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectivePrice(e.opts.PriceFloor) < sorted[j].EffectivePrice(e.opts.PriceFloor)
	})

	var categorySpent float64
	for _, endpoint := range sorted {
		price := endpoint.EffectivePrice(e.opts.PriceFloor)
		// The pair costs one no-zauth query plus one with-zauth query.
		if categorySpent+2*price > subBudget {
			e.logf("%s: stopping at %s (pair cost %.4f exceeds sub-budget headroom %.4f)",
				category, endpoint.Name, 2*price, subBudget-categorySpent)
			return
		}

		noZauth, noPools := e.queryOnce(ctx, evidence.ConditionNoZauth, endpoint)

		withZauth, withPools := e.gatedQuery(ctx, endpoint)

		comparison := evidence.NewEndpointComparison(endpoint, noZauth, withZauth)
		result.Comparisons = append(result.Comparisons, comparison)

		pairCost := noZauth.Spent + withZauth.Spent + withZauth.ZauthCost
		categorySpent += pairCost
		e.opts.Budget.RecordSpend(pairCost)

		if category == x402.CategoryPool {
			promoteBest(bestNoZauth, noPools)
			promoteBest(bestWithZauth, withPools)
		}
	}
}

func (e *Engine) gatedQuery(ctx context.Context, endpoint x402.Endpoint) (evidence.QueryAttempt, []normalize.PoolRecord) {
	check, err := e.checker.Check(ctx, endpoint)
	if err != nil || check == nil {
		// Fail open: an unanswered check never excludes an endpoint.
		check = &x402.CheckResult{Working: true, ShouldSkip: false}
	}
	if check.ShouldSkip {
		return evidence.SkippedAttempt(endpoint.Name, evidence.ConditionWithZauth, check.Cost), nil
	}

	attempt, pools := e.queryOnce(ctx, evidence.ConditionWithZauth, endpoint)
	attempt.ZauthCost = check.Cost
	return attempt, pools
}

func (e *Engine) queryOnce(ctx context.Context, cond evidence.Condition, endpoint x402.Endpoint) (evidence.QueryAttempt, []normalize.PoolRecord) {
	result, err := e.payment.Query(ctx, endpoint)
	if err != nil || result == nil {
		errMsg := "transport returned no result"
		if err != nil {
			errMsg = err.Error()
		}
		return evidence.NewQueryAttempt(endpoint.Name, cond, &x402.QueryResult{Err: errMsg}, false, normalize.SourceNone, 0, ""), nil
	}

	outcome := normalize.ValidateResponse(result.Payload, endpoint.Schema)
	attempt := evidence.NewQueryAttempt(endpoint.Name, cond, result, outcome.Valid, outcome.SchemaSource, len(outcome.Records), outcome.Err)

	var pools []normalize.PoolRecord
	if attempt.Success && endpoint.Category == x402.CategoryPool {
		pools = normalize.ExtractPoolData(outcome.Records, e.opts.Heuristics)
	}
	return attempt, pools
}

// promoteBest keeps the highest-APY pool seen so far. Pools without an APY
// never displace one that has it.
func promoteBest(best **evidence.Allocation, pools []normalize.PoolRecord) {
	for _, pool := range pools {
		if pool.APY == nil {
			continue
		}
		if *best == nil || *pool.APY > (*best).APY {
			*best = &evidence.Allocation{
				PoolID: pool.PoolID,
				TokenA: pool.TokenA,
				TokenB: pool.TokenB,
				APY:    *pool.APY,
			}
		}
	}
}

func (e *Engine) summarize(result *Result, bestNoZauth, bestWithZauth *evidence.Allocation) *evidence.ComparisonSummary {
	summary := &evidence.ComparisonSummary{
		State:         result.State,
		Partial:       result.State != evidence.StateCompleted,
		BestNoZauth:   bestNoZauth,
		BestWithZauth: bestWithZauth,
		BudgetCap:     e.opts.Budget.Cap(),
		BudgetUsed:    e.opts.Budget.Spent(),
		Comparisons:   len(result.Comparisons),
	}

	var netSavings float64
	for _, cmp := range result.Comparisons {
		addAttempt(&summary.NoZauth, cmp.NoZauth)
		addAttempt(&summary.WithZauth, cmp.WithZauth)
		netSavings += cmp.NetSavings
	}
	summary.NetSavings = netSavings
	summary.BurnReductionPercent = evidence.BurnReductionPercent(summary.NoZauth.Burn, summary.WithZauth.Burn)
	return summary
}

func addAttempt(totals *evidence.ConditionTotals, attempt evidence.QueryAttempt) {
	totals.Spent += attempt.Spent
	totals.Burn += attempt.Burn
	totals.ZauthCost += attempt.ZauthCost
	if attempt.Skipped {
		totals.Skipped++
		return
	}
	totals.Attempted++
	if !attempt.Success {
		totals.Failed++
	}
}
