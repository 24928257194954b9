// Package budget tracks real-money spend against a fixed cap.
//
// The tracker is a pre-flight gate, not an enforcer: callers ask CanSpend
// before committing to a paid call and then record whatever the call actually
// cost. Actual spend can transiently exceed the cap when the pre-flight
// estimate under-predicted the true price; that imprecision is accepted and
// the recorded totals stay honest.
package budget

import "fmt"

// Tracker accumulates USDC spend against a cap set once at construction.
//
// All call sites are sequential within one run, so no locking is applied.
// If queries are ever issued concurrently, CanSpend+RecordSpend must become a
// single atomic check-and-commit or two near-simultaneous approvals can
// jointly overshoot the cap.
type Tracker struct {
	capUsdc   float64
	spentUsdc float64
}

// NewTracker creates a tracker with the given cap in USDC.
func NewTracker(capUsdc float64) (*Tracker, error) {
	if capUsdc <= 0 {
		return nil, fmt.Errorf("budget cap must be positive, got %.6f", capUsdc)
	}
	return &Tracker{capUsdc: capUsdc}, nil
}

// CanSpend reports whether an estimated amount fits under the cap.
func (t *Tracker) CanSpend(estimatedUsdc float64) bool {
	if t == nil {
		return true
	}
	return t.spentUsdc+estimatedUsdc <= t.capUsdc
}

// RecordSpend adds the actual amount of a completed call. It never clamps:
// the amount recorded may exceed what CanSpend approved.
func (t *Tracker) RecordSpend(actualUsdc float64) {
	if t == nil {
		return
	}
	t.spentUsdc += actualUsdc
}

// Remaining returns the headroom under the cap, never negative.
func (t *Tracker) Remaining() float64 {
	if t == nil {
		return 0
	}
	if t.spentUsdc >= t.capUsdc {
		return 0
	}
	return t.capUsdc - t.spentUsdc
}

// Spent returns the total recorded spend.
func (t *Tracker) Spent() float64 {
	if t == nil {
		return 0
	}
	return t.spentUsdc
}

// Cap returns the cap the tracker was created with.
func (t *Tracker) Cap() float64 {
	if t == nil {
		return 0
	}
	return t.capUsdc
}
