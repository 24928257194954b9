package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Heuristics are the adjustable scoring knobs applied during extraction.
// They are illustrative heuristics, not values validated against ground
// truth, which is exactly why they are a struct and not constants.
type Heuristics struct {
	// Volume/TVL ratio at or above which IL risk leaves the "low" bucket.
	ILRiskMediumRatio float64 `yaml:"il_risk_medium_ratio"`
	// Volume/TVL ratio at or above which IL risk becomes "high".
	ILRiskHighRatio float64 `yaml:"il_risk_high_ratio"`
	// Divisor applied to log10(amount) when scoring whale-move significance.
	SignificanceLogDivisor float64 `yaml:"significance_log_divisor"`
}

// DefaultHeuristics returns the stock thresholds.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		ILRiskMediumRatio:      0.1,
		ILRiskHighRatio:        0.5,
		SignificanceLogDivisor: 7,
	}
}

// firstField returns the first present, non-null candidate field. Dotted
// candidates like "apr.total" walk the object graph.
func firstField(rec gjson.Result, candidates ...string) (gjson.Result, bool) {
	for _, name := range candidates {
		if field := rec.Get(name); field.Exists() && field.Type != gjson.Null {
			return field, true
		}
	}
	return gjson.Result{}, false
}

// firstString returns the first candidate that holds a non-empty string.
func firstString(rec gjson.Result, candidates ...string) (string, bool) {
	for _, name := range candidates {
		field := rec.Get(name)
		if field.Type == gjson.String && strings.TrimSpace(field.Str) != "" {
			return strings.TrimSpace(field.Str), true
		}
	}
	return "", false
}

// firstNumber resolves the first candidate that parses as a number, in any of
// the supported encodings. Unparseable fields yield (nil-like) absence.
func firstNumber(rec gjson.Result, candidates ...string) (float64, NumberKind, bool) {
	for _, name := range candidates {
		field := rec.Get(name)
		if !field.Exists() || field.Type == gjson.Null {
			continue
		}
		if value, kind, ok := Number(field); ok {
			return value, kind, true
		}
	}
	return 0, KindPlain, false
}

// percentField resolves a percentage-typed field. Percent-encoded strings
// arrive pre-divided from the parser and are not normalized a second time.
func percentField(rec gjson.Result, candidates ...string) *float64 {
	value, kind, ok := firstNumber(rec, candidates...)
	if !ok {
		return nil
	}
	if kind != KindPercent {
		value = NormalizePercent(value)
	}
	return &value
}

func numberField(rec gjson.Result, candidates ...string) *float64 {
	value, _, ok := firstNumber(rec, candidates...)
	if !ok {
		return nil
	}
	return &value
}

// pairSeparators is the priority order for splitting a pool name like
// "AVNT-USDC" into its two token symbols.
var pairSeparators = []string{"-", "/", "_", " "}

// splitPairName splits a pool-name string into two token symbols on the
// first matching separator.
func splitPairName(name string) (tokenA, tokenB string, ok bool) {
	for _, sep := range pairSeparators {
		if idx := strings.Index(name, sep); idx > 0 && idx < len(name)-len(sep) {
			a := strings.TrimSpace(name[:idx])
			b := strings.TrimSpace(name[idx+len(sep):])
			if a != "" && b != "" {
				return a, b, true
			}
		}
	}
	return "", "", false
}
