package normalize

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// NumberKind reports how a numeric field was encoded in the payload.
type NumberKind int

const (
	// KindPlain is a bare JSON number or a plain numeric string.
	KindPlain NumberKind = iota
	// KindCurrency is a currency string like "$1.13M" or "$1,234.56".
	KindCurrency
	// KindPercent is a percentage string like "461398.90%"; the returned
	// value has already been divided by 100.
	KindPercent
)

var suffixMultipliers = map[byte]float64{
	'k': 1e3, 'm': 1e6, 'b': 1e9, 't': 1e12,
}

// Number extracts a float from a field that may be a JSON number, a currency
// string, or a percentage string. ok is false when the field is absent or
// unparseable; callers degrade such fields to nil, never fail the record.
func Number(v gjson.Result) (value float64, kind NumberKind, ok bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, KindPlain, true
	case gjson.String:
		return parseNumericString(v.Str)
	default:
		return 0, KindPlain, false
	}
}

func parseNumericString(s string) (float64, NumberKind, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, KindPlain, false
	}

	if strings.HasSuffix(s, "%") {
		body := cleanNumeric(strings.TrimSuffix(s, "%"))
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return 0, KindPercent, false
		}
		return f / 100, KindPercent, true
	}

	kind := KindPlain
	if strings.HasPrefix(s, "$") {
		kind = KindCurrency
	}

	body := cleanNumeric(s)
	if body == "" {
		return 0, kind, false
	}

	multiplier := 1.0
	last := body[len(body)-1]
	if m, isSuffix := suffixMultipliers[lowerByte(last)]; isSuffix {
		multiplier = m
		body = body[:len(body)-1]
		kind = KindCurrency
	}

	f, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return 0, kind, false
	}
	return f * multiplier, kind, true
}

func cleanNumeric(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// NormalizePercent maps percentage-like fields (APY, fee rate) onto a 0-based
// fraction. Any value above 1 is treated as an already-scaled percentage and
// divided by 100, so both 5 and 0.05 come out as 0.05.
func NormalizePercent(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// NormalizeProbability maps probability-like fields (confidence) into [0,1]
// by dividing values above 1 by 100.
func NormalizeProbability(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// NormalizeSentiment maps a sentiment score onto [-1,1]. Values already in
// range pass through; values on a ±100 scale are divided by 100; anything
// else is divided by 100 and clamped.
func NormalizeSentiment(v float64) float64 {
	if v >= -1 && v <= 1 {
		return v
	}
	if v >= -100 && v <= 100 {
		return v / 100
	}
	scaled := v / 100
	if scaled > 1 {
		return 1
	}
	if scaled < -1 {
		return -1
	}
	return scaled
}
