package normalize

import (
	"math"
	"testing"

	"github.com/tidwall/gjson"
)

func parseField(t *testing.T, raw string) gjson.Result {
	t.Helper()
	return gjson.Parse(raw)
}

func TestNumberParsesCurrencyStrings(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`"$1.13M"`, 1.13e6},
		{`"$148.60B"`, 148.60e9},
		{`"$1,234.56"`, 1234.56},
		{`"2.5k"`, 2500},
		{`"3T"`, 3e12},
		{`"42"`, 42},
	}
	for _, tc := range cases {
		got, _, ok := Number(parseField(t, tc.raw))
		if !ok {
			t.Fatalf("Number(%s): not ok", tc.raw)
		}
		if math.Abs(got-tc.want) > math.Abs(tc.want)*1e-12 {
			t.Fatalf("Number(%s) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNumberParsesPercentStrings(t *testing.T) {
	got, kind, ok := Number(parseField(t, `"461398.90%"`))
	if !ok || kind != KindPercent {
		t.Fatalf("expected percent parse, got ok=%v kind=%v", ok, kind)
	}
	if math.Abs(got-4613.989) > 1e-9 {
		t.Fatalf("got %v, want 4613.989", got)
	}
}

func TestNumberRejectsGarbage(t *testing.T) {
	for _, raw := range []string{`"not a number"`, `""`, `"$"`, `true`, `{}`, `"%"`} {
		if _, _, ok := Number(parseField(t, raw)); ok {
			t.Fatalf("Number(%s) unexpectedly parsed", raw)
		}
	}
}

func TestNumberPlain(t *testing.T) {
	got, kind, ok := Number(parseField(t, `12.5`))
	if !ok || kind != KindPlain || got != 12.5 {
		t.Fatalf("got %v kind=%v ok=%v", got, kind, ok)
	}
}

func TestNormalizePercentIdempotence(t *testing.T) {
	if got := NormalizePercent(0.05); got != 0.05 {
		t.Fatalf("NormalizePercent(0.05) = %v, want 0.05", got)
	}
	if got := NormalizePercent(5); got != 0.05 {
		t.Fatalf("NormalizePercent(5) = %v, want 0.05", got)
	}
	if got := NormalizePercent(50); got != 0.50 {
		t.Fatalf("NormalizePercent(50) = %v, want 0.50", got)
	}
}

func TestNormalizeProbability(t *testing.T) {
	if got := NormalizeProbability(0.7); got != 0.7 {
		t.Fatalf("got %v, want 0.7", got)
	}
	if got := NormalizeProbability(85); got != 0.85 {
		t.Fatalf("got %v, want 0.85", got)
	}
}

func TestNormalizeSentiment(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0.5, 0.5},
		{-1, -1},
		{60, 0.6},
		{-85, -0.85},
		{250, 1},
		{-3000, -1},
	}
	for _, tc := range cases {
		if got := NormalizeSentiment(tc.in); got != tc.want {
			t.Fatalf("NormalizeSentiment(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSplitPairName(t *testing.T) {
	cases := []struct {
		in       string
		a, b     string
		ok       bool
	}{
		{"AVNT-USDC", "AVNT", "USDC", true},
		{"ETH/WBTC", "ETH", "WBTC", true},
		{"SOL_USDT", "SOL", "USDT", true},
		{"ETH USDC", "ETH", "USDC", true},
		// Dash has priority over slash.
		{"A-B/C", "A", "B/C", true},
		{"JUSTONETOKEN", "", "", false},
		{"-USDC", "", "", false},
	}
	for _, tc := range cases {
		a, b, ok := splitPairName(tc.in)
		if ok != tc.ok || a != tc.a || b != tc.b {
			t.Fatalf("splitPairName(%q) = (%q, %q, %v), want (%q, %q, %v)", tc.in, a, b, ok, tc.a, tc.b, tc.ok)
		}
	}
}
