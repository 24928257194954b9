package normalize

import (
	"testing"
)

func TestValidateResponseRejectsEmptyAndNull(t *testing.T) {
	for _, payload := range [][]byte{nil, []byte("  "), []byte("null")} {
		outcome := ValidateResponse(payload, nil)
		if outcome.Valid {
			t.Fatalf("payload %q should be invalid", payload)
		}
		if outcome.SchemaSource != SourceNone {
			t.Fatalf("schema source = %q, want %q", outcome.SchemaSource, SourceNone)
		}
		if outcome.Err == "" {
			t.Fatalf("expected a diagnostic for payload %q", payload)
		}
	}
}

func TestValidateResponseDeclaredSchema(t *testing.T) {
	payload := []byte(`{"rows":[{"id":"a"},{"id":"b"}]}`)
	outcome := ValidateResponse(payload, &Schema{Kind: "object", DataField: "rows"})
	if !outcome.Valid {
		t.Fatalf("expected valid outcome: %s", outcome.Err)
	}
	if outcome.SchemaSource != SourceDeclared {
		t.Fatalf("schema source = %q, want %q", outcome.SchemaSource, SourceDeclared)
	}
	if len(outcome.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(outcome.Records))
	}
}

func TestValidateResponseDeclaredSchemaFallsBackToPatterns(t *testing.T) {
	// Declared field is absent, but the payload matches {data:[...]}.
	payload := []byte(`{"data":[{"id":"a"}]}`)
	outcome := ValidateResponse(payload, &Schema{Kind: "object", DataField: "rows"})
	if !outcome.Valid {
		t.Fatalf("expected pattern fallback to succeed: %s", outcome.Err)
	}
	if outcome.SchemaSource != SourcePattern {
		t.Fatalf("schema source = %q, want %q", outcome.SchemaSource, SourcePattern)
	}
}

func TestValidateResponsePatternPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		records int
	}{
		{"success-data-array", `{"success":true,"data":[1,2,3]}`, 3},
		{"success-data-nested", `{"success":true,"data":{"pools":[1,2]}}`, 2},
		{"data-array", `{"data":[1]}`, 1},
		{"data-nested-any-key", `{"data":{"weird":[1,2,3,4]}}`, 4},
		{"bare-array", `[1,2]`, 2},
		{"result-array", `{"result":[1,2,3]}`, 3},
		{"response-data", `{"response":{"data":[1]}}`, 1},
		{"priority-key", `{"meta":1,"topPools":[1,2]}`, 2},
		{"any-key", `{"meta":1,"rows":[1,2,3]}`, 3},
	}
	for _, tc := range cases {
		outcome := ValidateResponse([]byte(tc.payload), nil)
		if !outcome.Valid {
			t.Fatalf("%s: expected valid, got %s", tc.name, outcome.Err)
		}
		if outcome.SchemaSource != SourcePattern {
			t.Fatalf("%s: schema source = %q", tc.name, outcome.SchemaSource)
		}
		if len(outcome.Records) != tc.records {
			t.Fatalf("%s: records = %d, want %d", tc.name, len(outcome.Records), tc.records)
		}
	}
}

func TestValidateResponseUnrecognizedShape(t *testing.T) {
	outcome := ValidateResponse([]byte(`{"message":"no arrays here"}`), nil)
	if outcome.Valid {
		t.Fatalf("expected invalid outcome")
	}
	if outcome.Err == "" {
		t.Fatalf("expected diagnostic error string")
	}
}

func TestPoolRoundTrip(t *testing.T) {
	payload := []byte(`{"success":true,"data":[
		{"poolId":"p1","tokenA":"ETH","tokenB":"USDC","apy":5,"tvlUsd":"$2.00M","volumeUsd":"$500K"},
		{"pool_id":"p2","name":"AVNT-USDC","apr":{"total":"50%"}}
	]}`)
	outcome := ValidateResponse(payload, nil)
	if !outcome.Valid {
		t.Fatalf("validate: %s", outcome.Err)
	}

	pools := ExtractPoolData(outcome.Records, DefaultHeuristics())
	if len(pools) != 2 {
		t.Fatalf("pools = %d, want 2", len(pools))
	}

	p1 := pools[0]
	if p1.PoolID != "p1" || p1.TokenA != "ETH" || p1.TokenB != "USDC" {
		t.Fatalf("mandatory fields mismatch: %+v", p1)
	}
	if p1.APY == nil || *p1.APY != 0.05 {
		t.Fatalf("apy = %v, want 0.05", p1.APY)
	}
	if p1.TVLUsd == nil || *p1.TVLUsd != 2e6 {
		t.Fatalf("tvl = %v, want 2e6", p1.TVLUsd)
	}
	// volume/TVL = 0.25 falls in the medium IL bucket.
	if p1.ILRisk != "medium" {
		t.Fatalf("il risk = %q, want medium", p1.ILRisk)
	}

	p2 := pools[1]
	if p2.TokenA != "AVNT" || p2.TokenB != "USDC" {
		t.Fatalf("pair split mismatch: %+v", p2)
	}
	if p2.APY == nil || *p2.APY != 0.5 {
		t.Fatalf("dotted-path apy = %v, want 0.5", p2.APY)
	}
}

func TestExtractPoolDataDropsIncompleteRows(t *testing.T) {
	payload := []byte(`[
		{"id":"ok","name":"A/B"},
		{"name":"missing-id-and-unsplittable"},
		{"id":"no-tokens"},
		"not-an-object"
	]`)
	outcome := ValidateResponse(payload, nil)
	if !outcome.Valid {
		t.Fatalf("validate: %s", outcome.Err)
	}
	pools := ExtractPoolData(outcome.Records, DefaultHeuristics())
	if len(pools) != 1 {
		t.Fatalf("pools = %d, want 1 (bad rows dropped silently)", len(pools))
	}
	if pools[0].PoolID != "ok" {
		t.Fatalf("kept wrong row: %+v", pools[0])
	}
}

func TestExtractWhaleData(t *testing.T) {
	payload := []byte(`{"whales":[
		{"wallet":"0xabc","action":"buy","token":"ETH","amountUsd":10000000},
		{"wallet":"0xdef","action":"sell","token":"BTC","amount":"$1.13M","txHash":"0x1"},
		{"action":"buy","token":"ETH"}
	]}`)
	outcome := ValidateResponse(payload, nil)
	if !outcome.Valid {
		t.Fatalf("validate: %s", outcome.Err)
	}
	whales := ExtractWhaleData(outcome.Records, DefaultHeuristics())
	if len(whales) != 2 {
		t.Fatalf("whales = %d, want 2", len(whales))
	}
	// log10(1e7)/7 = 1.0
	if whales[0].Significance != 1 {
		t.Fatalf("significance = %v, want 1", whales[0].Significance)
	}
	if whales[1].AmountUsd == nil || *whales[1].AmountUsd != 1.13e6 {
		t.Fatalf("amount = %v, want 1.13e6", whales[1].AmountUsd)
	}
	if whales[1].TxHash != "0x1" {
		t.Fatalf("tx hash = %q", whales[1].TxHash)
	}
}

func TestExtractSentimentData(t *testing.T) {
	payload := []byte(`{"scores":[
		{"token":"ETH","score":0.4,"confidence":85},
		{"symbol":"BTC","sentiment":-60},
		{"token":"SOL","score":250},
		{"token":"DOGE"}
	]}`)
	outcome := ValidateResponse(payload, nil)
	if !outcome.Valid {
		t.Fatalf("validate: %s", outcome.Err)
	}
	records := ExtractSentimentData(outcome.Records)
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3 (score-less row dropped)", len(records))
	}
	if records[0].Score != 0.4 {
		t.Fatalf("score = %v, want 0.4 passthrough", records[0].Score)
	}
	if records[0].Confidence == nil || *records[0].Confidence != 0.85 {
		t.Fatalf("confidence = %v, want 0.85", records[0].Confidence)
	}
	if records[1].Score != -0.6 {
		t.Fatalf("score = %v, want -0.6 (±100 scale)", records[1].Score)
	}
	if records[2].Score != 1 {
		t.Fatalf("score = %v, want clamp to 1", records[2].Score)
	}
}
