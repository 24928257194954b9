package normalize

import "github.com/tidwall/gjson"

// PoolRecord is a normalized liquidity-pool row. Optional numeric fields are
// nil when the source payload omitted them or they failed to parse;
// downstream scoring treats nil as zero with a quality penalty.
type PoolRecord struct {
	PoolID    string   `json:"pool_id"`
	TokenA    string   `json:"token_a"`
	TokenB    string   `json:"token_b"`
	APY       *float64 `json:"apy,omitempty"`
	TVLUsd    *float64 `json:"tvl_usd,omitempty"`
	VolumeUsd *float64 `json:"volume_usd,omitempty"`
	FeeRate   *float64 `json:"fee_rate,omitempty"`
	ILRisk    string   `json:"il_risk"`
}

var (
	poolIDFields    = []string{"poolId", "pool_id", "id", "address", "pairAddress", "pool"}
	poolTokenAFields = []string{"tokenA", "token_a", "token0", "token0Symbol", "baseToken", "symbol0"}
	poolTokenBFields = []string{"tokenB", "token_b", "token1", "token1Symbol", "quoteToken", "symbol1"}
	poolNameFields  = []string{"name", "pair", "symbol", "pool"}
	poolAPYFields   = []string{"apy", "apr", "apy.total", "apr.total", "yield", "apyPct"}
	poolTVLFields   = []string{"tvlUsd", "tvl_usd", "tvl", "totalValueLockedUSD", "liquidityUsd", "liquidity"}
	poolVolumeFields = []string{"volumeUsd", "volume_usd", "volume24h", "volume", "dailyVolume"}
	poolFeeFields   = []string{"feeRate", "fee_rate", "fee", "feeTier", "fees"}
)

// ExtractPoolData maps raw records onto PoolRecords. Records missing the
// mandatory pool id or either token symbol are dropped individually; one bad
// row never rejects the batch.
func ExtractPoolData(records []gjson.Result, h Heuristics) []PoolRecord {
	pools := make([]PoolRecord, 0, len(records))
	for _, rec := range records {
		if !rec.IsObject() {
			continue
		}

		id, idOK := firstString(rec, poolIDFields...)
		if !idOK {
			continue
		}

		tokenA, aOK := firstString(rec, poolTokenAFields...)
		tokenB, bOK := firstString(rec, poolTokenBFields...)
		if !aOK || !bOK {
			if name, nameOK := firstString(rec, poolNameFields...); nameOK {
				if a, b, splitOK := splitPairName(name); splitOK {
					tokenA, tokenB = a, b
					aOK, bOK = true, true
				}
			}
		}
		if !aOK || !bOK {
			continue
		}

		pool := PoolRecord{
			PoolID:    id,
			TokenA:    tokenA,
			TokenB:    tokenB,
			APY:       percentField(rec, poolAPYFields...),
			TVLUsd:    numberField(rec, poolTVLFields...),
			VolumeUsd: numberField(rec, poolVolumeFields...),
			FeeRate:   percentField(rec, poolFeeFields...),
		}
		pool.ILRisk = ilRisk(pool.VolumeUsd, pool.TVLUsd, h)
		pools = append(pools, pool)
	}
	return pools
}

// ilRisk buckets impermanent-loss risk on the volume/TVL ratio.
func ilRisk(volumeUsd, tvlUsd *float64, h Heuristics) string {
	if volumeUsd == nil || tvlUsd == nil || *tvlUsd <= 0 {
		return "low"
	}
	ratio := *volumeUsd / *tvlUsd
	switch {
	case ratio < h.ILRiskMediumRatio:
		return "low"
	case ratio < h.ILRiskHighRatio:
		return "medium"
	default:
		return "high"
	}
}
