package normalize

import (
	"math"

	"github.com/tidwall/gjson"
)

// WhaleRecord is a normalized large-holder transaction row.
type WhaleRecord struct {
	Wallet       string   `json:"wallet"`
	Action       string   `json:"action"`
	Token        string   `json:"token"`
	AmountUsd    *float64 `json:"amount_usd,omitempty"`
	TxHash       string   `json:"tx_hash,omitempty"`
	Significance float64  `json:"significance"`
}

var (
	whaleWalletFields = []string{"wallet", "walletAddress", "wallet_address", "address", "from", "account"}
	whaleActionFields = []string{"action", "type", "side", "direction"}
	whaleTokenFields  = []string{"token", "symbol", "asset", "coin"}
	whaleAmountFields = []string{"amountUsd", "amount_usd", "usdValue", "valueUsd", "amount", "value"}
	whaleTxFields     = []string{"txHash", "tx_hash", "hash", "transactionHash"}
)

// ExtractWhaleData maps raw records onto WhaleRecords. Wallet, action and
// token are mandatory; rows missing any are dropped individually.
func ExtractWhaleData(records []gjson.Result, h Heuristics) []WhaleRecord {
	whales := make([]WhaleRecord, 0, len(records))
	for _, rec := range records {
		if !rec.IsObject() {
			continue
		}

		wallet, walletOK := firstString(rec, whaleWalletFields...)
		action, actionOK := firstString(rec, whaleActionFields...)
		token, tokenOK := firstString(rec, whaleTokenFields...)
		if !walletOK || !actionOK || !tokenOK {
			continue
		}

		whale := WhaleRecord{
			Wallet:    wallet,
			Action:    action,
			Token:     token,
			AmountUsd: numberField(rec, whaleAmountFields...),
		}
		if tx, ok := firstString(rec, whaleTxFields...); ok {
			whale.TxHash = tx
		}
		whale.Significance = significance(whale.AmountUsd, h)
		whales = append(whales, whale)
	}
	return whales
}

// significance scores a move as log10(amount)/divisor clamped to [0,1].
func significance(amountUsd *float64, h Heuristics) float64 {
	if amountUsd == nil || *amountUsd <= 0 || h.SignificanceLogDivisor <= 0 {
		return 0
	}
	score := math.Log10(*amountUsd) / h.SignificanceLogDivisor
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
