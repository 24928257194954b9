package normalize

import "github.com/tidwall/gjson"

// SentimentRecord is a normalized per-token sentiment row. Score is always
// on [-1,1] after normalization.
type SentimentRecord struct {
	Token      string   `json:"token"`
	Score      float64  `json:"score"`
	Confidence *float64 `json:"confidence,omitempty"`
}

var (
	sentimentTokenFields      = []string{"token", "symbol", "coin", "asset"}
	sentimentScoreFields      = []string{"score", "sentiment", "sentimentScore", "sentiment_score", "value"}
	sentimentConfidenceFields = []string{"confidence", "conf", "certainty"}
)

// ExtractSentimentData maps raw records onto SentimentRecords. Token and a
// parseable score are mandatory; rows missing either are dropped.
func ExtractSentimentData(records []gjson.Result) []SentimentRecord {
	out := make([]SentimentRecord, 0, len(records))
	for _, rec := range records {
		if !rec.IsObject() {
			continue
		}

		token, tokenOK := firstString(rec, sentimentTokenFields...)
		if !tokenOK {
			continue
		}
		raw, _, scoreOK := firstNumber(rec, sentimentScoreFields...)
		if !scoreOK {
			continue
		}

		record := SentimentRecord{
			Token: token,
			Score: NormalizeSentiment(raw),
		}
		if conf, _, ok := firstNumber(rec, sentimentConfidenceFields...); ok {
			normalized := NormalizeProbability(conf)
			record.Confidence = &normalized
		}
		out = append(out, record)
	}
	return out
}
