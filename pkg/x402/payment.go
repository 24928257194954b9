package x402

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// HTTPPaymentClient pays per-request through an x402 facilitator. The
// facilitator settles the micropayment; this client only attaches the
// authorization it was given and reports what each attempt cost.
type HTTPPaymentClient struct {
	authToken  string
	priceFloor float64
	httpClient *http.Client
}

// NewHTTPPaymentClient creates a payment client with the facilitator-issued
// authorization token. priceFloor is charged when an endpoint never states a
// price anywhere.
func NewHTTPPaymentClient(authToken string, priceFloor float64) (*HTTPPaymentClient, error) {
	if authToken == "" {
		return nil, fmt.Errorf("payment authorization token is required")
	}
	return &HTTPPaymentClient{
		authToken:  authToken,
		priceFloor: priceFloor,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Query issues one paid request. The returned result always carries a Spent
// amount, failure or not: once the request is on the wire the payment is
// treated as consumed. Only request-construction problems return an error.
func (c *HTTPPaymentClient) Query(ctx context.Context, endpoint Endpoint) (*QueryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", endpoint.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Payment", c.authToken)

	price := endpoint.EffectivePrice(c.priceFloor)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return &QueryResult{Spent: price, Err: err.Error(), LatencyMs: latency}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &QueryResult{Spent: price, Err: fmt.Sprintf("read body: %v", err), LatencyMs: latency}, nil
	}

	// A 402 carries the price the endpoint actually demands. The quote
	// itself costs nothing, so retry once at the quoted price.
	if resp.StatusCode == http.StatusPaymentRequired {
		if quoted := quotedPrice(body); quoted > 0 {
			requery := endpoint
			requery.RequestedPrice = &quoted
			return c.payAndRetry(ctx, requery, quoted)
		}
		return &QueryResult{Err: "payment required without a readable quote", LatencyMs: latency}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &QueryResult{
			Spent:     price,
			Err:       fmt.Sprintf("endpoint returned status %d", resp.StatusCode),
			LatencyMs: latency,
		}, nil
	}

	return &QueryResult{Success: true, Spent: price, Payload: body, LatencyMs: latency}, nil
}

func (c *HTTPPaymentClient) payAndRetry(ctx context.Context, endpoint Endpoint, price float64) (*QueryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry request for %s: %w", endpoint.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Payment", c.authToken)
	req.Header.Set("X-Payment-Amount", fmt.Sprintf("%.6f", price))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return &QueryResult{Spent: price, Err: err.Error(), LatencyMs: latency}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &QueryResult{Spent: price, Err: fmt.Sprintf("read body: %v", err), LatencyMs: latency}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &QueryResult{
			Spent:     price,
			Err:       fmt.Sprintf("endpoint returned status %d after payment", resp.StatusCode),
			LatencyMs: latency,
		}, nil
	}
	return &QueryResult{Success: true, Spent: price, Payload: body, LatencyMs: latency}, nil
}

// quotedPrice pulls the demanded price out of a 402 body. Facilitators vary
// on the field name.
func quotedPrice(body []byte) float64 {
	root := gjson.ParseBytes(body)
	for _, key := range []string{"price", "amount", "maxAmountRequired", "accepts.0.maxAmountRequired"} {
		if field := root.Get(key); field.Type == gjson.Number && field.Num > 0 {
			return field.Num
		}
	}
	return 0
}
