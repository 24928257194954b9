package x402

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// ZauthClient queries the Zauth reliability service for an uptime score
// before money is spent on an endpoint.
type ZauthClient struct {
	baseURL       string
	apiKey        string
	checkCost     float64
	skipThreshold float64
	httpClient    *http.Client
}

// NewZauthClient creates a reliability checker. checkCost is what one check
// bills; endpoints scoring below skipThreshold uptime are flagged for
// skipping.
func NewZauthClient(baseURL, apiKey string, checkCost, skipThreshold float64) (*ZauthClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("zauth base URL is required")
	}
	return &ZauthClient{
		baseURL:       baseURL,
		apiKey:        apiKey,
		checkCost:     checkCost,
		skipThreshold: skipThreshold,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Check returns the Zauth verdict for an endpoint. The policy is fail open:
// when the check itself cannot complete, the endpoint is reported as
// reliable at zero cost rather than silently excluded.
func (c *ZauthClient) Check(ctx context.Context, endpoint Endpoint) (*CheckResult, error) {
	checkURL := fmt.Sprintf("%s/check?url=%s", c.baseURL, url.QueryEscape(endpoint.URL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return failOpen(), nil
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failOpen(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failOpen(), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failOpen(), nil
	}

	root := gjson.ParseBytes(body)
	uptime := root.Get("uptime").Num
	if !root.Get("uptime").Exists() {
		uptime = root.Get("uptimeFraction").Num
	}
	working := root.Get("working").Type != gjson.False

	return &CheckResult{
		Working:        working,
		UptimeFraction: uptime,
		ShouldSkip:     !working || uptime < c.skipThreshold,
		Cost:           c.checkCost,
	}, nil
}

func failOpen() *CheckResult {
	return &CheckResult{Working: true, UptimeFraction: 1, ShouldSkip: false, Cost: 0}
}
