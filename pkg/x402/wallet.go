package x402

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// HTTPWallet answers balance queries against the facilitator's wallet API.
type HTTPWallet struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewHTTPWallet creates a wallet client.
func NewHTTPWallet(baseURL, authToken string) (*HTTPWallet, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("wallet base URL is required")
	}
	return &HTTPWallet{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Balance returns the current USDC balance.
func (w *HTTPWallet) Balance(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/balance", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create balance request: %w", err)
	}
	if w.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+w.authToken)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("wallet request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("wallet returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read wallet response: %w", err)
	}

	balance := gjson.GetBytes(body, "balance")
	if balance.Type != gjson.Number {
		return 0, fmt.Errorf("wallet response has no numeric balance field")
	}
	return balance.Num, nil
}
