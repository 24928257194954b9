package x402

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// HTTPDiscovery pages through a remote endpoint catalog.
type HTTPDiscovery struct {
	baseURL    string
	pageSize   int
	offset     int
	httpClient *http.Client
}

// NewHTTPDiscovery creates a catalog client. pageSize defaults to 50.
func NewHTTPDiscovery(baseURL string, pageSize int) (*HTTPDiscovery, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("discovery base URL is required")
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	return &HTTPDiscovery{
		baseURL:    baseURL,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// NextPage fetches the next catalog page. A catalog that responds with a
// fundamentally wrong shape surfaces as a *DiscoveryError: the run cannot
// proceed, which is different from one endpoint being flaky.
func (d *HTTPDiscovery) NextPage(ctx context.Context, filter DiscoveryFilter) ([]Endpoint, bool, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", d.pageSize))
	query.Set("offset", fmt.Sprintf("%d", d.offset))
	if filter.Category != "" {
		query.Set("category", string(filter.Category))
	}
	if filter.PaidOnly {
		query.Set("paid", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/endpoints?"+query.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create discovery request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, false, &DiscoveryError{Reason: "catalog unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, &DiscoveryError{Reason: fmt.Sprintf("catalog returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, &DiscoveryError{Reason: "failed to read catalog response", Err: err}
	}

	return d.parsePage(body, filter)
}

func (d *HTTPDiscovery) parsePage(body []byte, filter DiscoveryFilter) ([]Endpoint, bool, error) {
	root := gjson.ParseBytes(body)
	items := root.Get("items")
	if !items.Exists() {
		items = root.Get("endpoints")
	}
	if !items.IsArray() {
		return nil, false, &DiscoveryError{Reason: "catalog items field is not an array"}
	}

	var endpoints []Endpoint
	for _, item := range items.Array() {
		var ep Endpoint
		if err := json.Unmarshal([]byte(item.Raw), &ep); err != nil {
			return nil, false, &DiscoveryError{Reason: "malformed catalog entry", Err: err}
		}
		if ep.URL == "" {
			continue
		}
		if filter.MaxPrice > 0 && ep.DeclaredPrice > filter.MaxPrice {
			continue
		}
		endpoints = append(endpoints, ep)
	}

	d.offset += d.pageSize
	more := len(items.Array()) == d.pageSize
	return endpoints, more, nil
}

// StaticDiscovery serves a fixed roster, paged. It backs dry runs and tests.
type StaticDiscovery struct {
	Endpoints []Endpoint
	PageSize  int
	cursor    int
}

// NextPage returns the next slice of the fixed roster matching the filter.
func (d *StaticDiscovery) NextPage(_ context.Context, filter DiscoveryFilter) ([]Endpoint, bool, error) {
	pageSize := d.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	var page []Endpoint
	for d.cursor < len(d.Endpoints) && len(page) < pageSize {
		ep := d.Endpoints[d.cursor]
		d.cursor++
		if filter.Category != "" && ep.Category != filter.Category {
			continue
		}
		if filter.MaxPrice > 0 && ep.DeclaredPrice > filter.MaxPrice {
			continue
		}
		page = append(page, ep)
	}
	return page, d.cursor < len(d.Endpoints), nil
}
