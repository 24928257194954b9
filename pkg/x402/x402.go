// Package x402 defines the collaborator capabilities the experiment engine
// consumes: the paid query transport, the Zauth reliability pre-check, the
// endpoint discovery catalog, and the wallet. Real HTTP implementations and a
// deterministic simulated transport are both provided so studies can run
// against live money or a seeded stub interchangeably.
package x402

import (
	"context"
	"fmt"

	"github.com/zen-systems/burngate/pkg/normalize"
)

// Category classifies what kind of data an endpoint sells.
type Category string

const (
	CategoryPool      Category = "pool"
	CategoryWhale     Category = "whale"
	CategorySentiment Category = "sentiment"
)

// Categories lists all known categories in comparison order.
func Categories() []Category {
	return []Category{CategoryPool, CategoryWhale, CategorySentiment}
}

// Endpoint is one candidate from the discovery catalog. Immutable for the
// duration of a run.
type Endpoint struct {
	URL           string            `json:"url"`
	Name          string            `json:"name"`
	Category      Category          `json:"category"`
	DeclaredPrice float64           `json:"declared_price"`
	// RequestedPrice is the price the endpoint actually demanded at query
	// time (via a 402 quote); nil until observed.
	RequestedPrice *float64          `json:"requested_price,omitempty"`
	Schema         *normalize.Schema `json:"schema,omitempty"`
}

// EffectivePrice returns the price actually requested if known, else the
// declared catalog price, else the given floor.
func (e Endpoint) EffectivePrice(floor float64) float64 {
	if e.RequestedPrice != nil && *e.RequestedPrice > 0 {
		return *e.RequestedPrice
	}
	if e.DeclaredPrice > 0 {
		return e.DeclaredPrice
	}
	return floor
}

// QueryResult is the outcome of one paid call. Spent is always reported,
// even on failure: payment is assumed consumed once an attempt starts.
type QueryResult struct {
	Success   bool    `json:"success"`
	Spent     float64 `json:"spent"`
	Payload   []byte  `json:"-"`
	Err       string  `json:"error,omitempty"`
	LatencyMs int64   `json:"latency_ms"`
}

// CheckResult is the Zauth reliability verdict for one endpoint.
type CheckResult struct {
	Working        bool    `json:"working"`
	UptimeFraction float64 `json:"uptime_fraction"`
	ShouldSkip     bool    `json:"should_skip"`
	Cost           float64 `json:"cost"`
}

// PaymentClient submits one paid request. Ordinary HTTP or validation
// failures come back inside the QueryResult; only transport-level exceptions
// surface as an error.
type PaymentClient interface {
	Query(ctx context.Context, endpoint Endpoint) (*QueryResult, error)
}

// ReliabilityChecker runs the Zauth pre-check. Implementations fail open: a
// check that cannot complete reports ShouldSkip=false at zero cost.
type ReliabilityChecker interface {
	Check(ctx context.Context, endpoint Endpoint) (*CheckResult, error)
}

// DiscoveryFilter narrows a catalog listing.
type DiscoveryFilter struct {
	Category Category
	MaxPrice float64
	PaidOnly bool
}

// Discovery pages through the endpoint catalog. more is false once no pages
// remain; implementations keep their own cursor.
type Discovery interface {
	NextPage(ctx context.Context, filter DiscoveryFilter) (endpoints []Endpoint, more bool, err error)
}

// Wallet answers balance queries in USDC.
type Wallet interface {
	Balance(ctx context.Context) (float64, error)
}

// DiscoveryError marks the catalog as unusable for this run, as opposed to a
// single endpoint misbehaving.
type DiscoveryError struct {
	Reason string
	Err    error
}

func (e *DiscoveryError) Error() string {
	if e == nil {
		return "discovery error"
	}
	if e.Err != nil {
		return fmt.Sprintf("discovery: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("discovery: %s", e.Reason)
}

func (e *DiscoveryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ListAll drains a Discovery into a single slice.
func ListAll(ctx context.Context, d Discovery, filter DiscoveryFilter) ([]Endpoint, error) {
	var all []Endpoint
	for {
		page, more, err := d.NextPage(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if !more {
			return all, nil
		}
	}
}
