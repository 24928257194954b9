package x402

import (
	"context"
	"fmt"
	"math/rand"
)

// SimProfile describes the synthetic world a simulated run executes in.
type SimProfile struct {
	// DefaultReliability is the success probability for endpoints without
	// an override.
	DefaultReliability float64
	// Reliability overrides success probability per endpoint name.
	Reliability map[string]float64
	// CheckCost is what the simulated Zauth bills per check.
	CheckCost float64
	// SkipThreshold is the uptime below which the simulated Zauth flags an
	// endpoint for skipping.
	SkipThreshold float64
	// PriceFloor backs EffectivePrice for priceless endpoints.
	PriceFloor float64
}

// DefaultSimProfile returns a moderately unreliable world.
func DefaultSimProfile() SimProfile {
	return SimProfile{
		DefaultReliability: 0.7,
		CheckCost:          0.001,
		SkipThreshold:      0.5,
		PriceFloor:         0.001,
	}
}

func (p SimProfile) reliabilityFor(endpoint Endpoint) float64 {
	if r, ok := p.Reliability[endpoint.Name]; ok {
		return r
	}
	return p.DefaultReliability
}

// SimulatedTransport is a deterministic PaymentClient: two transports built
// from the same seed and profile produce identical result sequences. Matched
// pairs rely on this to face both conditions with the same stochastic world.
type SimulatedTransport struct {
	rng     *rand.Rand
	profile SimProfile
}

// NewSimulatedTransport creates a seeded transport.
func NewSimulatedTransport(seed int64, profile SimProfile) *SimulatedTransport {
	return &SimulatedTransport{rng: rand.New(rand.NewSource(seed)), profile: profile}
}

// Query simulates one paid call. Failures split between transport errors and
// well-formed garbage that will fail normalization; both still cost money.
func (t *SimulatedTransport) Query(_ context.Context, endpoint Endpoint) (*QueryResult, error) {
	price := endpoint.EffectivePrice(t.profile.PriceFloor)
	latency := 20 + t.rng.Int63n(180)
	roll := t.rng.Float64()

	reliability := t.profile.reliabilityFor(endpoint)
	if roll >= reliability {
		if t.rng.Float64() < 0.5 {
			return &QueryResult{Spent: price, Err: "simulated timeout", LatencyMs: latency}, nil
		}
		// Paid, answered, unusable.
		return &QueryResult{
			Success:   true,
			Spent:     price,
			Payload:   []byte(`{"message":"service degraded"}`),
			LatencyMs: latency,
		}, nil
	}

	return &QueryResult{
		Success:   true,
		Spent:     price,
		Payload:   t.payloadFor(endpoint),
		LatencyMs: latency,
	}, nil
}

func (t *SimulatedTransport) payloadFor(endpoint Endpoint) []byte {
	switch endpoint.Category {
	case CategoryWhale:
		return []byte(fmt.Sprintf(
			`{"success":true,"data":[{"wallet":"0x%08x","action":"buy","token":"ETH","amountUsd":%d}]}`,
			t.rng.Uint32(), 1_000_000+t.rng.Intn(9_000_000)))
	case CategorySentiment:
		return []byte(fmt.Sprintf(
			`{"success":true,"data":[{"token":"ETH","score":%.2f,"confidence":%.2f}]}`,
			t.rng.Float64()*2-1, 0.5+t.rng.Float64()/2))
	default:
		return []byte(fmt.Sprintf(
			`{"success":true,"data":[{"poolId":"sim-%04d","tokenA":"ETH","tokenB":"USDC","apy":%.2f,"tvlUsd":%d,"volumeUsd":%d}]}`,
			t.rng.Intn(10_000), t.rng.Float64()*40, 1_000_000+t.rng.Intn(5_000_000), 50_000+t.rng.Intn(500_000)))
	}
}

// SimulatedChecker is a deterministic Zauth stub whose verdicts come
// straight from the profile's reliability table.
type SimulatedChecker struct {
	profile SimProfile
}

// NewSimulatedChecker creates a checker over the same profile as the
// transport it is paired with.
func NewSimulatedChecker(profile SimProfile) *SimulatedChecker {
	return &SimulatedChecker{profile: profile}
}

// Check reports the profiled uptime for the endpoint.
func (c *SimulatedChecker) Check(_ context.Context, endpoint Endpoint) (*CheckResult, error) {
	uptime := c.profile.reliabilityFor(endpoint)
	return &CheckResult{
		Working:        uptime > 0,
		UptimeFraction: uptime,
		ShouldSkip:     uptime < c.profile.SkipThreshold,
		Cost:           c.profile.CheckCost,
	}, nil
}
