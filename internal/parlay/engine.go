package parlay

import (
	"errors"
	"fmt"
	"math"

	"github.com/stitts-dev/prop-edge/internal/oddsmath"
)

// Input validation errors. Always surfaced to the caller, never clamped.
var (
	ErrInsufficientLegs   = errors.New("parlay requires at least 2 legs")
	ErrInvalidProbability = errors.New("leg probability must be in (0, 100]")
)

// Leg is one independent-probability component of a parlay. Probability is
// a percentage; it may come from an edge evaluation or directly from the
// caller. MarketOdds, when non-zero, are the American odds a book actually
// offers for the leg.
type Leg struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	MarketOdds  int     `json:"market_odds,omitempty"`
}

// Result is a full parlay valuation. All fields are populated together;
// there is no partial-success state.
type Result struct {
	NumLegs             int     `json:"num_legs"`
	CombinedProbability float64 `json:"combined_probability"` // percent
	AmericanOdds        int     `json:"american_odds"`
	PayoutPer100        float64 `json:"payout_per_100"`
	ExpectedValue       float64 `json:"expected_value"`
	EdgePercent         float64 `json:"edge_percent"`
}

// Calculate values a parlay from its legs. Legs are assumed independent;
// combined probability is the product of the leg probabilities.
//
// When no leg carries market odds the parlay is valued at fair odds: payout
// is 100/p per 100 staked, expected value works out to zero and edge is 0
// by convention. When every leg carries market odds the payout comes from
// the combined market decimal and the edge is the model probability minus
// the market-implied probability.
func Calculate(legs []Leg) (Result, error) {
	if err := validate(legs); err != nil {
		return Result{}, err
	}

	p := combinedProbability(legs)

	marketDecimal, hasMarket, err := combinedMarketDecimal(legs)
	if err != nil {
		return Result{}, err
	}
	if !hasMarket {
		return valueAtFairOdds(len(legs), p), nil
	}
	return valueAgainstMarket(len(legs), p, marketDecimal), nil
}

// CalculateAgainstMarket values a parlay whose combined market odds are
// quoted as a whole (e.g. a book's posted parlay price) rather than per leg.
func CalculateAgainstMarket(legs []Leg, marketOdds int) (Result, error) {
	if err := validate(legs); err != nil {
		return Result{}, err
	}

	marketDecimal, err := oddsmath.AmericanToDecimal(marketOdds)
	if err != nil {
		return Result{}, fmt.Errorf("invalid market odds: %w", err)
	}

	return valueAgainstMarket(len(legs), combinedProbability(legs), marketDecimal), nil
}

func validate(legs []Leg) error {
	if len(legs) < 2 {
		return fmt.Errorf("%w: got %d", ErrInsufficientLegs, len(legs))
	}
	for i, leg := range legs {
		if leg.Probability <= 0 || leg.Probability > 100 {
			return fmt.Errorf("%w: leg %d has probability %v", ErrInvalidProbability, i, leg.Probability)
		}
	}
	return nil
}

func combinedProbability(legs []Leg) float64 {
	p := 1.0
	for _, leg := range legs {
		p *= leg.Probability / 100.0
	}
	return p
}

// combinedMarketDecimal multiplies per-leg market decimals. Either every
// leg carries market odds or none does; a mix would silently blend fair and
// market pricing, so it is rejected.
func combinedMarketDecimal(legs []Leg) (float64, bool, error) {
	withOdds := 0
	decimal := 1.0
	for i, leg := range legs {
		if leg.MarketOdds == 0 {
			continue
		}
		d, err := oddsmath.AmericanToDecimal(leg.MarketOdds)
		if err != nil {
			return 0, false, fmt.Errorf("leg %d: %w", i, err)
		}
		decimal *= d
		withOdds++
	}

	if withOdds == 0 {
		return 0, false, nil
	}
	if withOdds != len(legs) {
		return 0, false, fmt.Errorf("market odds supplied for %d of %d legs; supply all or none", withOdds, len(legs))
	}
	return decimal, true, nil
}

func valueAtFairOdds(numLegs int, p float64) Result {
	payout := 100.0 / p
	return Result{
		NumLegs:             numLegs,
		CombinedProbability: round2(p * 100.0),
		AmericanOdds:        fairOdds(p),
		PayoutPer100:        round2(payout),
		ExpectedValue:       round2(expectedValue(payout, p)),
		EdgePercent:         0,
	}
}

func valueAgainstMarket(numLegs int, p, marketDecimal float64) Result {
	payout := 100.0 * marketDecimal
	implied := 1.0 / marketDecimal
	return Result{
		NumLegs:             numLegs,
		CombinedProbability: round2(p * 100.0),
		AmericanOdds:        fairOdds(p),
		PayoutPer100:        round2(payout),
		ExpectedValue:       round2(expectedValue(payout, p)),
		EdgePercent:         round2((p - implied) * 100.0),
	}
}

// expectedValue compares the total payout per 100 staked against the model
// probability of the parlay winning. At fair odds this is exactly zero.
func expectedValue(payoutPer100, p float64) float64 {
	return (payoutPer100-100.0)*p - 100.0*(1.0-p)
}

// fairOdds converts a combined probability to fair American odds. A
// combined probability of exactly 1 (every leg at 100%) has no finite
// American representation; it is held just below 1 for the conversion.
func fairOdds(p float64) int {
	if p > 0.9999 {
		p = 0.9999
	}
	odds, err := oddsmath.FairAmericanOdds(p)
	if err != nil {
		// Unreachable: p is validated into (0, 1] and capped above.
		return 0
	}
	return odds
}

func round2(v float64) float64 {
	return math.Round(v*100.0) / 100.0
}
