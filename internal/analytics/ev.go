package analytics

import (
	"fmt"
	"math"

	"github.com/stitts-dev/prop-edge/internal/oddsmath"
)

// Valuation is the expected-value breakdown of a single prop at offered
// American odds, per 100 units staked.
type Valuation struct {
	ExpectedValue      float64 `json:"ev"`
	EVPercent          float64 `json:"ev_percentage"`
	MarketEdge         float64 `json:"market_edge"`         // model prob − implied prob, pct points
	ImpliedProbability float64 `json:"implied_probability"` // percent
	KellyFraction      float64 `json:"kelly_fraction"`      // percent of bankroll, capped at 25
	ProfitOnWin        float64 `json:"payout"`
	IsPositiveEV       bool    `json:"is_positive_ev"`
}

// ValueBet computes the expected value of betting stake units at the given
// American odds when the model assigns probability (percent) to winning.
func ValueBet(probability float64, americanOdds int, stake float64) (Valuation, error) {
	if probability <= 0 || probability > 100 {
		return Valuation{}, fmt.Errorf("probability %v out of range (0, 100]", probability)
	}

	decimal, err := oddsmath.AmericanToDecimal(americanOdds)
	if err != nil {
		return Valuation{}, err
	}

	p := probability / 100.0
	profit := stake * (decimal - 1.0)
	ev := p*profit - (1.0-p)*stake
	implied := 1.0 / decimal

	// Fractional Kelly, capped so one prop never draws a quarter of bankroll.
	kelly := (p*decimal - 1.0) / (decimal - 1.0)
	kelly = math.Max(0, math.Min(kelly, 0.25))

	return Valuation{
		ExpectedValue:      round2(ev),
		EVPercent:          round2(ev / stake * 100.0),
		MarketEdge:         round2((p - implied) * 100.0),
		ImpliedProbability: round2(implied * 100.0),
		KellyFraction:      round2(kelly * 100.0),
		ProfitOnWin:        round2(profit),
		IsPositiveEV:       ev > 0,
	}, nil
}

// Grade maps a market edge (percentage points over the implied probability)
// to a letter grade for quick board scanning.
func Grade(marketEdge float64) string {
	switch {
	case marketEdge >= 15:
		return "A+"
	case marketEdge >= 10:
		return "A"
	case marketEdge >= 7:
		return "B+"
	case marketEdge >= 4:
		return "B"
	case marketEdge >= 2:
		return "C+"
	case marketEdge >= 0:
		return "C"
	default:
		return "D"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100.0) / 100.0
}
