package oddsmath

import (
	"fmt"
	"math"
)

// AmericanToDecimal converts American odds to decimal odds.
// +150 → 2.50, -150 → 1.67.
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}
	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}
	return (100.0 / float64(-american)) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds, rounded to the
// nearest integer. 2.50 → +150, 1.67 → -150.
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("invalid decimal odds: must be > 1.0")
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// ImpliedProbability converts American odds to the probability they imply,
// as a fraction in (0, 1).
func ImpliedProbability(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1.0 / decimal, nil
}

// FairAmericanOdds converts a win probability (fraction in (0, 1)) to the
// zero-margin American odds it implies. Exactly 0.5 resolves to the
// favorite branch, giving -100.
func FairAmericanOdds(p float64) (int, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("invalid probability %v: must be in (0, 1)", p)
	}
	if p >= 0.5 {
		return int(math.Round(-100.0 * p / (1.0 - p))), nil
	}
	return int(math.Round(100.0 * (1.0 - p) / p)), nil
}
