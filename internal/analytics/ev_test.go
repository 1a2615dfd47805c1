package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueBetPositiveEV(t *testing.T) {
	v, err := ValueBet(60, -110, 100)
	require.NoError(t, err)

	assert.InDelta(t, 14.55, v.ExpectedValue, 0.001)
	assert.InDelta(t, 14.55, v.EVPercent, 0.001)
	assert.InDelta(t, 7.62, v.MarketEdge, 0.001)
	assert.InDelta(t, 52.38, v.ImpliedProbability, 0.001)
	assert.InDelta(t, 16.0, v.KellyFraction, 0.001)
	assert.InDelta(t, 90.91, v.ProfitOnWin, 0.001)
	assert.True(t, v.IsPositiveEV)
}

func TestValueBetNegativeEV(t *testing.T) {
	v, err := ValueBet(45, -110, 100)
	require.NoError(t, err)

	assert.Less(t, v.ExpectedValue, 0.0)
	assert.Less(t, v.MarketEdge, 0.0)
	assert.Zero(t, v.KellyFraction, "no bankroll on a negative-edge bet")
	assert.False(t, v.IsPositiveEV)
}

func TestValueBetKellyCap(t *testing.T) {
	// A huge model edge must still be capped at a quarter of bankroll.
	v, err := ValueBet(95, 150, 100)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, v.KellyFraction, 0.001)
}

func TestValueBetValidation(t *testing.T) {
	_, err := ValueBet(0, -110, 100)
	assert.Error(t, err)

	_, err = ValueBet(101, -110, 100)
	assert.Error(t, err)

	_, err = ValueBet(60, 0, 100)
	assert.Error(t, err)
}

func TestGrade(t *testing.T) {
	tests := []struct {
		edge     float64
		expected string
	}{
		{16, "A+"},
		{15, "A+"},
		{10, "A"},
		{7, "B+"},
		{4, "B"},
		{2, "C+"},
		{0, "C"},
		{-1, "D"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Grade(tt.edge), "edge %v", tt.edge)
	}
}
