package oddsmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		expected float64
		wantErr  bool
	}{
		{"positive underdog", 150, 2.5, false},
		{"negative favorite", -150, 1.6667, false},
		{"standard juice", -110, 1.9091, false},
		{"even money", 100, 2.0, false},
		{"zero is invalid", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToDecimal(tt.american)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 0.0001)
		})
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		name     string
		decimal  float64
		expected int
		wantErr  bool
	}{
		{"underdog", 2.5, 150, false},
		{"favorite", 1.5, -200, false},
		{"even money", 2.0, 100, false},
		{"at one is invalid", 1.0, 0, true},
		{"below one is invalid", 0.5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecimalToAmerican(tt.decimal)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestImpliedProbability(t *testing.T) {
	p, err := ImpliedProbability(-110)
	require.NoError(t, err)
	assert.InDelta(t, 0.5238, p, 0.0001)

	p, err = ImpliedProbability(200)
	require.NoError(t, err)
	assert.InDelta(t, 0.3333, p, 0.0001)

	_, err = ImpliedProbability(0)
	assert.Error(t, err)
}

func TestFairAmericanOdds(t *testing.T) {
	tests := []struct {
		name     string
		p        float64
		expected int
		wantErr  bool
	}{
		{"coin flip resolves to favorite branch", 0.5, -100, false},
		{"longshot", 0.25, 300, false},
		{"heavy favorite", 0.75, -300, false},
		{"zero is invalid", 0, 0, true},
		{"one is invalid", 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FairAmericanOdds(tt.p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRoundTripConversion(t *testing.T) {
	for _, odds := range []int{-300, -150, -110, 100, 150, 300} {
		decimal, err := AmericanToDecimal(odds)
		require.NoError(t, err)
		back, err := DecimalToAmerican(decimal)
		require.NoError(t, err)
		assert.Equal(t, odds, back, "round trip for %d", odds)
	}
}
