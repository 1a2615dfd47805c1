package edge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateInsufficientData(t *testing.T) {
	engine := NewEngine(Config{MinObservations: 5, Window: 5})

	_, err := engine.Evaluate([]float64{20, 22, 24, 26}, 24, 2.0)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestEvaluateTieResolvesToUnder(t *testing.T) {
	engine := NewEngine(Config{MinObservations: 5, Window: 5})

	// Average is exactly 24, same as the line.
	result, err := engine.Evaluate([]float64{20, 22, 24, 26, 28}, 24, 2.0)
	require.NoError(t, err)

	assert.Equal(t, PickUnder, result.Pick)
	assert.InDelta(t, 24.0, result.RollingAverage, 0.0001)
	assert.InDelta(t, 0.0, result.Gap, 0.0001)
	assert.InDelta(t, 50.0, result.Probability, 0.0001)
	assert.False(t, result.IsEdge)
	assert.Equal(t, 5, result.GamesUsed)
}

func TestEvaluateClearOverEdge(t *testing.T) {
	engine := NewEngine(Config{MinObservations: 5, Window: 5})

	result, err := engine.Evaluate([]float64{30, 32, 28, 31, 29}, 24.5, 2.0)
	require.NoError(t, err)

	assert.Equal(t, PickOver, result.Pick)
	assert.InDelta(t, 30.0, result.RollingAverage, 0.0001)
	assert.InDelta(t, 5.5, result.Gap, 0.0001)
	assert.True(t, result.IsEdge)
	assert.Greater(t, result.Probability, 90.0)
	assert.Less(t, result.Probability, 99.0)
}

func TestEvaluateWindowsRecentGames(t *testing.T) {
	engine := NewEngine(Config{MinObservations: 5, Window: 5})

	// Only the last 5 games (all 30s) should feed the average.
	obs := []float64{10, 10, 10, 10, 10, 30, 30, 30, 30, 30}
	result, err := engine.Evaluate(obs, 25, 2.0)
	require.NoError(t, err)

	assert.Equal(t, 5, result.GamesUsed)
	assert.InDelta(t, 30.0, result.RollingAverage, 0.0001)
	assert.Equal(t, PickOver, result.Pick)
}

func TestEvaluateEdgeThreshold(t *testing.T) {
	engine := NewEngine(Config{MinObservations: 5, Window: 5})

	// Gap of exactly 2.0 qualifies; just under does not.
	atThreshold, err := engine.Evaluate([]float64{26, 26, 26, 26, 26}, 24, 2.0)
	require.NoError(t, err)
	assert.True(t, atThreshold.IsEdge)

	below, err := engine.Evaluate([]float64{26, 26, 26, 26, 26}, 24.5, 2.0)
	require.NoError(t, err)
	assert.False(t, below.IsEdge)
}

func TestHitProbabilityBoundsAndMonotonicity(t *testing.T) {
	prev := 0.0
	for _, gap := range []float64{0, 0.5, 1, 2, 4, 8, 16, 100} {
		p := hitProbability(gap, 2.0)
		assert.GreaterOrEqual(t, p, 50.0, "gap %v", gap)
		assert.Less(t, p, 99.0, "gap %v", gap)
		assert.GreaterOrEqual(t, p, prev, "probability must not decrease with gap")
		prev = p
	}
}

func TestHitProbabilityVarianceFloor(t *testing.T) {
	// A perfectly flat game log must not blow the probability out; the
	// variance floor keeps the z-score finite.
	flat := hitProbability(3.0, 0)
	noisy := hitProbability(3.0, 5.0)
	assert.Less(t, flat, 99.0)
	assert.Greater(t, flat, noisy, "same gap with lower variance should be more confident")
}

func TestNewEngineDefaults(t *testing.T) {
	engine := NewEngine(Config{})
	assert.Equal(t, DefaultConfig(), engine.cfg)
}
