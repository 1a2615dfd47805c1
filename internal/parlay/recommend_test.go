package parlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCandidates() []Candidate {
	return []Candidate{
		{PlayerID: "p1", StatType: "PTS", Line: 25.5, Pick: "OVER", Probability: 85},
		{PlayerID: "p2", StatType: "REB", Line: 9.5, Pick: "UNDER", Probability: 80},
		{PlayerID: "p3", StatType: "AST", Line: 7.5, Pick: "OVER", Probability: 72},
		{PlayerID: "p4", StatType: "PTS", Line: 18.5, Pick: "OVER", Probability: 65},
	}
}

func TestRecommendFiltersLowProbabilityLegs(t *testing.T) {
	recs := Recommend(testCandidates(), 2, 10, -110)

	// Only 3 candidates clear 70%, so C(3,2) = 3 combinations.
	require.Len(t, recs, 3)
	for _, rec := range recs {
		for _, leg := range rec.Legs {
			assert.GreaterOrEqual(t, leg.Probability, 70.0)
		}
	}
}

func TestRecommendSortsByScore(t *testing.T) {
	recs := Recommend(testCandidates(), 2, 10, -110)
	require.NotEmpty(t, recs)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}

	// The best pairing combines the two strongest legs.
	best := recs[0]
	ids := []string{best.Legs[0].PlayerID, best.Legs[1].PlayerID}
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
}

func TestRecommendCapsResultCount(t *testing.T) {
	recs := Recommend(testCandidates(), 2, 1, -110)
	assert.Len(t, recs, 1)
}

func TestRecommendNotEnoughCandidates(t *testing.T) {
	assert.Nil(t, Recommend(testCandidates(), 4, 5, -110))
	assert.Nil(t, Recommend(nil, 2, 5, -110))
	assert.Nil(t, Recommend(testCandidates(), 1, 5, -110))
}

func TestRecommendAll(t *testing.T) {
	out := RecommendAll(testCandidates(), -110)

	require.Contains(t, out, 2)
	require.Contains(t, out, 3)
	require.Contains(t, out, 4)
	require.Contains(t, out, 6)

	assert.Len(t, out[2], 3)
	assert.Len(t, out[3], 1)
	assert.Nil(t, out[4])
	assert.Nil(t, out[6])
}

func TestForEachCombination(t *testing.T) {
	var seen [][]int
	forEachCombination(4, 2, func(idx []int) {
		combo := make([]int, len(idx))
		copy(combo, idx)
		seen = append(seen, combo)
	})

	assert.Equal(t, [][]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}, seen)
}
