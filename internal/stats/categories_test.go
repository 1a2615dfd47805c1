package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidStatType(t *testing.T) {
	for _, key := range []string{"PTS", "REB", "AST", "STL", "BLK", "3PM", "TOV", "PTS+REB", "PTS+AST", "REB+AST", "PTS+REB+AST", "STL+BLK"} {
		assert.True(t, IsValidStatType(key), key)
	}
	assert.False(t, IsValidStatType("MIN"))
	assert.False(t, IsValidStatType("pts"))
	assert.False(t, IsValidStatType(""))
}

func TestCategorySplit(t *testing.T) {
	assert.Len(t, AllCategories(), 12)
	assert.Len(t, IndividualStats(), 7)
	assert.Len(t, CombinationStats(), 5)

	for _, c := range CombinationStats() {
		assert.NotEmpty(t, c.Components, c.Key)
		for _, comp := range c.Components {
			assert.True(t, IsValidStatType(comp), "component %s of %s", comp, c.Key)
		}
	}
}

func TestLookupAndDisplayName(t *testing.T) {
	c, ok := Lookup("PTS+REB+AST")
	require.True(t, ok)
	assert.True(t, c.IsCombination)
	assert.Equal(t, []string{"PTS", "REB", "AST"}, c.Components)

	_, ok = Lookup("XYZ")
	assert.False(t, ok)

	assert.Equal(t, "Points", DisplayName("PTS"))
	assert.Equal(t, "XYZ", DisplayName("XYZ"))
}

func TestCombineGameValues(t *testing.T) {
	components := map[string][]float64{
		"PTS": {25, 30, 22},
		"REB": {8, 10, 7},
		"AST": {5, 6, 9},
	}

	combined := CombineGameValues("PTS+REB+AST", components)
	assert.Equal(t, []float64{38, 46, 38}, combined)

	combined = CombineGameValues("PTS+REB", components)
	assert.Equal(t, []float64{33, 40, 29}, combined)
}

func TestCombineGameValuesRejectsBadInput(t *testing.T) {
	// Non-combination stat.
	assert.Nil(t, CombineGameValues("PTS", map[string][]float64{"PTS": {1, 2}}))

	// Missing component.
	assert.Nil(t, CombineGameValues("PTS+REB", map[string][]float64{"PTS": {1, 2}}))

	// Mismatched series lengths.
	assert.Nil(t, CombineGameValues("PTS+REB", map[string][]float64{
		"PTS": {1, 2, 3},
		"REB": {1, 2},
	}))

	// Empty series.
	assert.Nil(t, CombineGameValues("PTS+REB", map[string][]float64{
		"PTS": {},
		"REB": {},
	}))
}
