package parlay

import (
	"sort"
)

// Candidate is an evaluated prop eligible for parlay construction.
type Candidate struct {
	PlayerID    string  `json:"player_id"`
	StatType    string  `json:"stat_type"`
	Line        float64 `json:"line"`
	Pick        string  `json:"pick"`
	Probability float64 `json:"probability"`
}

// Recommendation is one scored parlay combination.
type Recommendation struct {
	Legs   []Candidate `json:"legs"`
	Result Result      `json:"result"`
	Score  float64     `json:"score"`
}

// minCandidateProbability filters parlay construction to high-confidence
// legs only; low-probability legs compound too fast to be worth combining.
const minCandidateProbability = 70.0

// Recommend enumerates size-leg combinations of the candidates whose
// probability is at least 70%, values each against standard prop pricing
// (defaultOdds per leg, typically -110), scores by expected value plus ten
// times the market edge, and returns the top maxRecommendations.
func Recommend(candidates []Candidate, size, maxRecommendations, defaultOdds int) []Recommendation {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Probability >= minCandidateProbability {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) < size || size < 2 {
		return nil
	}

	var recs []Recommendation
	forEachCombination(len(eligible), size, func(idx []int) {
		legs := make([]Leg, size)
		combo := make([]Candidate, size)
		for i, j := range idx {
			combo[i] = eligible[j]
			legs[i] = Leg{
				Label:       eligible[j].PlayerID + " " + eligible[j].Pick + " " + eligible[j].StatType,
				Probability: eligible[j].Probability,
				MarketOdds:  defaultOdds,
			}
		}

		result, err := Calculate(legs)
		if err != nil {
			return
		}
		recs = append(recs, Recommendation{
			Legs:   combo,
			Result: result,
			Score:  result.ExpectedValue + result.EdgePercent*10.0,
		})
	})

	sort.Slice(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// RecommendAll builds recommendations for the standard parlay sizes.
func RecommendAll(candidates []Candidate, defaultOdds int) map[int][]Recommendation {
	out := make(map[int][]Recommendation, 4)
	for _, size := range []int{2, 3, 4, 6} {
		max := 5
		if size == 6 {
			max = 3
		}
		out[size] = Recommend(candidates, size, max, defaultOdds)
	}
	return out
}

// forEachCombination visits every k-subset of [0, n) in lexicographic order.
func forEachCombination(n, k int, visit func(idx []int)) {
	if k > n || k <= 0 {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		visit(idx)

		// Advance to the next combination.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
