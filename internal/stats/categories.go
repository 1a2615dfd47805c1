package stats

// Category describes a supported prop stat type. Combination categories
// are computed per game by summing their component stats.
type Category struct {
	Key           string    `json:"key"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CommonLines   []float64 `json:"common_lines"`
	IsCombination bool      `json:"is_combination"`
	Components    []string  `json:"components,omitempty"`
}

var categories = map[string]Category{
	"PTS": {
		Key:         "PTS",
		Name:        "Points",
		Description: "Total points scored",
		CommonLines: []float64{15, 20, 25, 30, 35, 40},
	},
	"REB": {
		Key:         "REB",
		Name:        "Rebounds",
		Description: "Total rebounds",
		CommonLines: []float64{5, 7, 10, 12, 15},
	},
	"AST": {
		Key:         "AST",
		Name:        "Assists",
		Description: "Total assists",
		CommonLines: []float64{5, 7, 10, 12, 15},
	},
	"STL": {
		Key:         "STL",
		Name:        "Steals",
		Description: "Total steals",
		CommonLines: []float64{1, 2, 3, 4, 5},
	},
	"BLK": {
		Key:         "BLK",
		Name:        "Blocks",
		Description: "Total blocks",
		CommonLines: []float64{1, 2, 3, 4, 5},
	},
	"3PM": {
		Key:         "3PM",
		Name:        "3-Pointers Made",
		Description: "Three-pointers made",
		CommonLines: []float64{2, 3, 4, 5, 6},
	},
	"TOV": {
		Key:         "TOV",
		Name:        "Turnovers",
		Description: "Total turnovers",
		CommonLines: []float64{1, 2, 3, 4, 5},
	},
	"PTS+REB": {
		Key:           "PTS+REB",
		Name:          "Points + Rebounds",
		Description:   "Combined points and rebounds",
		CommonLines:   []float64{20, 25, 30, 35, 40, 45},
		IsCombination: true,
		Components:    []string{"PTS", "REB"},
	},
	"PTS+AST": {
		Key:           "PTS+AST",
		Name:          "Points + Assists",
		Description:   "Combined points and assists",
		CommonLines:   []float64{20, 25, 30, 35, 40, 45},
		IsCombination: true,
		Components:    []string{"PTS", "AST"},
	},
	"REB+AST": {
		Key:           "REB+AST",
		Name:          "Rebounds + Assists",
		Description:   "Combined rebounds and assists",
		CommonLines:   []float64{10, 12, 15, 18, 20},
		IsCombination: true,
		Components:    []string{"REB", "AST"},
	},
	"PTS+REB+AST": {
		Key:           "PTS+REB+AST",
		Name:          "Points + Rebounds + Assists",
		Description:   "Triple-double stat line",
		CommonLines:   []float64{30, 35, 40, 45, 50, 55},
		IsCombination: true,
		Components:    []string{"PTS", "REB", "AST"},
	},
	"STL+BLK": {
		Key:           "STL+BLK",
		Name:          "Steals + Blocks",
		Description:   "Combined steals and blocks",
		CommonLines:   []float64{2, 3, 4, 5, 6},
		IsCombination: true,
		Components:    []string{"STL", "BLK"},
	},
}

// AllCategories returns every supported stat category.
func AllCategories() map[string]Category {
	out := make(map[string]Category, len(categories))
	for k, v := range categories {
		out[k] = v
	}
	return out
}

// IndividualStats returns only the non-combination categories.
func IndividualStats() []Category {
	var out []Category
	for _, c := range categories {
		if !c.IsCombination {
			out = append(out, c)
		}
	}
	return out
}

// CombinationStats returns only the combination categories.
func CombinationStats() []Category {
	var out []Category
	for _, c := range categories {
		if c.IsCombination {
			out = append(out, c)
		}
	}
	return out
}

// IsValidStatType reports whether the stat type is supported.
func IsValidStatType(statType string) bool {
	_, ok := categories[statType]
	return ok
}

// Lookup returns the category for a stat type.
func Lookup(statType string) (Category, bool) {
	c, ok := categories[statType]
	return c, ok
}

// DisplayName returns the human-readable name for a stat type, falling
// back to the key itself for unknown types.
func DisplayName(statType string) string {
	if c, ok := categories[statType]; ok {
		return c.Name
	}
	return statType
}

// CombineGameValues computes per-game combination stat values by summing
// the component series. All component series must have equal length; the
// result has one value per game.
func CombineGameValues(statType string, components map[string][]float64) []float64 {
	c, ok := categories[statType]
	if !ok || !c.IsCombination {
		return nil
	}

	n := -1
	for _, comp := range c.Components {
		series, ok := components[comp]
		if !ok {
			return nil
		}
		if n == -1 {
			n = len(series)
		} else if len(series) != n {
			return nil
		}
	}
	if n <= 0 {
		return nil
	}

	combined := make([]float64, n)
	for _, comp := range c.Components {
		for i, v := range components[comp] {
			combined[i] += v
		}
	}
	return combined
}
