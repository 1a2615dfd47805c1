package edge

// Metrics summarizes the shape of a game log. Consistency is the
// coefficient of variation as a percentage; lower means steadier output.
type Metrics struct {
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	Consistency float64 `json:"consistency"`
	Games       int     `json:"games"`
}

// CalculateMetrics computes summary metrics over a full game log.
func CalculateMetrics(observations []float64) Metrics {
	if len(observations) == 0 {
		return Metrics{}
	}

	m := mean(observations)
	sd := stdDev(observations)

	consistency := 0.0
	if m > 0 {
		consistency = sd / m * 100.0
	}

	return Metrics{
		Mean:        m,
		StdDev:      sd,
		Consistency: consistency,
		Games:       len(observations),
	}
}
