package edge

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData means fewer observations were supplied than the
// configured minimum. Callers should surface this as "no recommendation
// available" rather than a hard failure.
var ErrInsufficientData = errors.New("insufficient observations")

// Pick is the directional recommendation against a line.
type Pick string

const (
	PickOver  Pick = "OVER"
	PickUnder Pick = "UNDER"
)

// Config holds the engine's evaluation parameters.
type Config struct {
	// MinObservations is the fewest games required to evaluate at all.
	MinObservations int
	// Window is how many of the most recent games feed the rolling average.
	Window int
}

// DefaultConfig returns the documented defaults (minimum 5, window 5).
func DefaultConfig() Config {
	return Config{MinObservations: 5, Window: 5}
}

// Result is a single edge evaluation. Derived, never persisted; always
// regenerated from the current observations and line.
type Result struct {
	PlayerID       string  `json:"player_id,omitempty"`
	StatType       string  `json:"stat_type,omitempty"`
	LineValue      float64 `json:"line_value"`
	RollingAverage float64 `json:"rolling_average"`
	Gap            float64 `json:"gap"`
	Pick           Pick    `json:"pick"`
	Probability    float64 `json:"probability"` // percent in [50, 99]
	IsEdge         bool    `json:"is_edge"`
	GamesUsed      int     `json:"games_used"`
}

// Engine computes picks and hit probabilities from recent game logs.
// Pure and stateless; safe for unlimited concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given config, falling back to
// defaults for zero values.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.MinObservations <= 0 {
		cfg.MinObservations = def.MinObservations
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	return &Engine{cfg: cfg}
}

// Evaluate compares the rolling average of the most recent games against a
// posted line. Observations are chronological, oldest first. A tie between
// average and line resolves to UNDER so picks are deterministic.
func (e *Engine) Evaluate(observations []float64, line, threshold float64) (Result, error) {
	if len(observations) < e.cfg.MinObservations {
		return Result{}, fmt.Errorf("%w: got %d, need %d", ErrInsufficientData, len(observations), e.cfg.MinObservations)
	}

	window := observations
	if len(window) > e.cfg.Window {
		window = window[len(window)-e.cfg.Window:]
	}

	avg := mean(window)
	gap := math.Abs(avg - line)

	pick := PickUnder
	if avg > line {
		pick = PickOver
	}

	return Result{
		LineValue:      line,
		RollingAverage: avg,
		Gap:            gap,
		Pick:           pick,
		Probability:    hitProbability(gap, stdDev(window)),
		IsEdge:         gap >= threshold,
		GamesUsed:      len(window),
	}, nil
}

// hitProbability maps the average-to-line gap onto [50, 99] via a logistic
// of the variance-normalized z-score:
//
//	z = gap / max(stddev, 0.5)
//	p = 50 + 49 * (2/(1+e^(-1.25z)) - 1)
//
// Zero gap yields 50; large consistent gaps approach but never reach 99,
// keeping headroom for sample-size uncertainty.
func hitProbability(gap, sd float64) float64 {
	const (
		floor = 0.5  // variance floor so flat game logs do not divide by zero
		slope = 1.25 // logistic steepness
		span  = 49.0 // maps (0,1) onto (50,99)
	)

	if sd < floor {
		sd = floor
	}
	z := gap / sd
	logistic := 2.0/(1.0+math.Exp(-slope*z)) - 1.0
	return 50.0 + span*logistic
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
