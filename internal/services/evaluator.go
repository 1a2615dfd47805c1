package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/prop-edge/internal/analytics"
	"github.com/stitts-dev/prop-edge/internal/cache"
	"github.com/stitts-dev/prop-edge/internal/edge"
	"github.com/stitts-dev/prop-edge/internal/history"
	"github.com/stitts-dev/prop-edge/internal/logger"
	"github.com/stitts-dev/prop-edge/internal/parlay"
	"github.com/stitts-dev/prop-edge/internal/statsource"
)

// EvaluatorConfig carries the knobs the evaluator needs.
type EvaluatorConfig struct {
	CacheTTL      time.Duration
	LookbackGames int
	EdgeThreshold float64
	MinStreak     int
	DefaultOdds   int
}

// PropEdge is one fully evaluated prop: the engine's pick plus streak,
// consistency, and market valuation context.
type PropEdge struct {
	edge.Result
	Streak    edge.Streak         `json:"streak"`
	Metrics   edge.Metrics        `json:"metrics"`
	Valuation analytics.Valuation `json:"valuation"`
	Grade     string              `json:"grade"`
	Stale     bool                `json:"stale"`
}

// Evaluator composes the cache, the stat source, and the edge engine into
// board-level evaluations. The cache guarantees at most one upstream fetch
// per key per TTL window and degrades to stale data on upstream failure.
type Evaluator struct {
	cache   *cache.TTLCache
	source  statsource.Source
	engine  *edge.Engine
	tracker *history.Tracker
	logger  *logrus.Logger
	cfg     EvaluatorConfig
}

// NewEvaluator creates an evaluator.
func NewEvaluator(
	c *cache.TTLCache,
	source statsource.Source,
	engine *edge.Engine,
	tracker *history.Tracker,
	logger *logrus.Logger,
	cfg EvaluatorConfig,
) *Evaluator {
	return &Evaluator{
		cache:   c,
		source:  source,
		engine:  engine,
		tracker: tracker,
		logger:  logger,
		cfg:     cfg,
	}
}

// EvaluateProp evaluates a single prop against its posted line. Stats come
// through the cache; a stale result is still usable and flagged as such.
func (e *Evaluator) EvaluateProp(ctx context.Context, playerID, statType string, line float64) (*PropEdge, error) {
	observations, stale, err := e.fetchObservations(ctx, playerID, statType, false)
	if err != nil {
		return nil, err
	}
	return e.evaluate(playerID, statType, line, observations, stale)
}

// RefreshProp force-refreshes the cached stats for a prop and re-evaluates.
// Used by the external scheduler; the evaluator itself owns no timer.
func (e *Evaluator) RefreshProp(ctx context.Context, playerID, statType string, line float64) (*PropEdge, error) {
	observations, stale, err := e.fetchObservations(ctx, playerID, statType, true)
	if err != nil {
		return nil, err
	}
	return e.evaluate(playerID, statType, line, observations, stale)
}

// EvaluateBoard evaluates every tracked line. Props without enough data or
// with no data of any age are skipped with a log entry rather than failing
// the whole board.
func (e *Evaluator) EvaluateBoard(ctx context.Context) ([]PropEdge, error) {
	lines, err := e.tracker.CurrentLines(ctx)
	if err != nil {
		return nil, err
	}

	board := make([]PropEdge, 0, len(lines))
	for _, line := range lines {
		prop, err := e.EvaluateProp(ctx, line.PlayerID, line.StatType, line.Value)
		if err != nil {
			if errors.Is(err, edge.ErrInsufficientData) || errors.Is(err, cache.ErrCacheMiss) {
				logger.WithProp(e.logger, line.PlayerID, line.StatType).
					WithError(err).Warn("Skipping prop on board evaluation")
				continue
			}
			return nil, err
		}
		board = append(board, *prop)
	}
	return board, nil
}

// ParlayCandidates converts the current board into parlay legs.
func (e *Evaluator) ParlayCandidates(ctx context.Context) ([]parlay.Candidate, error) {
	board, err := e.EvaluateBoard(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]parlay.Candidate, 0, len(board))
	for _, prop := range board {
		candidates = append(candidates, parlay.Candidate{
			PlayerID:    prop.PlayerID,
			StatType:    prop.StatType,
			Line:        prop.LineValue,
			Pick:        string(prop.Pick),
			Probability: prop.Probability,
		})
	}
	return candidates, nil
}

func (e *Evaluator) fetchObservations(ctx context.Context, playerID, statType string, force bool) ([]float64, bool, error) {
	key := cache.Key{PlayerID: playerID, StatType: statType, Lookback: e.cfg.LookbackGames}
	fetch := func(ctx context.Context) ([]float64, error) {
		return e.source.FetchRecentStats(ctx, playerID, statType, e.cfg.LookbackGames)
	}

	if force {
		return e.cache.ForceRefresh(ctx, key, e.cfg.CacheTTL, fetch)
	}
	return e.cache.Get(ctx, key, e.cfg.CacheTTL, fetch)
}

func (e *Evaluator) evaluate(playerID, statType string, line float64, observations []float64, stale bool) (*PropEdge, error) {
	result, err := e.engine.Evaluate(observations, line, e.cfg.EdgeThreshold)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s/%s: %w", playerID, statType, err)
	}
	result.PlayerID = playerID
	result.StatType = statType

	valuation, err := analytics.ValueBet(result.Probability, e.cfg.DefaultOdds, 100)
	if err != nil {
		return nil, fmt.Errorf("valuing %s/%s: %w", playerID, statType, err)
	}

	return &PropEdge{
		Result:    result,
		Streak:    edge.CalculateStreak(observations, line, e.cfg.MinStreak),
		Metrics:   edge.CalculateMetrics(observations),
		Valuation: valuation,
		Grade:     analytics.Grade(valuation.MarketEdge),
		Stale:     stale,
	}, nil
}
