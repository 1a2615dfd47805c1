package bets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/prop-edge/internal/models"
	"github.com/stitts-dev/prop-edge/internal/oddsmath"
)

// ErrBetNotFound is returned for operations on an unknown bet ID.
var ErrBetNotFound = errors.New("bet not found")

// Store persists tracked bets.
type Store interface {
	Insert(ctx context.Context, bet models.Bet) error
	Update(ctx context.Context, bet models.Bet) error
	GetByID(ctx context.Context, id string) (*models.Bet, error)
	ListSince(ctx context.Context, since time.Time) ([]models.Bet, error)
	ListPending(ctx context.Context) ([]models.Bet, error)
	Delete(ctx context.Context, id string) error
}

// Summary aggregates performance over a set of settled bets.
type Summary struct {
	TotalBets   int     `json:"total_bets"`
	SettledBets int     `json:"settled_bets"`
	PendingBets int     `json:"pending_bets"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Pushes      int     `json:"pushes"`
	TotalStake  float64 `json:"total_stake"`
	TotalProfit float64 `json:"total_profit"`
	ROIPercent  float64 `json:"roi_pct"`
	WinRate     float64 `json:"win_rate"`
	CLV         float64 `json:"clv"`
}

// Tracker records placed bets, settles them against actual stats, and
// reports ROI and closing-line value.
type Tracker struct {
	store  Store
	logger *logrus.Logger
}

// NewTracker creates a bet tracker over the given store.
func NewTracker(store Store, logger *logrus.Logger) *Tracker {
	return &Tracker{store: store, logger: logger}
}

// Place records a new pending bet and returns it with its generated ID.
func (t *Tracker) Place(ctx context.Context, bet models.Bet) (models.Bet, error) {
	bet.ID = uuid.New().String()
	bet.Result = models.BetPending
	if bet.PlacedAt.IsZero() {
		bet.PlacedAt = time.Now()
	}

	if err := t.store.Insert(ctx, bet); err != nil {
		return models.Bet{}, fmt.Errorf("inserting bet: %w", err)
	}

	t.logger.WithFields(logrus.Fields{
		"bet_id":    bet.ID,
		"player_id": bet.PlayerID,
		"stat_type": bet.StatType,
		"pick":      bet.Pick,
		"stake":     bet.Stake,
	}).Info("Bet placed")
	return bet, nil
}

// UpdateClosingOdds records the closing odds for a pending bet.
func (t *Tracker) UpdateClosingOdds(ctx context.Context, betID string, closingOdds int) (models.Bet, error) {
	bet, err := t.get(ctx, betID)
	if err != nil {
		return models.Bet{}, err
	}

	bet.ClosingOdds = &closingOdds
	if err := t.store.Update(ctx, bet); err != nil {
		return models.Bet{}, fmt.Errorf("updating closing odds for bet %s: %w", betID, err)
	}
	return bet, nil
}

// Settle resolves a bet against the actual stat value. Landing exactly on
// the line is a push: the stake is returned and profit is zero.
func (t *Tracker) Settle(ctx context.Context, betID string, actualStat float64, closingOdds *int) (models.Bet, error) {
	bet, err := t.get(ctx, betID)
	if err != nil {
		return models.Bet{}, err
	}

	now := time.Now()
	bet.ActualStat = &actualStat
	bet.SettledAt = &now
	if closingOdds != nil {
		bet.ClosingOdds = closingOdds
	}

	switch {
	case actualStat > bet.Line:
		bet.Result = models.BetLoss
		if bet.Pick == overPick {
			bet.Result = models.BetWin
		}
	case actualStat < bet.Line:
		bet.Result = models.BetLoss
		if bet.Pick == underPick {
			bet.Result = models.BetWin
		}
	default:
		bet.Result = models.BetPush
	}

	switch bet.Result {
	case models.BetWin:
		bet.Profit = round2(winProfit(bet.Stake, bet.AmericanOdds))
	case models.BetPush:
		bet.Profit = 0
	default:
		bet.Profit = -bet.Stake
	}

	if err := t.store.Update(ctx, bet); err != nil {
		return models.Bet{}, fmt.Errorf("settling bet %s: %w", betID, err)
	}

	t.logger.WithFields(logrus.Fields{
		"bet_id": bet.ID,
		"result": bet.Result,
		"profit": bet.Profit,
	}).Info("Bet settled")
	return bet, nil
}

// Recent returns bets placed within the last given number of days.
func (t *Tracker) Recent(ctx context.Context, days int) ([]models.Bet, error) {
	since := time.Now().AddDate(0, 0, -days)
	bets, err := t.store.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("listing recent bets: %w", err)
	}
	return bets, nil
}

// Pending returns all unsettled bets.
func (t *Tracker) Pending(ctx context.Context) ([]models.Bet, error) {
	bets, err := t.store.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pending bets: %w", err)
	}
	return bets, nil
}

// Delete removes a tracked bet.
func (t *Tracker) Delete(ctx context.Context, betID string) error {
	if err := t.store.Delete(ctx, betID); err != nil {
		return fmt.Errorf("deleting bet %s: %w", betID, err)
	}
	return nil
}

// Summarize computes record, ROI, and closing-line value over the bets.
func Summarize(all []models.Bet) Summary {
	s := Summary{TotalBets: len(all)}

	var clvTotal float64
	var clvCount int
	var winLoss int

	for _, b := range all {
		if b.Result == models.BetPending || b.Result == "" {
			s.PendingBets++
			continue
		}
		s.SettledBets++
		s.TotalStake += b.Stake
		s.TotalProfit += b.Profit

		switch b.Result {
		case models.BetWin:
			s.Wins++
		case models.BetLoss:
			s.Losses++
		case models.BetPush:
			s.Pushes++
		}

		if b.ClosingOdds != nil {
			placed, err1 := oddsmath.ImpliedProbability(b.AmericanOdds)
			closing, err2 := oddsmath.ImpliedProbability(*b.ClosingOdds)
			if err1 == nil && err2 == nil {
				// Positive CLV means the market moved toward the bet.
				clvTotal += (closing - placed) * 100.0
				clvCount++
			}
		}
	}

	winLoss = s.Wins + s.Losses
	if winLoss > 0 {
		s.WinRate = round2(float64(s.Wins) / float64(winLoss) * 100.0)
	}
	if s.TotalStake > 0 {
		s.ROIPercent = round2(s.TotalProfit / s.TotalStake * 100.0)
	}
	if clvCount > 0 {
		s.CLV = round2(clvTotal / float64(clvCount))
	}
	s.TotalStake = round2(s.TotalStake)
	s.TotalProfit = round2(s.TotalProfit)
	return s
}

const (
	overPick  = "OVER"
	underPick = "UNDER"
)

func (t *Tracker) get(ctx context.Context, betID string) (models.Bet, error) {
	bet, err := t.store.GetByID(ctx, betID)
	if err != nil {
		return models.Bet{}, fmt.Errorf("loading bet %s: %w", betID, err)
	}
	if bet == nil {
		return models.Bet{}, fmt.Errorf("%w: %s", ErrBetNotFound, betID)
	}
	return *bet, nil
}

func winProfit(stake float64, americanOdds int) float64 {
	if americanOdds > 0 {
		return stake * float64(americanOdds) / 100.0
	}
	return stake * 100.0 / math.Abs(float64(americanOdds))
}

func round2(v float64) float64 {
	return math.Round(v*100.0) / 100.0
}
