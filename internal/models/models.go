package models

import (
	"time"
)

// Direction describes which way a posted line moved.
type Direction string

const (
	DirectionUp        Direction = "UP"
	DirectionDown      Direction = "DOWN"
	DirectionUnchanged Direction = "UNCHANGED"
)

// Line is a single posted betting line at a point in time. Lines are
// immutable once recorded; a new value for the same (player, stat) is a
// new Line, not a mutation.
type Line struct {
	PlayerID   string    `json:"player_id" gorm:"primaryKey;size:64"`
	StatType   string    `json:"stat_type" gorm:"primaryKey;size:16"`
	Value      float64   `json:"value"`
	ObservedAt time.Time `json:"observed_at"`
}

// LineChangeEvent records a detected line movement. Append-only: events
// are never mutated or deleted.
type LineChangeEvent struct {
	ID            uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	PlayerID      string    `json:"player_id" gorm:"index:idx_line_changes_pair;size:64"`
	StatType      string    `json:"stat_type" gorm:"index:idx_line_changes_pair;size:16"`
	PreviousValue float64   `json:"previous_value"`
	NewValue      float64   `json:"new_value"`
	Direction     Direction `json:"direction" gorm:"size:12"`
	Delta         float64   `json:"delta"`
	ObservedAt    time.Time `json:"observed_at" gorm:"index"`
	Manual        bool      `json:"manual,omitempty"`
}

// ChaseListEntry is a user-curated watch entry, unique per (player, stat).
type ChaseListEntry struct {
	PlayerID  string    `json:"player_id" gorm:"primaryKey;size:64"`
	StatType  string    `json:"stat_type" gorm:"primaryKey;size:16"`
	LineValue float64   `json:"line_value"`
	Reason    string    `json:"reason"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AltLineEntry records an alternate line seen at another source. The same
// (player, stat) can carry multiple alt lines from multiple sources.
type AltLineEntry struct {
	ID       uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	PlayerID string    `json:"player_id" gorm:"index:idx_alt_lines_pair;size:64"`
	StatType string    `json:"stat_type" gorm:"index:idx_alt_lines_pair;size:16"`
	MainLine float64   `json:"main_line"`
	AltLine  float64   `json:"alt_line"`
	Source   string    `json:"source" gorm:"size:64"`
	Delta    float64   `json:"delta"`
	AddedAt  time.Time `json:"added_at"`
}

// BetResult is the settled outcome of a tracked bet.
type BetResult string

const (
	BetPending BetResult = "PENDING"
	BetWin     BetResult = "WIN"
	BetLoss    BetResult = "LOSS"
	BetPush    BetResult = "PUSH"
)

// Bet is a tracked wager on a single prop.
type Bet struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	PlayerID     string     `json:"player_id" gorm:"index;size:64"`
	StatType     string     `json:"stat_type" gorm:"size:16"`
	Line         float64    `json:"line"`
	Pick         string     `json:"pick" gorm:"size:8"`
	AmericanOdds int        `json:"american_odds"`
	Stake        float64    `json:"stake"`
	Probability  float64    `json:"probability"`
	PlacedAt     time.Time  `json:"placed_at" gorm:"index"`
	ClosingOdds  *int       `json:"closing_odds,omitempty"`
	ActualStat   *float64   `json:"actual_stat,omitempty"`
	Result       BetResult  `json:"result" gorm:"size:8;default:PENDING"`
	Profit       float64    `json:"profit"`
	SettledAt    *time.Time `json:"settled_at,omitempty"`
}
