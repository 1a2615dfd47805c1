package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/prop-edge/internal/models"
)

// Store persists current lines and the append-only change log.
// Lookups return (nil, nil) / empty slices for unknown pairs.
type Store interface {
	GetCurrentLine(ctx context.Context, playerID, statType string) (*models.Line, error)
	SaveCurrentLine(ctx context.Context, line models.Line) error
	CurrentLines(ctx context.Context) ([]models.Line, error)
	AppendChange(ctx context.Context, event models.LineChangeEvent) error
	ChangesSince(ctx context.Context, since time.Time) ([]models.LineChangeEvent, error)
}

// WatchlistStore persists the chase list and the alt-line registry.
type WatchlistStore interface {
	UpsertChase(ctx context.Context, entry models.ChaseListEntry) error
	RemoveChase(ctx context.Context, playerID, statType string) error
	ListChase(ctx context.Context) ([]models.ChaseListEntry, error)
	AppendAltLine(ctx context.Context, entry models.AltLineEntry) error
	ListAltLines(ctx context.Context, playerID, statType string) ([]models.AltLineEntry, error)
}

// Tracker records line movement over time and owns the chase list and
// alt-line registry. Writes for the same (player, stat) pair are serialized
// so concurrent recordings never double-append change events.
type Tracker struct {
	store     Store
	watchlist WatchlistStore
	logger    *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTracker creates a line history tracker over the given stores.
func NewTracker(store Store, watchlist WatchlistStore, logger *logrus.Logger) *Tracker {
	return &Tracker{
		store:     store,
		watchlist: watchlist,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (t *Tracker) pairLock(playerID, statType string) *sync.Mutex {
	key := playerID + ":" + statType
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[key] = lock
	}
	return lock
}

// RecordLine stores a newly observed line. The first line for a pair is
// stored without an event; a changed value appends exactly one
// LineChangeEvent and replaces the current line; an equal value is a no-op.
// The returned event is nil when none was recorded.
func (t *Tracker) RecordLine(ctx context.Context, playerID, statType string, value float64, ts time.Time) (*models.LineChangeEvent, error) {
	return t.record(ctx, playerID, statType, value, ts, false)
}

// EditLine is an explicit manual override. It runs through the same
// change-detection path as RecordLine so manual edits stay auditable; on an
// unknown pair it behaves like a first-time recording.
func (t *Tracker) EditLine(ctx context.Context, playerID, statType string, value float64, ts time.Time) (*models.LineChangeEvent, error) {
	return t.record(ctx, playerID, statType, value, ts, true)
}

func (t *Tracker) record(ctx context.Context, playerID, statType string, value float64, ts time.Time, manual bool) (*models.LineChangeEvent, error) {
	lock := t.pairLock(playerID, statType)
	lock.Lock()
	defer lock.Unlock()

	previous, err := t.store.GetCurrentLine(ctx, playerID, statType)
	if err != nil {
		return nil, fmt.Errorf("loading current line for %s/%s: %w", playerID, statType, err)
	}

	line := models.Line{
		PlayerID:   playerID,
		StatType:   statType,
		Value:      value,
		ObservedAt: ts,
	}

	if previous == nil {
		if err := t.store.SaveCurrentLine(ctx, line); err != nil {
			return nil, fmt.Errorf("saving first line for %s/%s: %w", playerID, statType, err)
		}
		return nil, nil
	}

	if previous.Value == value {
		return nil, nil
	}

	direction := models.DirectionDown
	if value > previous.Value {
		direction = models.DirectionUp
	}

	event := models.LineChangeEvent{
		PlayerID:      playerID,
		StatType:      statType,
		PreviousValue: previous.Value,
		NewValue:      value,
		Direction:     direction,
		Delta:         value - previous.Value,
		ObservedAt:    ts,
		Manual:        manual,
	}

	if err := t.store.AppendChange(ctx, event); err != nil {
		return nil, fmt.Errorf("appending line change for %s/%s: %w", playerID, statType, err)
	}
	if err := t.store.SaveCurrentLine(ctx, line); err != nil {
		return nil, fmt.Errorf("replacing current line for %s/%s: %w", playerID, statType, err)
	}

	t.logger.WithFields(logrus.Fields{
		"player_id": playerID,
		"stat_type": statType,
		"previous":  previous.Value,
		"new":       value,
		"direction": direction,
		"manual":    manual,
	}).Info("Line movement recorded")

	return &event, nil
}

// GetChanges returns all recorded change events observed at or after since,
// oldest first. Unknown pairs simply contribute nothing.
func (t *Tracker) GetChanges(ctx context.Context, since time.Time) ([]models.LineChangeEvent, error) {
	events, err := t.store.ChangesSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("loading line changes: %w", err)
	}
	return events, nil
}

// CurrentLines returns the latest recorded line for every tracked pair.
func (t *Tracker) CurrentLines(ctx context.Context) ([]models.Line, error) {
	lines, err := t.store.CurrentLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading current lines: %w", err)
	}
	return lines, nil
}

// AddToChaseList upserts a watch entry; adding an existing (player, stat)
// overwrites rather than duplicates.
func (t *Tracker) AddToChaseList(ctx context.Context, entry models.ChaseListEntry) error {
	now := time.Now()
	if entry.AddedAt.IsZero() {
		entry.AddedAt = now
	}
	entry.UpdatedAt = now
	if err := t.watchlist.UpsertChase(ctx, entry); err != nil {
		return fmt.Errorf("upserting chase entry for %s/%s: %w", entry.PlayerID, entry.StatType, err)
	}
	return nil
}

// RemoveFromChaseList deletes a watch entry; removing an absent entry is a
// no-op.
func (t *Tracker) RemoveFromChaseList(ctx context.Context, playerID, statType string) error {
	if err := t.watchlist.RemoveChase(ctx, playerID, statType); err != nil {
		return fmt.Errorf("removing chase entry for %s/%s: %w", playerID, statType, err)
	}
	return nil
}

// ListChase returns all chase-list entries.
func (t *Tracker) ListChase(ctx context.Context) ([]models.ChaseListEntry, error) {
	entries, err := t.watchlist.ListChase(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing chase entries: %w", err)
	}
	return entries, nil
}

// AddAltLine appends to the alt-line registry. Duplicates from different
// sources are retained.
func (t *Tracker) AddAltLine(ctx context.Context, entry models.AltLineEntry) error {
	entry.Delta = entry.AltLine - entry.MainLine
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now()
	}
	if err := t.watchlist.AppendAltLine(ctx, entry); err != nil {
		return fmt.Errorf("appending alt line for %s/%s: %w", entry.PlayerID, entry.StatType, err)
	}
	return nil
}

// ListAltLines returns every registered alt line for a pair, empty when
// none exist.
func (t *Tracker) ListAltLines(ctx context.Context, playerID, statType string) ([]models.AltLineEntry, error) {
	entries, err := t.watchlist.ListAltLines(ctx, playerID, statType)
	if err != nil {
		return nil, fmt.Errorf("listing alt lines for %s/%s: %w", playerID, statType, err)
	}
	return entries, nil
}
