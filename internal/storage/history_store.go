package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/prop-edge/internal/models"
)

// HistoryStore is the GORM-backed implementation of history.Store and
// history.WatchlistStore.
type HistoryStore struct {
	db *DB
}

// NewHistoryStore creates a history store over the database.
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) GetCurrentLine(ctx context.Context, playerID, statType string) (*models.Line, error) {
	var line models.Line
	err := s.db.WithContext(ctx).
		Where("player_id = ? AND stat_type = ?", playerID, statType).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying current line: %w", err)
	}
	return &line, nil
}

func (s *HistoryStore) SaveCurrentLine(ctx context.Context, line models.Line) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}, {Name: "stat_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "observed_at"}),
		}).
		Create(&line).Error
	if err != nil {
		return fmt.Errorf("saving current line: %w", err)
	}
	return nil
}

func (s *HistoryStore) CurrentLines(ctx context.Context) ([]models.Line, error) {
	var lines []models.Line
	err := s.db.WithContext(ctx).
		Order("player_id, stat_type").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("querying current lines: %w", err)
	}
	return lines, nil
}

func (s *HistoryStore) AppendChange(ctx context.Context, event models.LineChangeEvent) error {
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("appending line change event: %w", err)
	}
	return nil
}

func (s *HistoryStore) ChangesSince(ctx context.Context, since time.Time) ([]models.LineChangeEvent, error) {
	var events []models.LineChangeEvent
	err := s.db.WithContext(ctx).
		Where("observed_at >= ?", since).
		Order("observed_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("querying line changes: %w", err)
	}
	return events, nil
}

func (s *HistoryStore) UpsertChase(ctx context.Context, entry models.ChaseListEntry) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}, {Name: "stat_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"line_value", "reason", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upserting chase entry: %w", err)
	}
	return nil
}

func (s *HistoryStore) RemoveChase(ctx context.Context, playerID, statType string) error {
	err := s.db.WithContext(ctx).
		Where("player_id = ? AND stat_type = ?", playerID, statType).
		Delete(&models.ChaseListEntry{}).Error
	if err != nil {
		return fmt.Errorf("removing chase entry: %w", err)
	}
	return nil
}

func (s *HistoryStore) ListChase(ctx context.Context) ([]models.ChaseListEntry, error) {
	var entries []models.ChaseListEntry
	err := s.db.WithContext(ctx).
		Order("player_id, stat_type").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing chase entries: %w", err)
	}
	return entries, nil
}

func (s *HistoryStore) AppendAltLine(ctx context.Context, entry models.AltLineEntry) error {
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("appending alt line: %w", err)
	}
	return nil
}

func (s *HistoryStore) ListAltLines(ctx context.Context, playerID, statType string) ([]models.AltLineEntry, error) {
	var entries []models.AltLineEntry
	err := s.db.WithContext(ctx).
		Where("player_id = ? AND stat_type = ?", playerID, statType).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing alt lines: %w", err)
	}
	return entries, nil
}
