package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stitts-dev/prop-edge/internal/models"
)

// BetStore is the GORM-backed implementation of bets.Store.
type BetStore struct {
	db *DB
}

// NewBetStore creates a bet store over the database.
func NewBetStore(db *DB) *BetStore {
	return &BetStore{db: db}
}

func (s *BetStore) Insert(ctx context.Context, bet models.Bet) error {
	if err := s.db.WithContext(ctx).Create(&bet).Error; err != nil {
		return fmt.Errorf("inserting bet: %w", err)
	}
	return nil
}

func (s *BetStore) Update(ctx context.Context, bet models.Bet) error {
	if err := s.db.WithContext(ctx).Save(&bet).Error; err != nil {
		return fmt.Errorf("updating bet: %w", err)
	}
	return nil
}

func (s *BetStore) GetByID(ctx context.Context, id string) (*models.Bet, error) {
	var bet models.Bet
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&bet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying bet: %w", err)
	}
	return &bet, nil
}

func (s *BetStore) ListSince(ctx context.Context, since time.Time) ([]models.Bet, error) {
	var bets []models.Bet
	err := s.db.WithContext(ctx).
		Where("placed_at >= ?", since).
		Order("placed_at DESC").
		Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("listing bets: %w", err)
	}
	return bets, nil
}

func (s *BetStore) ListPending(ctx context.Context) ([]models.Bet, error) {
	var bets []models.Bet
	err := s.db.WithContext(ctx).
		Where("result = ?", models.BetPending).
		Order("placed_at DESC").
		Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("listing pending bets: %w", err)
	}
	return bets, nil
}

func (s *BetStore) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Bet{}).Error
	if err != nil {
		return fmt.Errorf("deleting bet: %w", err)
	}
	return nil
}
