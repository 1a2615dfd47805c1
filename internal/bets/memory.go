package bets

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stitts-dev/prop-edge/internal/models"
)

// MemoryStore is an in-process Store for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	bets map[string]models.Bet
}

// NewMemoryStore creates an empty in-memory bet store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bets: make(map[string]models.Bet)}
}

func (s *MemoryStore) Insert(_ context.Context, bet models.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bets[bet.ID] = bet
	return nil
}

func (s *MemoryStore) Update(_ context.Context, bet models.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bets[bet.ID] = bet
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*models.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bet, ok := s.bets[id]
	if !ok {
		return nil, nil
	}
	return &bet, nil
}

func (s *MemoryStore) ListSince(_ context.Context, since time.Time) ([]models.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Bet, 0)
	for _, bet := range s.bets {
		if !bet.PlacedAt.Before(since) {
			out = append(out, bet)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlacedAt.After(out[j].PlacedAt) })
	return out, nil
}

func (s *MemoryStore) ListPending(_ context.Context) ([]models.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Bet, 0)
	for _, bet := range s.bets {
		if bet.Result == models.BetPending {
			out = append(out, bet)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlacedAt.After(out[j].PlacedAt) })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bets, id)
	return nil
}
