package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stitts-dev/prop-edge/internal/models"
)

// MemoryStore implements Store and WatchlistStore in process, for tests and
// local development.
type MemoryStore struct {
	mu       sync.RWMutex
	current  map[string]models.Line
	changes  []models.LineChangeEvent
	chase    map[string]models.ChaseListEntry
	altLines []models.AltLineEntry
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		current: make(map[string]models.Line),
		chase:   make(map[string]models.ChaseListEntry),
	}
}

func pairKey(playerID, statType string) string {
	return playerID + ":" + statType
}

func (s *MemoryStore) GetCurrentLine(_ context.Context, playerID, statType string) (*models.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.current[pairKey(playerID, statType)]
	if !ok {
		return nil, nil
	}
	return &line, nil
}

func (s *MemoryStore) SaveCurrentLine(_ context.Context, line models.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current[pairKey(line.PlayerID, line.StatType)] = line
	return nil
}

func (s *MemoryStore) CurrentLines(_ context.Context) ([]models.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]models.Line, 0, len(s.current))
	for _, line := range s.current {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].PlayerID != lines[j].PlayerID {
			return lines[i].PlayerID < lines[j].PlayerID
		}
		return lines[i].StatType < lines[j].StatType
	})
	return lines, nil
}

func (s *MemoryStore) AppendChange(_ context.Context, event models.LineChangeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = uint(len(s.changes) + 1)
	s.changes = append(s.changes, event)
	return nil
}

func (s *MemoryStore) ChangesSince(_ context.Context, since time.Time) ([]models.LineChangeEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LineChangeEvent, 0)
	for _, e := range s.changes {
		if !e.ObservedAt.Before(since) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ObservedAt.Before(out[j].ObservedAt) })
	return out, nil
}

func (s *MemoryStore) UpsertChase(_ context.Context, entry models.ChaseListEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(entry.PlayerID, entry.StatType)
	if existing, ok := s.chase[key]; ok {
		entry.AddedAt = existing.AddedAt
	}
	s.chase[key] = entry
	return nil
}

func (s *MemoryStore) RemoveChase(_ context.Context, playerID, statType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.chase, pairKey(playerID, statType))
	return nil
}

func (s *MemoryStore) ListChase(_ context.Context) ([]models.ChaseListEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.ChaseListEntry, 0, len(s.chase))
	for _, entry := range s.chase {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PlayerID != entries[j].PlayerID {
			return entries[i].PlayerID < entries[j].PlayerID
		}
		return entries[i].StatType < entries[j].StatType
	})
	return entries, nil
}

func (s *MemoryStore) AppendAltLine(_ context.Context, entry models.AltLineEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = uint(len(s.altLines) + 1)
	s.altLines = append(s.altLines, entry)
	return nil
}

func (s *MemoryStore) ListAltLines(_ context.Context, playerID, statType string) ([]models.AltLineEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AltLineEntry, 0)
	for _, entry := range s.altLines {
		if entry.PlayerID == playerID && entry.StatType == statType {
			out = append(out, entry)
		}
	}
	return out, nil
}
