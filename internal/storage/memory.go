package storage

import (
	"context"
	"sort"
	"sync"

	"queenside/internal/model"
)

type MemoryStore struct {
	mu    sync.RWMutex
	runs  map[string]model.RunRecord
	stats map[string][]model.GenerationStats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]model.RunRecord)
	s.stats = make(map[string][]model.GenerationStats)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	SortRuns(runs)
	return runs, nil
}

func (s *MemoryStore) SaveGenerationStats(_ context.Context, runID string, stats []model.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats[runID] = append([]model.GenerationStats(nil), stats...)
	return nil
}

func (s *MemoryStore) GetGenerationStats(_ context.Context, runID string) ([]model.GenerationStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, ok := s.stats[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.GenerationStats(nil), stats...), true, nil
}

// SortRuns orders newest first, falling back to ID for records that
// carry no start timestamp.
func SortRuns(runs []model.RunRecord) {
	sort.Slice(runs, func(i, j int) bool {
		switch {
		case runs[i].StartedAtUTC == runs[j].StartedAtUTC:
			return runs[i].ID < runs[j].ID
		case runs[i].StartedAtUTC == "":
			return false
		case runs[j].StartedAtUTC == "":
			return true
		default:
			return runs[i].StartedAtUTC > runs[j].StartedAtUTC
		}
	})
}
