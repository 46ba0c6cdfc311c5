package store

import (
	"errors"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store for tests. Implements Store.
type MemStore struct {
	mu     sync.Mutex
	nextID int64
	runs   map[int64]*Run
}

// NewMemStore returns a new in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{runs: make(map[int64]*Run)}
}

// CreateRun implements Store.
func (s *MemStore) CreateRun(run *Run) (int64, error) {
	if run == nil {
		return 0, errors.New("run is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *run
	cp.ID = s.nextID
	cp.Status = StatusRunning
	if cp.StartedAt == "" {
		cp.StartedAt = nowUTC()
	}
	s.runs[cp.ID] = &cp
	return cp.ID, nil
}

// FinishRun implements Store.
func (s *MemStore) FinishRun(id int64, status, contact, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("finish run: no run with id %d", id)
	}
	r.Status = status
	r.FinishedAt = nowUTC()
	if contact != "" {
		r.Contact = contact
	}
	if errMsg != "" {
		r.Error = errMsg
	}
	return nil
}

// GetRun implements Store.
func (s *MemStore) GetRun(id int64) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

// ListRuns implements Store.
func (s *MemStore) ListRuns(limit int) ([]*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Run, 0, len(s.runs))
	for id := s.nextID; id >= 1; id-- {
		if r, ok := s.runs[id]; ok {
			cp := *r
			out = append(out, &cp)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// Close implements Store.
func (s *MemStore) Close() error { return nil }
