package handlers

import "sync"

// ResultStore keeps recent simulation responses in memory so clients
// can re-fetch and export a run during the session. The engine itself
// stays a pure function of its inputs; retention is a handler concern.
// Oldest runs are evicted once maxRuns is reached.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]*SimulationResponse
	order   []string
	maxRuns int
}

// NewResultStore creates a store retaining at most maxRuns results.
func NewResultStore(maxRuns int) *ResultStore {
	if maxRuns <= 0 {
		maxRuns = 100
	}
	return &ResultStore{
		results: make(map[string]*SimulationResponse),
		maxRuns: maxRuns,
	}
}

// Put stores a result, evicting the oldest entry when full.
func (s *ResultStore) Put(result *SimulationResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[result.RunID]; !exists {
		s.order = append(s.order, result.RunID)
	}
	s.results[result.RunID] = result

	for len(s.order) > s.maxRuns {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.results, oldest)
	}
}

// Get returns the stored result for a run ID.
func (s *ResultStore) Get(runID string) (*SimulationResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[runID]
	return result, ok
}

// Len returns the number of stored results.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
