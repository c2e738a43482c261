// Package results holds the append-only collection a search publishes its
// matches into.
package results

import (
	"sync"

	"foldersearch/internal/domain"
)

// Sink receives matches from a running search and is read by the presentation
// layer. Implementations must tolerate writes and reads from different
// goroutines.
type Sink interface {
	Clear()
	Append(result domain.MatchResult)
	Remove(path string) bool
	All() []domain.MatchResult
	Len() int
}

// MemorySink is an in-memory Sink that keeps results in discovery order
type MemorySink struct {
	mu      sync.RWMutex
	results []domain.MatchResult
}

// NewMemorySink creates an empty sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
}

func (s *MemorySink) Append(result domain.MatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

// Remove drops the result with the given path. It reports whether one was found.
func (s *MemorySink) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.results {
		if r.Path == path {
			s.results = append(s.results[:i:i], s.results[i+1:]...)
			return true
		}
	}
	return false
}

// All returns a copy so callers can iterate while the search keeps appending
func (s *MemorySink) All() []domain.MatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MatchResult, len(s.results))
	copy(out, s.results)
	return out
}

func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
