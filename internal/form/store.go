// Package form holds the answers collected so far and the current step.
package form

import (
	"sync"

	"github.com/alexanderramin/prescreen/internal/domain"
)

// Store is the single source of truth for the questionnaire answers.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	fields domain.FieldMap
	step   int
}

func NewStore() *Store {
	return &Store{fields: domain.FieldMap{}}
}

// Get returns a snapshot of the current answers.
func (s *Store) Get() domain.FieldMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields.Clone()
}

// Merge overwrites the keys in partial and keeps every other key.
// An unset value in partial removes that key.
func (s *Store) Merge(partial domain.FieldMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range partial.Clone() {
		if !v.IsSet() {
			delete(s.fields, k)
			continue
		}
		s.fields[k] = v
	}
}

// Reset clears all answers and rewinds to the first step.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = domain.FieldMap{}
	s.step = 0
}

func (s *Store) Step() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.step
}

func (s *Store) SetStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = step
}
