package store

import (
	"sync"

	"foodtracker/internal/core"
	"foodtracker/internal/log"
)

// MealIdeaStore keeps at most one MealIdeas per day.
type MealIdeaStore struct {
	mu     sync.RWMutex
	ideas  map[core.DateKey]core.MealIdeas
	logger *log.Logger
}

type MealOption func(*MealIdeaStore)

// WithMealLogger sets the logger used for save debug logs.
func WithMealLogger(l *log.Logger) MealOption {
	return func(s *MealIdeaStore) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentStore)
		}
	}
}

func NewMealIdeaStore(opts ...MealOption) *MealIdeaStore {
	s := &MealIdeaStore{
		ideas:  make(map[core.DateKey]core.MealIdeas),
		logger: defaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetIdeas replaces whatever was stored for key. Text is kept as given; an
// all-empty value clears the entry.
func (s *MealIdeaStore) SetIdeas(key core.DateKey, ideas core.MealIdeas) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ideas.IsEmpty() {
		delete(s.ideas, key)
		s.logger.Debug("Meal ideas cleared", log.FieldOperation, log.OpSaveMeals, log.FieldDateKey, string(key))
		return
	}
	s.ideas[key] = ideas
	s.logger.Debug("Meal ideas saved", log.FieldOperation, log.OpSaveMeals, log.FieldDateKey, string(key))
}

// GetIdeas returns the stored ideas for key and whether any were set.
func (s *MealIdeaStore) GetIdeas(key core.DateKey) (core.MealIdeas, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ideas, ok := s.ideas[key]
	return ideas, ok
}

func (s *MealIdeaStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ideas)
}
