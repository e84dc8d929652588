package store

import (
	"sync"

	"foodtracker/internal/core"
	"foodtracker/internal/log"
)

// TrackingStore records which categories were consumed on which day. Missing
// entries read as false. Entries reference categories by name only.
type TrackingStore struct {
	mu     sync.RWMutex
	days   map[core.DateKey]map[string]bool
	logger *log.Logger
}

type TrackingOption func(*TrackingStore)

// WithTrackingLogger sets the logger used for toggle debug logs.
func WithTrackingLogger(l *log.Logger) TrackingOption {
	return func(s *TrackingStore) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentStore)
		}
	}
}

func NewTrackingStore(opts ...TrackingOption) *TrackingStore {
	s := &TrackingStore{
		days:   make(map[core.DateKey]map[string]bool),
		logger: defaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle flips the flag for (key, category) and returns the new value. The
// first toggle of an absent entry sets it to true.
func (s *TrackingStore) Toggle(key core.DateKey, category string) bool {
	if key == "" || category == "" {
		s.logger.Debug("Toggle ignored", "reason", "empty key",
			log.FieldOperation, log.OpToggle, log.FieldDateKey, string(key), log.FieldCategory, category)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.days[key]
	if !ok {
		day = make(map[string]bool)
		s.days[key] = day
	}
	day[category] = !day[category]

	s.logger.Debug("Food toggled",
		log.FieldDateKey, string(key), log.FieldCategory, category, log.FieldTracked, day[category])
	return day[category]
}

func (s *TrackingStore) IsTracked(key core.DateKey, category string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.days[key][category]
}

// Day returns a copy of every entry recorded for key, including entries for
// categories that no longer exist.
func (s *TrackingStore) Day(key core.DateKey) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.days[key]))
	for name, v := range s.days[key] {
		out[name] = v
	}
	return out
}

// CountTracked returns how many of names are marked on key.
func (s *TrackingStore) CountTracked(key core.DateKey, names []string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, name := range names {
		if s.days[key][name] {
			n++
		}
	}
	return n
}
