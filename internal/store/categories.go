package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"foodtracker/internal/core"
	"foodtracker/internal/log"
)

const (
	OpAdded   ChangeOp = "added"
	OpEdited  ChangeOp = "edited"
	OpRemoved ChangeOp = "removed"
)

type (
	ChangeOp string

	// CategoryChange describes one applied mutation. Previous is set for edits
	// and removals.
	CategoryChange struct {
		Op       ChangeOp
		Category core.FoodCategory
		Previous core.FoodCategory
		Position int
		At       time.Time
	}

	// CategoryObserver is called after every applied mutation, in mutation
	// order, with the data lock released. It may read the store but must not
	// mutate it.
	CategoryObserver func(CategoryChange)

	CategoryOption func(*CategoryStore)
)

// CategoryStore owns the ordered list of food categories. Names are unique
// (exact, case-sensitive). Invalid operations are silent no-ops; mutators
// report whether anything changed.
type CategoryStore struct {
	mu        sync.RWMutex
	items     []core.FoodCategory
	newID     func() string
	now       func() time.Time
	logger    *log.Logger
	observers []CategoryObserver

	// notifyMu serializes mutators and their observer calls. It is always
	// taken before mu, and mu is released before observers run.
	notifyMu sync.Mutex
}

// WithIDGenerator replaces the uuid generator, mostly for tests.
func WithIDGenerator(gen func() string) CategoryOption {
	return func(s *CategoryStore) { s.newID = gen }
}

// WithLogger sets the logger used for mutation debug logs.
func WithLogger(l *log.Logger) CategoryOption {
	return func(s *CategoryStore) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentStore)
		}
	}
}

// WithObserver attaches a change hook, e.g. a persistence collaborator.
func WithObserver(o CategoryObserver) CategoryOption {
	return func(s *CategoryStore) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithClock sets the clock used to stamp changes.
func WithClock(now func() time.Time) CategoryOption {
	return func(s *CategoryStore) { s.now = now }
}

func NewCategoryStore(opts ...CategoryOption) *CategoryStore {
	s := &CategoryStore{
		newID:  uuid.NewString,
		now:    time.Now,
		logger: defaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Observe attaches o after construction.
func (s *CategoryStore) Observe(o CategoryObserver) {
	if o == nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.observers = append(s.observers, o)
}

// Seed adds each name with its derived group, skipping blanks and duplicates.
// Seeding does not notify observers.
func (s *CategoryStore) Seed(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || s.indexByName(n) >= 0 {
			continue
		}
		s.items = append(s.items, core.FoodCategory{ID: s.newID(), Name: n, Group: core.GroupFor(n)})
	}
}

// Add appends a new category. It is a no-op if name is blank or already used.
// An empty group is derived from the name.
func (s *CategoryStore) Add(name string, group core.Group) (core.FoodCategory, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.logger.Debug("Category add ignored", "reason", "empty name", log.FieldOperation, log.OpAdd)
		return core.FoodCategory{}, false
	}
	if group == "" {
		group = core.GroupFor(name)
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.indexByName(name) >= 0 {
		s.mu.Unlock()
		s.logger.Debug("Category add ignored", "reason", "duplicate name",
			log.FieldOperation, log.OpAdd, log.FieldCategory, name)
		return core.FoodCategory{}, false
	}
	c := core.FoodCategory{ID: s.newID(), Name: name, Group: group}
	s.items = append(s.items, c)
	change := CategoryChange{Op: OpAdded, Category: c, Position: len(s.items) - 1, At: s.now()}
	s.mu.Unlock()

	s.logger.Debug("Category added", log.FieldCategoryID, c.ID, log.FieldCategory, c.Name, "group", c.Group)
	s.notify(change)
	return c, true
}

// Edit replaces name and group of the category with the given id, keeping its
// id and position. It is a no-op if id is unknown, the name is blank, or the
// name belongs to a different category. An empty group keeps the current one.
func (s *CategoryStore) Edit(id, name string, group core.Group) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		s.logger.Debug("Category edit ignored", "reason", "empty name",
			log.FieldOperation, log.OpEdit, log.FieldCategoryID, id)
		return false
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	i := s.indexByID(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("Category edit ignored", "reason", "not found",
			log.FieldOperation, log.OpEdit, log.FieldCategoryID, id)
		return false
	}
	if j := s.indexByName(name); j >= 0 && j != i {
		s.mu.Unlock()
		s.logger.Debug("Category edit ignored", "reason", "duplicate name",
			log.FieldOperation, log.OpEdit, log.FieldCategoryID, id, log.FieldCategory, name)
		return false
	}
	prev := s.items[i]
	if group == "" {
		group = prev.Group
	}
	s.items[i].Name = name
	s.items[i].Group = group
	change := CategoryChange{Op: OpEdited, Category: s.items[i], Previous: prev, Position: i, At: s.now()}
	s.mu.Unlock()

	s.logger.Debug("Category edited", log.FieldCategoryID, id, log.FieldCategory, name, "previous", prev.Name)
	s.notify(change)
	return true
}

// Remove deletes the category with the given id, preserving the order of the
// rest. Tracking entries recorded under its name are left untouched.
func (s *CategoryStore) Remove(id string) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	i := s.indexByID(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("Category remove ignored", "reason", "not found",
			log.FieldOperation, log.OpRemove, log.FieldCategoryID, id)
		return false
	}
	prev := s.items[i]
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	change := CategoryChange{Op: OpRemoved, Category: prev, Previous: prev, Position: i, At: s.now()}
	s.mu.Unlock()

	s.logger.Debug("Category removed", log.FieldCategoryID, id, log.FieldCategory, prev.Name)
	s.notify(change)
	return true
}

// AddCategory is the action-style entry point: the group is derived from
// the name.
func (s *CategoryStore) AddCategory(name string) {
	s.Add(name, "")
}

// EditCategory renames a category. A name matching a known group switches
// to that group; otherwise the current group is kept.
func (s *CategoryStore) EditCategory(id, name string) {
	var group core.Group
	if g := core.GroupFor(name); g.Known() {
		group = g
	}
	s.Edit(id, name, group)
}

func (s *CategoryStore) DeleteCategory(id string) {
	s.Remove(id)
}

// List returns a copy of the categories in insertion order.
func (s *CategoryStore) List() []core.FoodCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.FoodCategory(nil), s.items...)
}

func (s *CategoryStore) Get(id string) (core.FoodCategory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByID(id); i >= 0 {
		return s.items[i], true
	}
	return core.FoodCategory{}, false
}

// HasName reports whether a category with exactly this name exists.
func (s *CategoryStore) HasName(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexByName(name) >= 0
}

func (s *CategoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// notify runs observers. Callers hold notifyMu but not mu, so observers can
// read the store and a waiting mutator never blocks readers.
func (s *CategoryStore) notify(change CategoryChange) {
	for _, o := range s.observers {
		o(change)
	}
}

func (s *CategoryStore) indexByID(id string) int {
	for i, c := range s.items {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *CategoryStore) indexByName(name string) int {
	for i, c := range s.items {
		if c.Name == name {
			return i
		}
	}
	return -1
}
