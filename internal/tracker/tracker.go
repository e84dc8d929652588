// Package tracker turns the stores into the weekly view model and routes user
// interactions to store mutations.
//
// The view is stateless: the anchor date travels with every request, so
// navigating never touches stored data.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"foodtracker/internal/core"
)

type (
	Categories interface {
		List() []core.FoodCategory
		HasName(name string) bool
		Add(name string, group core.Group) (core.FoodCategory, bool)
		Edit(id, name string, group core.Group) bool
		Remove(id string) bool
	}

	Tracking interface {
		Toggle(key core.DateKey, category string) bool
		IsTracked(key core.DateKey, category string) bool
	}

	Meals interface {
		SetIdeas(key core.DateKey, ideas core.MealIdeas)
		GetIdeas(key core.DateKey) (core.MealIdeas, bool)
	}

	Option func(*View)
)

type (
	// FoodControl is one category's indicator on one day.
	FoodControl struct {
		Category core.FoodCategory
		Tracked  bool
	}

	// DayView is one cell of the week grid. Today is rendered expanded with one
	// button per category; other days are compact icon rows.
	DayView struct {
		Date     time.Time
		Key      core.DateKey
		Label    string
		IsToday  bool
		Foods    []FoodControl
		Ideas    core.MealIdeas
		HasIdeas bool
	}

	WeekView struct {
		Anchor core.DateKey
		Title  string
		Prev   core.DateKey
		Next   core.DateKey
		Today  core.DateKey
		// HasToday is false when the week shown is not the current one.
		HasToday   bool
		Days       [core.DaysInWeek]DayView
		Categories []core.FoodCategory
	}

	// MealEditor is the modal state for editing one day's meal ideas.
	MealEditor struct {
		Date     time.Time
		Key      core.DateKey
		Label    string
		Ideas    core.MealIdeas
		Existing bool
	}
)

var ErrUnknownCategory = errors.New("unknown category")

type View struct {
	categories Categories
	tracking   Tracking
	meals      Meals
	loc        *time.Location
	now        func() time.Time
}

// WithLocation sets the zone used for "today" and for parsing DateKeys.
func WithLocation(loc *time.Location) Option {
	return func(v *View) {
		if loc != nil {
			v.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(v *View) {
		if now != nil {
			v.now = now
		}
	}
}

func New(categories Categories, tracking Tracking, meals Meals, opts ...Option) *View {
	v := &View{
		categories: categories,
		tracking:   tracking,
		meals:      meals,
		loc:        time.Local,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *View) Location() *time.Location {
	return v.loc
}

// Today returns midnight of the current day in the view's location.
func (v *View) Today() time.Time {
	return core.StartOfDay(v.now().In(v.loc))
}

// IsToday reports whether key is the current real-world day.
func (v *View) IsToday(key core.DateKey) bool {
	return key == core.KeyOf(v.Today())
}

// ParseKey parses a request date in the view's location. A blank value means
// today.
func (v *View) ParseKey(s string) (time.Time, error) {
	if s == "" {
		return v.Today(), nil
	}
	return core.ParseDateKey(s, v.loc)
}

// Week derives the grid for the week containing anchor.
func (v *View) Week(anchor time.Time) WeekView {
	anchor = core.StartOfDay(anchor.In(v.loc))
	week := core.WeekOf(anchor)
	cats := v.categories.List()
	today := v.Today()

	wv := WeekView{
		Anchor:     core.KeyOf(anchor),
		Title:      week.Title(),
		Prev:       core.KeyOf(core.ShiftWeeks(anchor, -1)),
		Next:       core.KeyOf(core.ShiftWeeks(anchor, 1)),
		Today:      core.KeyOf(today),
		HasToday:   week.Contains(today),
		Categories: cats,
	}
	for i, d := range week {
		wv.Days[i] = v.dayView(d, cats)
	}
	return wv
}

// Navigate shifts the anchor by one week per step in the sign of dir and
// re-derives the grid.
func (v *View) Navigate(anchor time.Time, dir int) WeekView {
	switch {
	case dir > 0:
		anchor = core.ShiftWeeks(anchor, 1)
	case dir < 0:
		anchor = core.ShiftWeeks(anchor, -1)
	}
	return v.Week(anchor)
}

// Day builds a single cell, used to re-render after a toggle.
func (v *View) Day(date time.Time) DayView {
	return v.dayView(core.StartOfDay(date.In(v.loc)), v.categories.List())
}

// ToggleFood flips category on date. Categories that do not exist are
// rejected so no entries are created for them.
func (v *View) ToggleFood(date time.Time, category string) (DayView, error) {
	if !v.categories.HasName(category) {
		return DayView{}, fmt.Errorf("%w %q", ErrUnknownCategory, category)
	}
	v.tracking.Toggle(core.KeyOf(date.In(v.loc)), category)
	return v.Day(date), nil
}

// OpenMealEditor returns the editor for date, pre-filled from stored ideas.
// Today's cell is interactive and does not open the editor.
func (v *View) OpenMealEditor(date time.Time) (MealEditor, bool) {
	date = core.StartOfDay(date.In(v.loc))
	key := core.KeyOf(date)
	if v.IsToday(key) {
		return MealEditor{}, false
	}
	ideas, ok := v.meals.GetIdeas(key)
	return MealEditor{
		Date:     date,
		Key:      key,
		Label:    date.Format("Monday, Jan 2"),
		Ideas:    ideas,
		Existing: ok,
	}, true
}

// SaveMealIdeas stores ideas for date, replacing any previous value.
func (v *View) SaveMealIdeas(date time.Time, ideas core.MealIdeas) DayView {
	v.meals.SetIdeas(core.KeyOf(date.In(v.loc)), ideas)
	return v.Day(date)
}

func (v *View) Categories() []core.FoodCategory {
	return v.categories.List()
}

func (v *View) AddCategory(name string, group core.Group) bool {
	_, ok := v.categories.Add(name, group)
	return ok
}

func (v *View) EditCategory(id, name string, group core.Group) bool {
	return v.categories.Edit(id, name, group)
}

func (v *View) RemoveCategory(id string) bool {
	return v.categories.Remove(id)
}

func (v *View) dayView(d time.Time, cats []core.FoodCategory) DayView {
	key := core.KeyOf(d)
	ideas, has := v.meals.GetIdeas(key)
	dv := DayView{
		Date:     d,
		Key:      key,
		Label:    core.DayLabel(d),
		IsToday:  v.IsToday(key),
		Foods:    make([]FoodControl, len(cats)),
		Ideas:    ideas,
		HasIdeas: has,
	}
	for i, c := range cats {
		dv.Foods[i] = FoodControl{Category: c, Tracked: v.tracking.IsTracked(key, c.Name)}
	}
	return dv
}
