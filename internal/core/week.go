package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateKeyLayout is the canonical, locale-independent form of a DateKey.
const DateKeyLayout = "2006-01-02"

// DaysInWeek is the length of every Week.
const DaysInWeek = 7

var ErrInvalidDateKey = errors.New("invalid date key")

type (
	// DateKey identifies a calendar day across all stores, e.g. "2024-06-12".
	DateKey string

	// Week holds the seven days Sunday through Saturday, ascending.
	Week [DaysInWeek]time.Time
)

var dayAbbrev = [DaysInWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// StartOfDay returns midnight of t's calendar day in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// KeyOf returns the DateKey of t's wall-clock date in t's location. The
// time-of-day is ignored and no UTC conversion happens, so 23:30 local
// stays on the local day.
func KeyOf(t time.Time) DateKey {
	return DateKey(t.Format(DateKeyLayout))
}

// ParseDateKey parses s as YYYY-MM-DD and returns midnight of that day in loc.
func ParseDateKey(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(DateKeyLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDateKey, s, err)
	}
	return t, nil
}

// Valid reports whether k is in canonical form.
func (k DateKey) Valid() bool {
	t, err := time.Parse(DateKeyLayout, string(k))
	return err == nil && t.Format(DateKeyLayout) == string(k)
}

func (k DateKey) String() string {
	return string(k)
}

// SameDay reports whether a and b fall on the same calendar day, each read in
// its own location.
func SameDay(a, b time.Time) bool {
	return KeyOf(a) == KeyOf(b)
}

// WeekOf returns the week containing t, starting on the Sunday on or before t.
// Days are midnights in t's location; AddDate keeps them on calendar
// boundaries across DST changes.
func WeekOf(t time.Time) Week {
	day := StartOfDay(t)
	sunday := day.AddDate(0, 0, -int(day.Weekday()))

	var w Week
	for i := range w {
		w[i] = sunday.AddDate(0, 0, i)
	}
	return w
}

// Keys returns the DateKey of every day in the week, in order.
func (w Week) Keys() [DaysInWeek]DateKey {
	var keys [DaysInWeek]DateKey
	for i, d := range w {
		keys[i] = KeyOf(d)
	}
	return keys
}

// Contains reports whether t falls on one of the week's days.
func (w Week) Contains(t time.Time) bool {
	key := KeyOf(t.In(w[0].Location()))
	for _, d := range w {
		if KeyOf(d) == key {
			return true
		}
	}
	return false
}

// Title renders the week range, e.g. "Jun 9 – Jun 15, 2024".
func (w Week) Title() string {
	first, last := w[0], w[DaysInWeek-1]
	if first.Year() != last.Year() {
		return first.Format("Jan 2, 2006") + " – " + last.Format("Jan 2, 2006")
	}
	return first.Format("Jan 2") + " – " + last.Format("Jan 2, 2006")
}

// ShiftWeeks moves t by n whole weeks.
func ShiftWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n*DaysInWeek)
}

// DayLabel renders the grid header for t, e.g. "Wed 12".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", dayAbbrev[t.Weekday()], t.Day())
}
