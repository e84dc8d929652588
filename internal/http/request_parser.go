package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"foodtracker/internal/core"
)

// parseDay reads a YYYY-MM-DD date from query or form field name. A missing
// value means today.
func (s *Server) parseDay(r *http.Request, name string) (time.Time, *HTMXResponseBuilder) {
	raw := strings.TrimSpace(r.FormValue(name))
	d, err := s.view.ParseKey(raw)
	if err != nil {
		return time.Time{}, BadRequestError("Invalid date: use YYYY-MM-DD")
	}
	return d, nil
}

// parseDirection maps "-1"/"1" (or "prev"/"next") onto a step; anything else
// is 0, which leaves the anchor unchanged.
func parseDirection(v string) int {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "prev", "back":
		return -1
	case "next", "forward":
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// parseGroup accepts only known group tags; anything else means "derive".
func parseGroup(v string) core.Group {
	g := core.Group(strings.TrimSpace(v))
	if g.Known() || g == core.GroupOther {
		return g
	}
	return ""
}

// mealIdeasFromForm keeps the text exactly as typed.
func mealIdeasFromForm(r *http.Request) core.MealIdeas {
	return core.MealIdeas{
		Breakfast: r.PostFormValue("breakfast"),
		Lunch:     r.PostFormValue("lunch"),
		Dinner:    r.PostFormValue("dinner"),
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
