package http

import (
	"net/http"
	"sync/atomic"

	"foodtracker/internal/log"
)

// handleMealEditor opens the meal idea editor for a non-today date.
func (s *Server) handleMealEditor(w http.ResponseWriter, r *http.Request) {
	date, errResp := s.parseDay(r, "date")
	if errResp != nil {
		errResp.Write(w)
		return
	}
	editor, ok := s.view.OpenMealEditor(date)
	if !ok {
		NotFoundError("Today is tracked directly").Write(w)
		return
	}
	s.respond(w, r, NewHTMXResponse(), "meal_editor", editor)
}

// handleSaveMeals stores the three ideas and clears the modal. The week
// listens for meals:saved and refreshes itself.
func (s *Server) handleSaveMeals(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}
	date, errResp := s.parseDay(r, "date")
	if errResp != nil {
		errResp.Write(w)
		return
	}

	ideas := mealIdeasFromForm(r)
	day := s.view.SaveMealIdeas(date, ideas)
	atomic.AddInt64(&s.appMetrics.mealSaves, 1)

	ctx := r.Context()
	log.FromContext(ctx).InfoContext(ctx, "Meal ideas saved",
		log.NewFields().
			WithOperation(log.OpSaveMeals).
			WithDay(string(day.Key), "").
			With("cleared", ideas.IsEmpty()).
			ToSlice()...)

	NewHTMXResponse().
		TriggerMealsSaved(day.Key).
		BodyHTML(nil).
		Write(w)
}
