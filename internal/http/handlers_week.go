package http

import (
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"foodtracker/internal/log"
	"foodtracker/internal/tracker"
)

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	anchor, errResp := s.parseDay(r, "date")
	if errResp != nil {
		errResp.Write(w)
		return
	}
	s.respond(w, r, NewHTMXResponse(), "week", s.view.Week(anchor))
}

// handleShiftWeek moves the anchor by one week. A missing or unknown dir
// re-renders the current week, which doubles as "jump to today" when date is
// empty too.
func (s *Server) handleShiftWeek(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}
	anchor, errResp := s.parseDay(r, "date")
	if errResp != nil {
		errResp.Write(w)
		return
	}

	dir := parseDirection(r.PostFormValue("dir"))
	week := s.view.Navigate(anchor, dir)

	log.FromContext(r.Context()).DebugContext(r.Context(), "Week navigated",
		log.NewFields().
			WithOperation(log.OpNavigate).
			WithDay(string(week.Anchor), "").
			With("dir", dir).
			ToSlice()...)

	b := NewHTMXResponse().Header("HX-Push-Url", "/?date="+string(week.Anchor))
	s.respond(w, r, b, "week", week)
}

// handleToggle flips one category on one day and returns the re-rendered day
// cell.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}
	date, errResp := s.parseDay(r, "date")
	if errResp != nil {
		errResp.Write(w)
		return
	}
	category := strings.TrimSpace(r.PostFormValue("category"))
	if category == "" {
		BadRequestError("Category is required").Write(w)
		return
	}

	ctx := r.Context()
	day, err := s.view.ToggleFood(date, category)
	if err != nil {
		s.countRejected()
		if errors.Is(err, tracker.ErrUnknownCategory) {
			log.FromContext(ctx).WarnContext(ctx, "Toggle for unknown category",
				log.NewFields().
					WithOperation(log.OpToggle).
					WithDay(r.PostFormValue("date"), category).
					WithError(err).
					With("error_type", log.ErrorTypeNotFound).
					ToSlice()...)
			NotFoundError("Unknown category").Write(w)
			return
		}
		InternalServerError("Toggle failed").Write(w)
		return
	}
	atomic.AddInt64(&s.appMetrics.toggles, 1)

	tracked := false
	for _, f := range day.Foods {
		if f.Category.Name == category {
			tracked = f.Tracked
			break
		}
	}
	log.FromContext(ctx).InfoContext(ctx, "Food toggled",
		log.NewFields().
			WithOperation(log.OpToggle).
			WithDay(string(day.Key), category).
			With(log.FieldTracked, tracked).
			ToSlice()...)

	b := NewHTMXResponse().TriggerFoodToggled(day.Key, category, tracked)
	s.respond(w, r, b, "day", day)
}
