package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"foodtracker/internal/log"
)

var errTemplatesNotLoaded = errors.New("templates not loaded")

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.started).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady reports not_ready when templates failed to parse.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	checks["categories"] = map[string]interface{}{
		"count":  len(s.view.Categories()),
		"status": "ok",
	}

	if s.notifyFn != nil {
		delivered, failed := s.notifyFn()
		checks["notifications"] = map[string]interface{}{
			"delivered": delivered,
			"failed":    failed,
			"status":    "ok",
		}
	} else {
		checks["notifications"] = "not_configured"
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"timezone":  s.view.Location().String(),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

// handleMetrics writes counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.tracer.GetMetrics()
	m := s.appMetrics

	w.WriteHeader(http.StatusOK)

	counter := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s counter\n", name)
		fmt.Fprintf(w, "%s %d\n\n", name, v)
	}

	counter("http_requests_total", "Total number of HTTP requests", traceMetrics.TotalRequests)
	counter("http_server_errors_total", "Responses with a 5xx status", traceMetrics.ServerErrors)
	counter("food_toggles_total", "Food category toggles", atomic.LoadInt64(&m.toggles))
	counter("meal_idea_saves_total", "Meal idea saves", atomic.LoadInt64(&m.mealSaves))
	counter("rejected_mutations_total", "Mutations ignored as no-ops", atomic.LoadInt64(&m.rejected))

	fmt.Fprintf(w, "# HELP category_mutations_total Category changes by operation\n")
	fmt.Fprintf(w, "# TYPE category_mutations_total counter\n")
	fmt.Fprintf(w, "category_mutations_total{op=\"added\"} %d\n", atomic.LoadInt64(&m.categoryAdds))
	fmt.Fprintf(w, "category_mutations_total{op=\"edited\"} %d\n", atomic.LoadInt64(&m.categoryEdits))
	fmt.Fprintf(w, "category_mutations_total{op=\"removed\"} %d\n\n", atomic.LoadInt64(&m.categoryRemovals))

	if s.notifyFn != nil {
		delivered, failed := s.notifyFn()
		counter("notifications_delivered_total", "Category change notifications delivered", delivered)
		counter("notifications_failed_total", "Category change notifications that failed", failed)
	}

	fmt.Fprintf(w, "# HELP categories Current number of categories\n")
	fmt.Fprintf(w, "# TYPE categories gauge\n")
	fmt.Fprintf(w, "categories %d\n\n", len(s.view.Categories()))

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", time.Since(m.started).Seconds())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate,
			"error_type", log.ErrorTypeConfiguration)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	anchor, errResp := s.parseDay(r, "date")
	if errResp != nil {
		errResp.Write(w)
		return
	}

	data := pageData{
		Week:   s.view.Week(anchor),
		Groups: allGroups,
	}
	s.respond(w, r, NewHTMXResponse(), "index.html", data)
}

// handleClose answers the cancel button with an empty fragment so the modal
// container is cleared without any mutation.
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().BodyHTML(nil).Write(w)
}
