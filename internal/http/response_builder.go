// Package http serves the weekly tracker as server-rendered HTML driven by
// HTMX.
//
// This file implements a small builder for HTMX responses so handlers set
// HX-Trigger headers and error fragments the same way.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"

	"foodtracker/internal/core"
)

// HX-Trigger event names the page listens for.
const (
	EventCategoriesChanged = "categories:changed"
	EventMealsSaved        = "meals:saved"
	EventFoodToggled       = "food:toggled"
)

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
type HTMXResponseBuilder struct {
	triggers   map[string]interface{}
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]interface{}),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data interface{}) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerCategoriesChanged makes every day view re-render with the new list.
func (b *HTMXResponseBuilder) TriggerCategoriesChanged(count int) *HTMXResponseBuilder {
	return b.Trigger(EventCategoriesChanged, map[string]int{"count": count})
}

func (b *HTMXResponseBuilder) TriggerMealsSaved(key core.DateKey) *HTMXResponseBuilder {
	return b.Trigger(EventMealsSaved, map[string]string{"date": string(key)})
}

func (b *HTMXResponseBuilder) TriggerFoodToggled(key core.DateKey, category string, tracked bool) *HTMXResponseBuilder {
	return b.Trigger(EventFoodToggled, map[string]interface{}{
		"date":     string(key),
		"category": category,
		"tracked":  tracked,
	})
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *HTMXResponseBuilder) BodyHTML(html []byte) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = html
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML([]byte(`<div class="error">` + escapedMsg + `</div>`))
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}
