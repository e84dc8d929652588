package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	applog "foodtracker/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"
)

// Middleware handles request tracing and logging
type Middleware struct {
	logger  *applog.Logger
	metrics *Metrics
}

// Metrics tracks request metrics
type Metrics struct {
	TotalRequests int64
	ServerErrors  int64
	// LastResponseTime is in microseconds
	LastResponseTime int64
}

func NewMiddleware(logger *applog.Logger) *Middleware {
	return &Middleware{
		logger:  logger.WithComponent(applog.ComponentTrace),
		metrics: &Metrics{},
	}
}

// Middleware returns HTTP middleware for request tracing. It puts a request
// ID and a request-scoped logger into the context.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := ClientIP(r)
		requestID := GenerateRequestID()
		w.Header().Set("X-Request-ID", requestID)

		logger := m.logger.With(applog.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = applog.NewContext(ctx, logger)
		r = r.WithContext(ctx)

		fields := applog.NewFields().WithRequest(r.Method, r.URL.Path, clientIP)
		logger.DebugContext(ctx, "HTTP request started",
			fields.With("htmx", r.Header.Get("HX-Request") == "true").ToSlice()...)

		atomic.AddInt64(&m.metrics.TotalRequests, 1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		atomic.StoreInt64(&m.metrics.LastResponseTime, duration.Microseconds())

		level := slog.LevelInfo
		if rw.statusCode >= 400 && rw.statusCode < 500 {
			level = slog.LevelWarn
		} else if rw.statusCode >= 500 {
			level = slog.LevelError
			atomic.AddInt64(&m.metrics.ServerErrors, 1)
		}

		logger.Logger.Log(ctx, level, "HTTP request completed",
			fields.WithComponent(applog.ComponentTrace).
				WithStatus(rw.statusCode, duration.Milliseconds()).
				ToSlice()...)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:    atomic.LoadInt64(&m.metrics.TotalRequests),
		ServerErrors:     atomic.LoadInt64(&m.metrics.ServerErrors),
		LastResponseTime: atomic.LoadInt64(&m.metrics.LastResponseTime),
	}
}
