package http

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"foodtracker/internal/core"
	"foodtracker/internal/log"
	"foodtracker/internal/middleware/security"
	"foodtracker/internal/middleware/trace"
	"foodtracker/internal/tracker"
	appweb "foodtracker/web"
)

// NotificationStats reports delivered and failed change notifications.
type NotificationStats func() (delivered, failed int64)

type Server struct {
	http.Server
	templates *template.Template
	view      *tracker.View
	logger    *log.Logger
	tracer    *trace.Middleware
	notifyFn  NotificationStats

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	toggles          int64
	mealSaves        int64
	categoryAdds     int64
	categoryEdits    int64
	categoryRemovals int64
	rejected         int64
	started          time.Time
}

type Option func(*Server)

// WithNotificationStats exposes notifier counters on /metrics and /readyz.
func WithNotificationStats(fn NotificationStats) Option {
	return func(s *Server) { s.notifyFn = fn }
}

// WithTemplates replaces the embedded templates, mostly for tests.
func WithTemplates(t *template.Template) Option {
	return func(s *Server) { s.templates = t }
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, view *tracker.View, logger *log.Logger, opts ...Option) *Server {
	mux := http.NewServeMux()
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		view:       view,
		logger:     logger,
		tracer:     trace.NewMiddleware(logger),
		appMetrics: &appMetrics{started: time.Now()},
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err.Error(), "error_type", log.ErrorTypeConfiguration)
	}
	s.templates = t
	for _, opt := range opts {
		opt(s)
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err.Error())
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// UI partials
	mux.HandleFunc("GET /ui/week", s.handleWeek)
	mux.HandleFunc("POST /ui/week/shift", s.handleShiftWeek)
	mux.HandleFunc("POST /ui/toggle", s.handleToggle)
	mux.HandleFunc("GET /ui/meals", s.handleMealEditor)
	mux.HandleFunc("POST /ui/meals", s.handleSaveMeals)
	mux.HandleFunc("GET /ui/close", s.handleClose)
	mux.HandleFunc("GET /ui/categories", s.handleCategories)
	mux.HandleFunc("POST /ui/categories", s.handleAddCategory)
	mux.HandleFunc("POST /ui/categories/{id}", s.handleEditCategory)
	mux.HandleFunc("POST /ui/categories/{id}/delete", s.handleRemoveCategory)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Middleware(headers.Middleware(mux)),
	}
	return s
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// render executes a named template into a buffer first so a failure never
// leaves a half-written fragment.
func (s *Server) render(ctx context.Context, name string, data any) ([]byte, error) {
	if s.templates == nil {
		return nil, errTemplatesNotLoaded
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Template execution failed",
			log.NewFields().
				WithOperation(log.OpRender).
				WithError(err).
				With(log.FieldTemplate, name).
				ToSlice()...)
		return nil, err
	}
	return buf.Bytes(), nil
}

// respond renders name and writes it through b, or writes a 500 fragment.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	body, err := s.render(r.Context(), name, data)
	if err != nil {
		InternalServerError("Rendering failed").Write(w)
		return
	}
	b.BodyHTML(body).Write(w)
}

type pageData struct {
	Week   tracker.WeekView
	Groups []core.Group
}

type categoriesData struct {
	Categories []core.FoodCategory
	Groups     []core.Group
	Message    string
}

var allGroups = []core.Group{
	core.GroupVegetables,
	core.GroupFruits,
	core.GroupProtein,
	core.GroupGrains,
	core.GroupDairy,
	core.GroupOther,
}

func (s *Server) countRejected() {
	atomic.AddInt64(&s.appMetrics.rejected, 1)
}
