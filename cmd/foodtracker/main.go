package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"foodtracker/internal/config"
	"foodtracker/internal/events"
	apphttp "foodtracker/internal/http"
	"foodtracker/internal/log"
	"foodtracker/internal/store"
	"foodtracker/internal/tracker"
)

func main() {
	os.Exit(run())
}

// run wires and serves the tracker. It returns the process exit code so every
// deferred cleanup, the AMQP connection included, runs before exiting.
func run() int {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.New(log.DefaultConfig()).Error("Invalid configuration",
			log.FieldError, err.Error(),
			"error_type", log.ErrorTypeConfiguration)
		return 1
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp, Output: os.Stdout})
	log.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Failed to load timezone", log.FieldError, err.Error(), "timezone", cfg.Timezone)
		return 1
	}

	notifier, closeNotifier := buildNotifier(cfg, logger)
	defer closeNotifier()
	hook := events.NewHook(notifier, logger.WithComponent(log.ComponentEvents), 5*time.Second)

	categories := store.NewCategoryStore(store.WithLogger(logger), store.WithObserver(hook.Observe))
	categories.Seed(cfg.SeedCategories)
	tracking := store.NewTrackingStore(store.WithTrackingLogger(logger))
	meals := store.NewMealIdeaStore(store.WithMealLogger(logger))

	view := tracker.New(categories, tracking, meals, tracker.WithLocation(loc))

	srv := apphttp.NewServer(":"+cfg.Port, view, logger, apphttp.WithNotificationStats(hook.Stats))

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting foodtracker server",
			"port", cfg.Port,
			"timezone", loc.String(),
			"categories", categories.Len(),
			"notifications", cfg.NotificationsEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		return 1
	}
	logger.Info("Server stopped gracefully")
	return 0
}

// buildNotifier always logs changes and also publishes them when a broker is
// configured. A broker that cannot be reached at startup is logged and
// skipped.
func buildNotifier(cfg *config.Config, logger *log.Logger) (events.Notifier, func()) {
	eventsLogger := logger.WithComponent(log.ComponentEvents)
	notifiers := events.Multi{events.NewLogNotifier(eventsLogger)}
	closeFn := func() {}

	if !cfg.NotificationsEnabled() {
		return notifiers, closeFn
	}

	pub, err := events.NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	if err != nil {
		eventsLogger.Warn("AMQP unavailable, category changes are only logged",
			log.FieldError, err.Error(),
			"error_type", log.ErrorTypeNetwork)
		return notifiers, closeFn
	}
	eventsLogger.Info("Publishing category changes",
		"exchange", cfg.AMQPExchange,
		"routing_key", cfg.AMQPRoutingKey)

	return append(notifiers, pub), func() {
		if err := pub.Close(); err != nil {
			eventsLogger.Warn("Failed to close AMQP notifier", log.FieldError, err.Error())
		}
	}
}
