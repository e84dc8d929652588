// Package events forwards category changes to collaborators that want to
// persist or mirror them. Failures are logged and never undo the in-memory
// change.
package events

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"foodtracker/internal/log"
	"foodtracker/internal/store"
)

// Notifier delivers a change message somewhere.
type Notifier interface {
	Notify(ctx context.Context, msg *CategoryChangedMessage) error
}

// LogNotifier records changes in the log only. It is the default when no
// broker is configured.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg *CategoryChangedMessage) error {
	n.logger.InfoContext(ctx, "Category changed",
		log.FieldOperation, msg.Op,
		log.FieldCategoryID, msg.ID,
		log.FieldCategory, msg.Name,
		"group", msg.Group,
		"previous_name", msg.PreviousName)
	return nil
}

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg *CategoryChangedMessage) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Hook adapts a Notifier into a store observer.
type Hook struct {
	notifier Notifier
	logger   *log.Logger
	timeout  time.Duration

	delivered int64
	failed    int64
}

func NewHook(n Notifier, logger *log.Logger, timeout time.Duration) *Hook {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Hook{notifier: n, logger: logger, timeout: timeout}
}

// Observe satisfies store.CategoryObserver.
func (h *Hook) Observe(change store.CategoryChange) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	msg := NewCategoryChangedMessage(change)
	if err := h.notifier.Notify(ctx, msg); err != nil {
		atomic.AddInt64(&h.failed, 1)
		h.logger.ErrorContext(ctx, "Category change notification failed",
			log.NewFields().
				WithOperation(msg.Op).
				WithError(err).
				With(log.FieldCategoryID, msg.ID).
				With("error_type", log.ErrorTypeNetwork).
				ToSlice()...)
		return
	}
	atomic.AddInt64(&h.delivered, 1)
}

// Stats reports delivered and failed notifications.
func (h *Hook) Stats() (delivered, failed int64) {
	return atomic.LoadInt64(&h.delivered), atomic.LoadInt64(&h.failed)
}
