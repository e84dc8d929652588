package store

import (
	"log/slog"

	"foodtracker/internal/log"
)

// defaultLogger writes through whatever slog default is installed when the
// store is built.
func defaultLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.Default().Handler(), Component: log.ComponentStore})
}
