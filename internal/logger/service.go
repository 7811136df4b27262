// Package logger configures the process-wide slog logger. Operator-facing
// output goes to stdout as JSON lines so scripted consumers can parse the
// tx hash, addresses and the final success/warning line.
package logger

import (
	"log/slog"
	"os"
)

func Initialize(level slog.Level) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(logger)
}

// Named returns the default logger tagged with a component name.
func Named(name string) *slog.Logger {
	return slog.Default().With("name", name)
}
