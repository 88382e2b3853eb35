package logging

import (
	"log/slog"
	"os"
)

// Init installs the default slog logger. Output goes to stderr so command
// results on stdout stay machine-readable.
func Init(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
