package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestInit_Verbose(t *testing.T) {
	Init(true)
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug level when verbose")
	}
}

func TestInit_Quiet(t *testing.T) {
	Init(false)
	if slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info to be suppressed when not verbose")
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("expected warnings to be enabled")
	}
}
