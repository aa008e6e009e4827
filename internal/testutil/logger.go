// Package testutil provides shared helpers for tests.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/vk/fuzztruck/internal/ctxlog"
)

// Context returns a context carrying a debug-level logger that writes
// through tb.Log, so application logs end up attached to the right test.
func Context(tb testing.TB) context.Context {
	tb.Helper()
	logger := slog.New(slog.NewTextHandler(&testWriter{tb: tb}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return ctxlog.WithLogger(context.Background(), logger)
}

type testWriter struct {
	tb testing.TB
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
