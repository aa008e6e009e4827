package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/fuzztruck/internal/cli"
	"github.com/vk/fuzztruck/internal/sim"
	"github.com/vk/fuzztruck/internal/testutil"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run(&out, []string{"-h"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "fuzztruck [options] [CONFIG_PATH]")
}

func TestRun_InvalidFlag(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run(&out, []string{"-mode", "teleport"})
	require.Error(t, err)

	exitErr, ok := err.(*cli.ExitError)
	require.True(t, ok, "expected an *cli.ExitError, got %T", err)
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_BrokenDefinitionIsReported(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`controller "x" {`), 0o644))

	var out bytes.Buffer
	err := run(&out, []string{"-config", path})
	require.Error(t, err)
	require.Contains(t, err.Error(), "application startup panicked")
}

func TestRun_DriveSessionEndToEnd(t *testing.T) {
	t.Parallel()

	// Serve a real simulator in-process, then drive against it with the
	// built-in controller.
	ctx, cancel := context.WithCancel(testutil.Context(t))
	srv := sim.NewServer(sim.Options{Host: "127.0.0.1", Port: 0, Tick: 0.02, MaxCycles: 500})
	require.NoError(t, srv.Listen(ctx))

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("simulator did not shut down")
		}
	})

	port := srv.Addr().(*net.TCPAddr).Port
	var out bytes.Buffer
	err := run(&out, []string{
		"-mode", "drive",
		"-host", "127.0.0.1",
		"-port", fmt.Sprint(port),
		"-max-cycles", "600",
		"-log-level", "error",
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "session complete")
}
