package driver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/fuzztruck/internal/controller"
	"github.com/vk/fuzztruck/internal/metrics"
	"github.com/vk/fuzztruck/internal/profile"
	"github.com/vk/fuzztruck/internal/sim"
	"github.com/vk/fuzztruck/internal/testutil"
)

// startSim runs a real simulator server for session tests.
func startSim(t *testing.T, opts sim.Options) (host string, port int) {
	t.Helper()
	ctx, cancel := context.WithCancel(testutil.Context(t))

	opts.Host = "127.0.0.1"
	opts.Port = 0
	srv := sim.NewServer(opts)
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

	addr := srv.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func TestSessionRun_DrivesToCompletion(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)

	host, port := startSim(t, sim.Options{Tick: 0.02, MaxCycles: 500})

	ctrl, err := controller.New(profile.Truck())
	require.NoError(t, err)

	client, err := Dial(ctx, host, port)
	require.NoError(t, err)
	defer client.Close()

	m := metrics.New()
	summary, err := NewSession(client, ctrl, m, 600).Run(ctx)
	require.NoError(t, err)

	require.True(t, summary.Completed, "simulator should end the session")
	require.Greater(t, summary.Cycles, 10)
	require.Less(t, summary.Cycles, 500)
	require.Greater(t, summary.LastState.Y, 0.9, "the truck should have reached the dock line")
}

func TestSessionRun_CycleLimit(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)

	// A tiny tick means the truck cannot finish within the driver's limit.
	host, port := startSim(t, sim.Options{Tick: 0.0001, MaxCycles: 100000})

	ctrl, err := controller.New(profile.Truck())
	require.NoError(t, err)

	client, err := Dial(ctx, host, port)
	require.NoError(t, err)
	defer client.Close()

	summary, err := NewSession(client, ctrl, metrics.New(), 20).Run(ctx)
	require.NoError(t, err)
	require.False(t, summary.Completed)
	require.Equal(t, 20, summary.Cycles)
}

func TestSessionRun_Cancellation(t *testing.T) {
	t.Parallel()

	host, port := startSim(t, sim.Options{Tick: 0.0001, MaxCycles: 100000})

	ctrl, err := controller.New(profile.Truck())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(testutil.Context(t))
	client, err := Dial(ctx, host, port)
	require.NoError(t, err)
	defer client.Close()

	cancel()
	summary, err := NewSession(client, ctrl, metrics.New(), 100).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, summary.Cycles)
}
