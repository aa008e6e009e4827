package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/fuzztruck/internal/app"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, shouldExit, err := Parse(nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)

	require.Equal(t, app.ModeDrive, cfg.Mode)
	require.Empty(t, cfg.ConfigPath)
	require.Empty(t, cfg.Host)
	require.Zero(t, cfg.Port)
	require.Zero(t, cfg.MaxCycles)
	require.Equal(t, 0.02, cfg.Tick)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.Zero(t, cfg.HealthPort)
}

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()

	cfg, shouldExit, err := Parse([]string{
		"-mode", "simulate",
		"-host", "0.0.0.0",
		"-port", "5000",
		"-max-cycles", "250",
		"-tick", "0.05",
		"-seed", "7",
		"-health-port", "8080",
		"-log-format", "json",
		"-log-level", "debug",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)

	require.Equal(t, app.ModeSimulate, cfg.Mode)
	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, 5000, cfg.Port)
	require.Equal(t, 250, cfg.MaxCycles)
	require.Equal(t, 0.05, cfg.Tick)
	require.Equal(t, int64(7), cfg.Seed)
	require.Equal(t, 8080, cfg.HealthPort)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_ConfigPathSources(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "config flag", args: []string{"-config", "truck.hcl"}, want: "truck.hcl"},
		{name: "shorthand flag", args: []string{"-c", "other.hcl"}, want: "other.hcl"},
		{name: "positional argument", args: []string{"defs/"}, want: "defs/"},
		{name: "config flag wins over positional", args: []string{"-config", "a.hcl", "b.hcl"}, want: "a.hcl"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, _, err := Parse(tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			require.Equal(t, tc.want, cfg.ConfigPath)
		})
	}
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg, shouldExit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "fuzztruck [options] [CONFIG_PATH]")
}

func TestParse_InvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown mode", args: []string{"-mode", "teleport"}, wantMsg: "mode must be"},
		{name: "bad log format", args: []string{"-log-format", "xml"}, wantMsg: "invalid log-format"},
		{name: "bad log level", args: []string{"-log-level", "loud"}, wantMsg: "invalid log-level"},
		{name: "unknown flag", args: []string{"-frobnicate"}, wantMsg: "flag provided but not defined"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)

			exitErr, ok := err.(*ExitError)
			require.True(t, ok, "expected an *ExitError, got %T", err)
			require.Equal(t, 2, exitErr.Code)
			require.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

func TestParse_ModeIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{"-mode", "SIMULATE"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, app.ModeSimulate, cfg.Mode)
}
