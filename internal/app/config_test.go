package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Mode:      ModeDrive,
		LogFormat: "text",
		LogLevel:  "info",
		Tick:      0.02,
	}
}

func TestNewConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(validConfig())
	require.NoError(t, err)
	require.Equal(t, ModeDrive, cfg.Mode)
}

func TestNewConfig_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Mode = "race" },
			wantErr: "mode must be",
		},
		{
			name:    "empty mode",
			mutate:  func(c *Config) { c.Mode = "" },
			wantErr: "mode must be",
		},
		{
			name:    "negative port",
			mutate:  func(c *Config) { c.Port = -1 },
			wantErr: "out of range",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: "out of range",
		},
		{
			name:    "negative tick",
			mutate:  func(c *Config) { c.Tick = -0.5 },
			wantErr: "tick must be positive",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(&cfg)
			_, err := NewConfig(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
