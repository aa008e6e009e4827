package app

import "fmt"

// Mode selects what the process does.
type Mode string

const (
	// ModeDrive connects to a simulator and steers the truck.
	ModeDrive Mode = "drive"
	// ModeSimulate runs the built-in simulator server.
	ModeSimulate Mode = "simulate"
)

// Defaults applied when neither flags nor a session block say otherwise.
const (
	DefaultHost      = "localhost"
	DefaultPort      = 4321
	DefaultMaxCycles = 500
)

// Config holds everything an App instance needs to run. Zero values for
// Host, Port, and MaxCycles mean "not set on the command line" and defer
// to the controller definition's session block, then to the defaults.
type Config struct {
	Mode       Mode
	ConfigPath string // empty = built-in truck profile

	Host      string
	Port      int
	MaxCycles int

	Tick float64 // simulate mode: distance per control step
	Seed int64   // simulate mode: 0 = deterministic start pose

	LogFormat  string
	LogLevel   string
	HealthPort int
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Mode {
	case ModeDrive, ModeSimulate:
	default:
		return nil, fmt.Errorf("mode must be %q or %q, got %q", ModeDrive, ModeSimulate, cfg.Mode)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d out of range", cfg.Port)
	}
	if cfg.Tick < 0 {
		return nil, fmt.Errorf("tick must be positive, got %v", cfg.Tick)
	}
	return &cfg, nil
}
