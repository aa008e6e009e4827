package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/fuzztruck/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating the program should exit cleanly, or an
// ExitError for invalid input.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("fuzztruck", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
fuzztruck - a fuzzy-logic controller for the truck backer-upper.

Usage:
  fuzztruck [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to a controller definition (.hcl file or a directory of .hcl
    files). Omit it to use the built-in truck controller.

Options:
`)
		flagSet.PrintDefaults()
	}

	modeFlag := flagSet.String("mode", "drive", "What to run: 'drive' connects to a simulator, 'simulate' serves one.")
	configFlag := flagSet.String("config", "", "Path to the controller definition file or directory.")
	cFlag := flagSet.String("c", "", "Path to the controller definition file or directory (shorthand).")
	hostFlag := flagSet.String("host", "", "Simulator host. Defaults to the session block, then 'localhost'.")
	portFlag := flagSet.Int("port", 0, "Simulator port. Defaults to the session block, then 4321.")
	maxCyclesFlag := flagSet.Int("max-cycles", 0, "Cycle limit per session. Defaults to the session block, then 500.")
	tickFlag := flagSet.Float64("tick", 0.02, "Simulator step distance per control cycle.")
	seedFlag := flagSet.Int64("seed", 0, "Simulator start-pose seed. 0 uses a fixed pose.")
	healthPortFlag := flagSet.Int("health-port", 0, "Port for the health/metrics/telemetry HTTP server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	configPath := ""
	if *configFlag != "" {
		configPath = *configFlag
	} else if *cFlag != "" {
		configPath = *cFlag
	} else if flagSet.NArg() > 0 {
		configPath = flagSet.Arg(0)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		Mode:       app.Mode(strings.ToLower(*modeFlag)),
		ConfigPath: configPath,
		Host:       *hostFlag,
		Port:       *portFlag,
		MaxCycles:  *maxCyclesFlag,
		Tick:       *tickFlag,
		Seed:       *seedFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		HealthPort: *healthPortFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
