// Package wire implements the line protocol spoken between the driver and
// the truck simulator. The protocol is plain text over TCP: the driver
// sends a one-letter state request, the simulator answers with a
// tab-separated pose line, and the driver replies with a steering command.
// Every line is CRLF-terminated. The simulator signals end of session by
// closing the connection.
package wire

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LineEnding terminates every protocol line.
const LineEnding = "\r\n"

// StateRequest is the payload the driver sends to ask for the truck pose.
const StateRequest = "r"

// Steering commands must stay within these bounds. The value is the
// fraction of the maximum steering deflection, not an angle.
const (
	MinSteering = -1.0
	MaxSteering = 1.0
)

// Docking contract: a session counts as docked when the truck crossed the
// dock line this close to center and to perpendicular. Both the simulator's
// verdict and the driver's judgment of a finished session use these.
const (
	DockCenterX        = 0.5
	DockHeading        = 90.0
	DockXTolerance     = 0.05
	DockAngleTolerance = 5.0
)

// State is one truck pose as reported by the simulator. X and Y are
// normalized to [0,1]; Angle is the heading in degrees within [0,180],
// where 90 points straight at the dock.
type State struct {
	X     float64
	Y     float64
	Angle float64
}

// Encode renders the pose as a protocol line, including the terminator.
func (s State) Encode() string {
	return strings.Join([]string{
		strconv.FormatFloat(s.X, 'f', -1, 64),
		strconv.FormatFloat(s.Y, 'f', -1, 64),
		strconv.FormatFloat(s.Angle, 'f', -1, 64),
	}, "\t") + LineEnding
}

// ParseState decodes a pose line received from the simulator. The line may
// still carry its terminator; surrounding whitespace is ignored.
func ParseState(line string) (State, error) {
	fields := strings.Split(strings.TrimSpace(line), "\t")
	if len(fields) != 3 {
		return State{}, fmt.Errorf("malformed state line %q: want 3 tab-separated fields, got %d", strings.TrimSpace(line), len(fields))
	}
	var vals [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return State{}, fmt.Errorf("malformed state line %q: field %d: %w", strings.TrimSpace(line), i, err)
		}
		vals[i] = v
	}
	return State{X: vals[0], Y: vals[1], Angle: vals[2]}, nil
}

// Docked reports whether the pose is within docking tolerances. It does
// not look at y: the simulator checks the dock line separately, and the
// driver only ever sees the last pose before the line.
func (s State) Docked() bool {
	return math.Abs(s.X-DockCenterX) <= DockXTolerance &&
		math.Abs(s.Angle-DockHeading) <= DockAngleTolerance
}

// ValidateSteering reports whether v is a legal steering command.
func ValidateSteering(v float64) error {
	if v < MinSteering || v > MaxSteering {
		return fmt.Errorf("steering %v out of range [%v, %v]", v, MinSteering, MaxSteering)
	}
	return nil
}

// EncodeSteering renders a steering command line, including the terminator.
// The caller is expected to have validated the value.
func EncodeSteering(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + LineEnding
}

// ParseSteering decodes a steering command line received from the driver
// and enforces the protocol bounds.
func ParseSteering(line string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed steering line %q: %w", strings.TrimSpace(line), err)
	}
	if err := ValidateSteering(v); err != nil {
		return 0, err
	}
	return v, nil
}

// IsStateRequest reports whether a received line is a pose request.
func IsStateRequest(line string) bool {
	return strings.TrimSpace(line) == StateRequest
}
