// Package sim implements the built-in truck simulator: a TCP server
// speaking the wire protocol, backing one independent truck per
// connection. It stands in for the external simulator binary the original
// exercise shipped, whose internals were never documented; the kinematics
// here are this project's own and are intentionally simple.
package sim

import (
	"math"
	"math/rand"

	"github.com/vk/fuzztruck/internal/wire"
)

// MaxTurnDegrees is the heading change produced by a full-deflection
// steering command. It matches the stock controller's movement universe.
const MaxTurnDegrees = 30.0

// Truck is one truck's pose. X and Y live in [0,1] with the dock line at
// y = 1, centered on x = 0.5. Angle is the heading in degrees: 90 points
// straight at the dock, values below 90 drift toward x = 0, above 90
// toward x = 1.
type Truck struct {
	X     float64
	Y     float64
	Angle float64
}

// DefaultPose is a reproducible starting position: left of center,
// side-on to the dock.
func DefaultPose() Truck {
	return Truck{X: 0.3, Y: 0.2, Angle: 0}
}

// RandomPose draws a starting position away from the walls so every
// session is winnable.
func RandomPose(rng *rand.Rand) Truck {
	return Truck{
		X:     0.1 + 0.8*rng.Float64(),
		Y:     0.1 + 0.2*rng.Float64(),
		Angle: 180 * rng.Float64(),
	}
}

// Pose reports the truck state in wire form.
func (t Truck) Pose() wire.State {
	return wire.State{X: t.X, Y: t.Y, Angle: t.Angle}
}

// Apply advances the truck one step: the steering command (in [-1,1])
// turns the heading by up to MaxTurnDegrees, then the truck moves tick
// along the new heading. Heading stays clamped to [0,180], so forward
// progress toward the dock line is monotonic.
func (t *Truck) Apply(steer, tick float64) {
	t.Angle += steer * MaxTurnDegrees
	if t.Angle < 0 {
		t.Angle = 0
	}
	if t.Angle > 180 {
		t.Angle = 180
	}

	rad := t.Angle * math.Pi / 180
	t.X -= tick * math.Cos(rad)
	t.Y += tick * math.Sin(rad)
}

// Done reports whether the session is over: the truck crossed the dock
// line or ran off the side of the lot.
func (t Truck) Done() bool {
	return t.Y >= 1 || t.X < 0 || t.X > 1
}

// Docked reports whether the truck finished within docking tolerances.
func (t Truck) Docked() bool {
	return t.Y >= 1 && t.Pose().Docked()
}
