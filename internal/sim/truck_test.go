package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/fuzztruck/internal/wire"
)

func TestTruckApply_StraightAtDock(t *testing.T) {
	t.Parallel()

	truck := Truck{X: 0.5, Y: 0.2, Angle: 90}
	truck.Apply(0, 0.1)

	require.InDelta(t, 0.5, truck.X, 1e-12, "heading 90 moves straight up")
	require.InDelta(t, 0.3, truck.Y, 1e-12)
	require.InDelta(t, 90, truck.Angle, 1e-12)
}

func TestTruckApply_TurnsAndClamps(t *testing.T) {
	t.Parallel()

	truck := Truck{X: 0.5, Y: 0.2, Angle: 90}
	truck.Apply(1, 0.01)
	require.InDelta(t, 120, truck.Angle, 1e-12, "full deflection turns 30 degrees")

	truck.Apply(1, 0.01)
	truck.Apply(1, 0.01)
	require.InDelta(t, 180, truck.Angle, 1e-12, "heading clamps at 180")

	truck = Truck{X: 0.5, Y: 0.2, Angle: 10}
	truck.Apply(-1, 0.01)
	require.InDelta(t, 0, truck.Angle, 1e-12, "heading clamps at 0")
}

func TestTruckApply_HeadingConvention(t *testing.T) {
	t.Parallel()

	// Below 90 drifts toward x=0, above 90 toward x=1. Forward progress
	// toward the dock line is monotonic in both cases.
	low := Truck{X: 0.5, Y: 0.2, Angle: 45}
	low.Apply(0, 0.1)
	require.Less(t, low.X, 0.5)
	require.Greater(t, low.Y, 0.2)

	high := Truck{X: 0.5, Y: 0.2, Angle: 135}
	high.Apply(0, 0.1)
	require.Greater(t, high.X, 0.5)
	require.Greater(t, high.Y, 0.2)
}

func TestTruckDoneAndDocked(t *testing.T) {
	t.Parallel()

	require.False(t, Truck{X: 0.5, Y: 0.5, Angle: 90}.Done())
	require.True(t, Truck{X: 0.5, Y: 1.0, Angle: 90}.Done())
	require.True(t, Truck{X: -0.01, Y: 0.5, Angle: 90}.Done())
	require.True(t, Truck{X: 1.01, Y: 0.5, Angle: 90}.Done())

	require.True(t, Truck{X: 0.5, Y: 1.0, Angle: 90}.Docked())
	require.True(t, Truck{X: 0.46, Y: 1.0, Angle: 93}.Docked())
	require.False(t, Truck{X: 0.3, Y: 1.0, Angle: 90}.Docked(), "off center")
	require.False(t, Truck{X: 0.5, Y: 1.0, Angle: 120}.Docked(), "not perpendicular")
	require.False(t, Truck{X: 0.5, Y: 0.5, Angle: 90}.Docked(), "not at the dock line")
}

func TestTruckPose_CallableOnValues(t *testing.T) {
	t.Parallel()

	// Pose must work on an unaddressable call result; the wire tests and
	// server depend on the chained form.
	require.Equal(t, wire.State{X: 0.3, Y: 0.2, Angle: 0}, DefaultPose().Pose())
}

func TestRandomPose_StaysOnLot(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		truck := RandomPose(rng)
		require.False(t, truck.Done(), "start pose must not already be terminal")
		require.GreaterOrEqual(t, truck.Angle, 0.0)
		require.LessOrEqual(t, truck.Angle, 180.0)
	}
}
