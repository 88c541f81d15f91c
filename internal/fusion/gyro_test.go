package fusion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/head_tracker/internal/imu"
	"github.com/relabs-tech/head_tracker/internal/rotation"
)

func gyroSample(ts int64, x, y, z float64) imu.Sample {
	return imu.Sample{TimestampNanos: ts, SensorID: imu.SensorGyroscope, X: x, Y: y, Z: z}
}

func TestGyroIntegration(t *testing.T) {
	g := NewGyroIntegrator()

	// 100 samples at 10 ms, constant π/2 rad/s about z: a quarter turn.
	rate := math.Pi / 2
	for i := 0; i <= 100; i++ {
		g.ProcessGyroscopeSample(gyroSample(int64(i)*10_000_000, 0, 0, rate))
	}

	state := g.LatestRotationState()
	assert.Equal(t, int64(1_000_000_000), state.TimestampNanos)
	axis, angle := state.Rotation.AxisAngle()
	assert.InDelta(t, math.Pi/2, angle, 1e-6)
	assert.InDelta(t, 1.0, math.Abs(axis.Z), 1e-9)
}

func TestPredictRotationExtrapolates(t *testing.T) {
	g := NewGyroIntegrator()
	g.ProcessGyroscopeSample(gyroSample(0, 0, 0, 1.0))

	// Half a second ahead at 1 rad/s.
	predicted := g.PredictRotation(500_000_000)
	_, angle := predicted.AxisAngle()
	assert.InDelta(t, 0.5, angle, 1e-9)

	// At or before the latest sample there is nothing to predict.
	_, angle = g.PredictRotation(0).AxisAngle()
	assert.InDelta(t, 0.0, angle, 1e-12)
}

func TestPredictWithZeroVelocityHolds(t *testing.T) {
	g := NewGyroIntegrator()
	g.ProcessGyroscopeSample(gyroSample(0, 0, 0, 2.0))
	g.ProcessGyroscopeSample(gyroSample(100_000_000, 0, 0, 0))

	before := g.LatestRotationState().Rotation
	after := g.PredictRotation(10_000_000_000)
	assert.InDelta(t, 1.0, math.Abs(before.Dot(after)), 1e-12)
}

func TestReset(t *testing.T) {
	g := NewGyroIntegrator()
	g.ProcessGyroscopeSample(gyroSample(0, 0, 0, 1.0))
	g.ProcessGyroscopeSample(gyroSample(500_000_000, 0, 0, 1.0))

	g.Reset()
	state := g.LatestRotationState()
	_, _, _, w := state.Rotation.Quaternion()
	assert.Equal(t, 1.0, w)
	// Timestamps survive a reset; only the frame is redefined.
	assert.Equal(t, int64(500_000_000), state.TimestampNanos)
}

func TestAccelerometerLevelsOnce(t *testing.T) {
	g := NewGyroIntegrator()

	// Gravity along +z: device level, orientation stays identity.
	g.ProcessAccelerometerSample(imu.Sample{SensorID: imu.SensorAccelerometer, Z: 9.81})
	_, angle := g.LatestRotationState().Rotation.AxisAngle()
	assert.InDelta(t, 0.0, angle, 1e-9)

	// A later, different accel sample must not re-level.
	g.ProcessAccelerometerSample(imu.Sample{SensorID: imu.SensorAccelerometer, Y: 9.81})
	_, angle = g.LatestRotationState().Rotation.AxisAngle()
	assert.InDelta(t, 0.0, angle, 1e-9)
}

func TestRotateSensorSpaceToStartSpace(t *testing.T) {
	g := NewGyroIntegrator()
	g.ProcessGyroscopeSample(gyroSample(0, 0, 0, 0))

	comp := rotation.FromAxisAngle(rotation.Vec3{Z: 1}, math.Pi/2)
	g.RotateSensorSpaceToStartSpace(comp)

	got := g.LatestRotationState().Rotation
	assert.InDelta(t, 1.0, math.Abs(got.Dot(comp)), 1e-12)
}
