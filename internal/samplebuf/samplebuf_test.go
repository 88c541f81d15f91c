package samplebuf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/head_tracker/internal/rotation"
)

func TestRotationBufferEviction(t *testing.T) {
	b := NewRotationBuffer(3)
	assert.False(t, b.IsValid())
	assert.Equal(t, int64(0), b.LatestTimestamp())

	for ts := int64(1); ts <= 5; ts++ {
		b.AddSample(rotation.FromAxisAngle(rotation.Vec3{Z: 1}, float64(ts)*0.1), ts)
	}
	assert.True(t, b.IsValid())
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, int64(5), b.LatestTimestamp())

	// Oldest surviving sample is ts=3: interpolation clamps below it.
	got := b.InterpolatedAt(1)
	_, angle := got.AxisAngle()
	assert.InDelta(t, 0.3, angle, 1e-9)
}

func TestRotationBufferInterpolation(t *testing.T) {
	b := NewRotationBuffer(10)
	b.AddSample(rotation.FromAxisAngle(rotation.Vec3{Z: 1}, 0), 1000)
	b.AddSample(rotation.FromAxisAngle(rotation.Vec3{Z: 1}, math.Pi/2), 3000)

	mid := b.InterpolatedAt(2000)
	_, angle := mid.AxisAngle()
	assert.InDelta(t, math.Pi/4, angle, 1e-9)

	// Exact sample timestamps return the stored rotations.
	_, angle = b.InterpolatedAt(1000).AxisAngle()
	assert.InDelta(t, 0, angle, 1e-9)
	_, angle = b.InterpolatedAt(3000).AxisAngle()
	assert.InDelta(t, math.Pi/2, angle, 1e-9)

	// Beyond the newest sample clamps instead of extrapolating.
	_, angle = b.InterpolatedAt(9000).AxisAngle()
	assert.InDelta(t, math.Pi/2, angle, 1e-9)
}

func TestRotationBufferLatest(t *testing.T) {
	b := NewRotationBuffer(2)
	_, _, _, w := b.Latest().Quaternion()
	assert.Equal(t, 1.0, w)

	want := rotation.FromAxisAngle(rotation.Vec3{X: 1}, 0.4)
	b.AddSample(rotation.Identity(), 1)
	b.AddSample(want, 2)
	assert.InDelta(t, 1.0, math.Abs(b.Latest().Dot(want)), 1e-12)
}

func TestPositionBufferEviction(t *testing.T) {
	b := NewPositionBuffer(2)
	b.AddSample(rotation.Vec3{X: 1}, 1)
	b.AddSample(rotation.Vec3{X: 2}, 2)
	b.AddSample(rotation.Vec3{X: 3}, 3)

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, rotation.Vec3{X: 3}, b.Latest())
	assert.Equal(t, int64(3), b.LatestTimestamp())
}

func TestPositionBufferExtrapolation(t *testing.T) {
	b := NewPositionBuffer(6)

	// One sample: no velocity estimate, returns the sample.
	b.AddSample(rotation.Vec3{X: 1, Y: 2, Z: 3}, 1_000_000)
	assert.Equal(t, rotation.Vec3{X: 1, Y: 2, Z: 3}, b.ExtrapolatedAt(5_000_000))

	// Two samples: linear projection of the latest velocity.
	b.AddSample(rotation.Vec3{X: 2, Y: 2, Z: 3}, 2_000_000)
	got := b.ExtrapolatedAt(3_000_000)
	assert.InDelta(t, 3.0, got.X, 1e-9)
	assert.InDelta(t, 2.0, got.Y, 1e-9)
	assert.InDelta(t, 3.0, got.Z, 1e-9)

	// Extrapolation at the latest timestamp is the latest sample.
	assert.Equal(t, b.Latest(), b.ExtrapolatedAt(2_000_000))
}

func TestPositionBufferEmpty(t *testing.T) {
	b := NewPositionBuffer(6)
	assert.False(t, b.IsValid())
	assert.Equal(t, rotation.Vec3{}, b.Latest())
	assert.Equal(t, rotation.Vec3{}, b.ExtrapolatedAt(123))
}
