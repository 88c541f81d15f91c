package rotation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rotationsClose(t *testing.T, a, b Rotation, tol float64) {
	t.Helper()
	// q and -q are the same rotation.
	d := math.Abs(a.Dot(b))
	assert.InDelta(t, 1.0, d, tol, "rotations differ: dot=%v", d)
}

func TestIdentity(t *testing.T) {
	x, y, z, w := Identity().Quaternion()
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
	assert.Equal(t, 0.0, z)
	assert.Equal(t, 1.0, w)
}

func TestAxisAngleRoundTrip(t *testing.T) {
	in := FromAxisAngle(Vec3{X: 1, Y: 2, Z: -0.5}, 1.2)
	axis, angle := in.AxisAngle()
	out := FromAxisAngle(axis, angle)
	rotationsClose(t, in, out, 1e-12)
	assert.InDelta(t, 1.2, angle, 1e-12)
	assert.InDelta(t, 1.0, axis.Norm(), 1e-12)
}

func TestAxisAngleIdentity(t *testing.T) {
	_, angle := Identity().AxisAngle()
	assert.Equal(t, 0.0, angle)
}

func TestAxisAngleAlwaysShortArc(t *testing.T) {
	// A rotation of 350° about +z is 10° about -z.
	r := FromAxisAngle(Vec3{Z: 1}, 350*math.Pi/180)
	axis, angle := r.AxisAngle()
	assert.InDelta(t, 10*math.Pi/180, angle, 1e-9)
	assert.InDelta(t, -1.0, axis.Z, 1e-9)
}

func TestMulInverse(t *testing.T) {
	r := FromAxisAngle(Vec3{X: 0.3, Y: -1, Z: 0.2}, 0.7)
	rotationsClose(t, Identity(), r.Mul(r.Inverse()), 1e-12)
	rotationsClose(t, Identity(), r.Inverse().Mul(r), 1e-12)
}

func TestRotateVec(t *testing.T) {
	// 90° about z maps +x to +y.
	r := FromAxisAngle(Vec3{Z: 1}, math.Pi/2)
	v := r.RotateVec(Vec3{X: 1})
	assert.InDelta(t, 0.0, v.X, 1e-12)
	assert.InDelta(t, 1.0, v.Y, 1e-12)
	assert.InDelta(t, 0.0, v.Z, 1e-12)
}

func TestSlerpEndpointsAndMidpoint(t *testing.T) {
	a := FromAxisAngle(Vec3{Z: 1}, 0)
	b := FromAxisAngle(Vec3{Z: 1}, math.Pi/2)

	rotationsClose(t, a, Slerp(a, b, 0), 1e-12)
	rotationsClose(t, b, Slerp(a, b, 1), 1e-12)

	mid := Slerp(a, b, 0.5)
	_, angle := mid.AxisAngle()
	assert.InDelta(t, math.Pi/4, angle, 1e-9)
}

func TestShortestRotationPositiveDot(t *testing.T) {
	a := FromAxisAngle(Vec3{Z: 1}, 0.2)
	b := FromAxisAngle(Vec3{Z: 1}, 0.5)
	require.Positive(t, a.Dot(b))

	rel := ShortestRotation(a, b)
	_, angle := rel.AxisAngle()
	assert.InDelta(t, 0.3, angle, 1e-9)
	rotationsClose(t, b, a.Mul(rel), 1e-9)
}

func TestShortestRotationNegativeDot(t *testing.T) {
	a := FromAxisAngle(Vec3{Z: 1}, 0.1)
	// Same rotation as a small offset from a, but with flipped quaternion sign.
	bx, by, bz, bw := FromAxisAngle(Vec3{Z: 1}, 0.4).Quaternion()
	b := FromQuaternion(-bx, -by, -bz, -bw)
	require.Negative(t, a.Dot(b))

	got := ShortestRotation(a, b)
	want := ShortestRotation(a, FromQuaternion(bx, by, bz, bw))
	rotationsClose(t, want, got, 1e-12)

	// The sign-corrected path is never longer than the raw composition.
	_, gotAngle := got.AxisAngle()
	_, rawAngle := a.Inverse().Mul(b).AxisAngle()
	assert.LessOrEqual(t, gotAngle, rawAngle+1e-12)
}

func TestFromQuaternionNormalizes(t *testing.T) {
	r := FromQuaternion(0, 0, 0, 2)
	_, _, _, w := r.Quaternion()
	assert.InDelta(t, 1.0, w, 1e-12)
}
