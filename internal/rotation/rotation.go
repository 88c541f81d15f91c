// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package rotation provides the unit-quaternion rotation arithmetic used by
// the head tracker: composition, inversion, axis-angle conversion and
// spherical interpolation, built on gonum's quaternion type.
package rotation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Vec3 is a 3-component vector (positions, axes, angular velocities).
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Rotation is a rotation in 3D space stored as a unit quaternion.
// The zero value is not valid; use Identity or one of the constructors.
type Rotation struct {
	q quat.Number
}

// Identity returns the no-op rotation.
func Identity() Rotation {
	return Rotation{quat.Number{Real: 1}}
}

// FromQuaternion builds a Rotation from quaternion components in (x, y, z, w)
// order. The result is normalized, so near-unit inputs are safe.
func FromQuaternion(x, y, z, w float64) Rotation {
	return Rotation{q: quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}}.normalized()
}

// FromAxisAngle builds the rotation of angle radians about axis. The axis does
// not need to be normalized. A zero axis or zero angle yields the identity.
func FromAxisAngle(axis Vec3, angle float64) Rotation {
	n := axis.Norm()
	if n == 0 || angle == 0 {
		return Identity()
	}
	s := math.Sin(angle/2) / n
	return Rotation{quat.Number{
		Real: math.Cos(angle / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	}}
}

// Quaternion returns the quaternion components in (x, y, z, w) order.
func (r Rotation) Quaternion() (x, y, z, w float64) {
	return r.q.Imag, r.q.Jmag, r.q.Kmag, r.q.Real
}

// Mul composes rotations: the result applies s first, then r.
func (r Rotation) Mul(s Rotation) Rotation {
	return Rotation{quat.Mul(r.q, s.q)}.normalized()
}

// Inverse returns the reverse rotation. For unit quaternions this is the
// conjugate.
func (r Rotation) Inverse() Rotation {
	return Rotation{quat.Conj(r.q)}
}

// Dot returns the 4-dimensional dot product of the two quaternions. A negative
// dot product means r and s sit on opposite hemispheres of the unit sphere and
// interpolate along the long path.
func (r Rotation) Dot(s Rotation) float64 {
	return r.q.Real*s.q.Real + r.q.Imag*s.q.Imag + r.q.Jmag*s.q.Jmag + r.q.Kmag*s.q.Kmag
}

// AxisAngle decomposes r into a unit axis and an angle in [0, π]. The identity
// rotation reports a zero angle about the x axis.
func (r Rotation) AxisAngle() (Vec3, float64) {
	w := r.q.Real
	if w > 1 {
		w = 1
	} else if w < -1 {
		w = -1
	}
	angle := 2 * math.Acos(w)
	s := math.Sqrt(1 - w*w)
	if s < 1e-9 {
		return Vec3{X: 1}, 0
	}
	axis := Vec3{r.q.Imag / s, r.q.Jmag / s, r.q.Kmag / s}
	if angle > math.Pi {
		// Same rotation, shorter arc.
		angle = 2*math.Pi - angle
		axis = axis.Scale(-1)
	}
	return axis, angle
}

// RotateVec applies the rotation to a vector (q v q⁻¹).
func (r Rotation) RotateVec(v Vec3) Vec3 {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	out := quat.Mul(quat.Mul(r.q, p), quat.Conj(r.q))
	return Vec3{out.Imag, out.Jmag, out.Kmag}
}

// Slerp spherically interpolates from a (t=0) to b (t=1) along the shorter
// arc.
func Slerp(a, b Rotation, t float64) Rotation {
	d := a.Dot(b)
	bq := b.q
	if d < 0 {
		d = -d
		bq = quat.Scale(-1, bq)
	}
	if d > 0.9995 {
		// Nearly parallel; fall back to nlerp to avoid division by a tiny sine.
		return Rotation{quat.Add(quat.Scale(1-t, a.q), quat.Scale(t, bq))}.normalized()
	}
	theta := math.Acos(d)
	sa := math.Sin((1 - t) * theta)
	sb := math.Sin(t * theta)
	return Rotation{quat.Scale(1/math.Sin(theta), quat.Add(quat.Scale(sa, a.q), quat.Scale(sb, bq)))}.normalized()
}

// ShortestRotation returns the relative rotation from a to b taking the
// shorter angular path. Unit quaternions q and -q describe the same rotation
// but interpolate along different arcs; when the quaternion dot product is
// negative the sign of b is flipped before composing, so the result is always
// inverse(a) * ±b with the smaller angle.
func ShortestRotation(a, b Rotation) Rotation {
	if a.Dot(b) < 0 {
		return a.Inverse().Mul(Rotation{quat.Scale(-1, b.q)})
	}
	return a.Inverse().Mul(b)
}

func (r Rotation) normalized() Rotation {
	n := math.Sqrt(r.q.Real*r.q.Real + r.q.Imag*r.q.Imag + r.q.Jmag*r.q.Jmag + r.q.Kmag*r.q.Kmag)
	if n == 0 {
		return Identity()
	}
	return Rotation{quat.Scale(1/n, r.q)}
}
