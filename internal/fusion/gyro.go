// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package fusion

import (
	"math"

	"github.com/relabs-tech/head_tracker/internal/imu"
	"github.com/relabs-tech/head_tracker/internal/rotation"
)

// GyroIntegrator is a minimal Filter implementation: it integrates gyroscope
// angular velocity into a sensor-from-start rotation and predicts forward
// using the most recent angular velocity. The first accelerometer sample
// levels the initial estimate from gravity; later accelerometer samples are
// accepted but otherwise unused.
type GyroIntegrator struct {
	orientation rotation.Rotation
	latestNanos int64
	latestOmega rotation.Vec3
	hasGyro     bool
	leveled     bool
}

// NewGyroIntegrator returns a filter at the identity orientation.
func NewGyroIntegrator() *GyroIntegrator {
	return &GyroIntegrator{orientation: rotation.Identity()}
}

// ProcessAccelerometerSample levels the initial orientation from the gravity
// direction on the first sample.
func (g *GyroIntegrator) ProcessAccelerometerSample(s imu.Sample) {
	if g.leveled {
		return
	}
	norm := rotation.Vec3{X: s.X, Y: s.Y, Z: s.Z}.Norm()
	if norm == 0 {
		return
	}
	// Tilt from gravity: roll about x, pitch about y (yaw unobservable).
	roll := math.Atan2(s.Y, s.Z)
	pitch := math.Atan2(-s.X, math.Sqrt(s.Y*s.Y+s.Z*s.Z))
	g.orientation = rotation.FromAxisAngle(rotation.Vec3{Y: 1}, pitch).
		Mul(rotation.FromAxisAngle(rotation.Vec3{X: 1}, roll))
	g.leveled = true
}

// ProcessGyroscopeSample integrates one angular-velocity reading.
func (g *GyroIntegrator) ProcessGyroscopeSample(s imu.Sample) {
	omega := rotation.Vec3{X: s.X, Y: s.Y, Z: s.Z}
	if g.hasGyro && s.TimestampNanos > g.latestNanos {
		dt := float64(s.TimestampNanos-g.latestNanos) * 1e-9
		g.orientation = stepRotation(g.latestOmega, dt).Mul(g.orientation)
	}
	g.latestOmega = omega
	g.latestNanos = s.TimestampNanos
	g.hasGyro = true
}

// PredictRotation extrapolates the orientation to timestampNanos with the
// latest angular velocity. Timestamps at or before the latest sample return
// the unpredicted estimate.
func (g *GyroIntegrator) PredictRotation(timestampNanos int64) rotation.Rotation {
	if !g.hasGyro || timestampNanos <= g.latestNanos {
		return g.orientation
	}
	dt := float64(timestampNanos-g.latestNanos) * 1e-9
	return stepRotation(g.latestOmega, dt).Mul(g.orientation)
}

// LatestRotationState returns the estimate at the latest gyroscope sample.
func (g *GyroIntegrator) LatestRotationState() RotationState {
	return RotationState{Rotation: g.orientation, TimestampNanos: g.latestNanos}
}

// RotateSensorSpaceToStartSpace composes r onto the start-space side of the
// sensor-from-start rotation.
func (g *GyroIntegrator) RotateSensorSpaceToStartSpace(r rotation.Rotation) {
	g.orientation = g.orientation.Mul(r)
}

// Reset redefines "start" as "now": the orientation returns to identity while
// sample timestamps are kept.
func (g *GyroIntegrator) Reset() {
	g.orientation = rotation.Identity()
	g.leveled = false
}

func stepRotation(omega rotation.Vec3, dt float64) rotation.Rotation {
	speed := omega.Norm()
	if speed == 0 {
		return rotation.Identity()
	}
	return rotation.FromAxisAngle(omega, speed*dt)
}
