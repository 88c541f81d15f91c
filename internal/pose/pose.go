// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package pose defines the JSON payloads exchanged over MQTT: the fused pose
// published by the tracker and the external 6-DoF samples it consumes.
package pose

import (
	"math"
)

// Pose is a fused 6-DoF pose suitable for JSON and MQTT. Orientation is a
// unit quaternion in (x, y, z, w) order; roll/pitch/yaw are derived degrees
// for consoles and displays.
type Pose struct {
	TimestampNanos int64 `json:"timestamp_ns"`

	PX float32 `json:"px"` // meters
	PY float32 `json:"py"`
	PZ float32 `json:"pz"`

	QX float32 `json:"qx"`
	QY float32 `json:"qy"`
	QZ float32 `json:"qz"`
	QW float32 `json:"qw"`

	Roll  float64 `json:"roll"`  // degrees
	Pitch float64 `json:"pitch"` // degrees
	Yaw   float64 `json:"yaw"`   // degrees
}

// SixDoF is one sample from the external 6-DoF tracker. Orientation is a
// unit quaternion in (x, y, z, w) order.
type SixDoF struct {
	TimestampNanos int64 `json:"timestamp_ns"`

	PX float32 `json:"px"` // meters
	PY float32 `json:"py"`
	PZ float32 `json:"pz"`

	QX float32 `json:"qx"`
	QY float32 `json:"qy"`
	QZ float32 `json:"qz"`
	QW float32 `json:"qw"`
}

// Position returns the position as a 3-array.
func (s SixDoF) Position() [3]float32 {
	return [3]float32{s.PX, s.PY, s.PZ}
}

// Orientation returns the quaternion as a 4-array in (x, y, z, w) order.
func (s SixDoF) Orientation() [4]float32 {
	return [4]float32{s.QX, s.QY, s.QZ, s.QW}
}

// FromParts assembles a Pose from tracker output, filling in the derived
// Euler angles.
func FromParts(timestampNanos int64, position [3]float32, orientation [4]float32) Pose {
	p := Pose{
		TimestampNanos: timestampNanos,
		PX:             position[0],
		PY:             position[1],
		PZ:             position[2],
		QX:             orientation[0],
		QY:             orientation[1],
		QZ:             orientation[2],
		QW:             orientation[3],
	}
	p.Roll, p.Pitch, p.Yaw = eulerDegrees(
		float64(orientation[0]), float64(orientation[1]),
		float64(orientation[2]), float64(orientation[3]))
	return p
}

// eulerDegrees converts a unit quaternion (x, y, z, w) to roll/pitch/yaw in
// degrees using the Z-Y-X convention.
func eulerDegrees(x, y, z, w float64) (roll, pitch, yaw float64) {
	sinr := 2 * (w*x + y*z)
	cosr := 1 - 2*(x*x+y*y)
	roll = math.Atan2(sinr, cosr) * 180 / math.Pi

	sinp := 2 * (w*y - z*x)
	if sinp > 1 {
		sinp = 1
	} else if sinp < -1 {
		sinp = -1
	}
	pitch = math.Asin(sinp) * 180 / math.Pi

	siny := 2 * (w*z + x*y)
	cosy := 1 - 2*(y*y+z*z)
	yaw = math.Atan2(siny, cosy) * 180 / math.Pi
	return roll, pitch, yaw
}
