// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package fusion defines the inertial orientation filter consumed by the head
// tracker, and a concrete gyroscope-integration implementation of it.
package fusion

import (
	"github.com/relabs-tech/head_tracker/internal/imu"
	"github.com/relabs-tech/head_tracker/internal/rotation"
)

// RotationState is the filter's latest estimate: the sensor-from-start
// rotation and the timestamp of the sample that produced it.
type RotationState struct {
	Rotation       rotation.Rotation
	TimestampNanos int64
}

// Filter is the inertial orientation filter the head tracker drives. The
// tracker serializes all calls, so implementations do not need their own
// locking.
type Filter interface {
	// ProcessAccelerometerSample feeds one accelerometer reading.
	ProcessAccelerometerSample(s imu.Sample)
	// ProcessGyroscopeSample feeds one gyroscope reading.
	ProcessGyroscopeSample(s imu.Sample)
	// PredictRotation estimates the rotation at timestampNanos, which may be
	// ahead of the latest processed sample.
	PredictRotation(timestampNanos int64) rotation.Rotation
	// LatestRotationState returns the unpredicted estimate at the latest
	// processed sample.
	LatestRotationState() RotationState
	// RotateSensorSpaceToStartSpace applies a correction to the start-space
	// reference frame. Used to keep the reported pose continuous across
	// viewport orientation changes.
	RotateSensorSpaceToStartSpace(r rotation.Rotation)
	// Reset redefines the start frame as the current orientation.
	Reset()
}
