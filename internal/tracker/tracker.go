// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package tracker fuses a continuously-predicted inertial rotation with an
// intermittently-arriving external 6-DoF pose into a drift-corrected,
// low-latency pose at an arbitrary query timestamp.
package tracker

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/relabs-tech/head_tracker/internal/fusion"
	"github.com/relabs-tech/head_tracker/internal/imu"
	"github.com/relabs-tech/head_tracker/internal/neckmodel"
	"github.com/relabs-tech/head_tracker/internal/rotation"
	"github.com/relabs-tech/head_tracker/internal/samplebuf"
	"github.com/relabs-tech/head_tracker/internal/sensors"
)

const (
	rotationSamples = 10
	positionSamples = 6

	// maxSixDoFAgeNanos is the freshness window for the external signal. A
	// 6-DoF sample this much older than the filter's latest timestamp still
	// counts as fresh; beyond it the tracker falls back to the neck model
	// anchored at the last known external position.
	maxSixDoFAgeNanos = int64(200_000_000)

	// steadyFrameTarget is the number of consecutive steady external samples
	// required before the inertial-to-external bias is recalibrated.
	steadyFrameTarget = 30

	// steadyDotThreshold bounds how much the inertial orientation may move
	// during a steady window: the w component of the relative rotation must
	// stay above this (about 1.8 degrees total).
	steadyDotThreshold = 0.9995

	// biasSmoothingRate is the fraction of the remaining angular gap applied
	// to the smoothed bias per external sample. Deliberately per sample, not
	// per unit time: the external source runs at a fixed rate, so the
	// effective time constant is tied to that rate.
	biasSmoothingRate = 0.05
)

// HeadTracker combines the inertial filter's predicted rotation with external
// 6-DoF truth samples and answers pose queries in display space.
//
// Ingest callbacks arrive on the sensor producers' delivery goroutines while
// GetPose is called from the render loop; the tracking flag is atomic and all
// remaining state is guarded by one mutex, so every method stays cheap and
// non-blocking.
type HeadTracker struct {
	tracking atomic.Bool

	accelSource sensors.Producer
	gyroSource  sensors.Producer

	mu          sync.Mutex
	filter      fusion.Filter
	latestGyro  imu.Sample
	rotationBuf *samplebuf.RotationBuffer
	positionBuf *samplebuf.PositionBuffer

	// Bias between the inertial estimate and the external 6-DoF rotation.
	// ekfToSixDoF is the instantaneous offset captured while steady;
	// smoothedEkfToSixDoF follows it at biasSmoothingRate and is what GetPose
	// applies, so the correction never snaps.
	ekfToSixDoF         rotation.Rotation
	smoothedEkfToSixDoF rotation.Rotation
	steadyStart         rotation.Rotation
	steadyFrames        int

	viewport            ViewportOrientation
	viewportInitialized bool

	closeOnce sync.Once
}

// New creates a paused HeadTracker. The filter is owned by the tracker; the
// producers are shared and only subscribed to between Resume and Pause.
func New(filter fusion.Filter, accelSource, gyroSource sensors.Producer) *HeadTracker {
	return &HeadTracker{
		filter:              filter,
		accelSource:         accelSource,
		gyroSource:          gyroSource,
		rotationBuf:         samplebuf.NewRotationBuffer(rotationSamples),
		positionBuf:         samplebuf.NewPositionBuffer(positionSamples),
		ekfToSixDoF:         rotation.Identity(),
		smoothedEkfToSixDoF: rotation.Identity(),
		steadyStart:         rotation.Identity(),
		steadyFrames:        -1,
	}
}

// Resume starts tracking and subscribes to the sensor producers.
func (h *HeadTracker) Resume() {
	h.tracking.Store(true)
	if err := h.accelSource.Start(h.OnAccelerometerSample); err != nil {
		log.Printf("tracker: accelerometer subscribe error: %v", err)
	}
	if err := h.gyroSource.Start(h.OnGyroscopeSample); err != nil {
		log.Printf("tracker: gyroscope subscribe error: %v", err)
	}
}

// Pause stops tracking. A zero-angular-velocity gyroscope sample is injected
// first so the filter stops predicting motion while paused.
func (h *HeadTracker) Pause() {
	if !h.tracking.Load() {
		return
	}

	h.unsubscribe()

	h.mu.Lock()
	stopEvent := h.latestGyro
	h.mu.Unlock()
	stopEvent.X, stopEvent.Y, stopEvent.Z = 0, 0, 0
	h.OnGyroscopeSample(stopEvent)

	h.tracking.Store(false)
}

// Close unsubscribes from the sensor producers. Idempotent, and safe after
// Pause already unsubscribed.
func (h *HeadTracker) Close() {
	h.closeOnce.Do(h.unsubscribe)
}

func (h *HeadTracker) unsubscribe() {
	h.accelSource.Stop()
	h.gyroSource.Stop()
}

// Recenter redefines the filter's start frame as the current orientation.
// 6-DoF buffers, bias state and viewport tracking are left untouched.
func (h *HeadTracker) Recenter() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.filter.Reset()
}

// OnAccelerometerSample feeds one accelerometer reading. Discarded while
// paused.
func (h *HeadTracker) OnAccelerometerSample(s imu.Sample) {
	if !h.tracking.Load() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.filter.ProcessAccelerometerSample(s)
}

// OnGyroscopeSample feeds one gyroscope reading. Discarded while paused.
func (h *HeadTracker) OnGyroscopeSample(s imu.Sample) {
	if !h.tracking.Load() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latestGyro = s
	h.filter.ProcessGyroscopeSample(s)
}

// AddSixDoFData ingests one external 6-DoF sample: position and unit
// quaternion in (x, y, z, w) order, timestamped on the shared monotonic
// epoch. Discarded while paused; a position with the same timestamp as the
// latest stored one is not re-inserted.
//
// The external source is truth but slower and delayed, so its rotation is
// never applied directly. While the device is held steady the offset between
// the inertial estimate and the external rotation is captured, and the
// smoothed offset closes the gap a small fraction per sample.
func (h *HeadTracker) AddSixDoFData(timestampNanos int64, position [3]float32, orientation [4]float32) {
	if !h.tracking.Load() {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.positionBuf.LatestTimestamp() != timestampNanos {
		h.positionBuf.AddSample(rotation.Vec3{
			X: float64(position[0]),
			Y: float64(position[1]),
			Z: float64(position[2]),
		}, timestampNanos)
	}

	if !h.positionBuf.IsValid() || !h.rotationBuf.IsValid() {
		return
	}

	if (h.steadyFrames == steadyFrameTarget || h.steadyFrames < 0) &&
		h.rotationBuf.LatestTimestamp() > timestampNanos {
		// Recalibrate: align timestamps by interpolating the buffered inertial
		// rotations at the external sample time. The external timestamp must
		// fall inside the buffered range, otherwise extrapolation would be
		// needed and the captured offset would be less accurate.
		ekfAtSixDoFTime := h.rotationBuf.InterpolatedAt(timestampNanos)
		sixDoFRotation := rotation.FromQuaternion(
			float64(orientation[0]), float64(orientation[1]),
			float64(orientation[2]), float64(orientation[3]))
		h.ekfToSixDoF = rotation.ShortestRotation(ekfAtSixDoFTime, sixDoFRotation)
	} else if h.steadyFrames == 0 {
		h.steadyStart = h.rotationBuf.Latest()
	}

	steadyDifference := h.steadyStart.Mul(h.rotationBuf.Latest().Inverse())
	if _, _, _, w := steadyDifference.Quaternion(); w > steadyDotThreshold {
		h.steadyFrames++
	} else {
		h.steadyFrames = 0
	}

	biasToFill := rotation.ShortestRotation(h.smoothedEkfToSixDoF, h.ekfToSixDoF)
	axis, angle := biasToFill.AxisAngle()
	h.smoothedEkfToSixDoF = h.smoothedEkfToSixDoF.Mul(
		rotation.FromAxisAngle(axis, angle*biasSmoothingRate))
}

// GetPose returns the pose predicted for timestampNanos in display space:
// position in meters and orientation as a unit quaternion in (x, y, z, w)
// order. When the external 6-DoF signal is fresh the orientation carries the
// smoothed bias correction and the position is extrapolated from the external
// samples; otherwise the orientation is the uncorrected prediction and the
// position comes from the neck model, anchored at the last known external
// position if one was ever received.
func (h *HeadTracker) GetPose(timestampNanos int64, viewport ViewportOrientation) (position [3]float32, orientation [4]float32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.viewportInitialized && viewport != h.viewport {
		h.filter.RotateSensorSpaceToStartSpace(viewportCompensation[h.viewport][viewport])
	}
	h.viewport = viewport
	h.viewportInitialized = true

	state := h.filter.LatestRotationState()
	unpredicted := sensorToDisplayRotations[viewport].
		Mul(state.Rotation).
		Mul(ekfToHeadTrackerRotations[viewport])

	// Saved with the filter's own timestamp so AddSixDoFData can interpolate
	// the inertial rotation at an external sample time.
	h.rotationBuf.AddSample(unpredicted, state.TimestampNanos)

	predicted := sensorToDisplayRotations[viewport].
		Mul(h.filter.PredictRotation(timestampNanos)).
		Mul(ekfToHeadTrackerRotations[viewport])

	if h.positionBuf.IsValid() &&
		state.TimestampNanos-h.positionBuf.LatestTimestamp() <= maxSixDoFAgeNanos {
		// External signal is fresh.
		corrected := predicted.Mul(h.smoothedEkfToSixDoF)
		x, y, z, w := corrected.Quaternion()
		orientation = [4]float32{float32(x), float32(y), float32(z), float32(w)}

		p := h.positionBuf.ExtrapolatedAt(timestampNanos)
		position = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
		return position, orientation
	}

	// External signal is stale or was never received.
	x, y, z, w := predicted.Quaternion()
	orientation = [4]float32{float32(x), float32(y), float32(z), float32(w)}

	p := neckmodel.Apply(predicted, 1.0)
	if h.positionBuf.IsValid() {
		// Anchor the neck model at the last known external position instead
		// of snapping back to the origin.
		p = p.Add(h.positionBuf.Latest())
	}
	position = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	return position, orientation
}
