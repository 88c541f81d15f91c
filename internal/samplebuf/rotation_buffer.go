// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package samplebuf holds fixed-capacity buffers of timestamped samples with
// interpolation and extrapolation, used to align the fast inertial rotation
// stream with the slower external 6-DoF stream.
package samplebuf

import (
	"github.com/relabs-tech/head_tracker/internal/rotation"
)

// RotationSample is one timestamped rotation.
type RotationSample struct {
	Rotation       rotation.Rotation
	TimestampNanos int64
}

// RotationBuffer keeps the most recent rotation samples in insertion order.
// When the buffer is full the oldest sample is evicted.
type RotationBuffer struct {
	samples  []RotationSample
	capacity int
}

// NewRotationBuffer creates a buffer holding at most capacity samples.
func NewRotationBuffer(capacity int) *RotationBuffer {
	return &RotationBuffer{
		samples:  make([]RotationSample, 0, capacity),
		capacity: capacity,
	}
}

// AddSample appends a rotation with its timestamp, evicting the oldest sample
// if the buffer is full.
func (b *RotationBuffer) AddSample(r rotation.Rotation, timestampNanos int64) {
	if len(b.samples) == b.capacity {
		copy(b.samples, b.samples[1:])
		b.samples = b.samples[:len(b.samples)-1]
	}
	b.samples = append(b.samples, RotationSample{Rotation: r, TimestampNanos: timestampNanos})
}

// IsValid reports whether at least one sample has been added.
func (b *RotationBuffer) IsValid() bool {
	return len(b.samples) > 0
}

// Len returns the number of stored samples.
func (b *RotationBuffer) Len() int {
	return len(b.samples)
}

// LatestTimestamp returns the timestamp of the newest sample, or 0 when the
// buffer is empty.
func (b *RotationBuffer) LatestTimestamp() int64 {
	if len(b.samples) == 0 {
		return 0
	}
	return b.samples[len(b.samples)-1].TimestampNanos
}

// Latest returns the newest rotation, or the identity when the buffer is
// empty.
func (b *RotationBuffer) Latest() rotation.Rotation {
	if len(b.samples) == 0 {
		return rotation.Identity()
	}
	return b.samples[len(b.samples)-1].Rotation
}

// InterpolatedAt returns the rotation at timestampNanos, slerping between the
// two bracketing samples. Timestamps outside the buffered range clamp to the
// oldest or newest sample.
func (b *RotationBuffer) InterpolatedAt(timestampNanos int64) rotation.Rotation {
	if len(b.samples) == 0 {
		return rotation.Identity()
	}
	if timestampNanos <= b.samples[0].TimestampNanos {
		return b.samples[0].Rotation
	}
	last := b.samples[len(b.samples)-1]
	if timestampNanos >= last.TimestampNanos {
		return last.Rotation
	}
	for i := 1; i < len(b.samples); i++ {
		hi := b.samples[i]
		if timestampNanos > hi.TimestampNanos {
			continue
		}
		lo := b.samples[i-1]
		span := hi.TimestampNanos - lo.TimestampNanos
		if span == 0 {
			return hi.Rotation
		}
		t := float64(timestampNanos-lo.TimestampNanos) / float64(span)
		return rotation.Slerp(lo.Rotation, hi.Rotation, t)
	}
	return last.Rotation
}
