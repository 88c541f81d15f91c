// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package samplebuf

import (
	"github.com/relabs-tech/head_tracker/internal/rotation"
)

// PositionSample is one timestamped position.
type PositionSample struct {
	Position       rotation.Vec3
	TimestampNanos int64
}

// PositionBuffer keeps the most recent position samples in insertion order.
// When the buffer is full the oldest sample is evicted.
type PositionBuffer struct {
	samples  []PositionSample
	capacity int
}

// NewPositionBuffer creates a buffer holding at most capacity samples.
func NewPositionBuffer(capacity int) *PositionBuffer {
	return &PositionBuffer{
		samples:  make([]PositionSample, 0, capacity),
		capacity: capacity,
	}
}

// AddSample appends a position with its timestamp, evicting the oldest sample
// if the buffer is full.
func (b *PositionBuffer) AddSample(p rotation.Vec3, timestampNanos int64) {
	if len(b.samples) == b.capacity {
		copy(b.samples, b.samples[1:])
		b.samples = b.samples[:len(b.samples)-1]
	}
	b.samples = append(b.samples, PositionSample{Position: p, TimestampNanos: timestampNanos})
}

// IsValid reports whether at least one sample has been added.
func (b *PositionBuffer) IsValid() bool {
	return len(b.samples) > 0
}

// Len returns the number of stored samples.
func (b *PositionBuffer) Len() int {
	return len(b.samples)
}

// LatestTimestamp returns the timestamp of the newest sample, or 0 when the
// buffer is empty.
func (b *PositionBuffer) LatestTimestamp() int64 {
	if len(b.samples) == 0 {
		return 0
	}
	return b.samples[len(b.samples)-1].TimestampNanos
}

// Latest returns the newest position without extrapolation, or the zero
// vector when the buffer is empty.
func (b *PositionBuffer) Latest() rotation.Vec3 {
	if len(b.samples) == 0 {
		return rotation.Vec3{}
	}
	return b.samples[len(b.samples)-1].Position
}

// ExtrapolatedAt projects the newest position forward (or backward) to
// timestampNanos using the velocity between the two most recent samples. With
// fewer than two samples it returns the newest position unchanged.
func (b *PositionBuffer) ExtrapolatedAt(timestampNanos int64) rotation.Vec3 {
	if len(b.samples) == 0 {
		return rotation.Vec3{}
	}
	last := b.samples[len(b.samples)-1]
	if len(b.samples) < 2 {
		return last.Position
	}
	prev := b.samples[len(b.samples)-2]
	span := last.TimestampNanos - prev.TimestampNanos
	if span == 0 {
		return last.Position
	}
	velocity := last.Position.Sub(prev.Position).Scale(1 / float64(span))
	return last.Position.Add(velocity.Scale(float64(timestampNanos - last.TimestampNanos)))
}
