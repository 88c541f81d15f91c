// Package neckmodel approximates head position from head orientation by
// modeling the head as pivoting around the base of the neck.
package neckmodel

import (
	"github.com/relabs-tech/head_tracker/internal/rotation"
)

// Offsets of the eyes from the neck pivot, in meters.
const (
	verticalOffset   = 0.075
	horizontalOffset = 0.080
)

// Apply returns the position offset implied by the head orientation. factor
// scales the effect and is clamped to [0, 1]; 1.0 is the full neck model.
// The vertical component is measured relative to the upright head position so
// that enabling the model does not elevate the camera.
func Apply(orientation rotation.Rotation, factor float64) rotation.Vec3 {
	if factor < 0 {
		factor = 0
	} else if factor > 1 {
		factor = 1
	}
	offset := rotation.Vec3{Y: verticalOffset, Z: -horizontalOffset}
	p := orientation.RotateVec(offset)
	p.Y -= verticalOffset
	return p.Scale(factor)
}
