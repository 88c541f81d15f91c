// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tracker

import (
	"math"

	"github.com/relabs-tech/head_tracker/internal/rotation"
)

// ViewportOrientation is the physical rotation of the display relative to the
// device body.
type ViewportOrientation int

// Viewport orientations, in table-index order.
const (
	LandscapeLeft ViewportOrientation = iota
	LandscapeRight
	Portrait
	PortraitUpsideDown
)

func (v ViewportOrientation) String() string {
	switch v {
	case LandscapeLeft:
		return "landscape_left"
	case LandscapeRight:
		return "landscape_right"
	case Portrait:
		return "portrait"
	case PortraitUpsideDown:
		return "portrait_upside_down"
	}
	return "unknown"
}

const halfSqrt2 = 0.7071067811865476

// ekfToHeadTrackerRotations maps the filter's frame into the head tracker
// frame, indexed by viewport orientation.
var ekfToHeadTrackerRotations = [4]rotation.Rotation{
	// LandscapeLeft: equivalent to yaw -π/2, pitch 0, roll -π/2.
	rotation.FromQuaternion(0.5, -0.5, -0.5, 0.5),
	// LandscapeRight: equivalent to yaw π/2, pitch 0, roll π/2.
	rotation.FromQuaternion(0.5, 0.5, 0.5, 0.5),
	// Portrait: equivalent to yaw π/2, pitch π/2, roll π/2.
	rotation.FromQuaternion(halfSqrt2, 0, 0, halfSqrt2),
	// PortraitUpsideDown: equivalent to yaw -π/2, pitch -π/2, roll -π/2.
	rotation.FromQuaternion(0, -halfSqrt2, -halfSqrt2, 0),
}

// sensorToDisplayRotations maps sensor space into display space, indexed by
// viewport orientation. All entries rotate about the display normal.
var sensorToDisplayRotations = [4]rotation.Rotation{
	// LandscapeLeft: π/2 about z.
	rotation.FromQuaternion(0, 0, halfSqrt2, halfSqrt2),
	// LandscapeRight: -π/2 about z.
	rotation.FromQuaternion(0, 0, -halfSqrt2, halfSqrt2),
	// Portrait: identity.
	rotation.FromQuaternion(0, 0, 0, 1),
	// PortraitUpsideDown: π about z.
	rotation.FromQuaternion(0, 0, 1, 0),
}

// viewportCompensation holds the start-space corrections that keep the
// reported pose continuous when the viewport orientation changes while
// tracking. Indexed [current][new]; all corrections are roll-only:
//
//	| Current\New     | LL  | LR  |  P  | PUD |
//	|-----------------|-----|-----|-----|-----|
//	| Landscape Left  | 0   | π   |-π/2 | π/2 |
//	| Landscape Right | π   | 0   | π/2 |-π/2 |
//	| Portrait        | π/2 |-π/2 | 0   | π   |
//	| Portrait UD     |-π/2 | π/2 | π   | 0   |
var viewportCompensation = [4][4]rotation.Rotation{
	{rollRotation(0), rollRotation(math.Pi), rollRotation(-math.Pi / 2), rollRotation(math.Pi / 2)},
	{rollRotation(math.Pi), rollRotation(0), rollRotation(math.Pi / 2), rollRotation(-math.Pi / 2)},
	{rollRotation(math.Pi / 2), rollRotation(-math.Pi / 2), rollRotation(0), rollRotation(math.Pi)},
	{rollRotation(-math.Pi / 2), rollRotation(math.Pi / 2), rollRotation(math.Pi), rollRotation(0)},
}

func rollRotation(angle float64) rotation.Rotation {
	return rotation.FromAxisAngle(rotation.Vec3{Z: 1}, angle)
}
