package neckmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/head_tracker/internal/rotation"
)

func TestIdentityOrientation(t *testing.T) {
	p := Apply(rotation.Identity(), 1.0)
	assert.InDelta(t, 0.0, p.X, 1e-12)
	assert.InDelta(t, 0.0, p.Y, 1e-12)
	assert.InDelta(t, -horizontalOffset, p.Z, 1e-12)
}

func TestFactorClamped(t *testing.T) {
	r := rotation.FromAxisAngle(rotation.Vec3{X: 1}, 0.5)
	assert.Equal(t, rotation.Vec3{}, Apply(r, -1))
	assert.Equal(t, Apply(r, 1), Apply(r, 5))
}

func TestFactorScalesLinearly(t *testing.T) {
	r := rotation.FromAxisAngle(rotation.Vec3{X: 1}, 0.5)
	full := Apply(r, 1.0)
	half := Apply(r, 0.5)
	assert.InDelta(t, full.X/2, half.X, 1e-12)
	assert.InDelta(t, full.Y/2, half.Y, 1e-12)
	assert.InDelta(t, full.Z/2, half.Z, 1e-12)
}

func TestLookingDownMovesHeadForwardAndDown(t *testing.T) {
	// Pitch the head down 90° about x: the face points at the floor and the
	// eyes swing forward of the neck pivot and below upright height.
	r := rotation.FromAxisAngle(rotation.Vec3{X: 1}, -math.Pi/2)
	p := Apply(r, 1.0)
	assert.Negative(t, p.Y)
	assert.InDelta(t, 0.0, p.X, 1e-9)
}
