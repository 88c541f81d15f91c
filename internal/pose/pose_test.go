package pose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromPartsIdentity(t *testing.T) {
	p := FromParts(42, [3]float32{1, 2, 3}, [4]float32{0, 0, 0, 1})

	assert.Equal(t, int64(42), p.TimestampNanos)
	assert.Equal(t, float32(1), p.PX)
	assert.Equal(t, float32(2), p.PY)
	assert.Equal(t, float32(3), p.PZ)
	assert.Equal(t, float32(1), p.QW)
	assert.InDelta(t, 0.0, p.Roll, 1e-9)
	assert.InDelta(t, 0.0, p.Pitch, 1e-9)
	assert.InDelta(t, 0.0, p.Yaw, 1e-9)
}

func TestFromPartsYaw(t *testing.T) {
	s := float32(math.Sin(math.Pi / 4))
	c := float32(math.Cos(math.Pi / 4))
	p := FromParts(0, [3]float32{}, [4]float32{0, 0, s, c})

	assert.InDelta(t, 90.0, p.Yaw, 1e-4)
	assert.InDelta(t, 0.0, p.Roll, 1e-4)
	assert.InDelta(t, 0.0, p.Pitch, 1e-4)
}

func TestFromPartsRoll(t *testing.T) {
	s := float32(math.Sin(math.Pi / 12))
	c := float32(math.Cos(math.Pi / 12))
	p := FromParts(0, [3]float32{}, [4]float32{s, 0, 0, c})

	assert.InDelta(t, 30.0, p.Roll, 1e-4)
	assert.InDelta(t, 0.0, p.Pitch, 1e-4)
	assert.InDelta(t, 0.0, p.Yaw, 1e-4)
}

func TestSixDoFAccessors(t *testing.T) {
	s := SixDoF{PX: 1, PY: 2, PZ: 3, QX: 0.1, QY: 0.2, QZ: 0.3, QW: 0.9}
	assert.Equal(t, [3]float32{1, 2, 3}, s.Position())
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 0.9}, s.Orientation())
}
