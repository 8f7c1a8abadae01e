package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimator(t *testing.T) {
	e := New(50, 2)

	// 1000x2000 的窗
	assert.InDelta(t, 2_000_000-6000*50, e.GlassArea(2_000_000, 6000), 1e-9)
	assert.InDelta(t, 12, e.FrameWeight(6000), 1e-9)
}

func TestGlassAreaNeverNegative(t *testing.T) {
	e := New(500, 1)

	assert.Zero(t, e.GlassArea(10_000, 400))
	assert.Equal(t, 10_000.0, New(0, 1).GlassArea(10_000, 400))
}

func TestFrameWeightLengthUnit(t *testing.T) {
	e := Estimator{UnitWeightPerLength: 3, LengthUnit: 0}
	assert.Zero(t, e.FrameWeight(6000))

	e.LengthUnit = 1
	assert.Equal(t, 18000.0, e.FrameWeight(6000))
}

func TestWithDefaults(t *testing.T) {
	e := Estimator{}.WithDefaults()
	assert.Equal(t, New(DefaultProfileFrameWidth, DefaultUnitWeightPerLength), e)
	assert.InDelta(t, 7.2, e.FrameWeight(6000), 1e-9)

	e = Estimator{ProfileFrameWidth: 50, UnitWeightPerLength: 2}.WithDefaults()
	assert.Equal(t, float64(DefaultLengthUnit), e.LengthUnit)
	assert.Equal(t, 50.0, e.ProfileFrameWidth)

	// 已设置的字段保持不变
	assert.Equal(t, New(50, 2), New(50, 2).WithDefaults())
}
