// Package estimate 由洞口面积与周长估算玻璃面积和型材重量。
package estimate

import "math"

const (
	DefaultProfileFrameWidth   = 60  // mm
	DefaultUnitWeightPerLength = 1.2 // kg/m
	DefaultLengthUnit          = 1000
)

type Estimator struct {
	ProfileFrameWidth   float64 // 型材宽度
	UnitWeightPerLength float64 // 每 LengthUnit 长度的重量
	LengthUnit          float64 // 图纸单位换算到重量单位长度, mm→m 为 1000
}

func New(profileFrameWidth, unitWeightPerLength float64) Estimator {
	return Estimator{
		ProfileFrameWidth:   profileFrameWidth,
		UnitWeightPerLength: unitWeightPerLength,
		LengthUnit:          DefaultLengthUnit,
	}
}

// WithDefaults 零值取默认型材参数，LengthUnit 非正时取 DefaultLengthUnit
func (e Estimator) WithDefaults() Estimator {
	if e == (Estimator{}) {
		return New(DefaultProfileFrameWidth, DefaultUnitWeightPerLength)
	}
	if e.LengthUnit <= 0 {
		e.LengthUnit = DefaultLengthUnit
	}

	return e
}

// GlassArea 扣除型材后的玻璃面积，不小于 0
func (e Estimator) GlassArea(area, perimeter float64) float64 {
	return math.Max(0, area-perimeter*e.ProfileFrameWidth)
}

// FrameWeight 型材总重，LengthUnit 非正时为 0
func (e Estimator) FrameWeight(perimeter float64) float64 {
	if e.LengthUnit <= 0 {
		return 0
	}

	return perimeter / e.LengthUnit * e.UnitWeightPerLength
}
