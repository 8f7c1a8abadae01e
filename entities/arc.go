package entities

import (
	"github.com/zooyer/dxfwin/core"
)

// Arc 圆弧，角度为度数，逆时针从 StartAngle 到 EndAngle
type Arc struct {
	BaseEntity
	Center     core.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func init() {
	Register("ARC", func() Entity { return &Arc{BaseEntity: newBase("ARC")} })
}

func (a *Arc) Parse(s *core.Scanner) error {
	for {
		t := s.LastTag
		if !a.parseCommon(t) {
			switch t.Code {
			case 10:
				a.Center.X = t.AsFloat()
			case 20:
				a.Center.Y = t.AsFloat()
			case 40:
				a.Radius = t.AsFloat()
			case 50:
				a.StartAngle = t.AsFloat()
			case 51:
				a.EndAngle = t.AsFloat()
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

// BBox 简化处理：取整圆范围
func (a *Arc) BBox() core.BBox {
	return core.BBox{
		Min: core.Point{X: a.Center.X - a.Radius, Y: a.Center.Y - a.Radius},
		Max: core.Point{X: a.Center.X + a.Radius, Y: a.Center.Y + a.Radius},
	}
}
