package entities

import (
	"github.com/zooyer/dxfwin/core"
)

type Circle struct {
	BaseEntity
	Center core.Point
	Radius float64
}

func init() {
	Register("CIRCLE", func() Entity { return &Circle{BaseEntity: newBase("CIRCLE")} })
}

func (c *Circle) Parse(s *core.Scanner) error {
	for {
		t := s.LastTag
		if !c.parseCommon(t) {
			switch t.Code {
			case 10:
				c.Center.X = t.AsFloat()
			case 20:
				c.Center.Y = t.AsFloat()
			case 40:
				c.Radius = t.AsFloat()
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

func (c *Circle) BBox() core.BBox {
	return core.BBox{
		Min: core.Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius},
		Max: core.Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius},
	}
}
