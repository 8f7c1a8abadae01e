package entities

import (
	"github.com/zooyer/dxfwin/core"
)

type LWPolyline struct {
	BaseEntity
	Vertices []core.Point
	Closed   bool // 组码 70 第 1 位
}

func init() {
	Register("LWPOLYLINE", func() Entity { return &LWPolyline{BaseEntity: newBase("LWPOLYLINE")} })
}

func (l *LWPolyline) Parse(s *core.Scanner) error {
	var x float64
	for {
		t := s.LastTag
		if !l.parseCommon(t) {
			switch t.Code {
			case 70:
				l.Closed = t.AsInt()&1 == 1
			case 10:
				x = t.AsFloat()
			case 20:
				l.Vertices = append(l.Vertices, core.Point{X: x, Y: t.AsFloat()})
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

func (l *LWPolyline) BBox() core.BBox {
	return pointsBBox(l.Vertices...)
}
