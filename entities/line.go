package entities

import (
	"github.com/zooyer/dxfwin/core"
)

type Line struct {
	BaseEntity
	Start, End core.Point
}

func init() {
	Register("LINE", func() Entity { return &Line{BaseEntity: newBase("LINE")} })
}

func (l *Line) Parse(s *core.Scanner) error {
	for {
		t := s.LastTag
		if !l.parseCommon(t) {
			switch t.Code {
			case 10:
				l.Start.X = t.AsFloat()
			case 20:
				l.Start.Y = t.AsFloat()
			case 11:
				l.End.X = t.AsFloat()
			case 21:
				l.End.Y = t.AsFloat()
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

func (l *Line) BBox() core.BBox {
	return pointsBBox(l.Start, l.End)
}
