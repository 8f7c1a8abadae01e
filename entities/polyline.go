package entities

import (
	"github.com/zooyer/dxfwin/core"
)

// Polyline 旧式多段线，顶点以 VERTEX 子实体跟随，直到 SEQEND
type Polyline struct {
	BaseEntity
	Vertices []core.Point
	Closed   bool
}

func init() {
	Register("POLYLINE", func() Entity { return &Polyline{BaseEntity: newBase("POLYLINE")} })
}

func (p *Polyline) Parse(s *core.Scanner) error {
	for {
		t := s.LastTag
		if !p.parseCommon(t) && t.Code == 70 {
			p.Closed = t.AsInt()&1 == 1
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}

	// 继续抓取 VERTEX 直到 SEQEND
	for {
		tag := s.LastTag
		if tag.IsMarker("SEQEND") {
			// 消耗掉 SEQEND 自身的组码
			skipEntity(s)
			break
		}
		if !tag.IsMarker("VERTEX") {
			break
		}

		var v core.Point
		for s.Next() && s.LastTag.Code != 0 {
			switch s.LastTag.Code {
			case 10:
				v.X = s.LastTag.AsFloat()
			case 20:
				v.Y = s.LastTag.AsFloat()
			}
		}
		p.Vertices = append(p.Vertices, v)

		if s.Err() != nil {
			break
		}
	}

	return nil
}

func (p *Polyline) BBox() core.BBox {
	return pointsBBox(p.Vertices...)
}
