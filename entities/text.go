package entities

import (
	"strings"

	"github.com/zooyer/dxfwin/core"
)

// Text 单行文字(TEXT)与多行文字(MTEXT)
type Text struct {
	BaseEntity
	Position core.Point
	Content  string
	Height   float64
}

func init() {
	Register("TEXT", func() Entity { return &Text{BaseEntity: newBase("TEXT")} })
	Register("MTEXT", func() Entity { return &Text{BaseEntity: newBase("MTEXT")} })
}

func (t *Text) Parse(s *core.Scanner) error {
	var chunks []string
	for {
		tag := s.LastTag
		if !t.parseCommon(tag) {
			switch tag.Code {
			case 10:
				t.Position.X = tag.AsFloat()
			case 20:
				t.Position.Y = tag.AsFloat()
			case 40:
				t.Height = tag.AsFloat()
			case 3:
				// MTEXT 超长文字分段
				chunks = append(chunks, tag.Value)
			case 1:
				t.Content = tag.Value
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}

	if len(chunks) > 0 {
		t.Content = strings.Join(chunks, "") + t.Content
	}

	return nil
}

func (t *Text) BBox() core.BBox {
	return core.BBox{Min: t.Position, Max: t.Position}
}
