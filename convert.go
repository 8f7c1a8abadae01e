package dxfwin

import (
	"strings"

	"github.com/zooyer/dxfwin/drawing"
	"github.com/zooyer/dxfwin/entities"
)

// Drawing 转换为识别流水线的输入模型，不支持的实体类型被忽略
func (d *Document) Drawing() *drawing.Drawing {
	var out = &drawing.Drawing{
		Entities: convertEntities(d.Entities),
		Blocks:   make(map[string]*drawing.Block, len(d.Blocks)),
		Layers:   make(map[string]*drawing.Layer, len(d.Layers)),
	}

	for name, block := range d.Blocks {
		out.Blocks[name] = &drawing.Block{
			Name:     block.Name,
			Base:     block.Base,
			Entities: convertEntities(block.Entities),
		}
	}

	for name, layer := range d.Layers {
		out.Layers[name] = &drawing.Layer{
			Name:     layer.Name,
			Color:    layer.Color,
			LineType: layer.LineType,
		}
	}

	return out
}

// ReadFile 打开并转换一张图纸
func ReadFile(filename string) (*drawing.Drawing, error) {
	doc, err := Open(filename)
	if err != nil {
		return nil, err
	}

	return doc.Drawing(), nil
}

func convertEntities(list []entities.Entity) []drawing.Entity {
	var out = make([]drawing.Entity, 0, len(list))
	for _, e := range list {
		if de, ok := convertEntity(e); ok {
			out = append(out, de)
		}
	}

	return out
}

func base(b *entities.BaseEntity) drawing.Entity {
	return drawing.Entity{
		Handle:   b.Handle,
		Layer:    b.LayerName,
		Color:    b.Color,
		LineType: b.LineType,
	}
}

func convertEntity(e entities.Entity) (out drawing.Entity, ok bool) {
	switch v := e.(type) {
	case *entities.Line:
		out = base(&v.BaseEntity)
		out.Kind, out.Start, out.End = drawing.KindLine, v.Start, v.End
	case *entities.LWPolyline:
		out = base(&v.BaseEntity)
		out.Kind, out.Vertices, out.Closed = drawing.KindPolyline, v.Vertices, v.Closed
	case *entities.Polyline:
		out = base(&v.BaseEntity)
		out.Kind, out.Vertices, out.Closed = drawing.KindPolyline, v.Vertices, v.Closed
	case *entities.Circle:
		out = base(&v.BaseEntity)
		out.Kind, out.Center, out.Radius = drawing.KindCircle, v.Center, v.Radius
	case *entities.Arc:
		out = base(&v.BaseEntity)
		out.Kind, out.Center, out.Radius = drawing.KindArc, v.Center, v.Radius
		out.StartAngle, out.EndAngle = v.StartAngle, v.EndAngle
	case *entities.Text:
		out = base(&v.BaseEntity)
		out.Kind, out.Position, out.Text = drawing.KindText, v.Position, v.Content
	case *entities.Attrib:
		out = attribute(v)
	case *entities.Insert:
		out = base(&v.BaseEntity)
		out.Kind, out.Block, out.Position = drawing.KindInsert, strings.ToUpper(v.BlockName), v.InsertionPoint
		out.Scale, out.Rotation = v.Scale, v.Rotation
		for _, attr := range v.Attributes {
			out.Attributes = append(out.Attributes, attribute(attr))
		}
	default:
		return out, false
	}

	return out, true
}

func attribute(a *entities.Attrib) drawing.Entity {
	out := base(&a.BaseEntity)
	out.Kind, out.Position, out.Text = drawing.KindText, a.Location, a.Text

	return out
}
