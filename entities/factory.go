package entities

import (
	"github.com/zooyer/dxfwin/core"
)

const (
	ColorByBlock = 0   // 组码 62 = 0，随块
	ColorByLayer = 256 // 组码 62 = 256 或缺省，随层
)

// Entity 是一切几何实体的接口
type Entity interface {
	Parse(scanner *core.Scanner) error
	Type() string
	Layer() string
	BBox() core.BBox
}

// BaseEntity 存放所有实体通用的属性（如 Layer, Color, Handle）
type BaseEntity struct {
	TypeName  string
	LayerName string
	Handle    string
	Color     int    // ACI 颜色号
	LineType  string // 线型名称，空表示随层
}

func newBase(typeName string) BaseEntity {
	return BaseEntity{TypeName: typeName, Color: ColorByLayer}
}

func (b *BaseEntity) Type() string { return b.TypeName }

func (b *BaseEntity) Layer() string { return b.LayerName }

func (b *BaseEntity) Base() *BaseEntity { return b }

// parseCommon 处理所有实体共有的组码，已处理返回 true
func (b *BaseEntity) parseCommon(t core.Tag) bool {
	switch t.Code {
	case 5:
		b.Handle = t.AsString()
	case 6:
		b.LineType = t.AsString()
	case 8:
		b.LayerName = t.AsString()
	case 62:
		b.Color = t.AsInt()
	default:
		return false
	}

	return true
}

// EntityFactory 定义了如何从标签流中创建一个实体
type EntityFactory func() Entity

var registry = map[string]EntityFactory{}

// Register 允许以后动态扩展新的实体类型
func Register(typeName string, factory EntityFactory) {
	registry[typeName] = factory
}

// CreateEntity 根据实体名称生产对应的结构体
func CreateEntity(typeName string) Entity {
	if factory, ok := registry[typeName]; ok {
		return factory()
	}
	return nil
}

// pointsBBox 计算点集包围盒
func pointsBBox(points ...core.Point) core.BBox {
	var box = core.EmptyBBox()
	for _, p := range points {
		box = box.Extend(p)
	}

	return box
}

// skipEntity 跳过当前实体剩余的组码，停在下一个组码 0 上
func skipEntity(s *core.Scanner) {
	for s.Next() {
		if s.LastTag.Code == 0 {
			return
		}
	}
}
