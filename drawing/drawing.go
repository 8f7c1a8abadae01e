// Package drawing 描述解析后的图纸: 实体、块定义与图层表。
//
// 它是几何识别流水线的输入，不关心原始文件格式。
package drawing

import (
	"fmt"
	"math"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/errors"
)

// Kind 实体类型
type Kind string

const (
	KindLine     Kind = "line"
	KindPolyline Kind = "polyline"
	KindCircle   Kind = "circle"
	KindArc      Kind = "arc"
	KindText     Kind = "text"
	KindInsert   Kind = "insert"
)

const (
	ColorByBlock = 0
	ColorByLayer = 256
)

// Entity 一个未经变换的原始实体，几何字段按 Kind 使用
type Entity struct {
	Kind     Kind
	Handle   string
	Layer    string
	Color    int    // ACI，0 随块，256 随层
	LineType string // 空或 BYLAYER 随层，BYBLOCK 随块

	Start, End core.Point // line

	Vertices []core.Point // polyline
	Closed   bool

	Center     core.Point // circle / arc
	Radius     float64
	StartAngle float64 // arc，度
	EndAngle   float64

	Position core.Point // text 位置 / insert 插入点
	Text     string

	Block      string     // insert 引用的块名
	Scale      core.Point // insert 缩放
	Rotation   float64    // insert 旋转，度
	Attributes []Entity   // insert 附带的属性文字
}

// Block 块定义
type Block struct {
	Name     string
	Base     core.Point // 基点，块内坐标相对于它
	Entities []Entity
}

// Layer 图层定义
type Layer struct {
	Name     string
	Color    int
	LineType string
}

// Drawing 一张完整图纸
type Drawing struct {
	Entities []Entity
	Blocks   map[string]*Block
	Layers   map[string]*Layer
}

// ErrMalformed 图纸实体图缺失或损坏
var ErrMalformed = errors.NewStd("malformed drawing")

// Validate 检查实体图是否完整，失败时整个识别流程中止
func (d *Drawing) Validate() error {
	if d == nil {
		return parseFailure(fmt.Errorf("%w: drawing is nil", ErrMalformed), "")
	}

	for i := range d.Entities {
		if err := validateEntity(&d.Entities[i]); err != nil {
			return parseFailure(err, d.Entities[i].Handle)
		}
	}

	for name, block := range d.Blocks {
		if block == nil {
			return parseFailure(fmt.Errorf("%w: block %q is nil", ErrMalformed, name), "")
		}
		for i := range block.Entities {
			if err := validateEntity(&block.Entities[i]); err != nil {
				return parseFailure(err, block.Entities[i].Handle)
			}
		}
	}

	return nil
}

// Count 顶层实体数量(不展开块)
func (d *Drawing) Count() int {
	if d == nil {
		return 0
	}

	return len(d.Entities)
}

func validateEntity(e *Entity) error {
	switch e.Kind {
	case KindLine:
		return finite(e.Kind, e.Start, e.End)
	case KindPolyline:
		return finite(e.Kind, e.Vertices...)
	case KindCircle, KindArc:
		if math.IsNaN(e.Radius) || math.IsInf(e.Radius, 0) || e.Radius < 0 {
			return fmt.Errorf("%w: %s radius %v", ErrMalformed, e.Kind, e.Radius)
		}
		return finite(e.Kind, e.Center)
	case KindText:
		return finite(e.Kind, e.Position)
	case KindInsert:
		if e.Block == "" {
			return fmt.Errorf("%w: insert without block name", ErrMalformed)
		}
		return finite(e.Kind, e.Position, e.Scale)
	default:
		return fmt.Errorf("%w: unknown entity kind %q", ErrMalformed, e.Kind)
	}
}

func finite(kind Kind, points ...core.Point) error {
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: %s has non-finite coordinate", ErrMalformed, kind)
		}
	}

	return nil
}

func parseFailure(err error, handle string) error {
	builder := errors.New(err).
		Component("drawing").
		Category(errors.CategoryParse)
	if handle != "" {
		builder = builder.Context("handle", handle)
	}

	return builder.Build()
}
